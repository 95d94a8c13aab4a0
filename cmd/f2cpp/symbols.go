package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soypat/f2cpp"
	"github.com/soypat/f2cpp/symbol"
)

// symbols: run inference only and print what the translator learned
var symbolsCmd = &cobra.Command{
	Use:   "symbols file.f [file2.f ...]",
	Short: "Print the inferred symbol table without translating",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var tr f2cpp.Translator
		for i, filename := range args {
			if i > 0 {
				fmt.Println()
			}
			if err := dumpSymbols(&tr, filename, len(args) > 1); err != nil {
				return err
			}
		}
		return nil
	},
}

func dumpSymbols(tr *f2cpp.Translator, filename string, showFile bool) error {
	src, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := tr.Reset(filename, src); err != nil {
		return err
	}
	tr.Analyze()

	ctx := tr.Context()
	if showFile {
		fmt.Printf("%s:\n", filename)
	}
	if ctx.Unit == nil {
		fmt.Println("no program unit found")
		return nil
	}

	u := ctx.Unit
	header := "subroutine"
	if u.IsFunction() {
		header = u.Result().String() + " function"
	}
	fmt.Printf("%s: %s(%s)\n", u.Name(), header, strings.Join(u.Args(), ", "))

	ctx.Table.Each(func(sym *symbol.Symbol) {
		name := sym.Name()
		if dims := sym.Dims(); len(dims) > 0 {
			name += "(" + strings.Join(dims, ",") + ")"
		}
		detail := ""
		switch {
		case sym.ConstVal() != "":
			detail = " = " + sym.ConstVal()
		case sym.IsArg():
			detail = fmt.Sprintf(" arg %d", sym.ArgPos()+1)
		}
		fmt.Printf("  %-14s %-10s %-16s%s\n", name, sym.Kind(), sym.Base(), detail)
	})

	u.EachStmtFunc(func(name string, sf *symbol.StatementFunc) {
		fmt.Printf("  statement function %s(%s) = %s\n", name, strings.Join(sf.Formals, ", "), sf.Body)
	})
	return nil
}
