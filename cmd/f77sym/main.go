// f77sym prints the symbol table inferred from fixed-form Fortran 77
// source files, as seen by the f2cpp translator before any rewriting.
//
// Usage:
//
//	f77sym [flags] file.f [file2.f ...]
//
// Output format:
//
//	UNIT(name) SCOPE(type:name(dims)): detail
//
// Example output:
//
//	SUB(dscal) ARG(integer:n): decl=dscal.f:2 pos=1
//	SUB(dscal) ARG(doubleprecision:dx(*)): decl=dscal.f:4 pos=3
//	SUB(dscal) LOCAL(integer:i): decl=dscal.f:5
//	SUB(dscal) PARAM(doubleprecision:one): val=1.0e+0
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/soypat/f2cpp"
	"github.com/soypat/f2cpp/symbol"
)

var (
	flagFilter = flag.String("filter", "", "filter symbols by name (case-insensitive substring)")
	flagKind   = flag.String("kind", "", "filter by kind (scalar, vector, matrix, parameter)")
	flagCType  = flag.Bool("ctype", false, "print C++ types instead of Fortran base types")
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: f77sym [flags] file.f [file2.f ...]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	for _, filename := range flag.Args() {
		if err := processFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "error processing %s: %v\n", filename, err)
			os.Exit(1)
		}
	}
}

func processFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	var tr f2cpp.Translator
	if err := tr.Reset(filename, file); err != nil {
		return err
	}
	tr.Analyze()

	ctx := tr.Context()
	if ctx.Unit == nil {
		fmt.Fprintf(os.Stderr, "%s: no program unit found\n", filename)
		return nil
	}
	printUnitSymbols(filename, ctx)
	return nil
}

func printUnitSymbols(filename string, ctx *symbol.Context) {
	unit := ctx.Unit
	unitKind := "SUB"
	if unit.IsFunction() {
		unitKind = "FUNC"
	}

	ctx.Table.Each(func(sym *symbol.Symbol) {
		name := sym.Name()

		if *flagFilter != "" && !strings.Contains(name, strings.ToLower(*flagFilter)) {
			return
		}
		if *flagKind != "" && !strings.EqualFold(sym.Kind().String(), *flagKind) {
			return
		}

		fmt.Printf("%s(%s) %s(%s)%s\n",
			unitKind, unit.Name(), scopeString(sym), formatType(sym), detailString(filename, sym))
	})

	unit.EachStmtFunc(func(name string, sf *symbol.StatementFunc) {
		if *flagFilter != "" && !strings.Contains(name, strings.ToLower(*flagFilter)) {
			return
		}
		fmt.Printf("%s(%s) STMTFUNC(%s(%s)): body=%s\n",
			unitKind, unit.Name(), name, strings.Join(sf.Formals, ","), sf.Body)
	})
}

func scopeString(sym *symbol.Symbol) string {
	switch {
	case sym.ConstVal() != "":
		return "PARAM"
	case sym.IsArg():
		return "ARG"
	default:
		return "LOCAL"
	}
}

func formatType(sym *symbol.Symbol) string {
	typeStr := sym.Base().String()
	if *flagCType {
		typeStr = sym.Base().CType()
	}
	name := sym.Name()
	if dims := sym.Dims(); len(dims) > 0 {
		return fmt.Sprintf("%s:%s(%s)", typeStr, name, strings.Join(dims, ","))
	}
	return fmt.Sprintf("%s:%s", typeStr, name)
}

func detailString(filename string, sym *symbol.Symbol) string {
	var parts []string
	if sym.ConstVal() != "" {
		parts = append(parts, "val="+sym.ConstVal())
	} else if l := sym.Decl(); l != nil {
		parts = append(parts, fmt.Sprintf("decl=%s:%d", filename, l.Src))
	}
	if sym.IsArg() {
		parts = append(parts, fmt.Sprintf("pos=%d", sym.ArgPos()+1))
	}
	if len(parts) == 0 {
		return ""
	}
	return ": " + strings.Join(parts, " ")
}
