package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"
	"golang.org/x/term"

	"github.com/soypat/f2cpp"
)

var (
	outDir    string
	outSuffix string
	colorize  bool
)

var rootCmd = &cobra.Command{
	Use:   "f2cpp [flags] file.f [file2.f ...]",
	Short: "Translate fixed-form Fortran 77 into C-style C++",
	Long: `f2cpp rewrites fixed-form Fortran 77 program units as C-style C++,
line by line and best effort. Whatever it cannot rewrite is passed
through or commented out with an inline "// f2cpp:" finding, so the
output always appears and always deserves a human pass.

A single input file with no output directory prints to stdout. With an
output directory, or with several inputs, each file is written as
<out>/<base><suffix>.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		return translateAll(args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", env.Str("F2CPP_OUT"), "output directory (default: stdout for one file)")
	rootCmd.PersistentFlags().StringVar(&outSuffix, "suffix", env.Str("F2CPP_SUFFIX", ".cpp"), "suffix for output file names")
	rootCmd.PersistentFlags().BoolVar(&colorize, "color", env.Bool("F2CPP_COLOR"), "highlight stdout output when it is a terminal")

	rootCmd.AddCommand(symbolsCmd, versionCmd)
}

func translateAll(files []string) error {
	if len(files) == 1 && outDir == "" {
		return translateStdout(files[0])
	}

	dir := outDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// Concurrent f2cpp runs pointed at the same directory serialize on a
	// lock file so partially written outputs are never read back.
	lock := flock.New(filepath.Join(dir, ".f2cpp.lock"))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire output lock: %w", err)
	}
	defer lock.Unlock()

	var tr f2cpp.Translator
	for _, filename := range files {
		if err := translateFile(&tr, filename, dir); err != nil {
			return err
		}
	}
	return nil
}

func translateFile(tr *f2cpp.Translator, filename, dir string) error {
	src, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := tr.Reset(filename, src); err != nil {
		return err
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	outPath := filepath.Join(dir, base+outSuffix)
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := tr.Translate(out); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Fprintf(os.Stderr, "f2cpp: %s -> %s (%d findings)\n", filename, outPath, tr.DiagnosticCount())
	return nil
}

func translateStdout(filename string) error {
	src, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer src.Close()

	var tr f2cpp.Translator
	if err := tr.Reset(filename, src); err != nil {
		return err
	}

	if colorize && term.IsTerminal(int(os.Stdout.Fd())) {
		var buf bytes.Buffer
		if err := tr.Translate(&buf); err != nil {
			return err
		}
		if err := quick.Highlight(os.Stdout, buf.String(), "c++", "terminal256", "monokai"); err != nil {
			_, err = os.Stdout.Write(buf.Bytes())
			return err
		}
		return nil
	}
	return tr.Translate(os.Stdout)
}
