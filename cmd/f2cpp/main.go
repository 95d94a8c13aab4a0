// f2cpp translates fixed-form Fortran 77 source files into C-style C++.
//
// Usage:
//
//	f2cpp [flags] file.f [file2.f ...]
//	f2cpp symbols file.f [file2.f ...]
//	f2cpp version
//
// A single input file with no output directory writes the translation to
// stdout; otherwise every input lands in the output directory under its
// own base name plus the output suffix. Findings are embedded in the
// output as "// f2cpp:" comments, so the exit status is nonzero only
// when reading input or writing output fails.
//
// Environment:
//
//	F2CPP_OUT     default output directory (flag -o overrides)
//	F2CPP_SUFFIX  output file suffix (default ".cpp")
//	F2CPP_COLOR   highlight stdout output when it is a terminal
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
