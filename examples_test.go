package f2cpp_test

import (
	"fmt"
	"strings"

	"github.com/soypat/f2cpp"
	"github.com/soypat/f2cpp/symbol"
)

// Example_inspectSymbols runs inference only and prints what the
// translator learned about a unit, without rewriting anything.
func Example_inspectSymbols() {
	src := `      subroutine scale(n, v)
      integer n, i
      double precision v(n)
      do 10 i = 1, n
         v(i) = v(i)/2.0d0
   10 continue
      end
`
	var tr f2cpp.Translator
	if err := tr.Reset("scale.f", strings.NewReader(src)); err != nil {
		panic(err)
	}
	tr.Analyze()

	unit := tr.Context().Unit
	fmt.Printf("unit %s(%s)\n", unit.Name(), strings.Join(unit.Args(), ", "))
	tr.Context().Table.Each(func(s *symbol.Symbol) {
		fmt.Printf("%s: %s %s arg=%v\n", s.Name(), s.Kind(), s.Base(), s.IsArg())
	})
	// Output:
	// unit scale(n, v)
	// n: Scalar integer arg=true
	// v: Vector doubleprecision arg=true
	// i: Scalar integer arg=false
}

// Example_untranslatable shows how statements outside the translator's
// reach surface: the run still completes, the statement is kept as a
// comment and the finding is counted.
func Example_untranslatable() {
	src := `      subroutine pick(n)
      integer n
      go to (10, 20), n
   10 continue
   20 continue
      end
`
	var tr f2cpp.Translator
	if err := tr.Reset("pick.f", strings.NewReader(src)); err != nil {
		panic(err)
	}
	var out strings.Builder
	if err := tr.Translate(&out); err != nil {
		panic(err)
	}
	fmt.Println("findings:", tr.DiagnosticCount())
	fmt.Println("commented:", strings.Contains(out.String(), "// go to (10, 20), n"))
	// Output:
	// findings: 1
	// commented: true
}

// ExampleIsCommentLine distinguishes comment lines from code under
// fixed-form column rules.
func ExampleIsCommentLine() {
	fmt.Println(f2cpp.IsCommentLine("c     legacy comment"))
	fmt.Println(f2cpp.IsCommentLine("      x = 1"))
	// Output:
	// true
	// false
}
