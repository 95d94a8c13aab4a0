package f2cpp

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranslateWholeUnit(t *testing.T) {
	out, tr := translateSource(t, `*     scales a vector by a constant.
      subroutine dscal(n, da, dx)
      double precision da, dx(*)
      integer n, i
      if (n .le. 0) return
      do 10 i = 1, n
         dx(i) = da*dx(i)
   10 continue
      return
      end
`)
	want := `#include <cmath>
#include <complex>
#include <cstdlib>

using namespace std;

// scales a vector by a constant.
void dscal(int n, double da, double *dx) {
      int i;
      if (n <= 0) { return; }
      for (i = 1; i <= n; ++i) {
         dx[(i)-1] = da*dx[(i)-1];
   dscal_L10: ;
   }
      return;
}
// f2cpp: loop/index variables: i
`
	require.Equal(t, want, out)
	require.Equal(t, 0, tr.DiagnosticCount())
}

func TestTranslateBeforeReset(t *testing.T) {
	var tr Translator
	err := tr.Translate(os.Stderr)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Translate before Reset")
}

func TestTranslatePreamble(t *testing.T) {
	out, _ := translateSource(t, `      subroutine noop
      end
`)
	require.True(t, strings.HasPrefix(out, "#include <cmath>\n#include <complex>\n#include <cstdlib>\n\nusing namespace std;\n\n"))
}

func TestTranslateNonFatal(t *testing.T) {
	// A statement the rewriter cannot parse is reported inline and the
	// run still completes.
	out, tr := translateSource(t, `      subroutine b(v, k)
      double precision v(*)
      integer k
      v(k = 1
      end
`)
	require.Contains(t, out, "unmatched parenthesis after v")
	require.Contains(t, out, "void b(double *v, int k) {")
	require.GreaterOrEqual(t, tr.DiagnosticCount(), 1)
}

func TestTranslateStopStatement(t *testing.T) {
	out, _ := translateSource(t, `      subroutine halt(n)
      integer n
      if (n .lt. 0) stop
      stop 'bad input'
      end
`)
	require.Contains(t, out, "if (n < 0) { exit(0); }")
	require.Contains(t, out, "exit(1);")
}

func TestTranslatorReuse(t *testing.T) {
	var tr Translator
	require.NoError(t, tr.Reset("a.f", strings.NewReader(`      subroutine a(n)
      integer n
      call helper(n)
      go to 900
      end
`)))
	var first strings.Builder
	require.NoError(t, tr.Translate(&first))
	require.Contains(t, first.String(), "extern void helper(int);")
	require.GreaterOrEqual(t, tr.DiagnosticCount(), 1)

	require.NoError(t, tr.Reset("b.f", strings.NewReader(`      subroutine b
      end
`)))
	require.Equal(t, 0, tr.DiagnosticCount())
	var second strings.Builder
	require.NoError(t, tr.Translate(&second))
	require.NotContains(t, second.String(), "extern")
	require.NotContains(t, second.String(), "helper")
	require.Equal(t, "b", tr.Context().Unit.Name())
}

func ExampleTranslator() {
	src := `      subroutine axpy(n, a, x, y)
      integer n, i
      double precision a, x(*), y(*)
      do 10 i = 1, n
         y(i) = y(i) + a*x(i)
   10 continue
      end
`
	var tr Translator
	if err := tr.Reset("axpy.f", strings.NewReader(src)); err != nil {
		panic(err)
	}
	if err := tr.Translate(os.Stdout); err != nil {
		panic(err)
	}
	// Output:
	// #include <cmath>
	// #include <complex>
	// #include <cstdlib>
	//
	// using namespace std;
	//
	// void axpy(int n, double a, double *x, double *y) {
	//       int i;
	//       for (i = 1; i <= n; ++i) {
	//          y[(i)-1] = y[(i)-1] + a*x[(i)-1];
	//    axpy_L10: ;
	//    }
	// }
	// // f2cpp: loop/index variables: i
}
