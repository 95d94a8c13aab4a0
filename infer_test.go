package f2cpp

import (
	"strings"
	"testing"

	"github.com/soypat/f2cpp/symbol"
	"github.com/stretchr/testify/require"
)

func analyzeSource(t *testing.T, src string) *Translator {
	t.Helper()
	var tr Translator
	require.NoError(t, tr.Reset("test.f", strings.NewReader(src)))
	tr.Analyze()
	return &tr
}

func TestInferSubroutineSymbols(t *testing.T) {
	tr := analyzeSource(t, `      subroutine demo(n, x, lda)
      integer n, lda, i
      double precision x(lda, 4)
      end
`)
	u := tr.ctx.Unit
	require.NotNil(t, u)
	require.Equal(t, "demo", u.Name())
	require.False(t, u.IsFunction())
	require.Equal(t, []string{"n", "x", "lda"}, u.Args())

	n := tr.ctx.Table.Lookup("n")
	require.NotNil(t, n)
	require.Equal(t, symbol.Scalar, n.Kind())
	require.Equal(t, symbol.Integer, n.Base())
	require.True(t, n.IsArg())
	require.Equal(t, 0, n.ArgPos())

	i := tr.ctx.Table.Lookup("i")
	require.NotNil(t, i)
	require.False(t, i.IsArg())

	x := tr.ctx.Table.Lookup("x")
	require.NotNil(t, x)
	require.Equal(t, symbol.Matrix, x.Kind())
	require.Equal(t, []string{"lda", "4"}, x.Dims())
	require.Equal(t, "lda", x.LeadingDim())
	require.Equal(t, "double", x.Base().CType())
}

func TestInferHeaderRewrite(t *testing.T) {
	tr := analyzeSource(t, `      subroutine demo(n, x, lda)
      integer n, lda
      double precision x(lda, 4)
      end
`)
	require.Equal(t, "void demo(int n, double *x, int lda) {", tr.ctx.Unit.Anchor().Text)
}

func TestInferFunctionResult(t *testing.T) {
	tr := analyzeSource(t, `      double precision function norm(v, n)
      double precision v(n)
      integer n
      norm = 0.d0
      end
`)
	u := tr.ctx.Unit
	require.NotNil(t, u)
	require.True(t, u.IsFunction())
	require.Equal(t, symbol.DoublePrecision, u.Result())
	require.Equal(t, "double norm(double *v, int n) {", u.Anchor().Text)

	res := tr.ctx.Table.Lookup("norm")
	require.NotNil(t, res)
	require.Equal(t, symbol.Scalar, res.Kind())
	require.Equal(t, symbol.DoublePrecision, res.Base())

	// The result is assigned through the unit name, so a local appears
	// right after the header.
	found := false
	for _, l := range tr.buf.Lines() {
		if !l.Dropped() && l.Text == "double norm" {
			found = true
		}
	}
	require.True(t, found, "missing synthesized result declaration")
}

func TestInferParameterConstants(t *testing.T) {
	tr := analyzeSource(t, `      subroutine p
      double precision one, two
      parameter (one = 1.0d+0, two = 2.d0)
      end
`)
	one := tr.ctx.Table.Lookup("one")
	require.NotNil(t, one)
	require.Equal(t, symbol.Parameter, one.Kind())
	require.Equal(t, "1.0e+0", one.ConstVal())

	found := false
	for _, l := range tr.buf.Lines() {
		if !l.Dropped() && l.Text == "const double one = 1.0e+0, two = 2.e0" {
			found = true
		}
	}
	require.True(t, found, "missing rebuilt const declaration")
}

func TestInferCharacterDeclarations(t *testing.T) {
	tr := analyzeSource(t, `      subroutine c(s)
      character s*(*)
      character*6 label
      end
`)
	s := tr.ctx.Table.Lookup("s")
	require.NotNil(t, s)
	require.Equal(t, symbol.Character, s.Base())
	require.Equal(t, "void c(char *s) {", tr.ctx.Unit.Anchor().Text)

	found := false
	for _, l := range tr.buf.Lines() {
		if !l.Dropped() && l.Text == "char label[7]" {
			found = true
		}
	}
	require.True(t, found, "missing rebuilt character declaration")
}

func TestInferStatementFunctionCapture(t *testing.T) {
	tr := analyzeSource(t, `      subroutine sf(y)
      double precision y, f, x
      f(x) = x*x + 1
      y = f(x)
      end
`)
	sf := tr.ctx.Unit.StmtFunc("f")
	require.NotNil(t, sf)
	require.Equal(t, []string{"x"}, sf.Formals)
	require.Equal(t, "x*x + 1", sf.Body)

	f := tr.ctx.Table.Lookup("f")
	require.Equal(t, symbol.Function, f.Kind())

	// The defining line leaves the output; the use site stays.
	for _, l := range tr.buf.Lines() {
		if strings.HasPrefix(l.Text, "f(x) =") {
			require.True(t, l.Dropped())
		}
	}
}

func TestInferScreensDirectivesAndIO(t *testing.T) {
	tr := analyzeSource(t, `      subroutine s(n)
      implicit none
      integer n
      write (*,*) n
      end
`)
	var commented, noted bool
	for _, l := range tr.buf.Lines() {
		if strings.HasPrefix(l.Text, "// implicit none") {
			commented = true
		}
		if strings.HasPrefix(l.Text, "write (*,*) n") && strings.Contains(l.Text, "passed through") {
			noted = true
		}
	}
	require.True(t, commented, "implicit statement should become a comment")
	require.True(t, noted, "i/o statement should carry a pass-through note")
	require.GreaterOrEqual(t, tr.DiagnosticCount(), 2)
}

func TestInferRedeclarationKeepsFirst(t *testing.T) {
	tr := analyzeSource(t, `      subroutine r
      integer k
      double precision k
      end
`)
	k := tr.ctx.Table.Lookup("k")
	require.Equal(t, symbol.Integer, k.Base())
	require.GreaterOrEqual(t, tr.DiagnosticCount(), 1)
}

func TestInferSecondUnitBecomesComments(t *testing.T) {
	tr := analyzeSource(t, `      subroutine a
      end
      subroutine b
      end
`)
	require.True(t, tr.extraUnits)
	require.Equal(t, "a", tr.ctx.Unit.Name())

	var commented int
	for _, l := range tr.buf.Lines() {
		if strings.HasPrefix(l.Text, "// subroutine b") || l.Text == "// end" {
			commented++
		}
	}
	require.Equal(t, 2, commented)
}
