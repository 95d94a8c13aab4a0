package f2cpp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestControlCountedLoop(t *testing.T) {
	out, _ := translateSource(t, `      subroutine loop(v, n)
      double precision v(*)
      integer n, i
      do 10 i = 1, n
      v(i) = 0.0d0
   10 continue
      end
`)
	require.Contains(t, out, "for (i = 1; i <= n; ++i) {")
	require.Contains(t, out, "v[(i)-1] = 0.0e0;")
	require.Contains(t, out, "   }\n")
	require.Contains(t, out, "// f2cpp: loop/index variables: i")
}

func TestControlDescendingLoop(t *testing.T) {
	out, _ := translateSource(t, `      subroutine down(v, n)
      double precision v(*)
      integer n, i
      do 20 i = n, 1, -1
      v(i) = 0.0d0
   20 continue
      end
`)
	require.Contains(t, out, "for (i = n; i >= 1; i -= 1) {")
}

func TestControlLiteralStep(t *testing.T) {
	out, _ := translateSource(t, `      subroutine two(v, n)
      double precision v(*)
      integer n, i
      do 20 i = 1, n, 2
      v(i) = 0.0d0
   20 continue
      end
`)
	require.Contains(t, out, "for (i = 1; i <= n; i += 2) {")
}

func TestControlVariableStep(t *testing.T) {
	out, _ := translateSource(t, `      subroutine vs(v, n, k)
      double precision v(*)
      integer n, k, i
      do 30 i = 1, n, k
      v(i) = 0.0d0
   30 continue
      end
`)
	require.Contains(t, out, "for (i = 1; (k) >= 0 ? i <= (n) : i >= (n); i += k) {")
}

func TestControlDoWhile(t *testing.T) {
	out, _ := translateSource(t, `      subroutine w(x)
      double precision x
      do while (x .lt. 1.0d0)
      x = x*2.0d0
      enddo
      end
`)
	require.Contains(t, out, "while (x < 1.0e0) {")
	require.Contains(t, out, "      }\n")
}

func TestControlSharedTerminator(t *testing.T) {
	out, _ := translateSource(t, `      subroutine nest2(m, n)
      double precision m(10, 10)
      integer n, i, j
      do 40 j = 1, n
      do 40 i = 1, n
      m(i, j) = 0.0d0
   40 continue
      end
`)
	require.Contains(t, out, "for (j = 1; j <= n; ++j) {")
	require.Contains(t, out, "for (i = 1; i <= n; ++i) {")
	require.Contains(t, out, "   }\n   }\n")
}

func TestControlGotoAndLabel(t *testing.T) {
	out, _ := translateSource(t, `      subroutine g(n)
      integer n
      if (n .gt. 0) go to 100
      n = 1
  100 continue
      end
`)
	require.Contains(t, out, "if (n > 0) { goto g_L100; }")
	require.Contains(t, out, "g_L100: ;")
}

func TestControlLabeledStatementClosesLoop(t *testing.T) {
	out, _ := translateSource(t, `      subroutine lb(v, n)
      double precision v(*)
      integer n, i
      do 30 i = 1, n
   30 v(i) = v(i) + 1
      end
`)
	require.Contains(t, out, "   v[(i)-1] = v[(i)-1] + 1;\n   }\n")
}

func TestControlIfChain(t *testing.T) {
	out, _ := translateSource(t, `      subroutine br(x)
      double precision x
      if (x .gt. 0.0d0) then
      x = 1.0d0
      else if (x .lt. 0.0d0) then
      x = 2.0d0
      else
      x = 3.0d0
      endif
      end
`)
	require.Contains(t, out, "if (x > 0.0e0) {")
	require.Contains(t, out, "} else if (x < 0.0e0) {")
	require.Contains(t, out, "} else {")
}

func TestControlReturnInFunction(t *testing.T) {
	out, _ := translateSource(t, `      double precision function pick(x)
      double precision x
      pick = x
      if (x .gt. 1.0d0) return
      pick = 0.0d0
      end
`)
	require.Contains(t, out, "if (x > 1.0e0) { return pick; }")
}

func TestControlLabelsKeptWithoutGotoReference(t *testing.T) {
	// Labels targeted only by untranslated constructs still need their
	// anchors in the output for the hand repair.
	out, _ := translateSource(t, `      subroutine pick(n)
      integer n
      go to (10, 20), n
   10 continue
   20 continue
      end
`)
	require.Contains(t, out, "// go to (10, 20), n")
	require.Contains(t, out, "pick_L10: ;")
	require.Contains(t, out, "pick_L20: ;")
}

func TestControlComputedGotoCommented(t *testing.T) {
	out, tr := translateSource(t, `      subroutine cg(n)
      integer n
      go to (10, 20, 30), n
      end
`)
	require.Contains(t, out, "// go to (10, 20, 30), n")
	require.Contains(t, out, "computed goto is not translated")
	require.GreaterOrEqual(t, tr.DiagnosticCount(), 1)
}

func TestControlArithmeticIfCommented(t *testing.T) {
	out, _ := translateSource(t, `      subroutine ai(x)
      double precision x
      if (x) 10, 20, 30
  10  continue
  20  continue
  30  continue
      end
`)
	require.Contains(t, out, "arithmetic if is not translated")
	require.Contains(t, out, "// if (x) 10, 20, 30")
}

func TestControlMissingLabelReported(t *testing.T) {
	out, tr := translateSource(t, `      subroutine m(n)
      integer n
      go to 500
      end
`)
	require.Contains(t, out, "goto m_L500;")
	require.Contains(t, out, "// f2cpp: goto labels never defined: 500")
	require.Equal(t, []string{"500"}, tr.diags.MissingLabels())
}
