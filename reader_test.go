package f2cpp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/soypat/f2cpp/line"
)

func readLines(t *testing.T, src string) []*line.Line {
	t.Helper()
	buf, err := readFixedForm(strings.NewReader(src))
	require.NoError(t, err)
	return buf.Lines()
}

func TestReaderComments(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"c     Purpose", "// Purpose"},
		{"C     =======", "// ======="},
		{"*     starred comment", "// starred comment"},
		{"!  bang comment", "// bang comment"},
		{"    ! indented bang", "// indented bang"},
	}
	for _, tc := range cases {
		lines := readLines(t, tc.raw)
		require.Len(t, lines, 1, "raw %q", tc.raw)
		require.Equal(t, line.Comment, lines[0].Kind)
		require.Equal(t, tc.want, lines[0].Text)
	}
}

func TestReaderContinuationJoin(t *testing.T) {
	src := "      smax = abs(dble(zx(i)))\n" +
		"     $       + abs(dimag(zx(i)))\n"
	lines := readLines(t, src)
	require.Len(t, lines, 1)
	require.Equal(t, "smax = abs(dble(zx(i)))+ abs(dimag(zx(i)))", lines[0].Text)
	require.Equal(t, line.Assign, lines[0].Kind)
	require.Equal(t, 1, lines[0].Src)
}

func TestReaderCommentHoistedOutOfContinuation(t *testing.T) {
	src := "      x = a\n" +
		"c     interrupting comment\n" +
		"     + + b\n"
	lines := readLines(t, src)
	require.Len(t, lines, 2)
	require.Equal(t, line.Comment, lines[0].Kind)
	require.Equal(t, "// interrupting comment", lines[0].Text)
	require.Equal(t, "x = a+ b", lines[1].Text)
}

func TestReaderCaseFoldingProtectsStrings(t *testing.T) {
	lines := readLines(t, "      SRNAME = 'ZSCAL Failed'")
	require.Len(t, lines, 1)
	require.Equal(t, "srname = 'ZSCAL Failed'", lines[0].Text)
}

func TestReaderKeywordNormalization(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		kind line.Kind
	}{
		{"      DOUBLE PRECISION DX(*)", "doubleprecision dx(*)", line.Decl},
		{"      DOUBLE COMPLEX ZX(*)", "doublecomplex zx(*)", line.Decl},
		{"      COMPLEX*16 ZTEMP", "doublecomplex ztemp", line.Decl},
		{"      EXTERNAL DLAMCH", "extern dlamch", line.Other},
		{"      EXTERNALS = 2", "externals = 2", line.Assign},
	}
	for _, tc := range cases {
		lines := readLines(t, tc.raw)
		require.Len(t, lines, 1, "raw %q", tc.raw)
		require.Equal(t, tc.want, lines[0].Text)
		require.Equal(t, tc.kind, lines[0].Kind)
	}
}

func TestReaderLabelField(t *testing.T) {
	lines := readLines(t, "   10 continue")
	require.Len(t, lines, 1)
	l := lines[0]
	require.Equal(t, line.Label, l.Kind)
	require.Equal(t, "10", l.Label)
	require.Equal(t, "continue", l.Text)
}

func TestReaderInlineBangHoisted(t *testing.T) {
	lines := readLines(t, "      x = 1 ! set x")
	require.Len(t, lines, 2)
	require.Equal(t, "// set x", lines[0].Text)
	require.Equal(t, "x = 1", lines[1].Text)
}

func TestReaderTruncatesAtColumn72(t *testing.T) {
	stmt := "      x = 1"
	pad := strings.Repeat(" ", 72-len(stmt))
	lines := readLines(t, stmt+pad+"sequence-field junk")
	require.Len(t, lines, 1)
	require.Equal(t, "x = 1", lines[0].Text)
}

func TestReaderTabInLabelField(t *testing.T) {
	lines := readLines(t, "\tx = 1")
	require.Len(t, lines, 1)
	require.Equal(t, "x = 1", lines[0].Text)
	require.Equal(t, line.Assign, lines[0].Kind)
}

func TestReaderBlankAndIndent(t *testing.T) {
	src := "      if (n .le. 0) then\n" +
		"\n" +
		"         info = 1\n" +
		"      endif\n"
	lines := readLines(t, src)
	require.Len(t, lines, 4)
	require.Equal(t, line.Blank, lines[1].Kind)
	require.Equal(t, "         ", lines[2].Indent)
	require.Equal(t, "info = 1", lines[2].Text)
}
