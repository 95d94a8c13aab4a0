package f2cpp

import (
	"strings"
	"testing"
)

func TestSplitTopLevel(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,(b,c),d", []string{"a", "(b,c)", "d"}},
		{"(a,(b,c))", []string{"(a,(b,c))"}},
		{"n, da, zx, 1", []string{"n", "da", "zx", "1"}},
		{"min(a, b), c", []string{"min(a, b)", "c"}},
		{"m[i, j], k", []string{"m[i, j]", "k"}},
		{"'a,b', c", []string{"'a,b'", "c"}},
		{"single", []string{"single"}},
		{"", nil},
		{"   ", nil},
	}
	for _, tc := range cases {
		got := SplitTopLevel(tc.in)
		if strings.Join(got, "|") != strings.Join(tc.want, "|") {
			t.Errorf("SplitTopLevel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMatchingParen(t *testing.T) {
	cases := []struct {
		in   string
		open int
		want int
	}{
		{"(a)", 0, 2},
		{"(a(b))", 0, 5},
		{"(a(b))", 2, 5},
		{"f(x) + g(y)", 1, 3},
		{"('(' )", 0, 5}, // parens in quoted text do not count
		{"(a", 0, NotFound},
		{"a)", 0, NotFound}, // not an opening paren
		{"(a)", 5, NotFound},
		{"", 0, NotFound},
	}
	for _, tc := range cases {
		if got := MatchingParen(tc.in, tc.open); got != tc.want {
			t.Errorf("MatchingParen(%q, %d) = %d, want %d", tc.in, tc.open, got, tc.want)
		}
	}
}

func TestMatchingParenReverse(t *testing.T) {
	cases := []struct {
		in    string
		close int
		want  int
	}{
		{"(a)", 2, 0},
		{"(a(b))", 5, 0},
		{"(a(b))", 4, 2},
		{"a)", 1, NotFound},
		{"(a)", 0, NotFound}, // not a closing paren
	}
	for _, tc := range cases {
		if got := MatchingParenReverse(tc.in, tc.close); got != tc.want {
			t.Errorf("MatchingParenReverse(%q, %d) = %d, want %d", tc.in, tc.close, got, tc.want)
		}
	}
}

func TestIdentAt(t *testing.T) {
	cases := []struct {
		in   string
		i    int
		name string
		end  int
	}{
		{"dscal(n)", 0, "dscal", 5},
		{"x1 = y", 0, "x1", 2},
		{"a+b2", 2, "b2", 4},
		{"ab", 1, "", 1}, // glued to a preceding identifier byte
		{"1x", 0, "", 0}, // identifiers cannot start with a digit
		{"", 0, "", 0},
	}
	for _, tc := range cases {
		name, end := identAt(tc.in, tc.i)
		if name != tc.name || end != tc.end {
			t.Errorf("identAt(%q, %d) = %q, %d; want %q, %d", tc.in, tc.i, name, end, tc.name, tc.end)
		}
	}
}

func TestMapCodeProtectsQuotes(t *testing.T) {
	got := mapCode("x = 'A.and.B' // y", strings.ToUpper)
	if got != "X = 'A.and.B' // Y" {
		t.Errorf("mapCode = %q", got)
	}
}
