package intrinsic

import "testing"

func TestLookup(t *testing.T) {
	cases := []struct {
		name  string
		cname string
		ok    bool
	}{
		{"abs", "fabs", true},
		{"dabs", "fabs", true},
		{"cdabs", "abs", true},
		{"dsqrt", "sqrt", true},
		{"dconjg", "conj", true},
		{"dimag", "imag", true},
		{"dble", "double", true},
		{"dcmplx", "complex<double>", true},
		{"dsign", "copysign", true},
		{"dmax1", "max", true},
		{"nint", "lround", true},
		{"mod", "", false}, // handled as the % operator, not a rename
		{"dlamch", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		cname, ok := Lookup(tc.name)
		if ok != tc.ok || cname != tc.cname {
			t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tc.name, cname, ok, tc.cname, tc.ok)
		}
	}
}

func TestRewrite(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"abs(x)", "fabs(x)"},
		{"dabs(z) + dsqrt(w)", "fabs(z) + sqrt(w)"},
		{"smax = cdabs(zx(1))", "smax = abs(zx(1))"},
		{"dconjg(dcmplx(a, b))", "conj(complex<double>(a, b))"},
		// Names not followed by ( stay untouched.
		{"abs = 3", "abs = 3"},
		// Longer identifiers containing an intrinsic name stay untouched.
		{"myabs(x)", "myabs(x)"},
		{"absolute(x)", "absolute(x)"},
		// Unknown invocations stay untouched.
		{"dlamch('e')", "dlamch('e')"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Rewrite(tc.in); got != tc.want {
			t.Errorf("Rewrite(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
