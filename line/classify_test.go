package line

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		text string
		want Kind
	}{
		{"", Blank},
		{"   ", Blank},
		{"// any comment", Comment},
		{"subroutine zladiv(a, b, c, d)", Header},
		{"function nosy()", Header},
		{"doubleprecision function dnrm2(n, x, incx)", Header},
		{"integer function ilaenv(ispec)", Header},
		{"character*1 function chla(i)", Header},
		{"end", End},
		{"end subroutine", End},
		{"end function dnrm2", End},
		{"endif", Cond},
		{"end if", Cond},
		{"enddo", Cond},
		{"end do", Cond},
		{"doubleprecision a, b(10)", Decl},
		{"doublecomplex zx(*)", Decl},
		{"integer i, j", Decl},
		{"character*6 srname", Decl},
		{"logical lsame", Decl},
		{"ftnlen srname_len", Decl},
		{"parameter (one = 1.0e+0, zero = 0.0e+0)", Param},
		{"do 10 i = 1, n", Loop},
		{"do i = 1, n, 2", Loop},
		{"do while (k .lt. n)", Loop},
		{"if (x .gt. 0) then", Cond},
		{"if (n .le. 0) return", Cond},
		{"elseif (x .lt. 0) then", Cond},
		{"else if (x .lt. 0) then", Cond},
		{"else", Cond},
		{"call dscal(n, za, zx, incx)", Call},
		{"goto 20", Goto},
		{"go to 20", Goto},
		{"go to (10, 20, 30), next", Goto},
		{"x = y + 1", Assign},
		{"d__1 = z__1.r", Assign},
		{"v(i) = v(i) + 1", Assign},
		{"smax = abs(zx(ix))", Assign},
		{"continue", Other},
		{"return", Other},
		{"write (*, *) x", Other},
		{"implicit none", Other},
		{"external dlamch", Other},
		// Identifiers that merely start with a keyword are not keywords.
		{"dot = ddot(n, x, 1, y, 1)", Assign},
		{"iff = 2", Assign},
		{"ended = .true.", Assign},
		{"callback = 1", Assign},
	}
	for _, tc := range cases {
		if got := Classify(tc.text); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestClassifyComparisonNotAssign(t *testing.T) {
	// Post-substitution text can be reclassified; comparison operators
	// must not look like assignments.
	for _, s := range []string{"x == y", "a <= b", "a >= b", "a != b"} {
		if got := Classify(s); got != Other {
			t.Errorf("Classify(%q) = %v, want Other", s, got)
		}
	}
	if got := Classify("x = y == z"); got != Assign {
		t.Errorf("Classify(%q) = %v, want Assign", "x = y == z", got)
	}
}

func TestKindString(t *testing.T) {
	if Blank.String() != "Blank" || Assign.String() != "Assign" {
		t.Error("kind names out of sync")
	}
	if got := Kind(99).String(); got != "Kind(99)" {
		t.Errorf("Kind(99).String() = %q", got)
	}
}
