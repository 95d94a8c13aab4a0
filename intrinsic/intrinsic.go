// Package intrinsic maps Fortran 77 intrinsic function names to their
// C++ equivalents from <cmath> and <complex>. Only the renaming is
// handled here; argument shapes are left untouched, and the mod operator
// rewrite lives with the other text substitutions.
package intrinsic

// Mapping describes one Fortran intrinsic and the C++ name that replaces
// it in translated output.
type Mapping struct {
	name  string // Fortran name, lowercase
	cname string // C++ replacement name
}

// Name returns the Fortran name of the intrinsic.
func (m *Mapping) Name() string { return m.name }

// CName returns the C++ replacement name.
func (m *Mapping) CName() string { return m.cname }

var mappings = loadMappings()

// loadMappings creates the database of recognized intrinsics. Specific
// double-precision spellings (dsqrt, dlog, ...) collapse onto the same
// C++ function as their generic forms.
func loadMappings() map[string]*Mapping {
	db := make(map[string]*Mapping)
	add := func(name, cname string) {
		db[name] = &Mapping{name: name, cname: cname}
	}

	// Absolute value. C's abs truncates doubles, so the generic Fortran
	// spelling maps to fabs; complex magnitude comes from <complex>.
	add("abs", "fabs")
	add("dabs", "fabs")
	add("iabs", "abs")
	add("cdabs", "abs")
	add("zabs", "abs")

	// Exponential, logarithmic, square root.
	add("sqrt", "sqrt")
	add("dsqrt", "sqrt")
	add("cdsqrt", "sqrt")
	add("exp", "exp")
	add("dexp", "exp")
	add("cdexp", "exp")
	add("log", "log")
	add("dlog", "log")
	add("alog", "log")
	add("log10", "log10")
	add("dlog10", "log10")

	// Trigonometric.
	add("sin", "sin")
	add("dsin", "sin")
	add("cos", "cos")
	add("dcos", "cos")
	add("tan", "tan")
	add("dtan", "tan")
	add("asin", "asin")
	add("dasin", "asin")
	add("acos", "acos")
	add("dacos", "acos")
	add("atan", "atan")
	add("datan", "atan")
	add("atan2", "atan2")
	add("datan2", "atan2")
	add("sinh", "sinh")
	add("dsinh", "sinh")
	add("cosh", "cosh")
	add("dcosh", "cosh")
	add("tanh", "tanh")
	add("dtanh", "tanh")

	// Sign transfer and remainder. sign(a,b) is |a| with b's sign, which
	// is exactly copysign; integer mod becomes the % operator elsewhere
	// and only the floating variant keeps a function form.
	add("sign", "copysign")
	add("dsign", "copysign")
	add("dmod", "fmod")
	add("amod", "fmod")

	// Extrema. C++ max/min from the std namespace cover the variadic
	// Fortran forms for two arguments, the common case.
	add("max", "max")
	add("max0", "max")
	add("amax1", "max")
	add("dmax1", "max")
	add("min", "min")
	add("min0", "min")
	add("amin1", "min")
	add("dmin1", "min")

	// Conversions. int(x) and double(x) are valid functional casts in
	// C++, so the conversion intrinsics become cast spellings.
	add("int", "int")
	add("idint", "int")
	add("ifix", "int")
	add("dble", "double")
	add("dfloat", "double")
	add("dreal", "real")
	add("nint", "lround")
	add("idnint", "lround")
	add("dcmplx", "complex<double>")

	// Complex parts.
	add("dconjg", "conj")
	add("conjg", "conj")
	add("dimag", "imag")
	add("aimag", "imag")

	return db
}

// Lookup returns the C++ name replacing the Fortran intrinsic name, and
// whether name is a recognized intrinsic.
func Lookup(name string) (cname string, ok bool) {
	m, ok := mappings[name]
	if !ok {
		return "", false
	}
	return m.cname, true
}

// Rewrite replaces every recognized intrinsic invocation name in code
// with its C++ spelling. Only identifiers immediately followed by an
// opening parenthesis are touched, and only when they are not part of a
// longer identifier, so variables that merely contain an intrinsic name
// survive.
func Rewrite(code string) string {
	var out []byte
	i := 0
	for i < len(code) {
		c := code[i]
		if !isIdentStart(c) || (i > 0 && isIdentByte(code[i-1])) {
			out = append(out, c)
			i++
			continue
		}
		j := i + 1
		for j < len(code) && isIdentByte(code[j]) {
			j++
		}
		name := code[i:j]
		if j < len(code) && code[j] == '(' {
			if cname, ok := Lookup(name); ok {
				out = append(out, cname...)
				i = j
				continue
			}
		}
		out = append(out, name...)
		i = j
	}
	return string(out)
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}
