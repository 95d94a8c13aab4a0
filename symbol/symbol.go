// Package symbol provides the per-unit symbol table used to resolve
// identifiers while a Fortran program unit is translated to C++.
package symbol

import (
	"fmt"
	"strings"

	"github.com/soypat/f2cpp/line"
)

// Symbol represents a declared entity (scalar, array, constant, procedure).
type Symbol struct {
	name     string // Symbol name (case-insensitive in Fortran)
	kind     Kind
	base     BaseType
	dims     []string // Declared dimensions, as source text ("5", "lda", "*")
	constVal string   // Constant value for Parameter symbols
	fnParams []string // C parameter type list for Function/Subroutine symbols
	argPos   int      // Position in the unit argument list, -1 for locals
	decl     *line.Line
}

// New creates a symbol with the given name and kind.
func New(name string, kind Kind) *Symbol {
	return &Symbol{name: normalizeCase(name), kind: kind, argPos: -1}
}

// Name returns the symbol name in normalized case.
func (s *Symbol) Name() string { return s.name }

// Kind returns the symbol kind.
func (s *Symbol) Kind() Kind { return s.kind }

// Base returns the base type (BaseNone until a declaration is seen).
func (s *Symbol) Base() BaseType { return s.base }

// Dims returns the declared dimensions as source text, outermost first.
func (s *Symbol) Dims() []string { return s.dims }

// ConstVal returns the constant value text for Parameter symbols.
func (s *Symbol) ConstVal() string { return s.constVal }

// FnParams returns the synthesized C parameter type list for procedure
// symbols (nil until resolved from a call site).
func (s *Symbol) FnParams() []string { return s.fnParams }

// IsArg reports whether the symbol is a dummy argument of its unit.
func (s *Symbol) IsArg() bool { return s.argPos >= 0 }

// ArgPos returns the zero-based argument position, -1 for locals.
func (s *Symbol) ArgPos() int { return s.argPos }

// Decl returns the buffer line carrying the symbol's local declaration,
// nil for arguments and undeclared names.
func (s *Symbol) Decl() *line.Line { return s.decl }

// SetKind sets the symbol kind.
func (s *Symbol) SetKind(kind Kind) { s.kind = kind }

// SetBase sets the base type (used when the declaration is parsed).
func (s *Symbol) SetBase(base BaseType) { s.base = base }

// SetDims sets the declared dimensions.
func (s *Symbol) SetDims(dims []string) { s.dims = dims }

// SetConstVal records the constant value of a Parameter symbol.
func (s *Symbol) SetConstVal(v string) { s.constVal = v }

// SetFnParams records the C parameter types resolved from a call site.
func (s *Symbol) SetFnParams(params []string) { s.fnParams = params }

// SetArgPos marks the symbol as the i-th dummy argument.
func (s *Symbol) SetArgPos(i int) { s.argPos = i }

// SetDecl records the line carrying the symbol's local declaration.
func (s *Symbol) SetDecl(l *line.Line) { s.decl = l }

// LeadingDim returns the first declared dimension, used to linearize
// two-dimensional subscripts against column-major storage.
func (s *Symbol) LeadingDim() string {
	if len(s.dims) == 0 {
		return ""
	}
	return s.dims[0]
}

// Kind classifies what sort of entity a symbol represents.
type Kind int

const (
	Unknown    Kind = iota
	Scalar          // Plain variable
	Vector          // One-dimensional array
	Matrix          // Two-dimensional array
	Parameter       // Compile-time constant
	Function        // Invoked with a result value
	Subroutine      // Invoked via call, no result
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case Unknown:
		return "Unknown"
	case Scalar:
		return "Scalar"
	case Vector:
		return "Vector"
	case Matrix:
		return "Matrix"
	case Parameter:
		return "Parameter"
	case Function:
		return "Function"
	case Subroutine:
		return "Subroutine"
	default:
		return "Unknown"
	}
}

// BaseType is a Fortran 77 base type as it appears in declarations.
type BaseType int

const (
	BaseNone BaseType = iota // No declaration seen yet
	Logical
	Character
	Integer
	Ftnlen
	DoublePrecision
	DoubleComplex
)

// String returns the normalized Fortran keyword for the base type.
func (bt BaseType) String() string {
	switch bt {
	case Logical:
		return "logical"
	case Character:
		return "character"
	case Integer:
		return "integer"
	case Ftnlen:
		return "ftnlen"
	case DoublePrecision:
		return "doubleprecision"
	case DoubleComplex:
		return "doublecomplex"
	default:
		return "none"
	}
}

// CType returns the C++ rendering of the base type.
func (bt BaseType) CType() string {
	switch bt {
	case Logical:
		return "bool"
	case Character:
		return "char"
	case Integer:
		return "int"
	case Ftnlen:
		return "size_t"
	case DoublePrecision:
		return "double"
	case DoubleComplex:
		return "complex<double>"
	default:
		return "unknown_type"
	}
}

// BaseTypeFromKeyword maps a normalized declaration keyword to its base
// type. A character keyword may carry a *len suffix, which is ignored
// here and parsed by the caller.
func BaseTypeFromKeyword(kw string) (BaseType, bool) {
	if i := strings.IndexByte(kw, '*'); i >= 0 {
		kw = kw[:i]
	}
	switch kw {
	case "logical":
		return Logical, true
	case "character":
		return Character, true
	case "integer":
		return Integer, true
	case "ftnlen":
		return Ftnlen, true
	case "doubleprecision":
		return DoublePrecision, true
	case "doublecomplex":
		return DoubleComplex, true
	}
	return BaseNone, false
}

// Table is the flat symbol table of one program unit. Fortran 77 has no
// nested lexical scopes inside a unit, so a single map suffices; keys
// are case-normalized and insertion order is kept for deterministic
// iteration.
type Table struct {
	symbols map[string]*Symbol
	order   []string
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{symbols: make(map[string]*Symbol)}
}

// Lookup returns the symbol for name or nil.
func (t *Table) Lookup(name string) *Symbol {
	return t.symbols[normalizeCase(name)]
}

// Define adds a symbol to the table. It is an error to define the same
// name twice: kind and dimensions are fixed by the first declaration.
func (t *Table) Define(sym *Symbol) error {
	name := normalizeCase(sym.Name())
	if _, ok := t.symbols[name]; ok {
		return fmt.Errorf("symbol %s already defined", sym.Name())
	}
	t.symbols[name] = sym
	t.order = append(t.order, name)
	return nil
}

// Ensure returns the symbol for name, creating an Unknown entry when the
// name has not been seen before.
func (t *Table) Ensure(name string) *Symbol {
	if sym := t.Lookup(name); sym != nil {
		return sym
	}
	sym := New(name, Unknown)
	t.symbols[sym.name] = sym
	t.order = append(t.order, sym.name)
	return sym
}

// Len returns the number of symbols in the table.
func (t *Table) Len() int { return len(t.order) }

// Each calls fn for every symbol in insertion order.
func (t *Table) Each(fn func(*Symbol)) {
	for _, name := range t.order {
		fn(t.symbols[name])
	}
}

// normalizeCase converts a Fortran identifier to normalized form.
// Fortran is case-insensitive; translated output keeps the conventional
// lowercase spelling.
func normalizeCase(name string) string {
	return strings.ToLower(name)
}
