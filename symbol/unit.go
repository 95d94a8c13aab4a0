package symbol

import "github.com/soypat/f2cpp/line"

// StatementFunc is a captured statement function definition. The body is
// kept as raw source text and substituted into an inline C++ function
// when the first invocation is resolved.
type StatementFunc struct {
	Formals []string
	Body    string
	Src     int // source line of the definition
}

// Unit describes the single program unit of a source file: its header,
// dummy arguments and captured statement functions. It is created when
// the subroutine or function line is seen and finalized at the matching
// end.
type Unit struct {
	name      string
	args      []string
	anchor    *line.Line
	isFunc    bool
	result    BaseType
	active    bool
	stmtFuncs map[string]*StatementFunc
	stmtOrder []string
}

// NewUnit opens a program unit. anchor is the header line, which is
// rewritten in place once all argument types are known.
func NewUnit(name string, args []string, anchor *line.Line, isFunc bool, result BaseType) *Unit {
	return &Unit{
		name:      normalizeCase(name),
		args:      args,
		anchor:    anchor,
		isFunc:    isFunc,
		result:    result,
		active:    true,
		stmtFuncs: make(map[string]*StatementFunc),
	}
}

// Name returns the unit name in normalized case.
func (u *Unit) Name() string { return u.name }

// Args returns the dummy argument names in declaration order.
func (u *Unit) Args() []string { return u.args }

// Anchor returns the header line of the unit.
func (u *Unit) Anchor() *line.Line { return u.anchor }

// IsFunction reports whether the unit returns a value.
func (u *Unit) IsFunction() bool { return u.isFunc }

// Result returns the declared result type of a function unit.
func (u *Unit) Result() BaseType { return u.result }

// Active reports whether the unit body is still being scanned; it turns
// false once the end line finalizes the unit.
func (u *Unit) Active() bool { return u.active }

// Finalize marks the unit as fully scanned.
func (u *Unit) Finalize() { u.active = false }

// DefineStmtFunc records a statement function definition.
func (u *Unit) DefineStmtFunc(name string, sf *StatementFunc) {
	name = normalizeCase(name)
	if _, ok := u.stmtFuncs[name]; ok {
		return // first definition wins
	}
	u.stmtFuncs[name] = sf
	u.stmtOrder = append(u.stmtOrder, name)
}

// StmtFunc returns the statement function registered under name, or nil.
func (u *Unit) StmtFunc(name string) *StatementFunc {
	return u.stmtFuncs[normalizeCase(name)]
}

// EachStmtFunc calls fn for every statement function in definition order.
func (u *Unit) EachStmtFunc(fn func(name string, sf *StatementFunc)) {
	for _, name := range u.stmtOrder {
		fn(name, u.stmtFuncs[name])
	}
}

// Context bundles the symbol state of one translation run: the table and
// the unit being translated. A fresh Context is created per input file,
// so concurrent translations never share symbol state.
type Context struct {
	Table *Table
	Unit  *Unit // nil until a header line is seen
}

// NewContext creates an empty per-file context.
func NewContext() *Context {
	return &Context{Table: NewTable()}
}

// Open installs the unit and registers its dummy arguments as Unknown
// symbols so later declarations can type them.
func (c *Context) Open(u *Unit) {
	c.Unit = u
	for i, arg := range u.args {
		sym := c.Table.Ensure(arg)
		sym.SetArgPos(i)
	}
	if u.isFunc {
		// The result is assigned through the unit name inside the body.
		res := c.Table.Ensure(u.name)
		res.SetKind(Scalar)
		res.SetBase(u.result)
	}
}
