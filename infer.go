package f2cpp

import (
	"strconv"
	"strings"

	"github.com/soypat/f2cpp/line"
	"github.com/soypat/f2cpp/symbol"
)

// declRecord remembers one declaration statement so the block can be
// rebuilt with C types once the whole unit has been scanned. Rebuilding
// is deferred because parameter statements and statement functions that
// follow a declaration change how its entries render.
type declRecord struct {
	base    symbol.BaseType
	entries []declEntry
}

type declEntry struct {
	name string
	dims []string
	clen string // character length text, empty for other types
}

// inferTypes walks the buffer once: it opens the program unit at the
// header, records declaration entries, folds parameter statements into
// constants, captures statement functions and screens statements that
// only pass through. The end line triggers the declaration rebuild and
// the header rewrite.
func (t *Translator) inferTypes() {
	for _, l := range t.buf.Lines() {
		if l.Dropped() || l.Kind == line.Blank || l.Kind == line.Comment {
			continue
		}
		if t.ctx.Unit != nil && !t.ctx.Unit.Active() {
			// A second unit in the file is out of scope; everything
			// after the first end is kept as comment text.
			if l.Kind == line.Header && !t.extraUnits {
				t.extraUnits = true
				t.diags.Reportf(l, "multiple program units in one file; only the first is translated")
			}
			commentOut(l)
			continue
		}
		switch l.Kind {
		case line.Header:
			t.openUnit(l)
		case line.Decl:
			t.recordDecl(l)
		case line.Param:
			t.recordParams(l)
		case line.Assign:
			t.maybeStatementFunc(l)
		case line.End:
			t.finalizeUnit(l)
		case line.Label:
			// Labels never sit on declarations, but an end line can
			// carry one, and labeled I/O statements still deserve the
			// pass-through note.
			switch line.Classify(l.Text) {
			case line.End:
				t.finalizeUnit(l)
			case line.Other:
				t.screenOther(l)
			}
		case line.Other:
			t.screenOther(l)
		}
	}
	if t.ctx.Unit == nil && t.buf.Len() > 0 {
		t.diags.Reportf(t.buf.At(0), "no subroutine or function header found")
	}
}

// openUnit parses a subroutine or function header and installs the unit.
func (t *Translator) openUnit(l *line.Line) {
	s := l.Text
	isFunc := false
	result := symbol.BaseNone
	if rest, ok := strings.CutPrefix(s, "subroutine"); ok {
		s = rest
	} else {
		w, end := identAt(s, 0)
		if base, ok := symbol.BaseTypeFromKeyword(w); ok {
			result = base
			s = s[end:]
			s = strings.TrimSpace(trimLenSpec(s))
		}
		rest, ok := strings.CutPrefix(strings.TrimSpace(s), "function")
		if !ok {
			t.diags.Reportf(l, "unrecognized unit header")
			return
		}
		isFunc = true
		s = rest
	}
	s = strings.TrimSpace(s)
	name, end := identAt(s, 0)
	if name == "" {
		t.diags.Reportf(l, "unit header has no name")
		return
	}
	var args []string
	rest := strings.TrimSpace(s[end:])
	if strings.HasPrefix(rest, "(") {
		close := MatchingParen(rest, 0)
		if close == NotFound {
			t.diags.Reportf(l, "unmatched parenthesis in unit header")
			return
		}
		for _, a := range SplitTopLevel(rest[1:close]) {
			if n, e := identAt(a, 0); n == a && e == len(a) {
				args = append(args, a)
			} else {
				t.diags.Reportf(l, "argument %q is not a plain name", a)
			}
		}
	}
	t.ctx.Open(symbol.NewUnit(name, args, l, isFunc, result))
}

// trimLenSpec drops a leading *6 or *(...) length tail.
func trimLenSpec(s string) string {
	if !strings.HasPrefix(s, "*") {
		return s
	}
	s = s[1:]
	if strings.HasPrefix(s, "(") {
		if close := MatchingParen(s, 0); close != NotFound {
			return s[close+1:]
		}
		return ""
	}
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[i:]
}

// recordDecl parses one declaration statement into entries and defines
// or upgrades the named symbols. The line text itself is rewritten later
// by rebuildDeclarations.
func (t *Translator) recordDecl(l *line.Line) {
	w, end := identAt(l.Text, 0)
	base, _ := symbol.BaseTypeFromKeyword(w)
	rest := l.Text[end:]
	defaultLen := ""
	if s := strings.TrimSpace(rest); strings.HasPrefix(s, "*") {
		defaultLen, rest = lenSpec(s)
	}
	rec := &declRecord{base: base}
	for _, e := range SplitTopLevel(rest) {
		name, end := identAt(e, 0)
		if name == "" {
			t.diags.Reportf(l, "unrecognized declaration entity %q", e)
			continue
		}
		var dims []string
		clen := ""
		if base == symbol.Character {
			clen = defaultLen
		}
		i := skipSpace(e, end)
		if i < len(e) && e[i] == '(' {
			close := MatchingParen(e, i)
			if close == NotFound {
				t.diags.Reportf(l, "unmatched parenthesis after %s", name)
				continue
			}
			dims = SplitTopLevel(e[i+1 : close])
			i = skipSpace(e, close+1)
		}
		if i < len(e) && e[i] == '*' {
			clen, _ = lenSpec(e[i:])
		}
		if t.defineEntry(l, rec, name, base, dims, clen) {
			rec.entries = append(rec.entries, declEntry{name: name, dims: dims, clen: clen})
		}
	}
	if len(rec.entries) > 0 {
		t.decls[l] = rec
	} else {
		l.Text = "// " + l.Text
		l.Kind = line.Comment
	}
}

// lenSpec parses a *len suffix: *6, *(*) or *(expr). It returns the
// length text ("6", "*", "expr") and the remainder after the suffix.
func lenSpec(s string) (clen, rest string) {
	s = s[1:] // leading '*'
	if strings.HasPrefix(s, "(") {
		close := MatchingParen(s, 0)
		if close == NotFound {
			return strings.TrimSpace(s[1:]), ""
		}
		return strings.TrimSpace(s[1:close]), s[close+1:]
	}
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// defineEntry installs or upgrades the symbol for one declaration
// entity. It reports and skips redeclarations: kind and dimensions are
// fixed by the first declaration seen.
func (t *Translator) defineEntry(l *line.Line, rec *declRecord, name string, base symbol.BaseType, dims []string, clen string) bool {
	kind := symbol.Scalar
	switch {
	case len(dims) == 1:
		kind = symbol.Vector
	case len(dims) == 2:
		kind = symbol.Matrix
	case len(dims) > 2:
		t.diags.Reportf(l, "%s has %d dimensions, only the first two are used", name, len(dims))
		dims = dims[:2]
		kind = symbol.Matrix
	case clen != "":
		kind = symbol.Vector // a character string is a char array
	}
	sym := t.ctx.Table.Lookup(name)
	if sym == nil {
		sym = symbol.New(name, kind)
		sym.SetBase(base)
		sym.SetDims(dims)
		if err := t.ctx.Table.Define(sym); err != nil {
			t.diags.Reportf(l, "redeclaration of %s ignored", name)
			return false
		}
		return true
	}
	if sym.Base() != symbol.BaseNone {
		t.diags.Reportf(l, "redeclaration of %s ignored", name)
		return false
	}
	// Dummy arguments and parameter names arrive untyped; the first
	// declaration types them.
	sym.SetBase(base)
	if sym.Kind() == symbol.Parameter {
		if len(dims) > 0 {
			t.diags.Reportf(l, "dimensions on parameter %s ignored", name)
		}
		return true
	}
	sym.SetKind(kind)
	sym.SetDims(dims)
	return true
}

// recordParams folds a parameter statement into constant values on the
// named symbols and re-emits the statement as a comment.
func (t *Translator) recordParams(l *line.Line) {
	open := strings.IndexByte(l.Text, '(')
	close := MatchingParen(l.Text, open)
	if open < 0 || close == NotFound {
		t.diags.Reportf(l, "unmatched parenthesis in parameter statement")
		l.Text = "// " + l.Text
		l.Kind = line.Comment
		return
	}
	var names []string
	for _, item := range SplitTopLevel(l.Text[open+1 : close]) {
		eq := strings.IndexByte(item, '=')
		if eq < 0 {
			t.diags.Reportf(l, "parameter entry %q has no value", item)
			continue
		}
		name := strings.TrimSpace(item[:eq])
		value := strings.TrimSpace(item[eq+1:])
		if n, e := identAt(name, 0); n != name || e != len(name) {
			t.diags.Reportf(l, "parameter name %q is not a plain name", name)
			continue
		}
		sym := t.ctx.Table.Ensure(name)
		switch sym.Kind() {
		case symbol.Unknown, symbol.Scalar:
			sym.SetKind(symbol.Parameter)
		case symbol.Parameter:
			t.diags.Reportf(l, "duplicate parameter %s keeps its first value", name)
			continue
		default:
			t.diags.Reportf(l, "parameter value for %s %s ignored", strings.ToLower(sym.Kind().String()), name)
			continue
		}
		// Constant values render directly into const declarations, so
		// they take the literal substitutions now.
		sym.SetConstVal(substStatement(value))
		names = append(names, name)
	}
	l.Text = "// " + l.Text
	l.Kind = line.Comment
	if len(names) > 0 {
		t.params[l] = names
	}
}

// maybeStatementFunc captures name(args) = body definitions. The name
// must be a declared non-character scalar and every formal a plain
// identifier; anything else is an ordinary assignment (or a substring
// store, which keeps its text).
func (t *Translator) maybeStatementFunc(l *line.Line) {
	if t.ctx.Unit == nil {
		return
	}
	s := l.Text
	name, end := identAt(s, 0)
	if name == "" {
		return
	}
	i := skipSpace(s, end)
	if i >= len(s) || s[i] != '(' {
		return
	}
	close := MatchingParen(s, i)
	if close == NotFound {
		return
	}
	j := skipSpace(s, close+1)
	if j >= len(s) || s[j] != '=' || (j+1 < len(s) && s[j+1] == '=') {
		return
	}
	sym := t.ctx.Table.Lookup(name)
	if sym == nil || sym.Kind() != symbol.Scalar || sym.Base() == symbol.Character || sym.IsArg() {
		return
	}
	var formals []string
	for _, f := range SplitTopLevel(s[i+1 : close]) {
		if n, e := identAt(f, 0); n != f || e != len(f) {
			return // not a formal list, leave the line alone
		}
		formals = append(formals, f)
	}
	if len(formals) == 0 {
		return
	}
	body := strings.TrimSpace(s[j+1:])
	t.ctx.Unit.DefineStmtFunc(name, &symbol.StatementFunc{Formals: formals, Body: body, Src: l.Src})
	sym.SetKind(symbol.Function)
	l.Drop()
}

// ioKeywords open statements that the translator passes through for
// hand porting rather than attempting to rewrite.
var ioKeywords = map[string]bool{
	"write": true, "read": true, "print": true, "format": true,
	"open": true, "close": true, "rewind": true, "backspace": true,
	"endfile": true, "inquire": true,
}

// droppedKeywords open declarations with no line-oriented C equivalent;
// the statement is preserved as a comment.
var droppedKeywords = map[string]bool{
	"implicit": true, "intrinsic": true, "save": true,
	"data": true, "common": true, "equivalence": true,
}

// screenOther flags statements the translator will not rewrite: I/O
// passes through with a note, storage and typing directives become
// comments, and extern lines register so the call resolver can retire
// names it replaces with full declarations.
func (t *Translator) screenOther(l *line.Line) {
	w, end := identAt(l.Text, 0)
	switch {
	case droppedKeywords[w]:
		l.Text = "// " + l.Text
		if l.Kind != line.Label {
			l.Kind = line.Comment
		}
		t.diags.Reportf(l, "%s statement has no translation", w)
	case ioKeywords[w]:
		// The statement keeps its Fortran spelling: format descriptors
		// and i/o control lists would only be mangled by the rewrite
		// stages.
		t.passthrough[l] = true
		t.diags.Reportf(l, "i/o statement passed through")
	case w == "extern":
		for _, name := range SplitTopLevel(l.Text[end:]) {
			if n, e := identAt(name, 0); n == name && e == len(name) {
				t.ctx.Table.Ensure(name)
				t.externs[name] = l
			}
		}
	}
}

// finalizeUnit closes the unit at its end line: the declaration block is
// rebuilt with C types, the header becomes a C function signature and
// the end line a closing brace.
func (t *Translator) finalizeUnit(l *line.Line) {
	u := t.ctx.Unit
	if u == nil {
		t.diags.Reportf(l, "end before any unit header")
		return
	}
	if !u.Active() {
		t.diags.Reportf(l, "stray end line")
		return
	}
	u.Finalize()
	l.Text = "}"
	l.Indent = ""
	if u.IsFunction() && u.Result() == symbol.BaseNone {
		t.diags.Reportf(u.Anchor(), "function %s has no declared result type", u.Name())
	}
	for _, arg := range u.Args() {
		if sym := t.ctx.Table.Lookup(arg); sym != nil && sym.Base() == symbol.BaseNone && sym.Kind() == symbol.Unknown {
			t.diags.Reportf(u.Anchor(), "argument %s has no declared type", arg)
		}
	}
	t.rebuildDeclarations(u)
	t.rewriteHeader(u)
}

// rebuildDeclarations replaces every recorded declaration statement with
// its C rendering and splices in the synthesized extras: the function
// result variable and constants that never got a type.
func (t *Translator) rebuildDeclarations(u *symbol.Unit) {
	resultDeclared := false
	for _, rec := range t.decls {
		for _, e := range rec.entries {
			if e.name == u.Name() {
				resultDeclared = true
			}
		}
	}
	var bd line.Builder
	for _, l := range t.buf.Lines() {
		rec := t.decls[l]
		if rec == nil {
			bd.Keep(l)
			if l == u.Anchor() && u.IsFunction() && !resultDeclared {
				// The result is assigned through the unit name, so the
				// body needs a local for it.
				res := bd.Add(line.Decl, u.Result().CType()+" "+u.Name(), l.Src)
				res.Indent = bodyIndent
			}
			if names := t.params[l]; names != nil {
				t.addUntypedConsts(&bd, l, names)
			}
			continue
		}
		groups := t.declGroups(l, rec)
		if len(groups) == 0 {
			l.Drop()
			bd.Keep(l)
			continue
		}
		l.Text = groups[0].text
		l.Kind = line.Decl
		t.bindDecl(l, groups[0].names)
		bd.Keep(l)
		for _, g := range groups[1:] {
			nl := bd.Add(line.Decl, g.text, l.Src)
			nl.Indent = l.Indent
			t.bindDecl(nl, g.names)
		}
	}
	t.buf = bd.Buffer()
}

// bodyIndent matches the column-seven left margin of fixed-form
// statements, so synthesized lines align with translated ones.
const bodyIndent = "      "

// addUntypedConsts synthesizes const lines for parameter names that no
// declaration typed, right after the commented parameter statement.
func (t *Translator) addUntypedConsts(bd *line.Builder, l *line.Line, names []string) {
	for _, name := range names {
		sym := t.ctx.Table.Lookup(name)
		if sym == nil || sym.Kind() != symbol.Parameter || sym.Base() != symbol.BaseNone {
			continue
		}
		nl := bd.Add(line.Decl, "const unknown_type "+name+" = "+sym.ConstVal(), l.Src)
		nl.Indent = bodyIndent
		t.diags.Reportf(nl, "parameter %s has no declared type", name)
	}
}

type declGroup struct {
	text  string
	names []string
}

// declGroups renders the entries of one declaration statement. Constants
// become one const group, character strings get a line each (their array
// sizes differ), and everything else shares a plain group. Arguments and
// procedure names produce nothing: arguments are declared in the header,
// and statement functions materialize at first use.
func (t *Translator) declGroups(l *line.Line, rec *declRecord) []declGroup {
	ctype := rec.base.CType()
	var consts, plain declGroup
	var groups []declGroup
	for _, e := range rec.entries {
		sym := t.ctx.Table.Lookup(e.name)
		if sym == nil || sym.IsArg() || sym.Kind() == symbol.Function || sym.Kind() == symbol.Subroutine {
			continue
		}
		if sym.Kind() == symbol.Parameter {
			if consts.text == "" {
				consts.text = "const " + ctype + " "
			} else {
				consts.text += ", "
			}
			consts.text += e.name + " = " + sym.ConstVal()
			consts.names = append(consts.names, e.name)
			continue
		}
		if e.clen != "" {
			g, ok := t.charGroup(l, e)
			if ok {
				groups = append(groups, g)
			}
			continue
		}
		decl, ok := t.plainDeclarator(l, sym, e)
		if !ok {
			continue
		}
		if plain.text == "" {
			plain.text = ctype + " "
		} else {
			plain.text += ", "
		}
		plain.text += decl
		plain.names = append(plain.names, e.name)
	}
	if consts.text != "" {
		groups = append([]declGroup{consts}, groups...)
	}
	if plain.text != "" {
		groups = append(groups, plain)
	}
	return groups
}

// plainDeclarator renders one non-character local: fixed-size arrays get
// literal extents (a matrix collapses to its element count), anything
// with a symbolic extent decays to a pointer.
func (t *Translator) plainDeclarator(l *line.Line, sym *symbol.Symbol, e declEntry) (string, bool) {
	switch sym.Kind() {
	case symbol.Scalar:
		return e.name, true
	case symbol.Vector:
		if n, ok := atoiAll(e.dims[0]); ok {
			return e.name + "[" + strconv.Itoa(n) + "]", true
		}
		t.diags.Reportf(l, "local array %s has a non-constant extent", e.name)
		return "*" + e.name, true
	case symbol.Matrix:
		n1, ok1 := atoiAll(e.dims[0])
		n2, ok2 := atoiAll(e.dims[1])
		if ok1 && ok2 {
			return e.name + "[" + strconv.Itoa(n1*n2) + "]", true
		}
		t.diags.Reportf(l, "local array %s has a non-constant extent", e.name)
		return "*" + e.name, true
	}
	return "", false
}

// charGroup renders one character entity on its own line, since lengths
// differ per entity: a string becomes char name[len+1], a string array
// char name[n][len+1].
func (t *Translator) charGroup(l *line.Line, e declEntry) (declGroup, bool) {
	g := declGroup{names: []string{e.name}}
	clen, ok := atoiAll(e.clen)
	if !ok {
		if e.clen == "*" {
			t.diags.Reportf(l, "assumed-length character %s is only usable as an argument", e.name)
			g.text = "char *" + e.name
			return g, true
		}
		g.text = "char " + e.name + "[" + e.clen + "+1]"
		return g, true
	}
	size := "[" + strconv.Itoa(clen+1) + "]"
	if len(e.dims) == 0 {
		g.text = "char " + e.name + size
		return g, true
	}
	if n, ok := atoiAll(e.dims[0]); ok && len(e.dims) == 1 {
		g.text = "char " + e.name + "[" + strconv.Itoa(n) + "]" + size
		return g, true
	}
	t.diags.Reportf(l, "character array %s has a non-constant shape", e.name)
	g.text = "char *" + e.name
	return g, true
}

// bindDecl points each symbol at the line now carrying its declaration
// so the call resolver can trim names that turn out to be functions.
func (t *Translator) bindDecl(l *line.Line, names []string) {
	for _, name := range names {
		if sym := t.ctx.Table.Lookup(name); sym != nil {
			sym.SetDecl(l)
		}
	}
}

// rewriteHeader renders the unit header as a C function signature. The
// call resolver runs it again when an argument turns out to be a
// procedure. Findings already attached to the header line survive the
// rewrite.
func (t *Translator) rewriteHeader(u *symbol.Unit) {
	anchor := u.Anchor()
	tail := ""
	if i := findComment(anchor.Text); i >= 0 {
		tail = "  " + anchor.Text[i:]
	}
	var sb strings.Builder
	if u.IsFunction() {
		sb.WriteString(u.Result().CType())
	} else {
		sb.WriteString("void")
	}
	sb.WriteByte(' ')
	sb.WriteString(u.Name())
	sb.WriteByte('(')
	for i, arg := range u.Args() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(t.argDecl(arg))
	}
	sb.WriteString(") {")
	anchor.Text = sb.String() + tail
	anchor.Indent = ""
}

// argDecl renders one dummy argument: arrays decay to pointers,
// procedures to function pointers, scalars pass by value.
func (t *Translator) argDecl(name string) string {
	sym := t.ctx.Table.Lookup(name)
	if sym == nil {
		return "unknown_type " + name
	}
	switch sym.Kind() {
	case symbol.Vector, symbol.Matrix:
		return sym.Base().CType() + " *" + name
	case symbol.Function:
		return sym.Base().CType() + " (*" + name + ")(" + strings.Join(sym.FnParams(), ", ") + ")"
	case symbol.Subroutine:
		return "void (*" + name + ")(" + strings.Join(sym.FnParams(), ", ") + ")"
	default:
		return sym.Base().CType() + " " + name
	}
}

// atoiAll parses s as a plain unsigned integer.
func atoiAll(s string) (int, bool) {
	if !isUintLiteral(s) {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
