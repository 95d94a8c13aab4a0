package f2cpp

import (
	"strings"

	"github.com/soypat/f2cpp/line"
	"github.com/soypat/f2cpp/symbol"
)

// resolveCalls finds subroutine invocations and function-like references,
// drops the call keyword, guesses argument types from each call site, and
// records one forward declaration or inline statement-function definition
// per distinct name. A procedure passed in as a unit argument becomes a
// function-pointer parameter instead, which re-renders the header.
func (t *Translator) resolveCalls() {
	for _, l := range t.buf.Lines() {
		if skipRewrite(l) || t.passthrough[l] {
			continue
		}
		body := stmtBody(l)
		out := t.resolveText(l, body)
		if out != body {
			setText(l, out)
		}
	}
	if u := t.ctx.Unit; u != nil && !u.Active() {
		// Argument kinds may have changed during resolution.
		t.rewriteHeader(u)
	}
}

// resolveText scans one statement, resolving call targets and function
// references as they appear. The walk continues inside argument lists,
// so nested references resolve on the same scan.
func (t *Translator) resolveText(l *line.Line, s string) string {
	var sb strings.Builder
	pendingCall := false
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '\'' || c == '"' {
			j := i + 1
			for j < len(s) && s[j] != c {
				j++
			}
			if j < len(s) {
				j++
			}
			sb.WriteString(s[i:j])
			i = j
			continue
		}
		name, end := identAt(s, i)
		if name == "" {
			sb.WriteByte(c)
			i++
			continue
		}
		if name == "call" {
			pendingCall = true
			i = skipSpace(s, end)
			continue
		}
		if pendingCall {
			pendingCall = false
			k := skipSpace(s, end)
			hasParen := k < len(s) && s[k] == '('
			var args []string
			if hasParen {
				if close := MatchingParen(s, k); close != NotFound {
					args = SplitTopLevel(s[k+1 : close])
				} else {
					t.diags.Reportf(l, "unmatched parenthesis in call to %s", name)
				}
			}
			t.resolveProcedure(l, name, args, true)
			sb.WriteString(name)
			if !hasParen {
				sb.WriteString("()")
			}
			i = end
			continue
		}
		if end < len(s) && s[end] == '(' {
			t.resolveReference(l, name, s, end)
		}
		sb.WriteString(name)
		i = end
	}
	return sb.String()
}

// resolveReference handles a name immediately followed by ( in value
// position: a captured statement function inlines at its first use; a
// non-character scalar, or a name the source declared external, turns
// out to be a function. Unknown names pass through untouched.
func (t *Translator) resolveReference(l *line.Line, name, s string, open int) {
	sym := t.ctx.Table.Lookup(name)
	if sym == nil {
		return
	}
	var sf *symbol.StatementFunc
	if t.ctx.Unit != nil {
		sf = t.ctx.Unit.StmtFunc(name)
	}
	if sf != nil {
		if t.resolved[name] {
			return
		}
		close := MatchingParen(s, open)
		if close == NotFound {
			t.diags.Reportf(l, "unmatched parenthesis in call to %s", name)
			return
		}
		args := SplitTopLevel(s[open+1 : close])
		if len(args) != len(sf.Formals) {
			t.diags.Reportf(l, "%s called with %d arguments but defined with %d", name, len(args), len(sf.Formals))
			return
		}
		t.resolved[name] = true
		t.addInline(name, sym, sf, args)
		return
	}
	// A non-character scalar and any name declared external resolve as
	// functions; other references are left alone.
	if (sym.Kind() != symbol.Scalar || sym.Base() == symbol.Character) && t.externs[name] == nil {
		return
	}
	close := MatchingParen(s, open)
	if close == NotFound {
		t.diags.Reportf(l, "unmatched parenthesis in call to %s", name)
		return
	}
	t.resolveProcedure(l, name, SplitTopLevel(s[open+1:close]), false)
}

// resolveProcedure settles what a called name is. Unit arguments become
// function-pointer parameters; everything else gets one extern forward
// declaration, and any declaration line that carried the name as a
// would-be local is cleaned up.
func (t *Translator) resolveProcedure(l *line.Line, name string, args []string, isCall bool) {
	sym := t.ctx.Table.Ensure(name)
	kind := symbol.Function
	if isCall {
		kind = symbol.Subroutine
	}
	types := make([]string, len(args))
	for i, a := range args {
		types[i] = t.argType(a)
	}
	if sym.IsArg() {
		if sym.FnParams() == nil {
			sym.SetKind(kind)
			sym.SetFnParams(types)
		}
		if el := t.externs[name]; el != nil {
			t.removeDeclarator(el, name)
			delete(t.externs, name)
		}
		return
	}
	if t.resolved[name] {
		return
	}
	t.resolved[name] = true
	sym.SetKind(kind)
	ret := "void"
	if !isCall {
		if sym.Base() == symbol.BaseNone {
			t.diags.Reportf(l, "function %s has no declared type", name)
		}
		ret = sym.Base().CType()
	}
	t.protos = append(t.protos, "extern "+ret+" "+name+"("+strings.Join(types, ", ")+");")
	if d := sym.Decl(); d != nil {
		t.removeDeclarator(d, name)
	}
	if el := t.externs[name]; el != nil {
		t.removeDeclarator(el, name)
		delete(t.externs, name)
	}
}

// argType guesses the parameter type of one call argument from the first
// reference found in its text.
func (t *Translator) argType(a string) string {
	a = strings.TrimSpace(a)
	switch {
	case a == "":
		return "unknown_type"
	case a[0] == '\'' || a[0] == '"':
		return "char *"
	case isIntLiteral(a):
		return symbol.Ftnlen.CType()
	case a == "true" || a == "false":
		return "bool"
	}
	if a[0] == '&' {
		if name, _ := identAt(a, 1); name != "" {
			if sym := t.ctx.Table.Lookup(name); sym != nil && sym.Base() != symbol.BaseNone {
				return sym.Base().CType() + " *"
			}
		}
		return "unknown_type *"
	}
	if name, end := identAt(a, 0); name != "" && end == len(a) {
		if sym := t.ctx.Table.Lookup(name); sym != nil &&
			(sym.Kind() == symbol.Vector || sym.Kind() == symbol.Matrix) {
			return sym.Base().CType() + " *"
		}
	}
	for i := 0; i < len(a); {
		name, end := identAt(a, i)
		if name == "" {
			i++
			continue
		}
		if sym := t.ctx.Table.Lookup(name); sym != nil && sym.Base() != symbol.BaseNone {
			return sym.Base().CType()
		}
		i = end
	}
	return "unknown_type"
}

// addInline synthesizes the inline definition for a statement function
// at its first call site. Formal names pair positionally with the types
// guessed from that site's arguments; the recorded body gets the same
// literal and intrinsic substitutions as ordinary code, plus subscript
// linearization, before it is inlined.
func (t *Translator) addInline(name string, sym *symbol.Symbol, sf *symbol.StatementFunc, args []string) {
	params := make([]string, len(args))
	for i, a := range args {
		typ := t.argType(a)
		sep := " "
		if strings.HasSuffix(typ, "*") {
			sep = ""
		}
		params[i] = typ + sep + sf.Formals[i]
	}
	tmp := line.New(line.Assign, substStatement(sf.Body), sf.Src)
	for pass := 0; pass < maxRewritePasses; pass++ {
		text, ch := t.linearizeLine(tmp, tmp.Text)
		if !ch {
			break
		}
		tmp.Text = text
	}
	tmp.Text = simplifyIndices(tmp.Text)
	t.inlines = append(t.inlines,
		"inline "+sym.Base().CType()+" "+name+"("+strings.Join(params, ", ")+") { return "+stmtBody(tmp)+"; }")
}

// removeDeclarator drops one name from a declaration line, dropping the
// whole line when it carried nothing else.
func (t *Translator) removeDeclarator(l *line.Line, name string) {
	body := stmtBody(l)
	sp := strings.IndexByte(body, ' ')
	if sp < 0 {
		return
	}
	prefix := body[:sp]
	rest := body[sp+1:]
	if prefix == "const" {
		sp2 := strings.IndexByte(rest, ' ')
		if sp2 < 0 {
			return
		}
		prefix = body[:sp+1+sp2]
		rest = rest[sp2+1:]
	}
	removed := false
	var kept []string
	for _, d := range SplitTopLevel(rest) {
		if !removed && declaratorName(d) == name {
			removed = true
			continue
		}
		kept = append(kept, d)
	}
	if !removed {
		return
	}
	if len(kept) == 0 {
		l.Drop()
		return
	}
	setText(l, prefix+" "+strings.Join(kept, ", "))
}

// declaratorName extracts the declared name from one declarator, looking
// past pointer stars.
func declaratorName(d string) string {
	i := 0
	for i < len(d) && (d[i] == ' ' || d[i] == '*') {
		i++
	}
	name, _ := identAt(d, i)
	return name
}
