package f2cpp

import (
	"sort"
	"strconv"
	"strings"

	"github.com/soypat/f2cpp/line"
)

// restructureControl rewrites statement-level control flow into C: do
// loops become for or while loops, block and logical ifs gain braces,
// statement labels turn into C labels prefixed with the unit name, and
// gotos are retargeted to match. A label that terminates do loops closes
// one brace per loop sharing it.
func (t *Translator) restructureControl() {
	unit := "unit"
	if t.ctx.Unit != nil {
		unit = t.ctx.Unit.Name()
	}
	doEnds, refs, defined := t.scanControl()
	var bd line.Builder
	for _, l := range t.buf.Lines() {
		if skipRewrite(l) {
			bd.Keep(l)
			continue
		}
		if l.Label != "" {
			t.rewriteLabeled(&bd, l, unit, doEnds)
			continue
		}
		t.rewriteStmt(&bd, l, unit)
	}
	t.buf = bd.Buffer()
	var missing []string
	for lbl := range refs {
		if !defined[lbl] {
			missing = append(missing, lbl)
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		a, _ := strconv.Atoi(missing[i])
		b, _ := strconv.Atoi(missing[j])
		return a < b
	})
	for _, lbl := range missing {
		t.diags.NoteMissingLabel(lbl)
	}
}

// scanControl collects, before any rewriting, how many do loops each
// label terminates, which labels gotos reference, and which labels are
// defined anywhere in the file.
func (t *Translator) scanControl() (doEnds map[string]int, refs, defined map[string]bool) {
	doEnds = make(map[string]int)
	refs = make(map[string]bool)
	defined = make(map[string]bool)
	for _, l := range t.buf.Lines() {
		if l.Label != "" {
			defined[l.Label] = true
		}
		if skipRewrite(l) {
			continue
		}
		scanStmt(stmtBody(l), doEnds, refs)
	}
	return doEnds, refs, defined
}

// scanStmt records the label bookkeeping of one statement, descending
// into the body of a logical if.
func scanStmt(s string, doEnds map[string]int, refs map[string]bool) {
	if spec, ok := parseDo(s); ok {
		if spec.label != "" {
			doEnds[spec.label]++
		}
		return
	}
	if target, form := gotoTarget(s); form == gotoPlain {
		refs[target] = true
		return
	}
	if cond, tail, ok := splitIf(s); ok && cond != "" && tail != "then" {
		scanStmt(tail, doEnds, refs)
	}
}

// rewriteLabeled handles a labeled statement: the label becomes a C
// label, a continue terminating loops becomes closing braces, and any
// other statement is rewritten as usual with the braces it terminates
// appended after it. Every label is kept, not just those a translated
// goto references: untranslated constructs (computed gotos, I/O err=
// branches) still target labels and a hand repair needs the anchors.
func (t *Translator) rewriteLabeled(bd *line.Builder, l *line.Line, unit string, doEnds map[string]int) {
	closes := doEnds[l.Label]
	// The empty statement keeps the label legal even when the next
	// line closes a block.
	nl := bd.Add(line.Label, unit+"_L"+l.Label+": ;", l.Src)
	nl.Indent = l.Indent
	if stmtBody(l) == "continue" {
		if closes > 0 {
			setText(l, "}")
			l.Kind = line.End
			closes--
		} else {
			l.Drop()
		}
		bd.Keep(l)
	} else {
		t.rewriteStmt(bd, l, unit)
	}
	for ; closes > 0; closes-- {
		nl := bd.Add(line.End, "}", l.Src)
		nl.Indent = l.Indent
	}
}

// rewriteStmt rewrites the statement on l in place and appends it to the
// builder.
func (t *Translator) rewriteStmt(bd *line.Builder, l *line.Line, unit string) {
	s := stmtBody(l)
	first, _ := identAt(s, 0)
	switch first {
	case "do":
		if spec, ok := parseDo(s); ok {
			if text, ok := t.doText(l, spec); ok {
				setText(l, text)
			} else {
				commentOut(l)
			}
		} else {
			t.diags.Reportf(l, "do statement not understood")
			commentOut(l)
		}
	case "if":
		if text, ok := t.condText(l, s, unit); ok {
			setText(l, text)
		} else {
			commentOut(l)
		}
	case "elseif":
		t.rewriteElse(l, "if "+strings.TrimSpace(s[len("elseif"):]), unit)
	case "else":
		t.rewriteElse(l, strings.TrimSpace(s[len("else"):]), unit)
	case "endif", "enddo", "end":
		setText(l, "}")
		l.Kind = line.End
	case "goto", "go":
		target, form := gotoTarget(s)
		switch form {
		case gotoPlain:
			setText(l, "goto "+unit+"_L"+target)
		case gotoComputed:
			t.diags.Reportf(l, "computed goto is not translated")
			commentOut(l)
		case gotoAssigned:
			t.diags.Reportf(l, "assigned goto is not translated")
			commentOut(l)
		}
	case "return":
		if s == "return" {
			setText(l, t.returnText())
		} else {
			t.diags.Reportf(l, "alternate return is not translated")
			commentOut(l)
		}
	case "continue":
		l.Drop()
	}
	bd.Keep(l)
}

// rewriteElse renders an else line; rest is the text after the keyword,
// either empty or an if (...) then continuation.
func (t *Translator) rewriteElse(l *line.Line, rest, unit string) {
	if rest == "" {
		setText(l, "} else {")
		return
	}
	if text, ok := t.condText(l, rest, unit); ok && strings.HasSuffix(text, "{") {
		setText(l, "} else "+text)
		return
	}
	t.diags.Reportf(l, "malformed else clause")
	commentOut(l)
}

// commentOut preserves a statement the translator could not rewrite.
func commentOut(l *line.Line) {
	l.Text = "// " + l.Text
	l.Kind = line.Comment
}

// doSpec is one parsed do statement.
type doSpec struct {
	label  string // terminator label, empty for the do/enddo form
	while  string // parenthesized condition for do while, empty otherwise
	v      string // loop variable
	bounds []string
}

// parseDo recognizes the do statement forms: do 100 i = e1, e2[, e3],
// the unlabeled do i = ..., and do [100] while (cond).
func parseDo(s string) (*doSpec, bool) {
	rest, ok := cutKeyword(s, "do")
	if !ok {
		return nil, false
	}
	spec := &doSpec{}
	rest = strings.TrimSpace(rest)
	i := 0
	for i < len(rest) && isDigit(rest[i]) {
		i++
	}
	if i > 0 && (i == len(rest) || !isIdentByte(rest[i])) {
		spec.label = rest[:i]
		rest = strings.TrimSpace(rest[i:])
		rest = strings.TrimSpace(strings.TrimPrefix(rest, ","))
	}
	if wrest, ok := cutKeyword(rest, "while"); ok {
		wrest = strings.TrimSpace(wrest)
		if strings.HasPrefix(wrest, "(") {
			if close := MatchingParen(wrest, 0); close != NotFound && skipSpace(wrest, close+1) == len(wrest) {
				spec.while = wrest[:close+1]
				return spec, true
			}
		}
		return nil, false
	}
	name, end := identAt(rest, 0)
	if name == "" {
		return nil, false
	}
	spec.v = name
	rest = strings.TrimSpace(rest[end:])
	if !strings.HasPrefix(rest, "=") || strings.HasPrefix(rest, "==") {
		return nil, false
	}
	spec.bounds = SplitTopLevel(rest[1:])
	return spec, true
}

// doText renders a parsed do statement as its C loop header. A literal
// step picks the comparison direction up front; any other step defers
// the direction to run time.
func (t *Translator) doText(l *line.Line, spec *doSpec) (string, bool) {
	if spec.while != "" {
		return "while " + spec.while + " {", true
	}
	v := spec.v
	t.diags.NoteIndexVar(v)
	switch len(spec.bounds) {
	case 2:
		return "for (" + v + " = " + spec.bounds[0] + "; " + v + " <= " + spec.bounds[1] + "; ++" + v + ") {", true
	case 3:
		step := spec.bounds[2]
		lit := step
		neg := false
		if strings.HasPrefix(lit, "-") {
			neg = true
			lit = strings.TrimSpace(lit[1:])
		} else if strings.HasPrefix(lit, "+") {
			lit = strings.TrimSpace(lit[1:])
		}
		if n, ok := atoiAll(lit); ok {
			if n == 0 {
				t.diags.Reportf(l, "do loop step is zero")
			}
			if neg {
				return "for (" + v + " = " + spec.bounds[0] + "; " + v + " >= " + spec.bounds[1] + "; " + v + " -= " + lit + ") {", true
			}
			return "for (" + v + " = " + spec.bounds[0] + "; " + v + " <= " + spec.bounds[1] + "; " + v + " += " + lit + ") {", true
		}
		return "for (" + v + " = " + spec.bounds[0] + "; (" + step + ") >= 0 ? " + v + " <= (" + spec.bounds[1] + ") : " + v + " >= (" + spec.bounds[1] + "); " + v + " += " + step + ") {", true
	}
	t.diags.Reportf(l, "do statement has %d loop bounds", len(spec.bounds))
	return "", false
}

// condText renders an if statement: block ifs open a brace, logical ifs
// brace their single rewritten statement.
func (t *Translator) condText(l *line.Line, s, unit string) (string, bool) {
	cond, tail, ok := splitIf(s)
	if !ok {
		t.diags.Reportf(l, "malformed if statement")
		return "", false
	}
	if tail == "then" {
		return "if " + cond + " {", true
	}
	if tail == "" {
		t.diags.Reportf(l, "if statement has no body")
		return "", false
	}
	if terms := SplitTopLevel(tail); len(terms) == 3 &&
		isUintLiteral(terms[0]) && isUintLiteral(terms[1]) && isUintLiteral(terms[2]) {
		t.diags.Reportf(l, "arithmetic if is not translated")
		return "", false
	}
	inner := t.stmtText(l, tail, unit)
	if !strings.HasSuffix(inner, "}") && !strings.HasSuffix(inner, ";") {
		inner += ";"
	}
	return "if " + cond + " { " + inner + " }", true
}

// stmtText rewrites a statement embedded in a logical if. Statements
// with no structural translation pass through unchanged.
func (t *Translator) stmtText(l *line.Line, s, unit string) string {
	if target, form := gotoTarget(s); form != gotoNone {
		switch form {
		case gotoPlain:
			return "goto " + unit + "_L" + target
		case gotoComputed:
			t.diags.Reportf(l, "computed goto is not translated")
		case gotoAssigned:
			t.diags.Reportf(l, "assigned goto is not translated")
		}
		return s
	}
	if s == "return" {
		return t.returnText()
	}
	if s == "continue" {
		return ";"
	}
	if code, ok := stopStatement(s); ok {
		return "exit(" + code + ")"
	}
	if _, ok := cutKeyword(s, "if"); ok {
		if out, ok := t.condText(l, s, unit); ok {
			return out
		}
	}
	return s
}

// returnText renders a return: a function returns the variable named
// after it.
func (t *Translator) returnText() string {
	if t.ctx.Unit != nil && t.ctx.Unit.IsFunction() {
		return "return " + t.ctx.Unit.Name()
	}
	return "return"
}

// splitIf splits an if statement into its parenthesized condition and
// the trimmed text after it.
func splitIf(s string) (cond, tail string, ok bool) {
	rest, ok := cutKeyword(s, "if")
	if !ok {
		return "", "", false
	}
	i := skipSpace(rest, 0)
	if i >= len(rest) || rest[i] != '(' {
		return "", "", false
	}
	close := MatchingParen(rest, i)
	if close == NotFound {
		return "", "", false
	}
	return rest[i : close+1], strings.TrimSpace(rest[close+1:]), true
}

type gotoForm int

const (
	gotoNone gotoForm = iota
	gotoPlain
	gotoComputed
	gotoAssigned
)

// gotoTarget recognizes goto statements in both spellings and sorts
// them into the plain, computed and assigned forms.
func gotoTarget(s string) (string, gotoForm) {
	rest, ok := cutKeyword(s, "goto")
	if !ok {
		r, ok2 := cutKeyword(s, "go")
		if !ok2 {
			return "", gotoNone
		}
		rest, ok = cutKeyword(strings.TrimSpace(r), "to")
		if !ok {
			return "", gotoNone
		}
	}
	rest = strings.TrimSpace(rest)
	switch {
	case rest == "":
		return "", gotoNone
	case isUintLiteral(rest):
		return rest, gotoPlain
	case rest[0] == '(':
		return "", gotoComputed
	default:
		return "", gotoAssigned
	}
}

// cutKeyword splits a leading keyword off s, requiring a word boundary
// after it.
func cutKeyword(s, kw string) (string, bool) {
	if !strings.HasPrefix(s, kw) {
		return "", false
	}
	rest := s[len(kw):]
	if rest != "" && isIdentByte(rest[0]) {
		return "", false
	}
	return rest, true
}
