package f2cpp

import (
	"strconv"
	"strings"

	"github.com/soypat/f2cpp/line"
	"github.com/soypat/f2cpp/symbol"
)

// linearizeSubscripts rewrites array references into flat zero-based C
// indexing and marks bare array arguments in call lists with &. Passes
// repeat until nothing changes so that nested references written on one
// line converge; the rewrite keys on name( so a rewritten reference can
// never fire twice. A final pass runs the bounded simplifier over the
// produced index expressions.
func (t *Translator) linearizeSubscripts() {
	for pass := 0; pass < maxRewritePasses; pass++ {
		changed := false
		for _, l := range t.buf.Lines() {
			if skipRewrite(l) || t.passthrough[l] {
				continue
			}
			if text, ch := t.linearizeLine(l, stmtBody(l)); ch {
				setText(l, text)
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	for _, l := range t.buf.Lines() {
		if skipRewrite(l) || t.passthrough[l] {
			continue
		}
		if body := stmtBody(l); body != "" {
			if s := simplifyIndices(body); s != body {
				setText(l, s)
			}
		}
	}
}

// skipRewrite reports whether a line holds no executable expression
// text: already-rebuilt declarations, unit boundaries, comments.
func skipRewrite(l *line.Line) bool {
	if l.Dropped() {
		return true
	}
	switch l.Kind {
	case line.Blank, line.Comment, line.Decl, line.Header, line.End:
		return true
	}
	return false
}

// linearizeLine scans one statement body for array references and call
// argument lists. Array references become bracketed zero-based indexes;
// bare array names standing as complete call arguments gain a leading &,
// and whole arrays buried in argument arithmetic are flagged.
func (t *Translator) linearizeLine(l *line.Line, s string) (string, bool) {
	var sb strings.Builder
	changed := false
	depth := 0
	last := byte(0)       // last significant byte written
	var callStack []int   // depth at which each open call list started
	expectTarget := false // the ident after a call keyword opens a call
	write := func(str string) {
		sb.WriteString(str)
		for k := len(str) - 1; k >= 0; k-- {
			if str[k] != ' ' {
				last = str[k]
				break
			}
		}
	}
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
			write(s[i:j])
			i = j
			continue
		}
		if c == '(' || c == '[' {
			depth++
			write(s[i : i+1])
			i++
			continue
		}
		if c == ')' || c == ']' {
			depth--
			if n := len(callStack); n > 0 && callStack[n-1] == depth {
				callStack = callStack[:n-1]
			}
			write(s[i : i+1])
			i++
			continue
		}
		name, end := identAt(s, i)
		if name == "" {
			write(s[i : i+1])
			i++
			continue
		}
		if name == "call" {
			expectTarget = true
			write(name)
			i = end
			continue
		}
		sym := t.ctx.Table.Lookup(name)
		followsParen := end < len(s) && s[end] == '('
		followsBracket := end < len(s) && s[end] == '['
		isTarget := expectTarget
		expectTarget = false
		if followsParen {
			if isTarget || isInvocation(sym) {
				callStack = append(callStack, depth)
				depth++
				write(name)
				write("(")
				i = end + 1
				continue
			}
			if sym != nil && (sym.Kind() == symbol.Vector || sym.Kind() == symbol.Matrix) {
				close := MatchingParen(s, end)
				if close == NotFound {
					t.diags.Reportf(l, "unmatched parenthesis after %s", name)
					write(name)
					i = end
					continue
				}
				if rep, ok := t.subscriptReplacement(l, name, sym, s[end+1:close]); ok {
					write(rep)
					i = close + 1
					changed = true
					continue
				}
				// The trouble was reported; keep the reference as is
				// but step past it so the scan cannot loop.
				write(s[i : close+1])
				i = close + 1
				continue
			}
			write(name)
			i = end
			continue
		}
		// A bare array name inside a call list either becomes a pointer
		// argument or, tangled in arithmetic, gets flagged for review.
		if !followsBracket && len(callStack) > 0 && sym != nil &&
			(sym.Kind() == symbol.Vector || sym.Kind() == symbol.Matrix) {
			top := callStack[len(callStack)-1]
			next := byte(0)
			if k := skipSpace(s, end); k < len(s) {
				next = s[k]
			}
			wholeArg := depth == top+1 &&
				(last == '(' || last == ',' || last == '&') &&
				(next == ',' || next == ')')
			if wholeArg {
				if last != '&' {
					write("&")
					changed = true
				}
				write(name)
				i = end
				continue
			}
			t.diags.FlagSubscript(l.Src)
		}
		write(name)
		i = end
		continue
	}
	return sb.String(), changed
}

// isInvocation reports whether a symbol followed by ( is a value call
// rather than a subscript: statement functions, and scalars that are not
// character strings (a character scalar followed by parentheses is
// substring syntax).
func isInvocation(sym *symbol.Symbol) bool {
	if sym == nil {
		return false
	}
	switch sym.Kind() {
	case symbol.Function:
		return true
	case symbol.Scalar:
		return sym.Base() != symbol.Character
	}
	return false
}

// subscriptReplacement renders one array reference as C indexing. A
// vector takes v[(i)-1]; a matrix linearizes column-major against its
// leading dimension. A matrix referenced with a single subscript is
// legal Fortran linear addressing and maps directly. A colon in any
// term is a character substring range, which is reported and left
// alone.
func (t *Translator) subscriptReplacement(l *line.Line, name string, sym *symbol.Symbol, args string) (string, bool) {
	terms := SplitTopLevel(args)
	for _, term := range terms {
		if strings.IndexByte(term, ':') >= 0 {
			t.diags.Reportf(l, "substring %s(%s) is not translated", name, args)
			return "", false
		}
		t.noteIndexIdents(term)
		if strings.Contains(term, ",") {
			// A comma surviving inside one term means the depth-zero
			// split saw brackets we cannot be sure about.
			t.diags.FlagSubscript(l.Src)
		}
	}
	switch {
	case len(terms) == 1:
		return name + "[(" + terms[0] + ")-1]", true
	case len(terms) == 2 && sym.Kind() == symbol.Matrix:
		ld := sym.LeadingDim()
		if ld == "" || ld == "*" {
			t.diags.Reportf(l, "%s has no usable leading dimension", name)
			return "", false
		}
		return name + "[((" + terms[0] + ")-1)+((" + terms[1] + ")-1)*(" + ld + ")]", true
	default:
		t.diags.Reportf(l, "%s referenced with %d subscripts, declared with %d",
			name, len(terms), len(sym.Dims()))
		return "", false
	}
}

// noteIndexIdents records scalar identifiers appearing in a subscript
// term for the trailing index-variable report.
func (t *Translator) noteIndexIdents(term string) {
	for i := 0; i < len(term); {
		name, end := identAt(term, i)
		if name == "" {
			i++
			continue
		}
		if sym := t.ctx.Table.Lookup(name); sym == nil || sym.Kind() == symbol.Scalar || sym.Kind() == symbol.Unknown {
			t.diags.NoteIndexVar(name)
		}
		i = end
	}
}

// simplifyIndices applies the bounded constant-folding rewrites to every
// bracketed index expression in s. Text outside brackets is never
// touched.
func simplifyIndices(s string) string {
	var sb strings.Builder
	i := 0
	for i < len(s) {
		if s[i] != '[' {
			sb.WriteByte(s[i])
			i++
			continue
		}
		close := matchingBracket(s, i)
		if close == NotFound {
			sb.WriteString(s[i:])
			break
		}
		inner := simplifyIndices(s[i+1 : close]) // nested rewritten refs
		sb.WriteByte('[')
		sb.WriteString(simplifyExpr(inner))
		sb.WriteByte(']')
		i = close + 1
	}
	return sb.String()
}

// matchingBracket is MatchingParen for square brackets.
func matchingBracket(s string, open int) int {
	if open < 0 || open >= len(s) || s[open] != '[' {
		return NotFound
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return NotFound
}

// simplifyExpr folds the additive constant clutter our subscript rewrite
// introduces: literal groups collapse, (x+1)-1 style offsets cancel, and
// leftover zero terms disappear. Multiplicative context is left alone so
// the leading-dimension factor keeps its written shape. The rewrite list
// is short and runs a fixed number of passes at most.
func simplifyExpr(e string) string {
	for pass := 0; pass < maxRewritePasses; pass++ {
		if n, ok := evalConst(e); ok && n >= 0 {
			return strconv.Itoa(n)
		}
		next := foldLiteralGroup(e)
		if next == e {
			next = foldGroupOffset(e)
		}
		if next == e {
			next = dropZeroTerms(e)
		}
		if next == e {
			return e
		}
		e = next
	}
	return e
}

// foldLiteralGroup replaces one parenthesized group that evaluates to a
// non-negative literal, when both neighbors keep the flattening safe
// (never after a name, never beside * or /).
func foldLiteralGroup(e string) string {
	for i := 0; i < len(e); i++ {
		if e[i] != '(' {
			continue
		}
		if i > 0 && !additiveNeighbor(e[i-1]) {
			continue
		}
		close := MatchingParen(e, i)
		if close == NotFound {
			return e
		}
		if close+1 < len(e) && !additiveNeighbor(e[close+1]) {
			continue
		}
		n, ok := evalConst(e[i+1 : close])
		if !ok || n < 0 {
			continue
		}
		return e[:i] + strconv.Itoa(n) + e[close+1:]
	}
	return e
}

// additiveNeighbor reports whether c, adjacent to a parenthesized group,
// permits removing the parentheses without changing meaning.
func additiveNeighbor(c byte) bool {
	switch c {
	case '+', '-', '[', ']', '(', ')', ',', ' ':
		return true
	}
	return false
}

// foldGroupOffset cancels (x op k1) op k2 when both offsets are
// literal: (i+1)-1 becomes i, (i-1)-1 becomes i-2.
func foldGroupOffset(e string) string {
	for i := 0; i < len(e); i++ {
		if e[i] != '(' || (i > 0 && isIdentByte(e[i-1])) {
			continue
		}
		close := MatchingParen(e, i)
		if close == NotFound {
			return e
		}
		inner := strings.TrimSpace(e[i+1 : close])
		x, k1, ok := splitTrailingOffset(inner)
		if !ok {
			continue
		}
		k2, end, ok := leadingOffset(e, close+1)
		if !ok {
			continue
		}
		net := k1 + k2
		var repl string
		switch {
		case net == 0:
			repl = x
		case net > 0:
			repl = x + "+" + strconv.Itoa(net)
		default:
			repl = x + "-" + strconv.Itoa(-net)
		}
		return e[:i] + repl + e[end:]
	}
	return e
}

// splitTrailingOffset splits "x+1" into ("x", 1): a nonempty head
// followed by one signed literal term.
func splitTrailingOffset(s string) (x string, k int, ok bool) {
	j := len(s) - 1
	for j >= 0 && s[j] == ' ' {
		j--
	}
	end := j + 1
	for j >= 0 && isDigit(s[j]) {
		j--
	}
	digits := s[j+1 : end]
	if digits == "" {
		return "", 0, false
	}
	for j >= 0 && s[j] == ' ' {
		j--
	}
	if j < 0 || (s[j] != '+' && s[j] != '-') {
		return "", 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return "", 0, false
	}
	if s[j] == '-' {
		n = -n
	}
	x = strings.TrimSpace(s[:j])
	if x == "" {
		return "", 0, false
	}
	return x, n, true
}

// leadingOffset parses one signed literal term at e[from:], returning
// its value and the index just past it.
func leadingOffset(e string, from int) (k, end int, ok bool) {
	i := skipSpace(e, from)
	if i >= len(e) || (e[i] != '+' && e[i] != '-') {
		return 0, 0, false
	}
	neg := e[i] == '-'
	i = skipSpace(e, i+1)
	j := i
	for j < len(e) && isDigit(e[j]) {
		j++
	}
	if j == i {
		return 0, 0, false
	}
	// A longer literal (1.5, 10e2) or a following identifier byte means
	// this is not a plain integer term.
	if j < len(e) && (e[j] == '.' || isIdentByte(e[j])) {
		return 0, 0, false
	}
	n, err := strconv.Atoi(e[i:j])
	if err != nil {
		return 0, 0, false
	}
	if neg {
		n = -n
	}
	return n, j, true
}

// dropZeroTerms removes one additive zero: a leading "0+", a trailing
// "+0"/"-0", or an interior "+0"/"-0" between operators.
func dropZeroTerms(e string) string {
	if strings.HasPrefix(e, "0+") {
		return e[2:]
	}
	for i := 0; i+1 < len(e); i++ {
		if (e[i] != '+' && e[i] != '-') || e[i+1] != '0' {
			continue
		}
		if i+2 < len(e) && (isDigit(e[i+2]) || e[i+2] == '.') {
			continue // part of a longer literal
		}
		if i > 0 && (e[i-1] == 'e' || e[i-1] == 'E') {
			continue // exponent sign
		}
		if i > 0 && !additiveNeighbor(e[i-1]) && !isIdentByte(e[i-1]) && !isDigit(e[i-1]) {
			continue
		}
		return e[:i] + e[i+2:]
	}
	return e
}

// evalConst evaluates an additive integer expression: unsigned literals,
// parentheses, + and -. Anything else fails.
func evalConst(s string) (int, bool) {
	v, i, ok := evalSum(s, 0)
	if !ok {
		return 0, false
	}
	if skipSpace(s, i) != len(s) {
		return 0, false
	}
	return v, true
}

func evalSum(s string, i int) (v, end int, ok bool) {
	v, i, ok = evalTerm(s, i)
	if !ok {
		return 0, 0, false
	}
	for {
		j := skipSpace(s, i)
		if j >= len(s) || (s[j] != '+' && s[j] != '-') {
			return v, i, true
		}
		t, j2, ok := evalTerm(s, j+1)
		if !ok {
			return 0, 0, false
		}
		if s[j] == '+' {
			v += t
		} else {
			v -= t
		}
		i = j2
	}
}

func evalTerm(s string, i int) (v, end int, ok bool) {
	i = skipSpace(s, i)
	if i >= len(s) {
		return 0, 0, false
	}
	if s[i] == '(' {
		close := MatchingParen(s, i)
		if close == NotFound {
			return 0, 0, false
		}
		v, ok := evalConst(s[i+1 : close])
		if !ok {
			return 0, 0, false
		}
		return v, close + 1, true
	}
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if j == i {
		return 0, 0, false
	}
	if j < len(s) && (s[j] == '.' || isIdentByte(s[j])) {
		return 0, 0, false // float literal or identifier
	}
	n, err := strconv.Atoi(s[i:j])
	if err != nil {
		return 0, 0, false
	}
	return n, j, true
}
