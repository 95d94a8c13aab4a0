package f2cpp

import (
	"strings"

	"github.com/soypat/f2cpp/intrinsic"
	"github.com/soypat/f2cpp/line"
)

// maxRewritePasses bounds every repeated text rewrite so a pathological
// input can never hang a stage.
const maxRewritePasses = 16

// dotOps are the Fortran dot-form operators and logical constants in
// their C++ spellings. Order matters only for readability; the
// spellings cannot overlap.
var dotOps = [...]struct{ from, to string }{
	{".eq.", "=="},
	{".ne.", "!="},
	{".ge.", ">="},
	{".gt.", ">"},
	{".le.", "<="},
	{".lt.", "<"},
	{".and.", " && "},
	{".or.", " || "},
	{".not.", "!"},
	{".true.", "true"},
	{".false.", "false"},
}

// applySubstitutions rewrites literal token spellings on every statement
// line: dot-form operators, d-exponents, power and mod operators,
// intrinsic renames, stop statements and string quoting. Comment, blank
// and i/o lines pass through untouched.
func (t *Translator) applySubstitutions() {
	for _, l := range t.buf.Lines() {
		if l.Dropped() || l.Kind == line.Comment || l.Kind == line.Blank || t.passthrough[l] {
			continue
		}
		l.Text = substStatement(l.Text)
	}
}

// substStatement applies every literal substitution to one statement.
// Quoted text is protected from the token rewrites and converted to C
// string syntax at the end.
func substStatement(s string) string {
	if n, ok := stopStatement(s); ok {
		return "exit(" + n + ")"
	}
	s = mapCode(s, substCode)
	return convertQuotes(s)
}

func substCode(code string) string {
	for _, op := range dotOps {
		code = strings.ReplaceAll(code, op.from, op.to)
	}
	code = replaceDExponent(code)
	code = replacePower(code)
	code = replaceMod(code)
	code = intrinsic.Rewrite(code)
	return code
}

// stopStatement matches a stop statement and returns the C exit code:
// a numeric stop code carries over, a bare stop exits 0, and anything
// else (stop 'message') becomes exit(1).
func stopStatement(s string) (code string, ok bool) {
	rest, ok := strings.CutPrefix(s, "stop")
	if !ok || (rest != "" && rest[0] != ' ') {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	switch {
	case rest == "":
		return "0", true
	case isUintLiteral(rest):
		return rest, true
	default:
		return "1", true
	}
}

// replaceDExponent rewrites the d exponent marker to e so 1.0d+0 becomes
// a C++ double literal. Identifiers that merely contain a digit-d run
// are left alone.
func replaceDExponent(code string) string {
	b := []byte(code)
	for i := 0; i < len(b); i++ {
		if b[i] != 'd' {
			continue
		}
		j := i - 1
		for j >= 0 && (isDigit(b[j]) || b[j] == '.') {
			j--
		}
		if j == i-1 {
			continue // no mantissa before the d
		}
		if j >= 0 && isIdentByte(b[j]) {
			continue // part of an identifier
		}
		k := i + 1
		if k < len(b) && (b[k] == '+' || b[k] == '-') {
			k++
		}
		if k >= len(b) || !isDigit(b[k]) {
			continue // no exponent after the d
		}
		b[i] = 'e'
	}
	return string(b)
}

// replacePower rewrites the ** operator into a pow() call. Operands are
// taken greedily: a balanced parenthesized group together with any
// callable name in front of it, an identifier with optional invocation,
// or a numeric literal. The rightmost ** rewrites first, since Fortran
// exponentiation associates right: a**b**c is a**(b**c).
func replacePower(code string) string {
	upto := len(code)
	for iter := 0; iter < maxRewritePasses; iter++ {
		i := strings.LastIndex(code[:upto], "**")
		if i < 0 {
			return code
		}
		ls := powLeftStart(code, i)
		re := powRightEnd(code, i+2)
		if ls == NotFound || re == NotFound {
			upto = i // malformed operand, leave the stars in place
			continue
		}
		left := strings.TrimSpace(code[ls:i])
		right := strings.TrimSpace(code[i+2 : re])
		code = code[:ls] + "pow(" + left + "," + right + ")" + code[re:]
		upto = len(code)
	}
	return code
}

// powLeftStart finds where the left operand of the ** at i begins.
func powLeftStart(code string, i int) int {
	k := i - 1
	for k >= 0 && code[k] == ' ' {
		k--
	}
	if k < 0 {
		return NotFound
	}
	if code[k] == ')' {
		open := MatchingParenReverse(code, k)
		if open == NotFound {
			return NotFound
		}
		j := open - 1
		for j >= 0 && isIdentByte(code[j]) {
			j--
		}
		return j + 1
	}
	if !isIdentByte(code[k]) && code[k] != '.' {
		return NotFound
	}
	j := k
	for j >= 0 && (isIdentByte(code[j]) || code[j] == '.') {
		j--
	}
	return j + 1
}

// powRightEnd finds the index just past the right operand of the ** that
// ends at j.
func powRightEnd(code string, j int) int {
	j = skipSpace(code, j)
	if j >= len(code) {
		return NotFound
	}
	if code[j] == '(' {
		end := MatchingParen(code, j)
		if end == NotFound {
			return NotFound
		}
		return end + 1
	}
	if isIdentStart(code[j]) {
		_, end := identAt(code, j)
		if end < len(code) && code[end] == '(' {
			close := MatchingParen(code, end)
			if close == NotFound {
				return NotFound
			}
			return close + 1
		}
		return end
	}
	if isDigit(code[j]) || code[j] == '.' {
		k := j
		for k < len(code) && (isDigit(code[k]) || code[k] == '.') {
			k++
		}
		if k < len(code) && code[k] == 'e' {
			m := k + 1
			if m < len(code) && (code[m] == '+' || code[m] == '-') {
				m++
			}
			if m < len(code) && isDigit(code[m]) {
				for m < len(code) && isDigit(code[m]) {
					m++
				}
				k = m
			}
		}
		return k
	}
	return NotFound
}

// replaceMod rewrites two-argument mod invocations into the % operator.
// The floating-point variants (dmod, amod) map to fmod by rename
// instead, so only integer mod reaches this rewrite.
func replaceMod(code string) string {
	from := 0
	for iter := 0; iter < maxRewritePasses; iter++ {
		i := findCall(code, "mod", from)
		if i == NotFound {
			return code
		}
		open := i + len("mod")
		close := MatchingParen(code, open)
		if close == NotFound {
			return code
		}
		args := SplitTopLevel(code[open+1 : close])
		if len(args) != 2 {
			from = open
			continue
		}
		code = code[:i] + "(" + args[0] + ")%(" + args[1] + ")" + code[close+1:]
		from = i
	}
	return code
}

// findCall returns the index at or after from where name occurs as an
// invocation (a standalone identifier immediately followed by an opening
// parenthesis), or NotFound.
func findCall(code, name string, from int) int {
	for i := from; i+len(name) < len(code); i++ {
		if code[i:i+len(name)] != name {
			continue
		}
		if i > 0 && isIdentByte(code[i-1]) {
			continue
		}
		if code[i+len(name)] == '(' {
			return i
		}
	}
	return NotFound
}

// convertQuotes rewrites Fortran character literals into C string
// literals: outer single quotes become double quotes, doubled single
// quotes collapse to one, and embedded backslashes and double quotes
// gain escapes.
func convertQuotes(s string) string {
	if !strings.ContainsRune(s, '\'') {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\'' {
			sb.WriteByte(c)
			continue
		}
		var content strings.Builder
		j := i + 1
		for j < len(s) {
			if s[j] == '\'' {
				if j+1 < len(s) && s[j+1] == '\'' {
					content.WriteByte('\'')
					j += 2
					continue
				}
				break
			}
			content.WriteByte(s[j])
			j++
		}
		esc := strings.ReplaceAll(content.String(), `\`, `\\`)
		esc = strings.ReplaceAll(esc, `"`, `\"`)
		sb.WriteByte('"')
		sb.WriteString(esc)
		sb.WriteByte('"')
		i = j
	}
	return sb.String()
}
