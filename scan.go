package f2cpp

import "strings"

// NotFound is returned by the bracket-matching searches when the text is
// unbalanced.
const NotFound = -1

// splitMark is the private delimiter substituted for top-level commas so
// a plain split cannot be confused by nested argument lists.
const splitMark = "\x00"

// SplitTopLevel splits s at the commas that sit at bracket depth zero
// outside quoted text. Each piece is returned with surrounding blanks
// trimmed; an all-blank s yields no pieces.
func SplitTopLevel(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	b := []byte(s)
	depth := 0
	var quote byte
	for i := 0; i < len(b); i++ {
		c := b[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				b[i] = splitMark[0]
			}
		}
	}
	parts := strings.Split(string(b), splitMark)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// MatchingParen returns the index of the ')' balancing the '(' at
// s[open], or NotFound when the text is unbalanced or s[open] is not an
// opening parenthesis. Parentheses inside quoted text do not count.
func MatchingParen(s string, open int) int {
	if open < 0 || open >= len(s) || s[open] != '(' {
		return NotFound
	}
	depth := 0
	var quote byte
	for i := open; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return NotFound
}

// MatchingParenReverse returns the index of the '(' balancing the ')' at
// s[close], searching backwards, or NotFound. The backward walk cannot
// honor quoting, so it is only used on code stretches.
func MatchingParenReverse(s string, close int) int {
	if close < 0 || close >= len(s) || s[close] != ')' {
		return NotFound
	}
	depth := 0
	for i := close; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return NotFound
}

// mapCode applies fn to the stretches of s outside quoted text, leaving
// quoted stretches byte-for-byte intact.
func mapCode(s string, fn func(string) string) string {
	var sb strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '\'' || c == '"' {
			j := i + 1
			for j < len(s) && s[j] != c {
				j++
			}
			if j < len(s) {
				j++ // include the closing quote
			}
			sb.WriteString(s[i:j])
			i = j
			continue
		}
		j := i
		for j < len(s) && s[j] != '\'' && s[j] != '"' {
			j++
		}
		sb.WriteString(fn(s[i:j]))
		i = j
	}
	return sb.String()
}

// identAt returns the identifier starting at s[i] and the index just
// past it. An empty name means s[i] does not start an identifier (either
// not a letter, or glued to a preceding identifier character).
func identAt(s string, i int) (name string, end int) {
	if i < 0 || i >= len(s) || !isIdentStart(s[i]) {
		return "", i
	}
	if i > 0 && isIdentByte(s[i-1]) {
		return "", i
	}
	j := i + 1
	for j < len(s) && isIdentByte(s[j]) {
		j++
	}
	return s[i:j], j
}

// skipSpace returns the first index at or after i that is not a blank.
func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// isIntLiteral reports whether s is an optionally signed run of digits.
func isIntLiteral(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// isUintLiteral reports whether s is a bare run of digits.
func isUintLiteral(s string) bool {
	return s != "" && s[0] != '+' && s[0] != '-' && isIntLiteral(s)
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
