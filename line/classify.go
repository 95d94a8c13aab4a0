package line

import (
	"strconv"
	"strings"
)

// Kind tags the syntactic shape of a line. It is assigned once by
// Classify and consulted by later stages instead of re-probing the text.
type Kind int

const (
	Blank Kind = iota
	Comment
	Header // subroutine or function opening line
	End    // end of program unit
	Decl   // type declaration statement
	Param  // parameter constant statement
	Label  // line carrying a numeric statement label
	Loop   // do or do-while
	Cond   // if/elseif/else/endif/enddo
	Call   // subroutine call statement
	Goto   // goto statement
	Assign // assignment statement
	Other  // anything else (return, continue, I/O, ...)
)

var kindNames = [...]string{
	Blank:   "Blank",
	Comment: "Comment",
	Header:  "Header",
	End:     "End",
	Decl:    "Decl",
	Param:   "Param",
	Label:   "Label",
	Loop:    "Loop",
	Cond:    "Cond",
	Call:    "Call",
	Goto:    "Goto",
	Assign:  "Assign",
	Other:   "Other",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// declKeywords are the type keywords that open a declaration statement,
// in their normalized single-word spelling.
var declKeywords = map[string]bool{
	"logical":         true,
	"character":       true,
	"integer":         true,
	"ftnlen":          true,
	"doubleprecision": true,
	"doublecomplex":   true,
}

// IsDeclKeyword reports whether w is a normalized type keyword.
func IsDeclKeyword(w string) bool { return declKeywords[w] }

// Classify inspects one normalized statement (lowercased, keyword
// spelling collapsed, label field already stripped) and returns its
// shape. It probes the leading word only, so it stays cheap and never
// misfires on identifiers that merely begin with a keyword.
func Classify(text string) Kind {
	s := strings.TrimSpace(text)
	if s == "" {
		return Blank
	}
	if strings.HasPrefix(s, "//") {
		return Comment
	}
	w, rest := cutWord(s)
	switch w {
	case "subroutine", "function":
		return Header
	case "parameter":
		if strings.HasPrefix(strings.TrimSpace(rest), "(") {
			return Param
		}
	case "do":
		return Loop
	case "if", "elseif", "else", "then", "endif", "enddo":
		return Cond
	case "end":
		if w2, _ := cutWord(strings.TrimSpace(rest)); w2 == "if" || w2 == "do" {
			return Cond
		}
		return End
	case "call":
		return Call
	case "goto":
		return Goto
	case "go":
		if w2, _ := cutWord(strings.TrimSpace(rest)); w2 == "to" {
			return Goto
		}
	default:
		if declKeywords[w] {
			// "integer function f(n)" opens a unit, not a declaration.
			if w2, _ := cutWord(strings.TrimSpace(trimLenSuffix(rest))); w2 == "function" {
				return Header
			}
			return Decl
		}
	}
	if hasTopLevelAssign(s) {
		return Assign
	}
	return Other
}

// trimLenSuffix skips a "*6" or "*(*)" length tail left over after a
// character keyword so the following word can be probed.
func trimLenSuffix(s string) string {
	if !strings.HasPrefix(s, "*") {
		return s
	}
	s = s[1:]
	if strings.HasPrefix(s, "(") {
		if i := strings.IndexByte(s, ')'); i >= 0 {
			return s[i+1:]
		}
		return ""
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[i:]
}

// cutWord splits off the leading identifier-shaped word.
func cutWord(s string) (word, rest string) {
	i := 0
	for i < len(s) && isWordByte(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// hasTopLevelAssign reports whether s contains a bare = at paren depth
// zero outside quoted text, ignoring the comparison spellings ==, <=,
// >=, !=.
func hasTopLevelAssign(s string) bool {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
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
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '=':
			if depth != 0 {
				continue
			}
			if i > 0 && (s[i-1] == '=' || s[i-1] == '<' || s[i-1] == '>' || s[i-1] == '!') {
				continue
			}
			if i+1 < len(s) && s[i+1] == '=' {
				continue
			}
			return true
		}
	}
	return false
}
