package f2cpp

import (
	"bufio"
	"io"
	"strings"

	"github.com/soypat/f2cpp/line"
)

// fixedReader assembles logical lines from fixed-form source: comment
// conversion, continuation joining, case folding, label extraction.
// Comments that interrupt a continued statement are hoisted above it.
type fixedReader struct {
	out      []*line.Line
	comments []*line.Line
	pending  *pendingStmt
}

type pendingStmt struct {
	text   string
	indent string
	label  string
	src    int
}

// readFixedForm consumes Fortran 77 fixed-form source and returns the
// classified logical-line buffer.
func readFixedForm(r io.Reader) (*line.Buffer, error) {
	var fr fixedReader
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	src := 0
	for sc.Scan() {
		src++
		fr.take(sc.Text(), src)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	fr.flush()
	buf := &line.Buffer{}
	buf.Append(fr.out...)
	return buf, nil
}

// take processes one physical source line. The statement keeps the
// whole left margin of its first physical line as output indent, so the
// translation preserves the visual shape of the source.
func (fr *fixedReader) take(raw string, src int) {
	raw = expandTabs(raw)
	raw = strings.TrimRight(raw, " ")
	if raw == "" {
		fr.flush()
		fr.out = append(fr.out, line.New(line.Blank, "", src))
		return
	}
	if text, ok := commentText(raw); ok {
		cl := line.New(line.Comment, text, src)
		if fr.pending != nil {
			fr.comments = append(fr.comments, cl)
		} else {
			fr.out = append(fr.out, cl)
		}
		return
	}
	if len(raw) > 72 {
		raw = strings.TrimRight(raw[:72], " ")
	}

	labelField := ""
	if len(raw) > 5 {
		labelField = raw[:5]
	} else {
		labelField = raw
	}
	cont := byte(' ')
	if len(raw) > 5 {
		cont = raw[5]
	}
	stmt := ""
	if len(raw) > 6 {
		stmt = raw[6:]
	}

	if cont != ' ' && cont != '0' && strings.TrimSpace(labelField) == "" && fr.pending != nil {
		code, comment := splitBang(stmt)
		fr.pending.text += strings.TrimSpace(code)
		if comment != "" {
			fr.comments = append(fr.comments, line.New(line.Comment, comment, src))
		}
		return
	}

	fr.flush()
	code, comment := splitBang(stmt)
	if comment != "" {
		fr.comments = append(fr.comments, line.New(line.Comment, comment, src))
	}
	fr.pending = &pendingStmt{
		text:   strings.TrimSpace(code),
		indent: leadingSpace(raw),
		label:  labelDigits(labelField),
		src:    src,
	}
}

// flush completes the pending statement, normalizing and classifying it,
// and releases any hoisted comments ahead of it.
func (fr *fixedReader) flush() {
	fr.out = append(fr.out, fr.comments...)
	fr.comments = nil
	p := fr.pending
	if p == nil {
		return
	}
	fr.pending = nil
	text := normalizeStmt(p.text)
	l := line.New(line.Classify(text), text, p.src)
	l.Indent = p.indent
	if p.label != "" {
		l.Label = p.label
		l.Kind = line.Label
	}
	fr.out = append(fr.out, l)
}

// commentText reports whether raw is a full-line comment and returns its
// C++ rendering. A '!' in column 6 is a continuation marker, not a
// comment.
func commentText(raw string) (string, bool) {
	switch raw[0] {
	case 'c', 'C', '*', '!':
		return "// " + strings.TrimSpace(raw[1:]), true
	}
	i := skipSpace(raw, 0)
	if i < len(raw) && raw[i] == '!' && i != 5 {
		return "// " + strings.TrimSpace(raw[i+1:]), true
	}
	return "", false
}

// IsCommentLine reports whether one physical source line is a full-line
// comment under fixed-form column rules. Tab expansion matches the
// reader's, so scanning tools agree with the translator on what is code.
func IsCommentLine(raw string) bool {
	raw = strings.TrimRight(expandTabs(raw), " ")
	if raw == "" {
		return false
	}
	_, ok := commentText(raw)
	return ok
}

// splitBang separates an inline '!' comment (outside quoted text) from
// the code ahead of it. The comment is returned already converted.
func splitBang(stmt string) (code, comment string) {
	var quote byte
	for i := 0; i < len(stmt); i++ {
		c := stmt[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '!':
			return stmt[:i], "// " + strings.TrimSpace(stmt[i+1:])
		}
	}
	return stmt, ""
}

// normalizeStmt folds a statement to lowercase outside quoted text and
// collapses multi-word type spellings so one keyword names one type.
func normalizeStmt(s string) string {
	s = mapCode(s, func(code string) string {
		code = strings.ToLower(code)
		code = strings.ReplaceAll(code, "double precision", "doubleprecision")
		code = strings.ReplaceAll(code, "double complex", "doublecomplex")
		code = strings.ReplaceAll(code, "complex*16", "doublecomplex")
		return code
	})
	// The extern spelling lets declared-but-unresolved procedures keep a
	// C-shaped declaration until the call resolver replaces it.
	if rest, ok := strings.CutPrefix(s, "external"); ok {
		if rest == "" || !isIdentByte(rest[0]) {
			s = "extern" + rest
		}
	}
	return s
}

// expandTabs widens tabs so column positions are meaningful. A tab in
// the label field jumps to column 7, the usual typing convention;
// elsewhere tabs expand to 8-column stops.
func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var sb strings.Builder
	col := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\t' {
			sb.WriteByte(c)
			col++
			continue
		}
		target := (col/8 + 1) * 8
		if col < 6 {
			target = 6
		}
		for col < target {
			sb.WriteByte(' ')
			col++
		}
	}
	return sb.String()
}

// labelDigits returns the numeric statement label in the label field, or
// empty when the field is blank or malformed.
func labelDigits(field string) string {
	field = strings.TrimSpace(field)
	if field == "" {
		return ""
	}
	for i := 0; i < len(field); i++ {
		if !isDigit(field[i]) {
			return ""
		}
	}
	return field
}

func leadingSpace(s string) string {
	i := skipSpace(s, 0)
	return s[:i]
}
