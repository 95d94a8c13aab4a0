package f2cpp

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/soypat/f2cpp/line"
)

// preamble opens every output file. The translated unit leans on the C
// math library, the complex type and exit regardless of what the input
// used, so the includes are fixed.
var preamble = []string{
	"#include <cmath>",
	"#include <complex>",
	"#include <cstdlib>",
	"",
	"using namespace std;",
	"",
}

// emit renders the buffer, the synthesized declarations and the trailing
// advisory report to w, normalizing statement terminators on the way.
// The preamble joins the buffer first, so it renders through the same
// terminator pass as the translated unit.
func (t *Translator) emit(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i := len(preamble) - 1; i >= 0; i-- {
		kind := line.Other
		if preamble[i] == "" {
			kind = line.Blank
		}
		t.buf.InsertFront(line.New(kind, preamble[i], 0))
	}
	for _, l := range t.buf.Lines() {
		if l.Dropped() {
			continue
		}
		text := terminated(l)
		if text == "" {
			bw.WriteByte('\n')
			continue
		}
		bw.WriteString(l.Indent)
		bw.WriteString(text)
		bw.WriteByte('\n')
	}
	if len(t.protos) > 0 || len(t.inlines) > 0 {
		bw.WriteByte('\n')
		for _, p := range t.protos {
			bw.WriteString(p)
			bw.WriteByte('\n')
		}
		for _, in := range t.inlines {
			bw.WriteString(in)
			bw.WriteByte('\n')
		}
		bw.WriteString(diagMarker + " declarations above are guesses from call sites; verify them and move them ahead of the function\n")
	}
	if vars := t.diags.IndexVars(); len(vars) > 0 {
		bw.WriteString(diagMarker + " loop/index variables: " + strings.Join(vars, ", ") + "\n")
	}
	if flagged := t.diags.FlaggedLines(); len(flagged) > 0 {
		nums := make([]string, len(flagged))
		sorted := append([]int(nil), flagged...)
		sort.Ints(sorted)
		for i, n := range sorted {
			nums[i] = strconv.Itoa(n)
		}
		bw.WriteString(diagMarker + " review subscript splits near source lines " + strings.Join(nums, ", ") + "\n")
	}
	if missing := t.diags.MissingLabels(); len(missing) > 0 {
		bw.WriteString(diagMarker + " goto labels never defined: " + strings.Join(missing, ", ") + "\n")
	}
	return bw.Flush()
}

// terminated returns the output text of l with a statement terminator
// added when the line needs one. Findings attached to the line stay
// behind the terminator.
func terminated(l *line.Line) string {
	text := l.Text
	if l.Kind == line.Comment || l.Kind == line.Blank {
		return text
	}
	body, tail := text, ""
	if i := findComment(text); i >= 0 {
		body = strings.TrimRight(text[:i], " ")
		tail = "  " + text[i:]
	}
	if needsSemicolon(body) {
		body += ";"
	}
	if body == "" {
		return strings.TrimSpace(tail)
	}
	return body + tail
}

// needsSemicolon reports whether a statement body needs a C terminator:
// anything not already punctuated and not a brace, label or directive
// line.
func needsSemicolon(body string) bool {
	if body == "" || strings.HasPrefix(body, "//") || strings.HasPrefix(body, "#") {
		return false
	}
	switch body[len(body)-1] {
	case '{', '}', ';', ':':
		return false
	}
	return true
}
