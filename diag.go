package f2cpp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soypat/f2cpp/line"
)

// diagMarker prefixes every inline finding so translated output can be
// grepped for spots that need human attention.
const diagMarker = "// f2cpp:"

// Diagnostics collects the non-fatal findings of one translation run.
// Findings surface as inline comments on the affected line and in the
// trailing report; nothing recorded here ever stops the run.
type Diagnostics struct {
	count     int
	indexVars map[string]bool
	flagged   []int    // source lines whose subscript split was ambiguous
	missing   []string // do-loop target labels never seen in the unit
}

func newDiagnostics() *Diagnostics {
	return &Diagnostics{indexVars: make(map[string]bool)}
}

// Reportf appends a finding to the affected line as an inline comment.
// A line can carry several findings; they share one comment tail, and a
// finding repeated verbatim (a rewrite pass revisiting the same text)
// is recorded once.
func (d *Diagnostics) Reportf(l *line.Line, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if i := findComment(l.Text); i >= 0 {
		if strings.Contains(l.Text[i:], msg) {
			return
		}
		d.count++
		l.Text += "; " + msg
		return
	}
	d.count++
	if l.Text != "" {
		l.Text += "  "
	}
	l.Text += diagMarker + " " + msg
}

// NoteIndexVar records a name used as a loop or subscript index, for the
// trailing report.
func (d *Diagnostics) NoteIndexVar(name string) {
	d.indexVars[name] = true
}

// FlagSubscript records that the subscript split on the given source
// line was ambiguous and should be reviewed by hand.
func (d *Diagnostics) FlagSubscript(src int) {
	d.count++
	for _, f := range d.flagged {
		if f == src {
			d.count--
			return
		}
	}
	d.flagged = append(d.flagged, src)
}

// NoteMissingLabel records a do-loop target label that never appeared,
// which usually means the loop body will not close itself.
func (d *Diagnostics) NoteMissingLabel(label string) {
	d.count++
	d.missing = append(d.missing, label)
}

// Count returns the number of findings recorded so far.
func (d *Diagnostics) Count() int { return d.count }

// IndexVars returns the recorded index variable names, sorted.
func (d *Diagnostics) IndexVars() []string {
	vars := make([]string, 0, len(d.indexVars))
	for v := range d.indexVars {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	return vars
}

// FlaggedLines returns the source lines flagged for subscript review.
func (d *Diagnostics) FlaggedLines() []int { return d.flagged }

// MissingLabels returns do-loop target labels that never appeared.
func (d *Diagnostics) MissingLabels() []string { return d.missing }

// findComment returns the index of the inline finding marker in s, or
// -1. Quoted text cannot contain the marker since the reader hoists
// source comments onto their own lines.
func findComment(s string) int {
	return strings.Index(s, diagMarker)
}

// setText replaces the statement text on l while carrying over any
// findings already attached to it.
func setText(l *line.Line, text string) {
	if i := findComment(l.Text); i >= 0 {
		l.Text = text + "  " + l.Text[i:]
		return
	}
	l.Text = text
}

// stmtBody returns the statement text of l without its finding tail.
func stmtBody(l *line.Line) string {
	if i := findComment(l.Text); i >= 0 {
		return strings.TrimSpace(l.Text[:i])
	}
	return l.Text
}
