// Package f2cpp translates one fixed-form Fortran 77 program unit into
// C-style C++ source, line by line and best effort. The translator never
// parses a full grammar: it classifies each logical line once, infers
// symbol types and array shapes from the declaration block, and then
// rewrites subscripts, control flow and call sites in place. Anything it
// cannot rewrite is passed through or commented out with an inline
// finding, so the output always appears and always needs a human pass.
//
// Typical use:
//
//	var tr f2cpp.Translator
//	if err := tr.Reset("dscal.f", f); err != nil { ... }
//	if err := tr.Translate(os.Stdout); err != nil { ... }
package f2cpp

import (
	"errors"
	"fmt"
	"io"

	"github.com/soypat/f2cpp/line"
	"github.com/soypat/f2cpp/symbol"
)

// Translator holds the working state for translating one program unit.
// The zero value is not ready for use: call Reset with the source first.
// A Translator may be reused across files, one file at a time.
type Translator struct {
	source string
	buf    *line.Buffer
	ctx    *symbol.Context
	diags  *Diagnostics

	// inference bookkeeping, keyed by buffer line
	decls       map[*line.Line]*declRecord
	params      map[*line.Line][]string
	externs     map[string]*line.Line
	passthrough map[*line.Line]bool // I/O statements the rewrite stages skip

	// call resolution output
	resolved map[string]bool
	protos   []string
	inlines  []string

	extraUnits bool
	analyzed   bool
}

// Reset prepares the translator for a new source file, reading fixed
// form input from r until EOF. The source name only labels errors.
func (t *Translator) Reset(source string, r io.Reader) error {
	buf, err := readFixedForm(r)
	if err != nil {
		return fmt.Errorf("reading %s: %w", source, err)
	}
	t.source = source
	t.buf = buf
	t.ctx = symbol.NewContext()
	t.diags = newDiagnostics()
	t.decls = make(map[*line.Line]*declRecord)
	t.params = make(map[*line.Line][]string)
	t.externs = make(map[string]*line.Line)
	t.passthrough = make(map[*line.Line]bool)
	t.resolved = make(map[string]bool)
	t.protos = nil
	t.inlines = nil
	t.extraUnits = false
	t.analyzed = false
	return nil
}

// Analyze runs type and dimension inference only, populating the symbol
// table without rewriting executable statements. Translate calls it
// automatically; calling it first is useful to inspect what the
// translator learned about a unit.
func (t *Translator) Analyze() {
	if t.buf == nil || t.analyzed {
		return
	}
	t.analyzed = true
	t.inferTypes()
}

// Translate runs the full pipeline over the source given to Reset and
// writes the translated unit to w. The pipeline order is fixed:
// substitution and subscript work need the symbol kinds from inference,
// and call resolution needs the restructured statement text.
func (t *Translator) Translate(w io.Writer) error {
	if t.buf == nil {
		return errors.New("f2cpp: Translate before Reset")
	}
	t.Analyze()
	t.applySubstitutions()
	t.linearizeSubscripts()
	t.restructureControl()
	t.resolveCalls()
	return t.emit(w)
}

// Source returns the name given to Reset.
func (t *Translator) Source() string { return t.source }

// Context exposes the symbol table and unit context of the current run.
// It is nil before the first Reset.
func (t *Translator) Context() *symbol.Context { return t.ctx }

// DiagnosticCount reports how many findings the run recorded so far.
func (t *Translator) DiagnosticCount() int {
	if t.diags == nil {
		return 0
	}
	return t.diags.Count()
}
