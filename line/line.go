// Package line holds the working representation of a source file during
// translation: a flat buffer of classified lines that every stage reads
// and rewrites in place. Stages that change the line structure build a
// new sequence with a Builder instead of editing indices, so that any
// *Line held elsewhere (a declaration anchor, a unit header) stays valid
// across rebuilds.
package line

// Line is one logical source line after continuation joining. Text holds
// the statement with surrounding blanks stripped; Indent is the original
// leading whitespace, reapplied on output.
type Line struct {
	Text   string
	Indent string
	Src    int    // 1-based line number in the original file
	Label  string // numeric statement label, empty when none
	Kind   Kind

	dropped bool
}

// New returns a fresh line carrying text classified as kind.
func New(kind Kind, text string, src int) *Line {
	return &Line{Kind: kind, Text: text, Src: src}
}

// Drop marks the line as removed from the output while keeping it in the
// buffer so pointers to it remain usable.
func (l *Line) Drop() { l.dropped = true }

// Dropped reports whether the line was removed from the output.
func (l *Line) Dropped() bool { return l.dropped }

// Buffer is the ordered sequence of logical lines for one source file.
type Buffer struct {
	lines []*Line
}

// Append adds lines to the end of the buffer.
func (b *Buffer) Append(lines ...*Line) {
	b.lines = append(b.lines, lines...)
}

// InsertFront places l before every existing line.
func (b *Buffer) InsertFront(l *Line) {
	b.lines = append([]*Line{l}, b.lines...)
}

// Len returns the number of lines, dropped ones included.
func (b *Buffer) Len() int { return len(b.lines) }

// At returns the i-th line.
func (b *Buffer) At(i int) *Line { return b.lines[i] }

// Lines exposes the backing slice for iteration. Callers must not
// reorder it; use a Builder for structural edits.
func (b *Buffer) Lines() []*Line { return b.lines }

// Builder assembles a replacement line sequence. Existing lines are
// carried over with Keep so pointers held by other stages survive; newly
// synthesized lines are created with Add.
type Builder struct {
	out []*Line
}

// Keep appends an existing line to the new sequence.
func (bd *Builder) Keep(l *Line) { bd.out = append(bd.out, l) }

// Add synthesizes a new line and appends it.
func (bd *Builder) Add(kind Kind, text string, src int) *Line {
	l := New(kind, text, src)
	bd.out = append(bd.out, l)
	return l
}

// Buffer returns the assembled sequence as a fresh buffer.
func (bd *Builder) Buffer() *Buffer {
	return &Buffer{lines: bd.out}
}
