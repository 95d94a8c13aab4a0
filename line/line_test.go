package line

import "testing"

func TestBuilderKeepsPointers(t *testing.T) {
	var buf Buffer
	a := New(Assign, "x = 1", 1)
	b := New(Other, "return", 2)
	buf.Append(a, b)

	var bd Builder
	bd.Keep(a)
	lbl := bd.Add(Label, "unit_L10:", 2)
	bd.Keep(b)
	out := bd.Buffer()

	if out.Len() != 3 {
		t.Fatalf("Len = %d, want 3", out.Len())
	}
	if out.At(0) != a || out.At(2) != b {
		t.Error("kept lines lost pointer identity across rebuild")
	}
	if out.At(1) != lbl {
		t.Error("added line not in sequence")
	}
	// Mutation through the old pointer must be visible in the new buffer.
	a.Text = "x = 2"
	if out.At(0).Text != "x = 2" {
		t.Error("rebuild copied line contents instead of sharing them")
	}
}

func TestDrop(t *testing.T) {
	l := New(Decl, "integer i", 3)
	if l.Dropped() {
		t.Fatal("fresh line reports dropped")
	}
	l.Drop()
	if !l.Dropped() {
		t.Fatal("Drop did not stick")
	}
}

func TestInsertFront(t *testing.T) {
	var buf Buffer
	buf.Append(New(Other, "return", 1))
	buf.InsertFront(New(Other, "using namespace std;", 0))
	if buf.At(0).Text != "using namespace std;" {
		t.Errorf("front line = %q", buf.At(0).Text)
	}
	if buf.Len() != 2 {
		t.Errorf("Len = %d, want 2", buf.Len())
	}
}
