package score

import (
	"testing"

	"github.com/FigmentBoy/MuseScore/internal/fraction"
)

func frac(num, den int) fraction.Fraction {
	return fraction.New(num, den)
}

func TestTupletSortElements(t *testing.T) {
	tp := NewTuplet(1, 0, frac(3, 2), frac(1, 8))
	a := NewRest(0, frac(1, 12), frac(1, 12))
	b := NewRest(0, frac(0, 1), frac(1, 12))
	c := NewRest(0, frac(2, 12), frac(1, 12))
	tp.Add(a)
	tp.Add(c)
	tp.Add(b)

	tp.SortElements()
	want := []*ChordRest{b, a, c}
	for i, e := range tp.Elements {
		if e != DurationElement(want[i]) {
			t.Fatalf("element %d out of order", i)
		}
	}
	if !tp.Tick().Equal(frac(0, 1)) {
		t.Errorf("tuplet tick = %v, want 0/1", tp.Tick())
	}
}

func TestTupletSanitize(t *testing.T) {
	tp := NewTuplet(1, 0, frac(0, 0), fraction.Zero())
	tp.Add(NewRest(0, frac(1, 4), frac(1, 12)))
	tp.SortElements()
	tp.Sanitize()

	if tp.Ratio != frac(1, 1) {
		t.Errorf("degenerate ratio not normalized: %v", tp.Ratio)
	}
	if tp.BaseLen.IsZero() {
		t.Error("base length not derived from first element")
	}
	if !tp.Tick().Equal(frac(1, 4)) {
		t.Errorf("start tick = %v, want 1/4", tp.Tick())
	}
}

func TestTupletAddMissingElements(t *testing.T) {
	// A triplet of eighths with the middle element missing.
	tp := NewTuplet(1, 0, frac(3, 2), frac(1, 8))
	tp.Add(NewRest(0, frac(0, 1), frac(1, 12)))
	tp.Add(NewRest(0, frac(2, 12), frac(1, 12)))
	tp.SortElements()
	tp.Sanitize()

	added := tp.AddMissingElements()
	if added != 1 {
		t.Fatalf("added %d elements, want 1", added)
	}
	if len(tp.Elements) != 3 {
		t.Fatalf("have %d elements, want 3", len(tp.Elements))
	}
	mid := tp.Elements[1]
	if !mid.Tick().Equal(frac(1, 12)) {
		t.Errorf("filler at %v, want 1/12", mid.Tick())
	}
	if cr, ok := mid.(*ChordRest); !ok || !cr.Rest {
		t.Error("filler must be a rest")
	}

	if again := tp.AddMissingElements(); again != 0 {
		t.Errorf("second pass added %d elements, want 0", again)
	}
}

func TestTupletDuration(t *testing.T) {
	tp := NewTuplet(1, 0, frac(3, 2), frac(1, 8))
	if !tp.Duration().Equal(frac(1, 4)) {
		t.Errorf("triplet of eighths occupies %v, want 1/4", tp.Duration())
	}
}

func TestNestedTupletCoversSlots(t *testing.T) {
	// Outer triplet of eighths; a nested tuplet covers the last slot.
	outer := NewTuplet(1, 0, frac(3, 2), frac(1, 8))
	outer.Add(NewRest(0, frac(0, 1), frac(1, 12)))
	outer.Add(NewRest(0, frac(1, 12), frac(1, 12)))

	inner := NewTuplet(2, 0, frac(3, 2), frac(1, 24))
	inner.SetTick(frac(2, 12))
	outer.Add(inner)

	outer.SortElements()
	outer.Sanitize()
	if added := outer.AddMissingElements(); added != 0 {
		t.Errorf("nested tuplet should cover its slot, added %d", added)
	}
}
