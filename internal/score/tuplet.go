package score

import (
	"sort"

	"github.com/FigmentBoy/MuseScore/internal/fraction"
)

// Tuplet squeezes Ratio.Num elements of BaseLen into the time of
// Ratio.Den of them. Elements may themselves be tuplets.
type Tuplet struct {
	ID       int
	Track    int
	Ratio    fraction.Fraction
	BaseLen  fraction.Fraction
	Elements []DurationElement

	tick fraction.Fraction
}

func NewTuplet(id, track int, ratio, baseLen fraction.Fraction) *Tuplet {
	return &Tuplet{ID: id, Track: track, Ratio: ratio, BaseLen: baseLen, tick: fraction.Zero()}
}

func (t *Tuplet) Tick() fraction.Fraction {
	return t.tick
}

func (t *Tuplet) SetTick(f fraction.Fraction) {
	t.tick = f
}

// Duration returns the nominal time the tuplet occupies: Ratio.Den
// elements of BaseLen.
func (t *Tuplet) Duration() fraction.Fraction {
	return t.BaseLen.MulInt(t.Ratio.Den)
}

func (t *Tuplet) Add(e DurationElement) {
	if len(t.Elements) == 0 || e.Tick().Less(t.tick) {
		t.tick = e.Tick()
	}
	t.Elements = append(t.Elements, e)
}

// SortElements orders elements by position. Nested tuplets make the
// reading order diverge from the time order.
func (t *Tuplet) SortElements() {
	sort.SliceStable(t.Elements, func(i, j int) bool {
		return t.Elements[i].Tick().Less(t.Elements[j].Tick())
	})
}

// Sanitize repairs structural damage that malformed input can leave
// behind: a degenerate ratio becomes 1/1, a missing base length is taken
// from the first element, and the start tick is recomputed. Elements must
// already be sorted.
func (t *Tuplet) Sanitize() {
	if t.Ratio.Num <= 0 || t.Ratio.Den <= 0 {
		t.Ratio = fraction.New(1, 1)
	}
	if len(t.Elements) == 0 {
		return
	}
	first := t.Elements[0]
	if t.BaseLen.IsZero() {
		t.BaseLen = first.Duration().Mul(fraction.New(t.Ratio.Num, t.Ratio.Den))
	}
	t.tick = first.Tick()
}

// AddMissingElements fills time slots no element covers with rests and
// returns how many were added.
func (t *Tuplet) AddMissingElements() int {
	if len(t.Elements) == 0 || t.Ratio.Num <= 0 || t.Ratio.Den <= 0 {
		return 0
	}
	added := 0
	// Sounding width of one base slot.
	slot := t.BaseLen.Mul(fraction.New(t.Ratio.Den, t.Ratio.Num))
	if slot.IsZero() {
		return 0
	}
	for i := 0; i < t.Ratio.Num; i++ {
		at := t.tick.Add(slot.MulInt(i)).Reduced()
		if !t.covers(at) {
			t.Elements = append(t.Elements, NewRest(t.Track, at, slot))
			added++
		}
	}
	if added > 0 {
		t.SortElements()
	}
	return added
}

func (t *Tuplet) covers(at fraction.Fraction) bool {
	for _, e := range t.Elements {
		start := e.Tick()
		end := start.Add(e.Duration())
		if start.Cmp(at) <= 0 && at.Cmp(end) < 0 {
			return true
		}
	}
	return false
}
