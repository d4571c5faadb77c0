package score

import "github.com/FigmentBoy/MuseScore/internal/fraction"

// Score is the in-memory document a reader builds: measures in order,
// plus the elements that are anchored across them.
type Score struct {
	Measures []*Measure
	Spanners []*Spanner
	Tuplets  []*Tuplet
	Beams    []*Beam
	Texts    []*Text
	Tracks   int
}

func New() *Score {
	return &Score{}
}

// EnsureMeasure returns the measure at idx, appending measures as needed.
// A newly created measure gets the given nominal length and starts where
// the previous one ends; an existing measure keeps its length.
func (s *Score) EnsureMeasure(idx int, length fraction.Fraction) *Measure {
	for len(s.Measures) <= idx {
		tick := fraction.Zero()
		if n := len(s.Measures); n > 0 {
			prev := s.Measures[n-1]
			tick = prev.Tick.Add(prev.Len).Reduced()
		}
		s.Measures = append(s.Measures, &Measure{
			Index: len(s.Measures),
			Tick:  tick,
			Len:   length,
		})
	}
	return s.Measures[idx]
}

func (s *Score) Measure(idx int) (*Measure, bool) {
	if idx < 0 || idx >= len(s.Measures) {
		return nil, false
	}
	return s.Measures[idx], true
}

// MeasureAt returns the measure containing the given absolute tick.
func (s *Score) MeasureAt(tick fraction.Fraction) (*Measure, bool) {
	for i := len(s.Measures) - 1; i >= 0; i-- {
		m := s.Measures[i]
		if m.Tick.Cmp(tick) <= 0 {
			if i == len(s.Measures)-1 && tick.Cmp(m.Tick.Add(m.Len)) >= 0 {
				return nil, false
			}
			return m, true
		}
	}
	return nil, false
}

// End returns the tick just past the last measure.
func (s *Score) End() fraction.Fraction {
	if n := len(s.Measures); n > 0 {
		last := s.Measures[n-1]
		return last.Tick.Add(last.Len).Reduced()
	}
	return fraction.Zero()
}

func (s *Score) AddSpanner(sp *Spanner) {
	s.Spanners = append(s.Spanners, sp)
}

func (s *Score) AddTuplet(t *Tuplet) {
	s.Tuplets = append(s.Tuplets, t)
}

func (s *Score) AddBeam(b *Beam) {
	s.Beams = append(s.Beams, b)
}

func (s *Score) AddText(t *Text) {
	s.Texts = append(s.Texts, t)
}

// ExtendTracks grows the track count to cover the given track index.
func (s *Score) ExtendTracks(track int) {
	if track+1 > s.Tracks {
		s.Tracks = track + 1
	}
}

// Measure is a time slice of the score. Elements holds the chords, rests
// and tuplets anchored in it, in reading order.
type Measure struct {
	Index    int
	Tick     fraction.Fraction
	Len      fraction.Fraction
	Elements []DurationElement
}

func (m *Measure) Add(e DurationElement) {
	m.Elements = append(m.Elements, e)
}

// EndTick returns the tick just past this measure.
func (m *Measure) EndTick() fraction.Fraction {
	return m.Tick.Add(m.Len).Reduced()
}
