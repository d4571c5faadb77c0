package score

import "github.com/FigmentBoy/MuseScore/internal/fraction"

// DurationElement is anything that occupies time: chords, rests and
// (nested) tuplets.
type DurationElement interface {
	Tick() fraction.Fraction
	Duration() fraction.Fraction
}

type Note struct {
	Pitch int
}

// ChordRest is a chord or a rest at a fixed position.
type ChordRest struct {
	Track int
	Rest  bool
	Notes []Note

	tick fraction.Fraction
	dur  fraction.Fraction
}

func NewChord(track int, tick, dur fraction.Fraction, notes []Note) *ChordRest {
	return &ChordRest{Track: track, Notes: notes, tick: tick, dur: dur}
}

func NewRest(track int, tick, dur fraction.Fraction) *ChordRest {
	return &ChordRest{Track: track, Rest: true, tick: tick, dur: dur}
}

func (c *ChordRest) Tick() fraction.Fraction {
	return c.tick
}

func (c *ChordRest) Duration() fraction.Fraction {
	return c.dur
}
