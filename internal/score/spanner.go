package score

import "github.com/FigmentBoy/MuseScore/internal/fraction"

type SpannerKind string

const (
	SpannerSlur    SpannerKind = "slur"
	SpannerTie     SpannerKind = "tie"
	SpannerHairpin SpannerKind = "hairpin"
	SpannerOttava  SpannerKind = "ottava"
	SpannerPedal   SpannerKind = "pedal"
	SpannerTrill   SpannerKind = "trill"
)

// Spanner is an element stretched between two anchor points, possibly on
// different tracks.
type Spanner struct {
	ID     int
	Kind   SpannerKind
	Track  int
	Track2 int
	Tick   fraction.Fraction
	Tick2  fraction.Fraction
}

// Beam groups chords under one beam. Unlike spanners, beams are resolved
// by id reference, not by anchor matching.
type Beam struct {
	ID       int
	Track    int
	Elements []DurationElement
}

func (b *Beam) Add(e DurationElement) {
	b.Elements = append(b.Elements, e)
}
