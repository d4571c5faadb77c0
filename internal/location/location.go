package location

import (
	"fmt"

	"github.com/FigmentBoy/MuseScore/internal/fraction"
)

// Location is a point in a score, either absolute or relative to some
// reference point. Absolute locations start out with sentinel values so
// that a reader can tell which fields were actually read from input.
type Location struct {
	Track   int
	Frac    fraction.Fraction
	Measure int
	rel     bool
}

// Absolute returns an absolute location with all fields unset.
func Absolute() Location {
	return Location{
		Track:   -1,
		Frac:    fraction.New(-1, 1),
		Measure: -1,
	}
}

// Relative returns a relative location with zero deltas.
func Relative() Location {
	return Location{
		Frac: fraction.Zero(),
		rel:  true,
	}
}

func (l Location) IsRelative() bool {
	return l.rel
}

// ToAbsolute converts a relative location by adding the reference point.
// Absolute locations are left untouched.
func (l *Location) ToAbsolute(ref Location) {
	if !l.rel {
		return
	}
	l.Track += ref.Track
	l.Frac = l.Frac.Add(ref.Frac).Reduced()
	l.Measure += ref.Measure
	l.rel = false
}

// ToRelative converts an absolute location by subtracting the reference
// point. Relative locations are left untouched.
func (l *Location) ToRelative(ref Location) {
	if l.rel {
		return
	}
	l.Track -= ref.Track
	l.Frac = l.Frac.Sub(ref.Frac).Reduced()
	l.Measure -= ref.Measure
	l.rel = true
}

// Equal reports whether two locations are the same point in the same
// mode. Fractions compare by value.
func (l Location) Equal(o Location) bool {
	return l.rel == o.rel &&
		l.Track == o.Track &&
		l.Measure == o.Measure &&
		l.Frac.Equal(o.Frac)
}

func (l Location) String() string {
	mode := "abs"
	if l.rel {
		mode = "rel"
	}
	return fmt.Sprintf("%s track %d frac %s measure %d", mode, l.Track, l.Frac, l.Measure)
}
