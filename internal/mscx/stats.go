package mscx

// ReadStats summarizes one read: what was built and what had to be
// repaired, dropped or skipped along the way.
type ReadStats struct {
	Measures     int
	Chords       int
	Rests        int
	Spanners     int
	Tuplets      int
	Texts        int
	Repaired     int
	Discarded    int
	EmptyTuplets int
	Warnings     int
}

// Clean reports whether the read needed no repair and dropped nothing.
func (s ReadStats) Clean() bool {
	return s.Repaired == 0 && s.Discarded == 0 && s.EmptyTuplets == 0 && s.Warnings == 0
}
