package mscx

import (
	"fmt"
	"testing"

	"github.com/FigmentBoy/MuseScore/internal/connector"
	"github.com/FigmentBoy/MuseScore/internal/fraction"
	"github.com/FigmentBoy/MuseScore/internal/location"
	"github.com/FigmentBoy/MuseScore/internal/score"
)

func testScoreWithMeasures(n int) *score.Score {
	s := score.New()
	for i := 0; i < n; i++ {
		s.EnsureMeasure(i, fraction.New(4, 4))
	}
	return s
}

func absLoc(track, num, den int) location.Location {
	l := location.Absolute()
	l.Track = track
	l.Frac = fraction.New(num, den)
	l.Measure = 0
	return l
}

func TestSetLocationRoundTripNormalMode(t *testing.T) {
	s := testScoreWithMeasures(2)
	ctx := NewContext(s)
	m1, _ := s.Measure(1)
	ctx.SetCurrentMeasure(m1)
	ctx.SetTick(fraction.New(5, 4))
	ctx.SetTrack(2)

	ctx.SetLocation(ctx.Location(false))

	if got := ctx.Tick(); !got.Equal(fraction.New(5, 4)) {
		t.Errorf("Tick() = %v, want 5/4", got)
	}
	if got := ctx.Track(); got != 2 {
		t.Errorf("Track() = %d, want 2", got)
	}
	if n := ctx.Stats().Warnings; n != 0 {
		t.Errorf("round trip produced %d warnings", n)
	}
}

func TestSetLocationRoundTripPasteMode(t *testing.T) {
	ctx := NewContext(score.New())
	ctx.SetPasteMode(true)
	ctx.SetTickOffset(fraction.New(1, 2))
	ctx.SetTrackOffset(4)
	ctx.SetTick(fraction.New(1, 4))
	ctx.SetTrack(1)

	ctx.SetLocation(ctx.Location(false))

	if got := ctx.Tick(); !got.Equal(fraction.New(3, 4)) {
		t.Errorf("Tick() = %v, want 3/4", got)
	}
	if got := ctx.Track(); got != 5 {
		t.Errorf("Track() = %d, want 5", got)
	}
}

func TestSetLocationRelativeTrackMove(t *testing.T) {
	s := testScoreWithMeasures(1)
	ctx := NewContext(s)
	m0, _ := s.Measure(0)
	ctx.SetCurrentMeasure(m0)
	ctx.SetTick(fraction.New(1, 2))
	ctx.SetTrack(0)

	rel := location.Relative()
	rel.Track = 2
	ctx.SetLocation(rel)

	if got := ctx.Track(); got != 2 {
		t.Errorf("Track() = %d, want 2", got)
	}
	if got := ctx.Tick(); !got.Equal(fraction.New(1, 2)) {
		t.Errorf("Tick() = %v, want 1/2", got)
	}
	if want := fraction.New(1, 2).Ticks(); ctx.intTick != want {
		t.Errorf("intTick = %d, want %d", ctx.intTick, want)
	}
}

func TestSetLocationResyncsDriftedMirror(t *testing.T) {
	s := testScoreWithMeasures(1)
	ctx := NewContext(s)
	m0, _ := s.Measure(0)
	ctx.SetCurrentMeasure(m0)
	// Seven septuplet increments sum to exactly one whole note, but each
	// one truncates in the integer mirror.
	for i := 0; i < 7; i++ {
		ctx.IncTick(fraction.New(1, 7))
	}
	exact := fraction.New(1, 1).Ticks()
	if ctx.intTick == exact {
		t.Fatal("mirror did not drift; test premise broken")
	}

	rel := location.Relative()
	rel.Track = 1
	ctx.SetLocation(rel)

	if got := ctx.Tick(); !got.Equal(fraction.New(1, 1)) {
		t.Errorf("Tick() = %v, want 1/1", got)
	}
	if got := ctx.Track(); got != 1 {
		t.Errorf("Track() = %d, want 1", got)
	}
	if ctx.intTick != exact {
		t.Errorf("intTick = %d, want %d after resync", ctx.intTick, exact)
	}
	if n := ctx.Stats().Warnings; n != 0 {
		t.Errorf("resync produced %d warnings", n)
	}
}

func TestSetLocationMeasureMismatchWarns(t *testing.T) {
	s := testScoreWithMeasures(2)
	ctx := NewContext(s)
	m1, _ := s.Measure(1)
	ctx.SetCurrentMeasure(m1)

	l := absLoc(0, 1, 4)
	l.Measure = 0 // wrong: the reader is in measure 1
	ctx.SetLocation(l)

	if n := ctx.Stats().Warnings; n != 1 {
		t.Errorf("Warnings = %d, want 1", n)
	}
	if got := ctx.Tick(); !got.Equal(fraction.New(5, 4)) {
		t.Errorf("Tick() = %v, want 5/4", got)
	}
}

func TestFillLocation(t *testing.T) {
	s := testScoreWithMeasures(2)
	ctx := NewContext(s)
	m1, _ := s.Measure(1)
	ctx.SetCurrentMeasure(m1)
	ctx.SetTick(fraction.New(3, 2))
	ctx.SetTrack(5)

	l := location.Absolute()
	ctx.FillLocation(&l, false)
	want := location.Absolute()
	want.Track = 5
	want.Frac = fraction.New(1, 2) // measure-relative
	want.Measure = 1
	if !l.Equal(want) {
		t.Errorf("FillLocation() = %v, want %v", l, want)
	}

	// Fields already read from input stay untouched.
	preset := location.Absolute()
	preset.Track = 9
	preset.Frac = fraction.New(7, 8)
	preset.Measure = 0
	kept := preset
	ctx.FillLocation(&kept, false)
	if !kept.Equal(preset) {
		t.Errorf("FillLocation overwrote preset fields: %v", kept)
	}

	forced := location.Absolute()
	ctx.FillLocation(&forced, true)
	want = location.Absolute()
	want.Track = 5
	want.Frac = fraction.New(3, 2) // absolute
	want.Measure = 0
	if !forced.Equal(want) {
		t.Errorf("FillLocation(force) = %v, want %v", forced, want)
	}
}

func TestAddUserTextStyleSlots(t *testing.T) {
	ctx := NewContext(score.New())
	for i := 0; i < score.MaxUserTextStyles; i++ {
		name := fmt.Sprintf("User Style %d", i+1)
		got := ctx.AddUserTextStyle(name)
		want := score.TextStyleUser1 + score.TextStyleType(i)
		if got != want {
			t.Fatalf("AddUserTextStyle(%q) = %v, want %v", name, got, want)
		}
	}
	if got := ctx.AddUserTextStyle("overflow"); got != score.TextStyleInvalid {
		t.Errorf("13th style = %v, want invalid", got)
	}
	if n := ctx.Stats().Warnings; n != 1 {
		t.Errorf("Warnings = %d, want 1", n)
	}
	if got := ctx.LookupUserTextStyle("User Style 12"); got != score.TextStyleUser12 {
		t.Errorf("LookupUserTextStyle = %v, want user12", got)
	}
	if got := ctx.LookupUserTextStyle("nope"); got != score.TextStyleInvalid {
		t.Errorf("unknown style = %v, want invalid", got)
	}
}

func TestSpannerRegistry(t *testing.T) {
	ctx := NewContext(score.New())
	a := &score.Spanner{ID: 3, Kind: score.SpannerSlur}
	b := &score.Spanner{ID: 3, Kind: score.SpannerTie}
	ctx.AddSpanner(3, a)
	ctx.AddSpanner(3, b)

	if sp, ok := ctx.FindSpanner(3); !ok || sp != a {
		t.Error("FindSpanner should return the first entry registered under an id")
	}
	ctx.RemoveSpanner(a)
	if sp, ok := ctx.FindSpanner(3); !ok || sp != b {
		t.Error("after RemoveSpanner, the next entry should surface")
	}
	if id, ok := ctx.SpannerID(b); !ok || id != 3 {
		t.Errorf("SpannerID = (%d, %v), want (3, true)", id, ok)
	}
	if n := ctx.Stats().Warnings; n != 0 {
		t.Fatalf("registered lookups warned %d times", n)
	}
	if id, ok := ctx.SpannerID(a); ok || id != -1 {
		t.Errorf("SpannerID on removed spanner = (%d, %v), want (-1, false)", id, ok)
	}
	if n := ctx.Stats().Warnings; n != 1 {
		t.Errorf("Warnings = %d, want 1", n)
	}
	if _, ok := ctx.FindSpanner(4); ok {
		t.Error("FindSpanner invented an entry")
	}
}

func TestCheckTupletsDropsEmptyAndAttachesRest(t *testing.T) {
	s := score.New()
	ctx := NewContext(s)

	full := score.NewTuplet(1, 0, fraction.New(1, 1), fraction.New(1, 4))
	full.Add(score.NewChord(0, fraction.New(1, 2), fraction.New(1, 4), nil))
	ctx.AddTuplet(full)

	empty := score.NewTuplet(2, 0, fraction.New(3, 2), fraction.New(1, 8))
	ctx.AddTuplet(empty)

	ctx.CheckTuplets()

	if len(s.Tuplets) != 1 || s.Tuplets[0] != full {
		t.Fatalf("score got %d tuplets", len(s.Tuplets))
	}
	st := ctx.Stats()
	if st.Tuplets != 1 || st.EmptyTuplets != 1 || st.Warnings != 1 {
		t.Errorf("stats = %+v", st)
	}
	if _, ok := ctx.Tuplet(1); ok {
		t.Error("registry should be empty after CheckTuplets")
	}
	if !full.Tick().Equal(fraction.New(1, 2)) {
		t.Errorf("tuplet tick = %v, want 1/2", full.Tick())
	}
	if len(full.Elements) != 1 {
		t.Errorf("covered tuplet grew to %d elements", len(full.Elements))
	}
}

func TestCheckTupletsSortsElements(t *testing.T) {
	s := score.New()
	ctx := NewContext(s)
	tp := score.NewTuplet(1, 0, fraction.New(3, 2), fraction.New(1, 8))
	late := score.NewChord(0, fraction.New(1, 6), fraction.New(1, 12), nil)
	early := score.NewChord(0, fraction.Zero(), fraction.New(1, 12), nil)
	mid := score.NewChord(0, fraction.New(1, 12), fraction.New(1, 12), nil)
	tp.Add(late)
	tp.Add(early)
	tp.Add(mid)
	ctx.AddTuplet(tp)

	ctx.CheckTuplets()

	if len(tp.Elements) != 3 {
		t.Fatalf("tuplet has %d elements, want 3", len(tp.Elements))
	}
	for i, want := range []*score.ChordRest{early, mid, late} {
		if tp.Elements[i] != score.DurationElement(want) {
			t.Errorf("element %d out of order", i)
		}
	}
}

func TestConnectorCommitSpanner(t *testing.T) {
	s := score.New()
	ctx := NewContext(s)
	sp := &score.Spanner{ID: 4, Kind: score.SpannerHairpin}
	ctx.AddConnector(connector.NewFragment(4, connector.KindHairpin, connector.RoleStart, absLoc(1, 0, 1), sp))
	ctx.AddConnector(connector.NewFragment(4, connector.KindHairpin, connector.RoleEnd, absLoc(1, 1, 2), nil))

	if len(s.Spanners) != 1 || s.Spanners[0] != sp {
		t.Fatalf("score got %d spanners", len(s.Spanners))
	}
	if sp.Track != 1 || sp.Track2 != 1 {
		t.Errorf("tracks = (%d, %d), want (1, 1)", sp.Track, sp.Track2)
	}
	if !sp.Tick.Equal(fraction.Zero()) || !sp.Tick2.Equal(fraction.New(1, 2)) {
		t.Errorf("ticks = (%v, %v), want (0/1, 1/2)", sp.Tick, sp.Tick2)
	}
	if n := ctx.Stats().Spanners; n != 1 {
		t.Errorf("stats.Spanners = %d, want 1", n)
	}
}

func TestConnectorCommitTuplet(t *testing.T) {
	s := score.New()
	ctx := NewContext(s)
	tp := score.NewTuplet(6, 0, fraction.New(3, 2), fraction.New(1, 8))
	ctx.AddConnector(connector.NewFragment(6, connector.KindTuplet, connector.RoleStart, absLoc(2, 1, 4), tp))
	ctx.AddConnector(connector.NewFragment(6, connector.KindTuplet, connector.RoleEnd, absLoc(2, 3, 8), nil))

	if len(s.Tuplets) != 1 || s.Tuplets[0] != tp {
		t.Fatalf("score got %d tuplets", len(s.Tuplets))
	}
	if tp.Track != 2 {
		t.Errorf("track = %d, want 2", tp.Track)
	}
	if !tp.Tick().Equal(fraction.New(1, 4)) {
		t.Errorf("tick = %v, want 1/4", tp.Tick())
	}
	if n := ctx.Stats().Tuplets; n != 1 {
		t.Errorf("stats.Tuplets = %d, want 1", n)
	}
}

func TestPasteModeStagesCommittedSpanners(t *testing.T) {
	s := score.New()
	ctx := NewContext(s)
	ctx.SetPasteMode(true)
	sp := &score.Spanner{ID: 1, Kind: score.SpannerSlur}
	ctx.AddConnector(connector.NewFragment(1, connector.KindSlur, connector.RoleStart, absLoc(0, 0, 1), sp))
	ctx.AddConnector(connector.NewFragment(1, connector.KindSlur, connector.RoleEnd, absLoc(0, 1, 4), nil))

	if len(s.Spanners) != 0 {
		t.Fatal("paste mode attached a spanner directly")
	}
	staged := ctx.PastedSpanners()
	if len(staged) != 1 || staged[0] != sp {
		t.Fatalf("staged %d spanners", len(staged))
	}
	if n := ctx.Stats().Spanners; n != 0 {
		t.Errorf("stats.Spanners = %d before attachment", n)
	}
}

func TestDeferredConnectorsResolveAtCheck(t *testing.T) {
	s := score.New()
	ctx := NewContext(s)
	ctx.SetDeferConnectors(true)
	sp := &score.Spanner{ID: 2, Kind: score.SpannerTie}
	ctx.AddConnector(connector.NewFragment(2, connector.KindTie, connector.RoleStart, absLoc(0, 0, 1), sp))
	ctx.AddConnector(connector.NewFragment(2, connector.KindTie, connector.RoleEnd, absLoc(0, 1, 4), nil))

	if len(s.Spanners) != 0 {
		t.Fatal("deferred fragments resolved early")
	}
	ctx.SetDeferConnectors(false)
	ctx.CheckConnectors()
	if len(s.Spanners) != 1 {
		t.Fatalf("score got %d spanners after CheckConnectors", len(s.Spanners))
	}
}

func TestReconnectBrokenConnectorsRepairs(t *testing.T) {
	s := score.New()
	ctx := NewContext(s)
	sp := &score.Spanner{ID: 1, Kind: score.SpannerSlur}
	ctx.AddConnector(connector.NewFragment(1, connector.KindSlur, connector.RoleStart, absLoc(0, 0, 1), sp))
	ctx.AddConnector(connector.NewFragment(99, connector.KindSlur, connector.RoleEnd, absLoc(0, 1, 2), nil))

	if len(s.Spanners) != 0 {
		t.Fatal("mismatched ids paired during normal matching")
	}
	ctx.ReconnectBrokenConnectors()
	if n := ctx.Stats().Repaired; n != 1 {
		t.Errorf("stats.Repaired = %d, want 1", n)
	}
	if len(s.Spanners) != 1 {
		t.Fatalf("score got %d spanners after repair", len(s.Spanners))
	}
	if !sp.Tick2.Equal(fraction.New(1, 2)) {
		t.Errorf("repaired end tick = %v, want 1/2", sp.Tick2)
	}
}

func TestCloseKeepsTupletsDiscardsRest(t *testing.T) {
	s := score.New()
	ctx := NewContext(s)
	tp := score.NewTuplet(7, 0, fraction.New(3, 2), fraction.New(1, 8))
	ctx.AddConnector(connector.NewFragment(7, connector.KindTuplet, connector.RoleStart, absLoc(0, 0, 1), tp))
	orphan := &score.Spanner{ID: 9, Kind: score.SpannerSlur}
	ctx.AddConnector(connector.NewFragment(9, connector.KindSlur, connector.RoleStart, absLoc(0, 1, 4), orphan))
	ctx.SetDeferConnectors(true)
	ctx.AddConnector(connector.NewFragment(1, connector.KindTie, connector.RoleStart, absLoc(0, 1, 2), &score.Spanner{ID: 1}))

	ctx.Close()

	if len(s.Tuplets) != 1 || s.Tuplets[0] != tp {
		t.Fatalf("unfinished tuplet was not preserved, score has %d", len(s.Tuplets))
	}
	st := ctx.Stats()
	if st.Tuplets != 1 {
		t.Errorf("stats.Tuplets = %d, want 1", st.Tuplets)
	}
	if st.Discarded != 2 {
		t.Errorf("stats.Discarded = %d, want 2", st.Discarded)
	}
	if len(s.Spanners) != 0 {
		t.Error("unfinished spanner leaked into the score")
	}

	ctx.Close()
	if got := ctx.Stats(); got != st {
		t.Errorf("second Close changed stats: %+v -> %+v", st, got)
	}
}
