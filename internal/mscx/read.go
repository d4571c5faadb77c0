package mscx

import (
	"fmt"

	"github.com/FigmentBoy/MuseScore/internal/connector"
	"github.com/FigmentBoy/MuseScore/internal/fraction"
	"github.com/FigmentBoy/MuseScore/internal/location"
	"github.com/FigmentBoy/MuseScore/internal/score"
)

// voicesPerStaff is how many voice tracks one staff spans.
const voicesPerStaff = 4

var spannerKinds = map[string]score.SpannerKind{
	"slur":    score.SpannerSlur,
	"tie":     score.SpannerTie,
	"hairpin": score.SpannerHairpin,
	"ottava":  score.SpannerOttava,
	"pedal":   score.SpannerPedal,
	"trill":   score.SpannerTrill,
}

type Option func(*Reader)

// WithDocName names the document in diagnostics.
func WithDocName(name string) Option {
	return func(r *Reader) { r.SetDocName(name) }
}

// WithLineOffset shifts reported line numbers for embedded documents.
func WithLineOffset(n int) Option {
	return func(r *Reader) { r.SetLineOffset(n) }
}

// InsertPoint is where pasted content lands in the destination score.
type InsertPoint struct {
	Tick  fraction.Fraction
	Track int
}

// ReadScore parses a complete score document. Malformed content degrades
// to warnings and repair; only XML-level breakage is returned as an
// error, together with whatever was read up to it.
func ReadScore(data []byte, opts ...Option) (*score.Score, ReadStats, error) {
	r := NewReader(data)
	for _, opt := range opts {
		opt(r)
	}
	s := score.New()
	ctx := NewContext(s)
	defer ctx.Close()

	if !r.ReadNextStartElement() {
		if err := r.Err(); err != nil {
			return s, ctx.Stats(), err
		}
		return s, ctx.Stats(), ErrNoRootElement
	}
	if r.Name() != "score" {
		return s, ctx.Stats(), fmt.Errorf("unexpected root element <%s>", r.Name())
	}
	for r.ReadNextStartElement() {
		switch r.Name() {
		case "style":
			readStyle(r, ctx)
		case "staff":
			readStaff(r, ctx)
		default:
			r.Unknown()
		}
	}

	ctx.CheckConnectors()
	ctx.ReconnectBrokenConnectors()
	finishSpanners(ctx)
	ctx.Close()

	stats := ctx.Stats()
	stats.Measures = len(s.Measures)
	stats.Warnings += r.Warnings()
	return s, stats, r.Err()
}

// ReadFragment parses clipboard-style content into dst at the insertion
// point. Connector fragments are deferred for the whole read and resolve
// at one point; spanners that complete land on the destination only if
// they fit inside it.
func ReadFragment(dst *score.Score, data []byte, at InsertPoint, opts ...Option) (ReadStats, error) {
	r := NewReader(data)
	for _, opt := range opts {
		opt(r)
	}
	ctx := NewContext(dst)
	defer ctx.Close()
	ctx.SetPasteMode(true)
	ctx.SetTickOffset(at.Tick)
	ctx.SetTrackOffset(at.Track)
	ctx.SetDeferConnectors(true)

	if !r.ReadNextStartElement() {
		if err := r.Err(); err != nil {
			return ctx.Stats(), err
		}
		return ctx.Stats(), ErrNoRootElement
	}
	if r.Name() != "fragment" {
		return ctx.Stats(), fmt.Errorf("unexpected root element <%s>", r.Name())
	}
	readContent(r, ctx)

	ctx.SetDeferConnectors(false)
	ctx.CheckConnectors()
	ctx.ReconnectBrokenConnectors()
	ctx.CheckTuplets()
	finishSpanners(ctx)

	end := dst.End()
	for _, sp := range ctx.PastedSpanners() {
		if sp.Tick2.Cmp(end) <= 0 {
			dst.AddSpanner(sp)
			ctx.stats.Spanners++
		} else {
			ctx.Warnf("pasted spanner %d ends at %s, past the score end %s", sp.ID, sp.Tick2, end)
			ctx.stats.Discarded++
		}
	}
	ctx.Close()

	stats := ctx.Stats()
	stats.Warnings += r.Warnings()
	return stats, r.Err()
}

func readStyle(r *Reader, ctx *Context) {
	for r.ReadNextStartElement() {
		switch r.Name() {
		case "textStyle":
			name := r.AttributeOr("name", "")
			if name == "" {
				ctx.Warnf("textStyle without a name")
			} else {
				ctx.AddUserTextStyle(name)
			}
			r.SkipCurrentElement()
		default:
			r.Unknown()
		}
	}
}

func readStaff(r *Reader, ctx *Context) {
	staffID := r.IntAttributeOr("id", 1)
	if staffID < 1 {
		ctx.Warnf("staff with unusable id %d", staffID)
		staffID = 1
	}
	baseTrack := (staffID - 1) * voicesPerStaff
	ctx.Score().ExtendTracks(baseTrack + voicesPerStaff - 1)
	idx := 0
	for r.ReadNextStartElement() {
		switch r.Name() {
		case "measure":
			readMeasure(r, ctx, baseTrack, idx)
			idx++
		default:
			r.Unknown()
		}
	}
	ctx.SetCurrentMeasure(nil)
}

func readMeasure(r *Reader, ctx *Context, baseTrack, idx int) {
	lenText := r.AttributeOr("len", "4/4")
	mlen, err := fraction.Parse(lenText)
	if err != nil || mlen.Num <= 0 || mlen.Den <= 0 {
		ctx.Warnf("measure %d: unusable length %q", idx, lenText)
		mlen = fraction.New(4, 4)
	}
	m := ctx.Score().EnsureMeasure(idx, mlen)
	ctx.SetCurrentMeasure(m)
	voice := 0
	for r.ReadNextStartElement() {
		switch r.Name() {
		case "voice":
			if voice >= voicesPerStaff {
				ctx.Warnf("measure %d: more than %d voices", idx, voicesPerStaff)
				r.SkipCurrentElement()
				continue
			}
			ctx.SetTick(m.Tick)
			ctx.SetTrack(baseTrack + voice)
			readContent(r, ctx)
			voice++
		default:
			r.Unknown()
		}
	}
	ctx.CheckTuplets()
}

// readContent handles the element stream of a voice or a pasted
// fragment.
func readContent(r *Reader, ctx *Context) {
	for r.ReadNextStartElement() {
		switch r.Name() {
		case "location":
			readLocation(r, ctx)
		case "chord":
			readChordRest(r, ctx, false)
		case "rest":
			readChordRest(r, ctx, true)
		case "tuplet":
			readTuplet(r, ctx)
		case "beam":
			readBeam(r, ctx)
		case "spanner":
			readSpanner(r, ctx)
		case "endSpanner":
			readEndSpanner(r, ctx)
		case "text":
			readText(r, ctx)
		default:
			r.Unknown()
		}
	}
}

// readLocation decodes a cursor move. Without abs="1" the fields are
// deltas; with it they are absolute, and unset fields are completed from
// the cursor before the move.
func readLocation(r *Reader, ctx *Context) {
	var l location.Location
	if r.AttributeOr("abs", "") == "1" {
		l = location.Absolute()
	} else {
		l = location.Relative()
	}
	for r.ReadNextStartElement() {
		switch r.Name() {
		case "track":
			if v, err := r.ReadInt(); err == nil {
				l.Track = v
			} else {
				ctx.Warnf("location: %v", err)
			}
		case "frac":
			if f, err := r.ReadFraction(); err == nil {
				l.Frac = f
			} else {
				ctx.Warnf("location: %v", err)
			}
		case "measure":
			if v, err := r.ReadInt(); err == nil {
				l.Measure = v
			} else {
				ctx.Warnf("location: %v", err)
			}
		default:
			r.Unknown()
		}
	}
	if !l.IsRelative() {
		ctx.FillLocation(&l, false)
	}
	ctx.SetLocation(l)
}

func readChordRest(r *Reader, ctx *Context, rest bool) {
	name := r.Name()
	durText := r.AttributeOr("len", "")
	dur, err := fraction.Parse(durText)
	if err != nil || dur.Num <= 0 || dur.Den <= 0 {
		ctx.Warnf("<%s> with unusable length %q", name, durText)
		r.SkipCurrentElement()
		return
	}
	tupletID := r.IntAttributeOr("tuplet", 0)
	beamID := r.IntAttributeOr("beam", 0)

	var notes []score.Note
	if rest {
		r.SkipCurrentElement()
	} else {
		for r.ReadNextStartElement() {
			switch r.Name() {
			case "note":
				notes = append(notes, score.Note{Pitch: r.IntAttributeOr("pitch", 0)})
				r.SkipCurrentElement()
			default:
				r.Unknown()
			}
		}
	}

	track := ctx.Track()
	tick := ctx.Tick()
	var cr *score.ChordRest
	if rest {
		cr = score.NewRest(track, tick, dur)
		ctx.stats.Rests++
	} else {
		cr = score.NewChord(track, tick, dur, notes)
		ctx.stats.Chords++
	}

	if m := ctx.CurrentMeasure(); m != nil {
		m.Add(cr)
	} else if m, ok := ctx.Score().MeasureAt(tick); ok {
		m.Add(cr)
	}

	if tupletID > 0 {
		if t, ok := ctx.Tuplet(tupletID); ok {
			t.Add(cr)
		} else {
			ctx.Warnf("<%s> references missing tuplet %d", name, tupletID)
		}
	}
	if beamID > 0 {
		if b, ok := ctx.Beam(beamID); ok {
			b.Add(cr)
		} else {
			ctx.Warnf("<%s> references missing beam %d", name, beamID)
		}
	}

	ctx.IncTick(dur)
}

// readTuplet handles both forms: a plain declaration that chords refer to
// by id, and, with a role attribute, one end of a fragmented tuplet that
// goes through connector resolution.
func readTuplet(r *Reader, ctx *Context) {
	id := r.IntAttributeOr("id", 0)
	ratio := fraction.New(1, 1)
	if s := r.AttributeOr("ratio", ""); s != "" {
		if f, err := fraction.Parse(s); err == nil {
			ratio = f
		} else {
			ctx.Warnf("tuplet %d: bad ratio %q", id, s)
		}
	}
	base := fraction.Zero()
	if s := r.AttributeOr("base", ""); s != "" {
		if f, err := fraction.Parse(s); err == nil {
			base = f
		} else {
			ctx.Warnf("tuplet %d: bad base length %q", id, s)
		}
	}

	roleAttr := r.AttributeOr("role", "")
	if roleAttr == "" {
		if id <= 0 {
			ctx.Warnf("tuplet declaration without a usable id")
			r.SkipCurrentElement()
			return
		}
		t := score.NewTuplet(id, ctx.Track(), ratio, base)
		t.SetTick(ctx.Tick())
		ctx.AddTuplet(t)
		r.SkipCurrentElement()
		return
	}

	role, err := connector.ParseRole(roleAttr)
	if err != nil {
		ctx.Warnf("tuplet %d: %v", id, err)
		r.SkipCurrentElement()
		return
	}
	var payload any
	if role == connector.RoleStart {
		payload = score.NewTuplet(id, ctx.Track(), ratio, base)
	}
	ctx.AddConnector(connector.NewFragment(id, connector.KindTuplet, role, ctx.Location(true), payload))
	r.SkipCurrentElement()
}

func readBeam(r *Reader, ctx *Context) {
	id := r.IntAttributeOr("id", 0)
	if id <= 0 {
		ctx.Warnf("beam without a usable id")
		r.SkipCurrentElement()
		return
	}
	b := &score.Beam{ID: id, Track: ctx.Track()}
	ctx.AddBeam(b)
	ctx.Score().AddBeam(b)
	r.SkipCurrentElement()
}

// readSpanner handles both forms: without a role attribute the spanner
// starts here and a later <endSpanner> closes it through the registry;
// with one, it is a connector fragment resolved by id and anchors.
func readSpanner(r *Reader, ctx *Context) {
	kindAttr := r.AttributeOr("kind", "")
	kind, ok := spannerKinds[kindAttr]
	if !ok {
		ctx.Warnf("unknown spanner kind %q", kindAttr)
		r.SkipCurrentElement()
		return
	}
	id := r.IntAttributeOr("id", 0)
	roleAttr := r.AttributeOr("role", "")
	if roleAttr == "" {
		sp := &score.Spanner{ID: id, Kind: kind, Track: ctx.Track(), Tick: ctx.Tick()}
		ctx.AddSpanner(id, sp)
		r.SkipCurrentElement()
		return
	}
	role, err := connector.ParseRole(roleAttr)
	if err != nil {
		ctx.Warnf("spanner %d: %v", id, err)
		r.SkipCurrentElement()
		return
	}
	var payload any
	if role == connector.RoleStart {
		payload = &score.Spanner{ID: id, Kind: kind}
	}
	ctx.AddConnector(connector.NewFragment(id, connector.Kind(kind), role, ctx.Location(true), payload))
	r.SkipCurrentElement()
}

func readEndSpanner(r *Reader, ctx *Context) {
	id := r.IntAttributeOr("id", 0)
	sp, ok := ctx.FindSpanner(id)
	if !ok {
		ctx.Warnf("<endSpanner> references missing spanner %d", id)
		r.SkipCurrentElement()
		return
	}
	sp.Track2 = ctx.Track()
	sp.Tick2 = ctx.Tick()
	ctx.RemoveSpanner(sp)
	if ctx.PasteMode() {
		ctx.pastedSpanners = append(ctx.pastedSpanners, sp)
	} else {
		ctx.Score().AddSpanner(sp)
		ctx.stats.Spanners++
	}
	r.SkipCurrentElement()
}

func readText(r *Reader, ctx *Context) {
	styleName := r.AttributeOr("style", "")
	style := ctx.LookupUserTextStyle(styleName)
	if styleName != "" && style == score.TextStyleInvalid {
		ctx.Warnf("text references undefined style %q", styleName)
	}
	value := r.ReadInnerXML()
	ctx.Score().AddText(&score.Text{
		Style: style,
		Track: ctx.Track(),
		Tick:  ctx.Tick(),
		Value: value,
	})
	ctx.stats.Texts++
}

// finishSpanners reports spanners that were opened through the registry
// but never closed. Their objects are dropped.
func finishSpanners(ctx *Context) {
	for _, e := range ctx.spanners {
		ctx.Warnf("spanner %d (%s) never ended", e.id, e.spanner.Kind)
		ctx.stats.Discarded++
	}
	ctx.spanners = nil
}
