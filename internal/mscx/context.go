package mscx

import (
	"github.com/FigmentBoy/MuseScore/internal/connector"
	"github.com/FigmentBoy/MuseScore/internal/fraction"
	"github.com/FigmentBoy/MuseScore/internal/score"
)

// Context is the state of one reading session: the cursor, the reference
// registries, and the connector pool. Each read builds its own context
// and closes it when done.
type Context struct {
	score *score.Score

	tick        fraction.Fraction
	intTick     int
	track       int
	trackOffset int
	tickOffset  fraction.Fraction
	curMeasure  *score.Measure
	pasteMode   bool

	beams      map[int]*score.Beam
	tuplets    map[int]*score.Tuplet
	spanners   []spannerEntry
	userStyles []userTextStyle

	pool            *connector.Pool
	deferConnectors bool
	pastedSpanners  []*score.Spanner

	stats  ReadStats
	closed bool
}

type spannerEntry struct {
	id      int
	spanner *score.Spanner
}

type userTextStyle struct {
	name  string
	style score.TextStyleType
}

func NewContext(s *score.Score) *Context {
	c := &Context{
		score:      s,
		tick:       fraction.Zero(),
		tickOffset: fraction.Zero(),
		beams:      make(map[int]*score.Beam),
		tuplets:    make(map[int]*score.Tuplet),
	}
	c.pool = connector.NewPool(c.commitConnector)
	return c
}

func (c *Context) Score() *score.Score {
	return c.score
}

func (c *Context) PasteMode() bool {
	return c.pasteMode
}

func (c *Context) SetPasteMode(v bool) {
	c.pasteMode = v
}

// Stats returns a snapshot of the session counters.
func (c *Context) Stats() ReadStats {
	return c.stats
}

// Warnf logs a recoverable input problem and counts it.
func (c *Context) Warnf(format string, args ...any) {
	log.Warningf(format, args...)
	c.stats.Warnings++
}

// AddConnector feeds a fragment to the pool, or queues it when connector
// resolution is deferred during a nested read.
func (c *Context) AddConnector(f *connector.Fragment) {
	if c.deferConnectors {
		c.pool.Defer(f)
		return
	}
	c.pool.Add(f)
}

// SetDeferConnectors routes subsequent fragments to the pending queue
// instead of resolving them immediately.
func (c *Context) SetDeferConnectors(v bool) {
	c.deferConnectors = v
}

// CheckConnectors merges fragments deferred by nested reads into the
// pool. This is the only point where deferred fragments resolve.
func (c *Context) CheckConnectors() {
	c.pool.MergePending()
}

// ReconnectBrokenConnectors runs the repair pass over leftover fragments.
func (c *Context) ReconnectBrokenConnectors() {
	c.stats.Repaired += c.pool.Reconnect()
}

// PastedSpanners returns spanners committed while in paste mode. They
// are not attached to the score; the paste driver decides their fate.
func (c *Context) PastedSpanners() []*score.Spanner {
	return c.pastedSpanners
}

// Close tears the session down. Unfinished tuplet payloads are kept by
// attaching them to the score; every other unfinished payload is
// discarded and counted. Close is idempotent.
func (c *Context) Close() {
	if c.closed {
		return
	}
	c.closed = true
	active, pendingDropped := c.pool.ReleaseAll()
	discarded := pendingDropped
	for _, rel := range active {
		if rel.Kind == connector.KindTuplet {
			if t, ok := rel.Payload.(*score.Tuplet); ok {
				c.score.AddTuplet(t)
				c.stats.Tuplets++
				continue
			}
		}
		discarded++
	}
	c.stats.Discarded += discarded
}

// commitConnector receives the head of each completed chain and builds
// the finished object from the chain's outer anchors.
func (c *Context) commitConnector(head *connector.Fragment) {
	tail := head.Tail()
	switch obj := head.Payload().(type) {
	case *score.Spanner:
		obj.Track = head.Anchor().Track
		obj.Tick = head.Anchor().Frac
		obj.Track2 = tail.Anchor().Track
		obj.Tick2 = tail.Anchor().Frac
		if c.pasteMode {
			c.pastedSpanners = append(c.pastedSpanners, obj)
		} else {
			c.score.AddSpanner(obj)
			c.stats.Spanners++
		}
	case *score.Tuplet:
		obj.SetTick(head.Anchor().Frac)
		obj.Track = head.Anchor().Track
		c.score.AddTuplet(obj)
		c.stats.Tuplets++
	default:
		log.Warningf("connector %d (%s) has no payload to commit", head.ID(), head.Kind())
		c.stats.Warnings++
	}
}
