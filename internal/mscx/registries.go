package mscx

import (
	"sort"

	"github.com/FigmentBoy/MuseScore/internal/score"
)

// AddBeam registers a beam under its id for later references.
func (c *Context) AddBeam(b *score.Beam) {
	c.beams[b.ID] = b
}

func (c *Context) Beam(id int) (*score.Beam, bool) {
	b, ok := c.beams[id]
	return b, ok
}

// AddTuplet registers a tuplet under its id for later references.
func (c *Context) AddTuplet(t *score.Tuplet) {
	c.tuplets[t.ID] = t
}

func (c *Context) Tuplet(id int) (*score.Tuplet, bool) {
	t, ok := c.tuplets[id]
	return t, ok
}

// CheckTuplets finalizes registered tuplets. Empty ones are dropped with
// a warning; the rest are sorted and repaired, then, in a second pass so
// that repaired nested tuplets are accounted for, filled up and attached
// to the score. The registry is left empty, so tuplet ids scope to the
// stretch between two calls.
func (c *Context) CheckTuplets() {
	if len(c.tuplets) == 0 {
		return
	}
	ids := make([]int, 0, len(c.tuplets))
	for id := range c.tuplets {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	kept := make([]int, 0, len(ids))
	for _, id := range ids {
		t := c.tuplets[id]
		if len(t.Elements) == 0 {
			// this should not happen and is a sign of input corruption
			c.Warnf("empty tuplet id %d, input file corrupted?", id)
			c.stats.EmptyTuplets++
			delete(c.tuplets, id)
			continue
		}
		t.SortElements()
		t.Sanitize()
		kept = append(kept, id)
	}
	for _, id := range kept {
		t := c.tuplets[id]
		t.AddMissingElements()
		c.score.AddTuplet(t)
		c.stats.Tuplets++
		delete(c.tuplets, id)
	}
}

// AddSpanner registers a spanner under the id the file declared for it.
// Ids are not assumed unique; entries keep insertion order.
func (c *Context) AddSpanner(id int, sp *score.Spanner) {
	c.spanners = append(c.spanners, spannerEntry{id: id, spanner: sp})
}

// RemoveSpanner drops the first entry holding this spanner.
func (c *Context) RemoveSpanner(sp *score.Spanner) {
	for i, e := range c.spanners {
		if e.spanner == sp {
			c.spanners = append(c.spanners[:i], c.spanners[i+1:]...)
			return
		}
	}
}

// FindSpanner returns the first spanner registered under id.
func (c *Context) FindSpanner(id int) (*score.Spanner, bool) {
	for _, e := range c.spanners {
		if e.id == id {
			return e.spanner, true
		}
	}
	return nil, false
}

// SpannerID returns the id a spanner was registered under. An
// unregistered spanner is reported, as that points at a reader bug or at
// badly mangled input.
func (c *Context) SpannerID(sp *score.Spanner) (int, bool) {
	for _, e := range c.spanners {
		if e.spanner == sp {
			return e.id, true
		}
	}
	c.Warnf("spanner id lookup failed: spanner not registered")
	return -1, false
}

// AddUserTextStyle allocates the next user style slot for name. Past the
// last slot it keeps the style unmapped rather than failing the read.
func (c *Context) AddUserTextStyle(name string) score.TextStyleType {
	if len(c.userStyles) >= score.MaxUserTextStyles {
		c.Warnf("too many user-defined text styles, %q left unmapped", name)
		return score.TextStyleInvalid
	}
	style := score.TextStyleUser1 + score.TextStyleType(len(c.userStyles))
	c.userStyles = append(c.userStyles, userTextStyle{name: name, style: style})
	return style
}

// LookupUserTextStyle resolves a style name to its slot, first come
// first served.
func (c *Context) LookupUserTextStyle(name string) score.TextStyleType {
	for _, s := range c.userStyles {
		if s.name == name {
			return s.style
		}
	}
	return score.TextStyleInvalid
}
