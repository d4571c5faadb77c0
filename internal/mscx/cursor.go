package mscx

import (
	"github.com/FigmentBoy/MuseScore/internal/fraction"
	"github.com/FigmentBoy/MuseScore/internal/location"
	"github.com/FigmentBoy/MuseScore/internal/score"
)

// Tick returns the cursor's effective position, offsets applied.
func (c *Context) Tick() fraction.Fraction {
	return c.tick.Add(c.tickOffset).Reduced()
}

// SetTick sets the raw cursor position and refreshes the integer mirror.
func (c *Context) SetTick(f fraction.Fraction) {
	c.tick = f.Reduced()
	c.intTick = c.tick.Ticks()
}

// IncTick advances the cursor. The integer mirror advances by the
// increment's own truncated tick count, which is what keeps the relative
// location fast path honest.
func (c *Context) IncTick(f fraction.Fraction) {
	c.tick = c.tick.Add(f).Reduced()
	c.intTick += f.Ticks()
}

// RTick returns the position relative to the current measure, or the raw
// position when no measure is current.
func (c *Context) RTick() fraction.Fraction {
	if c.curMeasure == nil {
		return c.tick
	}
	return c.tick.Sub(c.curMeasure.Tick).Reduced()
}

// Track returns the effective track, offset applied.
func (c *Context) Track() int {
	return c.track + c.trackOffset
}

func (c *Context) SetTrack(t int) {
	c.track = t
}

func (c *Context) TickOffset() fraction.Fraction {
	return c.tickOffset
}

func (c *Context) SetTickOffset(f fraction.Fraction) {
	c.tickOffset = f
}

func (c *Context) TrackOffset() int {
	return c.trackOffset
}

func (c *Context) SetTrackOffset(n int) {
	c.trackOffset = n
}

func (c *Context) CurrentMeasure() *score.Measure {
	return c.curMeasure
}

func (c *Context) SetCurrentMeasure(m *score.Measure) {
	c.curMeasure = m
}

// CurrentMeasureIndex returns the current measure's index, or -1 when
// between measures.
func (c *Context) CurrentMeasureIndex() int {
	if c.curMeasure == nil {
		return -1
	}
	return c.curMeasure.Index
}

// Location captures the cursor as an absolute location.
func (c *Context) Location(forceAbsFrac bool) location.Location {
	l := location.Absolute()
	c.FillLocation(&l, forceAbsFrac)
	return l
}

// FillLocation replaces still-unset fields of l with the cursor's
// position. In paste mode, or when forceAbsFrac is set, the fraction is
// the effective tick and the measure index is zero; otherwise the
// fraction is measure-relative and the measure index is the current one.
func (c *Context) FillLocation(l *location.Location, forceAbsFrac bool) {
	defaults := location.Absolute()
	absFrac := c.pasteMode || forceAbsFrac
	if l.Track == defaults.Track {
		l.Track = c.Track()
	}
	if l.Frac.Equal(defaults.Frac) {
		if absFrac {
			l.Frac = c.Tick()
		} else {
			l.Frac = c.RTick()
		}
	}
	if l.Measure == defaults.Measure {
		if absFrac {
			l.Measure = 0
		} else {
			l.Measure = c.CurrentMeasureIndex()
		}
	}
}

// SetLocation moves the cursor to l. A relative location is first made
// absolute against the cursor itself; when the integer mirror plus the
// encoded delta already agrees with the exact tick, only the mirror and
// track move. Everything else goes through the absolute branch, at most
// once.
func (c *Context) SetLocation(l location.Location) {
	if l.IsRelative() {
		newLoc := l
		newLoc.ToAbsolute(c.Location(false))
		delta := l.Frac.Ticks()
		if c.tick.Equal(fraction.FromTicks(c.intTick + delta)) {
			c.intTick += delta
			c.SetTrack(newLoc.Track - c.trackOffset)
			return
		}
		c.setAbsoluteLocation(newLoc)
		return
	}
	c.setAbsoluteLocation(l)
}

func (c *Context) setAbsoluteLocation(l location.Location) {
	c.SetTrack(l.Track - c.trackOffset)
	c.SetTick(l.Frac.Sub(c.tickOffset).Reduced())
	if c.pasteMode {
		return
	}
	if l.Measure != c.CurrentMeasureIndex() {
		c.Warnf("location points at measure %d, reader is in measure %d",
			l.Measure, c.CurrentMeasureIndex())
	}
	if c.curMeasure != nil {
		c.IncTick(c.curMeasure.Tick)
	}
}
