package mscx

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/FigmentBoy/MuseScore/internal/fraction"
	"github.com/FigmentBoy/MuseScore/internal/geom"
)

// ReadPoint decodes <tag x="..." y="..."/>. Missing coordinates are zero.
func (r *Reader) ReadPoint() geom.Point {
	p := geom.Point{
		X: r.FloatAttributeOr("x", 0),
		Y: r.FloatAttributeOr("y", 0),
	}
	r.SkipCurrentElement()
	return p
}

// ReadColor decodes <tag r= g= b= a=/>. Alpha defaults to opaque.
func (r *Reader) ReadColor() geom.Color {
	c := geom.Color{
		R: clampU8(r.IntAttributeOr("r", 0)),
		G: clampU8(r.IntAttributeOr("g", 0)),
		B: clampU8(r.IntAttributeOr("b", 0)),
		A: clampU8(r.IntAttributeOr("a", 255)),
	}
	r.SkipCurrentElement()
	return c
}

func (r *Reader) ReadSize() geom.Size {
	s := geom.Size{
		W: r.FloatAttributeOr("w", 0),
		H: r.FloatAttributeOr("h", 0),
	}
	r.SkipCurrentElement()
	return s
}

func (r *Reader) ReadScale() geom.Scale {
	s := geom.Scale{
		W: r.FloatAttributeOr("w", 0),
		H: r.FloatAttributeOr("h", 0),
	}
	r.SkipCurrentElement()
	return s
}

func (r *Reader) ReadRect() geom.Rect {
	rc := geom.Rect{
		X: r.FloatAttributeOr("x", 0),
		Y: r.FloatAttributeOr("y", 0),
		W: r.FloatAttributeOr("w", 0),
		H: r.FloatAttributeOr("h", 0),
	}
	r.SkipCurrentElement()
	return rc
}

// ReadDouble reads the element text as a float and clamps it to
// [min, max]. Unparseable text counts as zero before clamping.
func (r *Reader) ReadDouble(min, max float64) float64 {
	val, _ := strconv.ParseFloat(strings.TrimSpace(r.ReadElementText()), 64)
	if val < min {
		val = min
	} else if val > max {
		val = max
	}
	return val
}

// ReadBool decodes an empty element as true, otherwise text != 0.
func (r *Reader) ReadBool() bool {
	s := strings.TrimSpace(r.ReadElementText())
	if s == "" {
		return true
	}
	n, _ := strconv.Atoi(s)
	return n != 0
}

// ReadInt reads the element text as an integer.
func (r *Reader) ReadInt() (int, error) {
	name := r.Name()
	s := strings.TrimSpace(r.ReadElementText())
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("element <%s>: bad integer %q", name, s)
	}
	return n, nil
}

// ReadFraction decodes the two persisted fraction forms:
//
//	<tag z="3" n="8"/>   attribute form
//	<tag>3/8</tag>       text form, which wins when present
//
// Text without a slash is an integer tick count.
func (r *Reader) ReadFraction() (fraction.Fraction, error) {
	z := r.IntAttributeOr("z", 0)
	n := r.IntAttributeOr("n", 1)
	s := strings.TrimSpace(r.ReadElementText())
	if s != "" {
		if !strings.ContainsRune(s, '/') {
			ticks, err := strconv.Atoi(s)
			if err != nil {
				return fraction.Fraction{}, fmt.Errorf("%w: %q", ErrBadFraction, s)
			}
			return fraction.FromTicks(ticks), nil
		}
		f, err := fraction.Parse(s)
		if err != nil {
			return fraction.Fraction{}, fmt.Errorf("%w: %q", ErrBadFraction, s)
		}
		z, n = f.Num, f.Den
	}
	if n <= 0 {
		return fraction.Fraction{}, fmt.Errorf("%w: %d/%d", ErrBadFraction, z, n)
	}
	return fraction.New(z, n), nil
}

// ReadInnerXML consumes the current element and returns its inner markup
// verbatim, with text re-escaped. Comments are dropped.
func (r *Reader) ReadInnerXML() string {
	var b strings.Builder
	depth := 1
	for {
		tok, err := r.dec.Token()
		if err != nil {
			r.fail(err)
			r.start = nil
			return b.String()
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			b.WriteByte('<')
			b.WriteString(t.Name.Local)
			for _, a := range t.Attr {
				b.WriteByte(' ')
				b.WriteString(a.Name.Local)
				b.WriteString(`="`)
				b.WriteString(escapeText(a.Value))
				b.WriteByte('"')
			}
			b.WriteByte('>')
		case xml.EndElement:
			depth--
			if depth == 0 {
				r.start = nil
				return b.String()
			}
			b.WriteString("</")
			b.WriteString(t.Name.Local)
			b.WriteByte('>')
		case xml.CharData:
			b.WriteString(escapeText(string(t)))
		}
	}
}

func escapeText(s string) string {
	if !strings.ContainsAny(s, `&<>"`) {
		return s
	}
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

func clampU8(n int) uint8 {
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}
