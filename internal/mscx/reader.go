package mscx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("mscx.reader")

// Reader walks the XML token stream of a score file. It keeps the element
// the last ReadNextStartElement produced as the current element; attribute
// and position queries refer to it.
type Reader struct {
	dec        *xml.Decoder
	lineStarts []int
	docName    string
	lineOffset int

	start    *xml.StartElement
	startPos int64
	err      error
	warnings int
}

func NewReader(data []byte) *Reader {
	return &Reader{
		dec:        xml.NewDecoder(bytes.NewReader(data)),
		lineStarts: lineStarts(data),
	}
}

// SetDocName names the document in diagnostics, useful when the data is
// embedded in some outer file.
func (r *Reader) SetDocName(name string) {
	r.docName = name
}

func (r *Reader) DocName() string {
	return r.docName
}

// SetLineOffset shifts reported line numbers, for data embedded at a
// known line of an outer file.
func (r *Reader) SetLineOffset(n int) {
	r.lineOffset = n
}

// Err returns the first XML-level error hit, if any. Reaching the end of
// input is not an error.
func (r *Reader) Err() error {
	return r.err
}

// Warnings returns how many elements were skipped as unknown.
func (r *Reader) Warnings() int {
	return r.warnings
}

// ReadNextStartElement advances to the next child element of the current
// element and reports true, or false when the current element (or the
// document) ends.
func (r *Reader) ReadNextStartElement() bool {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			r.fail(err)
			r.start = nil
			return false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			st := t.Copy()
			r.start = &st
			r.startPos = r.dec.InputOffset()
			return true
		case xml.EndElement:
			r.start = nil
			return false
		default:
			// character data, comments, directives
		}
	}
}

// Name returns the name of the current element.
func (r *Reader) Name() string {
	if r.start == nil {
		return ""
	}
	return r.start.Name.Local
}

// ReadElementText consumes the current element and returns its text
// content. Nested elements are skipped, their text excluded.
func (r *Reader) ReadElementText() string {
	var b strings.Builder
	for {
		tok, err := r.dec.Token()
		if err != nil {
			r.fail(err)
			r.start = nil
			return b.String()
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			if err := r.dec.Skip(); err != nil {
				r.fail(err)
				r.start = nil
				return b.String()
			}
		case xml.EndElement:
			r.start = nil
			return b.String()
		}
	}
}

// SkipCurrentElement consumes the current element including all its
// children.
func (r *Reader) SkipCurrentElement() {
	if r.start == nil {
		return
	}
	if err := r.dec.Skip(); err != nil {
		r.fail(err)
	}
	r.start = nil
}

// Unknown reports the current element as unrecognized and skips it.
func (r *Reader) Unknown() {
	r.warnings++
	if r.docName != "" {
		log.Warningf("unknown element <%s> in %s line %d col %d",
			r.Name(), r.docName, r.LineNumber(), r.ColumnNumber())
	} else {
		log.Warningf("unknown element <%s> line %d col %d",
			r.Name(), r.LineNumber(), r.ColumnNumber())
	}
	r.SkipCurrentElement()
}

// HasAttribute reports whether the current element carries the attribute.
func (r *Reader) HasAttribute(name string) bool {
	_, ok := r.findAttr(name)
	return ok
}

// Attribute returns the attribute value or fails with
// ErrMissingAttribute.
func (r *Reader) Attribute(name string) (string, error) {
	v, ok := r.findAttr(name)
	if !ok {
		return "", fmt.Errorf("element <%s>: %w: %s", r.Name(), ErrMissingAttribute, name)
	}
	return v, nil
}

// AttributeOr returns the attribute value, or def when absent.
func (r *Reader) AttributeOr(name, def string) string {
	if v, ok := r.findAttr(name); ok {
		return v
	}
	return def
}

func (r *Reader) IntAttribute(name string) (int, error) {
	v, err := r.Attribute(name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("element <%s> attribute %q: %w", r.Name(), name, err)
	}
	return n, nil
}

// IntAttributeOr returns the attribute as an int; absent or unparseable
// values yield def.
func (r *Reader) IntAttributeOr(name string, def int) int {
	v, ok := r.findAttr(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func (r *Reader) FloatAttribute(name string) (float64, error) {
	v, err := r.Attribute(name)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("element <%s> attribute %q: %w", r.Name(), name, err)
	}
	return f, nil
}

func (r *Reader) FloatAttributeOr(name string, def float64) float64 {
	v, ok := r.findAttr(name)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// LineNumber returns the 1-based line of the current element, shifted by
// the configured line offset.
func (r *Reader) LineNumber() int {
	line, _ := r.position()
	return line + r.lineOffset
}

func (r *Reader) ColumnNumber() int {
	_, col := r.position()
	return col
}

func (r *Reader) position() (line, col int) {
	off := int(r.startPos)
	i := sort.Search(len(r.lineStarts), func(i int) bool {
		return r.lineStarts[i] > off
	})
	// i is the first line starting past off, so off lies on line i.
	if i == 0 {
		return 1, off + 1
	}
	return i, off - r.lineStarts[i-1] + 1
}

func (r *Reader) findAttr(name string) (string, bool) {
	if r.start == nil {
		return "", false
	}
	for _, a := range r.start.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (r *Reader) fail(err error) {
	if err == io.EOF {
		return
	}
	if r.err == nil {
		r.err = err
	}
}

func lineStarts(data []byte) []int {
	starts := []int{0}
	for i, b := range data {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
