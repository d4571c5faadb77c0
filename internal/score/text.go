package score

import (
	"strconv"

	"github.com/FigmentBoy/MuseScore/internal/fraction"
)

// TextStyleType identifies a text style. Styles defined by the score file
// itself occupy a fixed range of user slots.
type TextStyleType int

const (
	TextStyleInvalid TextStyleType = iota
	TextStyleUser1
	TextStyleUser2
	TextStyleUser3
	TextStyleUser4
	TextStyleUser5
	TextStyleUser6
	TextStyleUser7
	TextStyleUser8
	TextStyleUser9
	TextStyleUser10
	TextStyleUser11
	TextStyleUser12
)

// MaxUserTextStyles is the number of user style slots a score file may
// define.
const MaxUserTextStyles = 12

func (t TextStyleType) String() string {
	if t >= TextStyleUser1 && t <= TextStyleUser12 {
		return "user" + strconv.Itoa(int(t-TextStyleUser1)+1)
	}
	return "invalid"
}

// Text is a styled text element anchored at a point in the score. Value
// keeps the raw inner markup.
type Text struct {
	Style TextStyleType
	Track int
	Tick  fraction.Fraction
	Value string
}
