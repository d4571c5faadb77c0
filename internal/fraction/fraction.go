package fraction

import (
	"fmt"
	"strconv"
	"strings"
)

// Division is the number of ticks per quarter note.
const Division = 480

// TicksPerWhole is the number of ticks in a whole note.
const TicksPerWhole = 4 * Division

// Fraction is a rational value used for musical time: positions and
// durations measured in fractions of a whole note.
type Fraction struct {
	Num int
	Den int
}

func New(num, den int) Fraction {
	return Fraction{Num: num, Den: den}
}

func Zero() Fraction {
	return Fraction{Num: 0, Den: 1}
}

// FromTicks converts an integer tick count to a fraction in lowest terms.
func FromTicks(ticks int) Fraction {
	return Fraction{Num: ticks, Den: TicksPerWhole}.Reduced()
}

// Parse reads the "num/den" text form. A value without a slash is taken
// as a whole number. A zero denominator is rejected.
func Parse(s string) (Fraction, error) {
	s = strings.TrimSpace(s)
	i := strings.IndexByte(s, '/')
	if i < 0 {
		num, err := strconv.Atoi(s)
		if err != nil {
			return Fraction{}, fmt.Errorf("invalid fraction %q: %w", s, err)
		}
		return Fraction{Num: num, Den: 1}, nil
	}
	num, err := strconv.Atoi(strings.TrimSpace(s[:i]))
	if err != nil {
		return Fraction{}, fmt.Errorf("invalid fraction %q: %w", s, err)
	}
	den, err := strconv.Atoi(strings.TrimSpace(s[i+1:]))
	if err != nil {
		return Fraction{}, fmt.Errorf("invalid fraction %q: %w", s, err)
	}
	if den == 0 {
		return Fraction{}, fmt.Errorf("invalid fraction %q: zero denominator", s)
	}
	return Fraction{Num: num, Den: den}, nil
}

// Ticks converts to an integer tick count, truncating values that do not
// fall on a tick boundary.
func (f Fraction) Ticks() int {
	return f.Num * TicksPerWhole / f.Den
}

// Reduce brings the fraction to lowest terms with a positive denominator.
func (f *Fraction) Reduce() {
	*f = f.Reduced()
}

func (f Fraction) Reduced() Fraction {
	if f.Den < 0 {
		f.Num, f.Den = -f.Num, -f.Den
	}
	if f.Num == 0 {
		return Fraction{Num: 0, Den: 1}
	}
	g := gcd(f.Num, f.Den)
	return Fraction{Num: f.Num / g, Den: f.Den / g}
}

// Add and Sub do not reduce their results; callers that accumulate
// should reduce explicitly.
func (f Fraction) Add(o Fraction) Fraction {
	if f.Den == o.Den {
		return Fraction{Num: f.Num + o.Num, Den: f.Den}
	}
	return Fraction{Num: f.Num*o.Den + o.Num*f.Den, Den: f.Den * o.Den}
}

func (f Fraction) Sub(o Fraction) Fraction {
	if f.Den == o.Den {
		return Fraction{Num: f.Num - o.Num, Den: f.Den}
	}
	return Fraction{Num: f.Num*o.Den - o.Num*f.Den, Den: f.Den * o.Den}
}

func (f Fraction) Mul(o Fraction) Fraction {
	return Fraction{Num: f.Num * o.Num, Den: f.Den * o.Den}.Reduced()
}

func (f Fraction) MulInt(n int) Fraction {
	return Fraction{Num: f.Num * n, Den: f.Den}.Reduced()
}

func (f Fraction) Div(o Fraction) Fraction {
	return Fraction{Num: f.Num * o.Den, Den: f.Den * o.Num}.Reduced()
}

// Equal compares by value, so 1/2 equals 2/4.
func (f Fraction) Equal(o Fraction) bool {
	return int64(f.Num)*int64(o.Den) == int64(o.Num)*int64(f.Den)
}

// Cmp returns -1, 0 or 1 as f is less than, equal to or greater than o.
func (f Fraction) Cmp(o Fraction) int {
	l := int64(f.Num) * int64(o.Den)
	r := int64(o.Num) * int64(f.Den)
	if int64(f.Den)*int64(o.Den) < 0 {
		l, r = r, l
	}
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

func (f Fraction) Less(o Fraction) bool {
	return f.Cmp(o) < 0
}

func (f Fraction) IsZero() bool {
	return f.Num == 0
}

func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}
