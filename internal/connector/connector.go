package connector

import (
	"fmt"

	"github.com/FigmentBoy/MuseScore/internal/location"
)

// Kind names the connector family a fragment belongs to. Fragments only
// ever pair up within one kind.
type Kind string

const (
	KindSlur    Kind = "slur"
	KindTie     Kind = "tie"
	KindHairpin Kind = "hairpin"
	KindOttava  Kind = "ottava"
	KindPedal   Kind = "pedal"
	KindTrill   Kind = "trill"
	KindTuplet  Kind = "tuplet"
)

// Role marks which end of a connector a fragment describes.
type Role int

const (
	RoleStart Role = iota
	RoleEnd
)

func (r Role) String() string {
	if r == RoleStart {
		return "start"
	}
	return "end"
}

func ParseRole(s string) (Role, error) {
	switch s {
	case "start":
		return RoleStart, nil
	case "end":
		return RoleEnd, nil
	}
	return 0, fmt.Errorf("unknown connector role %q", s)
}

// Handle identifies a fragment inside its pool. The zero handle means
// "none"; fragments never point at each other directly, so the pool stays
// the only owner.
type Handle int

// Fragment is one end of a connector read from input: which connector it
// claims to belong to (id), what family it is, which end it is, and where
// it was read.
type Fragment struct {
	id      int
	kind    Kind
	role    Role
	anchor  location.Location
	payload any

	handle Handle
	prev   Handle
	next   Handle
	pool   *Pool
}

// NewFragment builds an unpooled fragment. The payload is the object
// under construction; end fragments usually carry none.
func NewFragment(id int, kind Kind, role Role, anchor location.Location, payload any) *Fragment {
	return &Fragment{id: id, kind: kind, role: role, anchor: anchor, payload: payload}
}

func (f *Fragment) ID() int                   { return f.id }
func (f *Fragment) Kind() Kind                { return f.kind }
func (f *Fragment) Role() Role                { return f.role }
func (f *Fragment) Anchor() location.Location { return f.anchor }
func (f *Fragment) Payload() any              { return f.payload }

func (f *Fragment) Prev() *Fragment {
	if f.pool == nil || f.prev == 0 {
		return nil
	}
	return f.pool.frags[f.prev]
}

func (f *Fragment) Next() *Fragment {
	if f.pool == nil || f.next == 0 {
		return nil
	}
	return f.pool.frags[f.next]
}

// Head walks to the first fragment of the chain.
func (f *Fragment) Head() *Fragment {
	for {
		p := f.Prev()
		if p == nil {
			return f
		}
		f = p
	}
}

// Tail walks to the last fragment of the chain.
func (f *Fragment) Tail() *Fragment {
	for {
		n := f.Next()
		if n == nil {
			return f
		}
		f = n
	}
}

// Finished reports whether the chain this fragment belongs to is
// complete: it opens with a start fragment and closes with an end
// fragment, so neither side expects more input.
func (f *Fragment) Finished() bool {
	return f.Head().role == RoleStart && f.Tail().role == RoleEnd
}

// connect tries to attach o to this fragment. It succeeds only for
// fragments of the same kind claiming the same id, with complementary
// roles, both still open on the facing side, and with the start anchored
// no later than the end.
func (f *Fragment) connect(o *Fragment) bool {
	if f == o || f.kind != o.kind || f.id != o.id {
		return false
	}
	if f.role == RoleStart && f.next == 0 && o.role == RoleEnd && o.prev == 0 {
		if f.anchor.Frac.Cmp(o.anchor.Frac) <= 0 {
			f.next, o.prev = o.handle, f.handle
			return true
		}
		return false
	}
	if f.role == RoleEnd && f.prev == 0 && o.role == RoleStart && o.next == 0 {
		if o.anchor.Frac.Cmp(f.anchor.Frac) <= 0 {
			o.next, f.prev = f.handle, o.handle
			return true
		}
	}
	return false
}
