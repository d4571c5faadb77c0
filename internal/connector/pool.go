package connector

import (
	"sort"

	"github.com/tliron/commonlog"

	"github.com/FigmentBoy/MuseScore/internal/fraction"
	"github.com/FigmentBoy/MuseScore/internal/location"
)

var log = commonlog.GetLogger("mscx.connector")

// trackStride weights track distance against tick distance when scoring
// repair candidates: moving one track costs as much as a whole note.
const trackStride = fraction.TicksPerWhole

// Pool owns every live fragment and resolves them into chains. Fragments
// are addressed by handle; only the pool ever deletes one.
type Pool struct {
	frags      map[Handle]*Fragment
	order      []Handle
	pending    []*Fragment
	nextHandle Handle
	commit     func(head *Fragment)
}

// NewPool creates a pool. commit is called with the head fragment of each
// chain that completes; the chain is still intact during the call and is
// removed right after.
func NewPool(commit func(head *Fragment)) *Pool {
	return &Pool{
		frags:  make(map[Handle]*Fragment),
		commit: commit,
	}
}

// Len returns the number of live fragments.
func (p *Pool) Len() int {
	return len(p.order)
}

// Pending returns the number of deferred fragments.
func (p *Pool) Pending() int {
	return len(p.pending)
}

// Add inserts a fragment and lets the first compatible live fragment
// claim it. If the link completes a chain, the chain is committed and
// removed. At most one chain completes per call.
func (p *Pool) Add(f *Fragment) {
	p.insert(f)
	for _, h := range p.order {
		c2 := p.frags[h]
		if c2.connect(f) {
			if c2.Finished() {
				p.commitChain(c2)
			}
			break
		}
	}
}

// Defer queues a fragment from a nested read. Deferred fragments take no
// part in matching until MergePending.
func (p *Pool) Defer(f *Fragment) {
	p.pending = append(p.pending, f)
}

// MergePending feeds all deferred fragments through Add, in order.
func (p *Pool) MergePending() {
	pending := p.pending
	p.pending = nil
	for _, f := range pending {
		p.Add(f)
	}
}

type candidate struct {
	distance int
	from, to Handle
}

// Reconnect pairs up leftover fragments whose ids never matched. Every
// plausible (start, end) pairing is scored by anchor distance; the
// closest pairs are joined first, each fragment at most once. Chains the
// joins complete are committed. Returns the number of committed chains.
func (p *Pool) Reconnect() int {
	if len(p.order) == 0 {
		return 0
	}
	log.Debugf("reconnecting broken connectors (%d nodes)", len(p.order))

	var cands []candidate
	for i := 1; i < len(p.order); i++ {
		for j := 0; j < i; j++ {
			c1 := p.frags[p.order[i]]
			c2 := p.frags[p.order[j]]
			if c, ok := pairCandidate(c1, c2); ok {
				cands = append(cands, c)
			}
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].distance < cands[j].distance
	})
	for _, c := range cands {
		from, to := p.frags[c.from], p.frags[c.to]
		if from.next != 0 || to.prev != 0 {
			continue
		}
		from.next, to.prev = to.handle, from.handle
	}

	var heads []*Fragment
	for _, h := range p.order {
		f := p.frags[h]
		if f.prev == 0 && f.Finished() {
			heads = append(heads, f)
		}
	}
	for _, head := range heads {
		p.commitChain(head)
	}
	log.Debugf("reconnected %d broken connectors", len(heads))
	return len(heads)
}

// Released is a payload handed back at teardown, still unattached.
type Released struct {
	Kind    Kind
	Payload any
}

// ReleaseAll empties the pool. Live payloads are returned for the caller
// to preserve or discard; pending fragments are dropped outright and only
// counted.
func (p *Pool) ReleaseAll() (active []Released, pendingDropped int) {
	if len(p.order) == 0 && len(p.pending) == 0 {
		return nil, 0
	}
	log.Warningf("unpaired connectors left (%d live, %d pending)", len(p.order), len(p.pending))
	for _, h := range p.order {
		f := p.frags[h]
		if f.payload != nil {
			active = append(active, Released{Kind: f.kind, Payload: f.payload})
		}
	}
	for _, f := range p.pending {
		if f.payload != nil {
			pendingDropped++
		}
	}
	p.frags = make(map[Handle]*Fragment)
	p.order = nil
	p.pending = nil
	return active, pendingDropped
}

func (p *Pool) insert(f *Fragment) {
	p.nextHandle++
	f.handle = p.nextHandle
	f.pool = p
	p.frags[f.handle] = f
	p.order = append(p.order, f.handle)
}

// commitChain hands the chain to the commit callback, then removes every
// fragment in it.
func (p *Pool) commitChain(f *Fragment) {
	head := f.Head()
	if p.commit != nil {
		p.commit(head)
	}
	c := head
	for c != nil {
		next := c.Next()
		delete(p.frags, c.handle)
		p.removeOrder(c.handle)
		c.pool = nil
		c = next
	}
}

func (p *Pool) removeOrder(h Handle) {
	for i, oh := range p.order {
		if oh == h {
			p.order = append(p.order[:i], p.order[i+1:]...)
			return
		}
	}
}

// pairCandidate scores an unordered fragment pair. Only one direction can
// be plausible: the start side must still be open on its right, the end
// side on its left, and the end must not precede the start.
func pairCandidate(a, b *Fragment) (candidate, bool) {
	if a.kind != b.kind {
		return candidate{}, false
	}
	if c, ok := directedCandidate(a, b); ok {
		return c, true
	}
	return directedCandidate(b, a)
}

func directedCandidate(from, to *Fragment) (candidate, bool) {
	if from.role != RoleStart || from.next != 0 {
		return candidate{}, false
	}
	if to.role != RoleEnd || to.prev != 0 {
		return candidate{}, false
	}
	if from.anchor.Frac.Cmp(to.anchor.Frac) > 0 {
		return candidate{}, false
	}
	return candidate{
		distance: anchorDistance(from.anchor, to.anchor),
		from:     from.handle,
		to:       to.handle,
	}, true
}

func anchorDistance(from, to location.Location) int {
	d := to.Frac.Ticks() - from.Frac.Ticks()
	dt := to.Track - from.Track
	if dt < 0 {
		dt = -dt
	}
	return d + trackStride*dt
}
