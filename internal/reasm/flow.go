package reasm

import (
	"unsafe"

	"github.com/packetkit/reasm6/pkg/buffer"
	"github.com/packetkit/reasm6/pkg/header"
)

// flowRecordOverhead is the fixed cost charged to a flow's owning
// source (and the engine total) the moment the flow is allocated.
const flowRecordOverhead = uint64(unsafe.Sizeof(flow{}))

// flow is the per-datagram reassembly context keyed by (source
// address, destination address, fragment identification).
type flow struct {
	flowEntry
	id          uint32
	dst         header.Address
	fragments   fragList
	unfrag      buffer.View
	declaredLen uint32
	timer       *timer
	source      *source
}

// findOrCreateFlow returns the flow matching (id, dst) on s, creating
// and head-inserting one (with a freshly enrolled timer) if none
// exists yet.
func (e *Engine) findOrCreateFlow(s *source, id uint32, dst header.Address, now uint32) *flow {
	for f := s.flows.Front(); f != nil; f = f.Next() {
		if f.id == id && f.dst == dst {
			return f
		}
	}

	f := &flow{id: id, dst: dst, source: s}
	s.flows.PushFront(f)
	s.usedMem += flowRecordOverhead
	e.totalUsedMem += flowRecordOverhead

	t := &timer{expiration: now + uint32(e.timeoutSeconds), flow: f}
	f.timer = t
	e.timers.Add(t)

	return f
}

// deleteFlow releases every resource a flow owns — its timer, its
// stored fragments, its unfragmentable prefix — and unlinks it from
// its source's flow list. It deliberately does not look at whether the
// source becomes empty: the engine is the single point that decides
// when a now-empty source is deleted, to avoid double-freeing it here
// too.
func (e *Engine) deleteFlow(f *flow) {
	s := f.source
	s.usedMem -= flowRecordOverhead
	e.totalUsedMem -= flowRecordOverhead

	e.timers.Remove(f.timer)

	freed := uint64(f.fragments.totalBytes())
	s.usedMem -= freed
	e.totalUsedMem -= freed

	if f.unfrag != nil {
		n := uint64(len(f.unfrag))
		s.usedMem -= n
		e.totalUsedMem -= n
	}

	s.flows.Remove(f)
}
