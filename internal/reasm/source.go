package reasm

import (
	"unsafe"

	"github.com/packetkit/reasm6/pkg/header"
)

// sourceRecordOverhead is the fixed cost charged to a source's memory
// accounting the moment it is allocated, independent of the flows it
// will come to own.
const sourceRecordOverhead = uint64(unsafe.Sizeof(source{}))

// source is the per-source-address reassembly context: every flow
// whose IPv6 fragments arrived from the same source address.
type source struct {
	sourceEntry
	addr    header.Address
	row     int
	flows   flowList
	usedMem uint64
}

// findOrCreateSource looks up the source owning addr in bucket row,
// creating and head-inserting one if none exists yet.
func (e *Engine) findOrCreateSource(addr header.Address) *source {
	row := hashAddress(addr, len(e.table))
	bucket := &e.table[row]

	for s := bucket.Front(); s != nil; s = s.Next() {
		if s.addr == addr {
			return s
		}
	}

	s := &source{addr: addr, row: row, usedMem: sourceRecordOverhead}
	bucket.PushFront(s)
	e.totalUsedMem += sourceRecordOverhead
	return s
}

// deleteSource unlinks and frees an empty source. The caller must have
// already emptied its flow list; deleteFlow never touches the owning
// source itself, so the engine is the sole decider of when a source
// goes away.
func (e *Engine) deleteSource(s *source) {
	e.table[s.row].Remove(s)
	e.totalUsedMem -= sourceRecordOverhead
}
