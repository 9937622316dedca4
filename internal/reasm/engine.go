// Package reasm implements the IPv6 fragment reassembly engine: the
// hash-bucketed source table, per-source flow lists, the fragment-list
// merge primitive, the insertion-ordered timer list, and the
// mutex-guarded controller that ties them together.
package reasm

import (
	"sync"

	"github.com/packetkit/reasm6/internal/config"
	"github.com/packetkit/reasm6/internal/logging"
	"github.com/packetkit/reasm6/pkg/header"
)

const maxDatagramSize = 65535

// Engine is one reassembly context: a fixed-size hash table of
// sources, a shared timer list, and the memory/timeout budgets that
// bound them. The zero value is not usable; construct with New.
type Engine struct {
	mu sync.Mutex

	table  []sourceList
	timers timerList

	perSourceMemoryLimit uint64
	totalMemoryLimit     uint64
	timeoutSeconds       uint8
	totalUsedMem         uint64

	// OverlapPolicy governs how the fragment-list primitive resolves
	// conflicting overlaps. Safe to change between calls; it is read
	// fresh on every Reassemble.
	OverlapPolicy OverlapPolicy

	// DebugSkipMinMTU disables the minimum-on-wire-size screen. Test
	// corpora built from small synthetic packets need this set, since
	// no real link ever carries a datagram fragment below 1280 bytes.
	DebugSkipMinMTU bool

	log logging.Logger
}

// New constructs an engine from cfg, validating only that the bucket
// count is at least 1. A nil log disables the debug-print gate
// entirely, so callers that don't care about diagnostics can pass one
// in without allocating a discard logger themselves.
func New(cfg config.Reassembly, log logging.Logger) (*Engine, error) {
	if cfg.BucketCount < 1 {
		return nil, errBucketCount(cfg.BucketCount)
	}
	if log == nil {
		log = logging.Nop
	}
	return &Engine{
		table:                make([]sourceList, cfg.BucketCount),
		perSourceMemoryLimit: cfg.PerSourceMemoryLimit,
		totalMemoryLimit:     cfg.TotalMemoryLimit,
		timeoutSeconds:       cfg.TimeoutSeconds,
		log:                  log,
	}, nil
}

// SetPerSourceMemoryLimit updates the per-source eviction threshold,
// effective on the next call.
func (e *Engine) SetPerSourceMemoryLimit(bytes uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.perSourceMemoryLimit = bytes
}

// SetTotalMemoryLimit updates the global eviction threshold, effective
// on the next call.
func (e *Engine) SetTotalMemoryLimit(bytes uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.totalMemoryLimit = bytes
}

// SetTimeout updates the reassembly lifetime applied to flows created
// from now on. Flows already enrolled keep the expiration they were
// given at creation; the timer list is ordered purely by insertion,
// and retroactively changing an in-flight flow's deadline would break
// that ordering.
func (e *Engine) SetTimeout(seconds uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.timeoutSeconds = seconds
}

// TotalUsedMem reports the engine's current memory accounting, for
// tests and monitoring.
func (e *Engine) TotalUsedMem() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalUsedMem
}

// Destroy releases every source, flow, fragment and timer the engine
// holds. The engine must not be used afterwards.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.table {
		for s := e.table[i].Front(); s != nil; {
			next := s.Next()
			for f := s.flows.Front(); f != nil; {
				fnext := f.Next()
				e.deleteFlow(f)
				f = fnext
			}
			e.deleteSource(s)
			s = next
		}
	}
}

// Reassemble locates or creates the source and flow for this fragment,
// enforces the memory and timer budgets, merges the fragment into the
// flow's fragment list, and — if that merge completes the datagram —
// returns the reassembled buffer. workerID is accepted for call-site
// compatibility with sharded, multi-worker callers and is otherwise
// unused; this engine serializes every call behind a single mutex.
func (e *Engine) Reassemble(
	src, dst header.Address,
	id uint32,
	offset uint32,
	moreFragments bool,
	unfragmentable []byte,
	fragmentable []byte,
	nextHeader uint8,
	now uint32,
	workerID int,
) ([]byte, bool) {
	_ = workerID

	// Step 1: minimum-size screen.
	onWireSize := len(unfragmentable) + header.IPv6FragmentHeaderSize + len(fragmentable)
	if !e.DebugSkipMinMTU && onWireSize < header.IPv6MinimumMTU {
		return nil, false
	}

	// Step 2: overflow screen.
	end := offset + uint32(len(fragmentable))
	if end > maxDatagramSize {
		e.log.Debugf("reasm: reject oversized datagram end=%d", end)
		return nil, false
	}

	// Step 3: acquire the engine mutex for the remainder of the call.
	e.mu.Lock()
	defer e.mu.Unlock()

	// Step 4: source get/create.
	s := e.findOrCreateSource(src)

	// Step 5: per-source eviction.
	evicted := false
	for s.usedMem > e.perSourceMemoryLimit && !s.flows.Empty() {
		e.deleteFlow(s.flows.tail)
		evicted = true
	}
	if evicted && s.flows.Empty() {
		e.deleteSource(s)
		return nil, false
	}

	// Step 6: timer + global sweep.
	for !e.timers.Empty() && (e.timers.Front().expired(now) || e.totalUsedMem >= e.totalMemoryLimit) {
		victim := e.timers.Front().flow
		victimSource := victim.source
		e.deleteFlow(victim)
		if victimSource.flows.Empty() {
			e.deleteSource(victimSource)
			if victimSource == s {
				return nil, false
			}
		}
	}

	// Step 7: flow get/create.
	f := e.findOrCreateFlow(s, id, dst, now)

	// Step 8: malformed late-start screen.
	if f.declaredLen != 0 && offset > f.declaredLen {
		return nil, false
	}

	// Step 9: store the unfragmentable prefix once per flow.
	if f.unfrag == nil {
		f.unfrag = append([]byte(nil), unfragmentable...)
		s.usedMem += uint64(len(f.unfrag))
		e.totalUsedMem += uint64(len(f.unfrag))
		if header.IPv6(f.unfrag).IsValid() {
			header.IPv6(f.unfrag).SetNextHeader(nextHeader)
		}
	}

	// Step 10: last-fragment handling.
	if !moreFragments {
		if f.declaredLen != 0 {
			return nil, false
		}
		f.declaredLen = end
	}

	// Step 11: insert the fragment.
	inserted, removed, ok := f.fragments.Insert(e.OverlapPolicy, fragmentable, offset, end)
	if !ok {
		e.log.Debugf("reasm: dropping conflicting overlap flow=%d", f.id)
		return nil, false
	}
	s.usedMem += uint64(inserted)
	s.usedMem -= uint64(removed)
	e.totalUsedMem += uint64(inserted)
	e.totalUsedMem -= uint64(removed)

	// Step 12: completeness check and compaction.
	if f.declaredLen == 0 || !f.fragments.IsContiguous(f.declaredLen) {
		return nil, false
	}

	total := uint64(len(f.unfrag)) + uint64(f.declaredLen)
	if total > maxDatagramSize {
		e.deleteFlow(f)
		if s.flows.Empty() {
			e.deleteSource(s)
		}
		return nil, false
	}

	out := make([]byte, total)
	copy(out, f.unfrag)
	n := f.fragments.Compact(out[len(f.unfrag):], f.declaredLen)
	if n < 0 {
		e.deleteFlow(f)
		if s.flows.Empty() {
			e.deleteSource(s)
		}
		return nil, false
	}

	if header.IPv6(out).IsValid() {
		header.IPv6(out).SetPayloadLength(uint16(uint32(n) + uint32(len(f.unfrag)) - header.IPv6FixedHeaderSize))
	}

	e.deleteFlow(f)
	if s.flows.Empty() {
		e.deleteSource(s)
	}
	return out, true
}
