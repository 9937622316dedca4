// Package ipv4 is the sibling reassembly engine for classic IPv4
// fragmentation (RFC 791), reusing the interval-merging fragment-list
// primitive built for IPv6 but keyed by a single global map plus an
// LRU list rather than a hash-bucketed source table: IPv4 has no
// per-source flow explosion to guard against, only a single global
// identification-field collision space per (source, destination,
// protocol) triple.
package ipv4

import (
	"github.com/packetkit/reasm6/internal/reasm"
	"github.com/packetkit/reasm6/pkg/header"
)

const maxDatagramSize = 0xffff

// Config holds the water-mark eviction parameters: a high water mark
// that triggers eviction, a low water mark eviction drains down to,
// and a reassembly lifetime in the same abstract "seconds" clock the
// IPv6 engine uses.
type Config struct {
	HighMemoryLimit int
	LowMemoryLimit  int
	TimeoutSeconds  uint32
}

// DefaultConfig returns conservative water marks and timeout suitable
// for a single collector process handling ordinary traffic volumes.
func DefaultConfig() Config {
	return Config{
		HighMemoryLimit: 4 << 20,
		LowMemoryLimit:  3 << 20,
		TimeoutSeconds:  30,
	}
}

// Engine reassembles IPv4 datagrams from their fragments.
type Engine struct {
	high, low int
	timeout   uint32

	table map[flowKey]*reassembler
	order reassemblerList
	size  int
}

// New constructs an Engine, clamping an inverted or negative water-mark
// pair to a usable low <= high range rather than rejecting it outright.
func New(cfg Config) *Engine {
	low := cfg.LowMemoryLimit
	if low >= cfg.HighMemoryLimit {
		low = cfg.HighMemoryLimit
	}
	if low < 0 {
		low = 0
	}
	return &Engine{
		high:    cfg.HighMemoryLimit,
		low:     low,
		timeout: cfg.TimeoutSeconds,
		table:   make(map[flowKey]*reassembler),
	}
}

// UsedBytes reports the engine's current fragment memory accounting.
func (e *Engine) UsedBytes() int { return e.size }

// Process feeds one IPv4 packet, header included, into the engine. now
// is the caller's abstract clock in seconds. It returns the
// reassembled datagram (header plus payload) and true once every
// fragment of the packet's datagram has arrived; a non-fragmented
// packet reassembles trivially on its first call.
func (e *Engine) Process(now uint32, packet []byte) ([]byte, bool) {
	h := header.IPv4(packet)
	if len(packet) < header.IPv4MinimumSize {
		return nil, false
	}
	hlen := int(h.HeaderLength())
	if hlen < header.IPv4MinimumSize || len(packet) < hlen {
		return nil, false
	}

	more := h.Flags()&header.IPv4FlagMoreFragments != 0
	offset := uint32(h.FragmentOffset())
	payload := packet[hlen:]
	end := offset + uint32(len(payload))
	if end > maxDatagramSize {
		return nil, false
	}

	if !more && offset == 0 {
		// Never fragmented; nothing to reassemble.
		return packet, true
	}

	key := flowKey{src: h.SourceAddress(), dst: h.DestinationAddress(), protocol: h.Protocol(), id: h.ID()}

	r, ok := e.table[key]
	if ok && r.expiresAt <= now {
		e.release(r)
		ok = false
	}
	if !ok {
		r = &reassembler{key: key, expiresAt: now + e.timeout}
		e.table[key] = r
		e.order.PushFront(r)
	} else {
		e.order.MoveToFront(r)
	}

	if offset == 0 {
		r.firstHeader = append([]byte(nil), packet[:hlen]...)
	}
	if !more {
		if r.declaredLen != 0 {
			e.release(r)
			return nil, false
		}
		r.declaredLen = end
	}

	inserted, removed, ok := r.fragments.Insert(reasm.OverlapMerge, payload, offset, end)
	if !ok {
		e.release(r)
		return nil, false
	}
	r.size += inserted - removed
	e.size += inserted - removed

	var out []byte
	done := r.declaredLen != 0 && r.firstHeader != nil && r.fragments.IsContiguous(r.declaredLen)
	if done {
		total := len(r.firstHeader) + int(r.declaredLen)
		if total > maxDatagramSize {
			e.release(r)
			return nil, false
		}
		out = make([]byte, total)
		copy(out, r.firstHeader)
		n := r.fragments.Compact(out[len(r.firstHeader):], r.declaredLen)
		if n < 0 {
			e.release(r)
			return nil, false
		}
		header.IPv4(out).SetTotalLength(uint16(total))
		e.release(r)
	}

	if e.size > e.high {
		for tail := e.order.Back(); e.size > e.low && tail != nil; {
			prev := tail.Prev()
			e.release(tail)
			tail = prev
		}
	}

	return out, done
}

// release drops a reassembler and debits its bytes from the engine's
// accounting. Idempotent against a reassembler already completed and
// released by Process in the same call.
func (e *Engine) release(r *reassembler) {
	if _, ok := e.table[r.key]; !ok {
		return
	}
	delete(e.table, r.key)
	e.order.Remove(r)
	e.size -= r.size
	if e.size < 0 {
		e.size = 0
	}
}
