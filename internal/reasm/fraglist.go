package reasm

import "github.com/packetkit/reasm6/pkg/buffer"

// fragNode is one stored, non-overlapping byte interval [offset, end)
// of a datagram under reassembly.
type fragNode struct {
	fragNodeEntry
	offset uint32
	end    uint32
	bytes  buffer.View
}

func (n *fragNode) length() int {
	return int(n.end - n.offset)
}

// fragList is the fragment-list primitive: an ordered, non-overlapping
// collection of byte intervals with a merging Insert, a contiguity
// predicate, and a compaction routine. It has no notion of address
// family or datagram identification, so the IPv4 sibling engine
// reuses it unchanged rather than reimplementing interval merging.
type fragList struct {
	nodes fragNodeList
}

// FragList is the exported name under which other reassembly engines
// in this module (internal/reasm/ipv4) import the primitive.
type FragList = fragList

// Insert copies data into an owned buffer and places [offset, end) into
// the list, merging any overlap with the newcomer winning on contested
// bytes (or vetoing the insert under OverlapDropOnConflict if the
// contested bytes disagree). It reports the net bytes charged to the
// caller's memory accounting (inserted) and the bytes released by
// intervals it shrank or removed (removed). ok is false only when the
// policy rejected the fragment outright, in which case neither the
// list nor the accounting changed.
func (l *fragList) Insert(policy OverlapPolicy, data []byte, offset, end uint32) (inserted, removed int, ok bool) {
	if policy == OverlapDropOnConflict {
		if !l.conflictFree(data, offset, end) {
			return 0, 0, false
		}
	}

	n := l.nodes.Front()
	for n != nil {
		next := n.Next()
		if n.offset >= end {
			break
		}
		if n.end <= offset {
			n = next
			continue
		}

		switch {
		case offset <= n.offset && n.end <= end:
			// n is fully subsumed by the newcomer.
			removed += n.length()
			l.nodes.Remove(n)

		case n.offset < offset && n.end <= end:
			// Overlap at n's tail: keep n's head, drop the rest.
			removed += int(n.end - offset)
			n.bytes.CapLength(int(offset - n.offset))
			n.end = offset

		case offset <= n.offset && end < n.end:
			// Overlap at n's head: keep n's tail, drop the rest.
			removed += int(end - n.offset)
			n.bytes.TrimFront(int(end - n.offset))
			n.offset = end

		default:
			// n.offset < offset && end < n.end: the newcomer lands
			// strictly inside n, splitting it in two. The right half
			// reuses n's backing array (no copy); only n itself
			// shrinks to the left half.
			removed += int(end - offset)
			rightBytes := n.bytes
			rightBytes.TrimFront(int(end - n.offset))
			right := &fragNode{offset: end, end: n.end, bytes: rightBytes}
			n.bytes.CapLength(int(offset - n.offset))
			n.end = offset
			l.nodes.InsertAfter(n, right)
		}
		n = next
	}

	owned := buffer.NewViewFromBytes(data)
	newNode := &fragNode{offset: offset, end: end, bytes: owned}
	l.insertSorted(newNode)
	return len(owned), removed, true
}

// conflictFree reports whether data agrees, byte for byte, with every
// stored interval it overlaps.
func (l *fragList) conflictFree(data []byte, offset, end uint32) bool {
	for n := l.nodes.Front(); n != nil; n = n.Next() {
		if n.offset >= end {
			break
		}
		if n.end <= offset {
			continue
		}
		lo := n.offset
		if offset > lo {
			lo = offset
		}
		hi := n.end
		if end < hi {
			hi = end
		}
		for i := lo; i < hi; i++ {
			if n.bytes[i-n.offset] != data[i-offset] {
				return false
			}
		}
	}
	return true
}

func (l *fragList) insertSorted(newNode *fragNode) {
	for n := l.nodes.Front(); n != nil; n = n.Next() {
		if newNode.offset < n.offset {
			l.nodes.InsertBefore(n, newNode)
			return
		}
	}
	l.nodes.PushBack(newNode)
}

// IsContiguous reports whether the list's union covers [0, totalLen)
// with no gaps.
func (l *fragList) IsContiguous(totalLen uint32) bool {
	if totalLen == 0 {
		return true
	}
	pos := uint32(0)
	n := l.nodes.Front()
	for n != nil {
		if n.offset != pos {
			return false
		}
		pos = n.end
		n = n.Next()
	}
	return pos == totalLen
}

// Compact writes every interval, in order, into out and returns the
// number of bytes written, or -1 if the observed coverage disagrees
// with declaredLen (a gap, or a final length mismatch).
func (l *fragList) Compact(out []byte, declaredLen uint32) int {
	pos := uint32(0)
	for n := l.nodes.Front(); n != nil; n = n.Next() {
		if n.offset != pos {
			return -1
		}
		copy(out[pos:n.end], n.bytes)
		pos = n.end
	}
	if pos != declaredLen {
		return -1
	}
	return int(pos)
}

// totalBytes sums the length of every stored interval; deleteFlow uses
// it to debit a flow's fragment bytes, and tests use it for invariant
// checks.
func (l *fragList) totalBytes() int {
	n := 0
	for f := l.nodes.Front(); f != nil; f = f.Next() {
		n += f.length()
	}
	return n
}
