package ipv4

// reassemblerList is an intrusive doubly-linked list of in-progress
// IPv4 reassemblies, ordered by recency of use for the high/low
// water-mark eviction in Engine.Process, following the same generated-
// list convention as the IPv6 engine's fragNodeList.
type reassemblerList struct {
	head *reassembler
	tail *reassembler
}

func (l *reassemblerList) Empty() bool { return l.head == nil }

func (l *reassemblerList) Front() *reassembler { return l.head }

func (l *reassemblerList) Back() *reassembler { return l.tail }

func (l *reassemblerList) PushFront(r *reassembler) {
	r.next = l.head
	r.prev = nil
	if l.head != nil {
		l.head.prev = r
	} else {
		l.tail = r
	}
	l.head = r
}

// MoveToFront relocates r, already in the list, to the head. Used on
// every access so the tail stays the least-recently-touched entry for
// eviction.
func (l *reassemblerList) MoveToFront(r *reassembler) {
	if l.head == r {
		return
	}
	l.Remove(r)
	l.PushFront(r)
}

func (l *reassemblerList) Remove(r *reassembler) {
	if r.prev != nil {
		r.prev.next = r.next
	} else {
		l.head = r.next
	}
	if r.next != nil {
		r.next.prev = r.prev
	} else {
		l.tail = r.prev
	}
	r.next = nil
	r.prev = nil
}

type reassemblerEntry struct {
	next *reassembler
	prev *reassembler
}

func (e *reassemblerEntry) Next() *reassembler { return e.next }
func (e *reassemblerEntry) Prev() *reassembler { return e.prev }
