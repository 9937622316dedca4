package reasm

// flowList is the doubly linked chain of flows owned by one source.
// New flows are inserted at the head, so the tail is always the oldest
// flow, the one per-source eviction removes first.
type flowList struct {
	head *flow
	tail *flow
}

func (l *flowList) Empty() bool {
	return l.head == nil
}

func (l *flowList) Front() *flow {
	return l.head
}

// PushFront makes f the new head of l.
func (l *flowList) PushFront(f *flow) {
	f.next = l.head
	f.prev = nil

	if l.head != nil {
		l.head.prev = f
	} else {
		l.tail = f
	}
	l.head = f
}

// Remove unlinks f from l. f must be a member of l.
func (l *flowList) Remove(f *flow) {
	prev := f.prev
	next := f.next

	if prev != nil {
		prev.next = next
	} else {
		l.head = next
	}

	if next != nil {
		next.prev = prev
	} else {
		l.tail = prev
	}
	f.next = nil
	f.prev = nil
}

type flowEntry struct {
	next *flow
	prev *flow
}

func (e *flowEntry) Next() *flow { return e.next }
func (e *flowEntry) Prev() *flow { return e.prev }
