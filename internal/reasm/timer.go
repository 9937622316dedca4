package reasm

// timer is a flow's expiration handle within the engine's timer list.
type timer struct {
	timerEntry
	expiration uint32
	flow       *flow
}

func (t *timer) expired(now uint32) bool {
	return now > t.expiration
}
