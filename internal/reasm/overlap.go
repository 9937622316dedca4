package reasm

// OverlapPolicy controls how the fragment-list primitive resolves
// bytes claimed by more than one arriving fragment. RFC 5722
// recommends dropping datagrams with conflicting overlaps outright;
// the historically observed behavior (and this engine's default, for
// compatibility with callers that rely on it) is to silently merge
// and let the newest arrival win.
type OverlapPolicy int

const (
	// OverlapMerge lets the newest fragment win on any byte range more
	// than one fragment claims.
	OverlapMerge OverlapPolicy = iota

	// OverlapDropOnConflict rejects an incoming fragment outright if it
	// overlaps a previously stored fragment with different bytes in the
	// shared range. Fragments that overlap without disagreeing (e.g. an
	// exact retransmission) are still merged.
	OverlapDropOnConflict
)
