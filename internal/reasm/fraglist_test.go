package reasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeat(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func TestFragListInsertContiguousInOrder(t *testing.T) {
	var l fragList

	inserted, removed, ok := l.Insert(OverlapMerge, repeat(0x42, 1280), 0, 1280)
	require.True(t, ok)
	assert.Equal(t, 1280, inserted)
	assert.Equal(t, 0, removed)
	assert.False(t, l.IsContiguous(1288))

	inserted, removed, ok = l.Insert(OverlapMerge, []byte{0, 1, 2, 3, 4, 5, 6, 7}, 1280, 1288)
	require.True(t, ok)
	assert.Equal(t, 8, inserted)
	assert.Equal(t, 0, removed)
	assert.True(t, l.IsContiguous(1288))

	out := make([]byte, 1288)
	n := l.Compact(out, 1288)
	require.Equal(t, 1288, n)
	assert.Equal(t, repeat(0x42, 1280), out[:1280])
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6, 7}, out[1280:])
}

func TestFragListInsertReversedMatchesInOrder(t *testing.T) {
	var l fragList
	_, _, ok := l.Insert(OverlapMerge, []byte{0, 1, 2, 3, 4, 5, 6, 7}, 1280, 1288)
	require.True(t, ok)
	_, _, ok = l.Insert(OverlapMerge, repeat(0x42, 1280), 0, 1280)
	require.True(t, ok)

	require.True(t, l.IsContiguous(1288))
	out := make([]byte, 1288)
	n := l.Compact(out, 1288)
	require.Equal(t, 1288, n)
	assert.Equal(t, repeat(0x42, 1280), out[:1280])
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6, 7}, out[1280:])
}

func TestFragListDuplicateInsertIsIdempotent(t *testing.T) {
	var l fragList
	data := []byte{9, 9, 9, 9}
	inserted1, _, ok := l.Insert(OverlapMerge, data, 0, 4)
	require.True(t, ok)
	before := l.totalBytes()

	inserted2, removed2, ok := l.Insert(OverlapMerge, data, 0, 4)
	require.True(t, ok)
	after := l.totalBytes()

	assert.Equal(t, inserted1, inserted2)
	assert.Equal(t, inserted2, removed2)
	assert.Equal(t, before, after)
}

func TestFragListOverlapNewerWins(t *testing.T) {
	var l fragList
	_, _, ok := l.Insert(OverlapMerge, []byte{1, 1, 1, 1}, 0, 4)
	require.True(t, ok)
	_, _, ok = l.Insert(OverlapMerge, []byte{2, 2}, 2, 4)
	require.True(t, ok)

	require.True(t, l.IsContiguous(4))
	out := make([]byte, 4)
	n := l.Compact(out, 4)
	require.Equal(t, 4, n)
	assert.Equal(t, []byte{1, 1, 2, 2}, out)
}

func TestFragListSplitOnMiddleInsert(t *testing.T) {
	var l fragList
	_, _, ok := l.Insert(OverlapMerge, repeat('a', 10), 0, 10)
	require.True(t, ok)
	_, removed, ok := l.Insert(OverlapMerge, []byte{'b', 'b'}, 4, 6)
	require.True(t, ok)
	assert.Equal(t, 2, removed)

	require.True(t, l.IsContiguous(10))
	out := make([]byte, 10)
	n := l.Compact(out, 10)
	require.Equal(t, 10, n)
	assert.Equal(t, []byte("aaaabbaaaa"), out)
}

func TestFragListDropOnConflict(t *testing.T) {
	var l fragList
	_, _, ok := l.Insert(OverlapDropOnConflict, []byte{1, 2, 3, 4}, 0, 4)
	require.True(t, ok)

	// Conflicting overlap: byte at offset 2 disagrees (3 vs 9).
	_, _, ok = l.Insert(OverlapDropOnConflict, []byte{9, 9}, 2, 4)
	assert.False(t, ok)
	assert.Equal(t, 4, l.totalBytes())

	// Agreeing overlap (a retransmission) is still accepted.
	_, _, ok = l.Insert(OverlapDropOnConflict, []byte{3, 4}, 2, 4)
	assert.True(t, ok)
}

func TestFragListGapIsNotContiguous(t *testing.T) {
	var l fragList
	_, _, ok := l.Insert(OverlapMerge, []byte{1, 2}, 0, 2)
	require.True(t, ok)
	_, _, ok = l.Insert(OverlapMerge, []byte{5, 6}, 4, 6)
	require.True(t, ok)

	assert.False(t, l.IsContiguous(6))
	out := make([]byte, 6)
	assert.Equal(t, -1, l.Compact(out, 6))
}
