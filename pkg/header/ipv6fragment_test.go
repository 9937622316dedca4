package header

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIPv6FragmentAccessors(t *testing.T) {
	b := make(IPv6Fragment, IPv6FragmentHeaderSize+4)
	b[0] = 6 // next header
	binary.BigEndian.PutUint16(b[2:], (100<<3)|0x1) // offset=100*8=800 bytes, M=1
	binary.BigEndian.PutUint32(b[4:], 0xdeadbeef)
	copy(b[8:], []byte{1, 2, 3, 4})

	assert.True(t, b.IsValid())
	assert.Equal(t, uint8(6), b.NextHeader())
	assert.Equal(t, uint16(800), b.FragmentOffset())
	assert.True(t, b.More())
	assert.Equal(t, uint32(0xdeadbeef), b.ID())
	assert.Equal(t, []byte{1, 2, 3, 4}, b.Payload())
}

func TestIPv6FragmentOffsetZeroAndNotMore(t *testing.T) {
	b := make(IPv6Fragment, IPv6FragmentHeaderSize)
	binary.BigEndian.PutUint16(b[2:], 0)

	assert.Equal(t, uint16(0), b.FragmentOffset())
	assert.False(t, b.More())
}

func TestIPv6FragmentInvalidWhenTooShort(t *testing.T) {
	b := make(IPv6Fragment, IPv6FragmentHeaderSize-1)
	assert.False(t, b.IsValid())
}
