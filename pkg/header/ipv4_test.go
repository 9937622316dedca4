package header

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIPv4Accessors(t *testing.T) {
	b := make(IPv4, IPv4MinimumSize+4)
	b[0] = 0x45 // version 4, IHL 5 (20 bytes)
	binary.BigEndian.PutUint16(b[2:], uint16(len(b)))
	binary.BigEndian.PutUint16(b[4:], 0x1234)
	binary.BigEndian.PutUint16(b[6:], (IPv4FlagMoreFragments<<13)|100) // MF set, offset=100*8=800
	b[9] = 17
	copy(b[12:], []byte{10, 0, 0, 1})
	copy(b[16:], []byte{10, 0, 0, 2})

	assert.Equal(t, uint8(20), b.HeaderLength())
	assert.Equal(t, uint16(len(b)), b.TotalLength())
	assert.Equal(t, uint16(0x1234), b.ID())
	assert.Equal(t, uint8(IPv4FlagMoreFragments), b.Flags())
	assert.Equal(t, uint16(800), b.FragmentOffset())
	assert.Equal(t, uint8(17), b.Protocol())
	assert.Equal(t, Address4{10, 0, 0, 1}, b.SourceAddress())
	assert.Equal(t, Address4{10, 0, 0, 2}, b.DestinationAddress())
}

func TestIPv4FragmentOffsetZero(t *testing.T) {
	b := make(IPv4, IPv4MinimumSize)
	binary.BigEndian.PutUint16(b[6:], 0)
	assert.Equal(t, uint16(0), b.FragmentOffset())
	assert.Equal(t, uint8(0), b.Flags())
}
