package header

import "encoding/binary"

// Byte offsets into the fixed part of an IPv4 header.
const (
	v4TotalLen = 2
	v4ID       = 4
	v4FlagsFO  = 6
	v4Protocol = 9
	v4SrcAddr  = 12
	v4DstAddr  = 16
)

const (
	// IPv4MinimumSize is the minimum size of a valid IPv4 header.
	IPv4MinimumSize = 20

	// IPv4AddressSize is the size, in bytes, of an IPv4 address.
	IPv4AddressSize = 4

	// IPv4FlagMoreFragments is the "more fragments" bit of the
	// flags/fragment-offset field.
	IPv4FlagMoreFragments = 1 << 0

	// IPv4FlagDontFragment is the "don't fragment" bit.
	IPv4FlagDontFragment = 1 << 1
)

// Address4 is a fixed-size IPv4 address, used as a hash/map key.
type Address4 [IPv4AddressSize]byte

// IPv4 is an IPv4 header stored in a byte slice.
type IPv4 []byte

// HeaderLength returns the header length in bytes, decoded from the
// low nibble of the first byte (in 4-byte units).
func (b IPv4) HeaderLength() uint8 {
	return (b[0] & 0xf) * 4
}

// TotalLength returns the "total length" field.
func (b IPv4) TotalLength() uint16 {
	return binary.BigEndian.Uint16(b[v4TotalLen:])
}

// SetTotalLength rewrites the "total length" field.
func (b IPv4) SetTotalLength(v uint16) {
	binary.BigEndian.PutUint16(b[v4TotalLen:], v)
}

// ID returns the 16-bit IPv4 identification field.
func (b IPv4) ID() uint16 {
	return binary.BigEndian.Uint16(b[v4ID:])
}

// Flags returns the 3-bit flags field.
func (b IPv4) Flags() uint8 {
	return uint8(binary.BigEndian.Uint16(b[v4FlagsFO:]) >> 13)
}

// FragmentOffset returns the fragment offset field, in bytes. The wire
// field is a 13-bit count of 8-byte units following a 3-bit flags
// field; shifting the raw 16-bit value left by 3 both drops the flags
// bits (they overflow out of the register) and multiplies the offset
// by 8 in one step.
func (b IPv4) FragmentOffset() uint16 {
	return binary.BigEndian.Uint16(b[v4FlagsFO:]) << 3
}

// Protocol returns the upper-layer protocol number.
func (b IPv4) Protocol() uint8 {
	return b[v4Protocol]
}

// SourceAddress returns the source address field.
func (b IPv4) SourceAddress() Address4 {
	var a Address4
	copy(a[:], b[v4SrcAddr:v4SrcAddr+IPv4AddressSize])
	return a
}

// DestinationAddress returns the destination address field.
func (b IPv4) DestinationAddress() Address4 {
	var a Address4
	copy(a[:], b[v4DstAddr:v4DstAddr+IPv4AddressSize])
	return a
}
