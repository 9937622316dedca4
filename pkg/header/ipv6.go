package header

import (
	"encoding/binary"
)

// Byte offsets into the 40-byte IPv6 fixed header.
const (
	v6PayloadLen = 4
	v6NextHeader = 6
	v6HopLimit   = 7
	v6SrcAddr    = 8
	v6DstAddr    = 24
)

const (
	// IPv6FixedHeaderSize is the size, in bytes, of the IPv6 fixed header.
	IPv6FixedHeaderSize = 40

	// IPv6AddressSize is the size, in bytes, of an IPv6 address.
	IPv6AddressSize = 16

	// IPv6Version is the version field value carried by IPv6 packets.
	IPv6Version = 6

	// IPv6MinimumMTU is the minimum MTU required of every link an IPv6
	// packet may traverse, per RFC 2460 section 5.
	IPv6MinimumMTU = 1280

	// IPv6FragmentExtHdrIdentifier is the "next header" value that marks
	// an IPv6 Fragment extension header.
	IPv6FragmentExtHdrIdentifier = 44
)

// Address is a fixed-size IPv6 address, comparable and usable as a map
// key without the allocation a []byte or string conversion costs on
// every lookup.
type Address [IPv6AddressSize]byte

// IPv6 is an IPv6 fixed header stored in a byte slice. Accessors read
// and write directly into the underlying bytes.
type IPv6 []byte

// IsValid reports whether b is at least as long as the IPv6 fixed
// header.
func (b IPv6) IsValid() bool {
	return len(b) >= IPv6FixedHeaderSize
}

// PayloadLength returns the "payload length" field.
func (b IPv6) PayloadLength() uint16 {
	return binary.BigEndian.Uint16(b[v6PayloadLen:])
}

// SetPayloadLength rewrites the "payload length" field in network byte
// order.
func (b IPv6) SetPayloadLength(length uint16) {
	binary.BigEndian.PutUint16(b[v6PayloadLen:], length)
}

// NextHeader returns the "next header" field of the fixed header.
func (b IPv6) NextHeader() uint8 {
	return b[v6NextHeader]
}

// SetNextHeader rewrites the "next header" field of the fixed header.
// The unfragmentable prefix stores this to elide the Fragment header
// that precedes the datagram's real next header once fragments are
// merged.
func (b IPv6) SetNextHeader(v uint8) {
	b[v6NextHeader] = v
}

// SourceAddress returns the source address field.
func (b IPv6) SourceAddress() Address {
	var a Address
	copy(a[:], b[v6SrcAddr:v6SrcAddr+IPv6AddressSize])
	return a
}

// DestinationAddress returns the destination address field.
func (b IPv6) DestinationAddress() Address {
	var a Address
	copy(a[:], b[v6DstAddr:v6DstAddr+IPv6AddressSize])
	return a
}
