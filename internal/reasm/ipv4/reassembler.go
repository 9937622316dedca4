package ipv4

import (
	"github.com/packetkit/reasm6/internal/reasm"
	"github.com/packetkit/reasm6/pkg/header"
)

// flowKey identifies one IPv4 datagram under reassembly. RFC 791
// scopes the identification field to a (source, destination, protocol)
// triple, not to the identification field alone.
type flowKey struct {
	src      header.Address4
	dst      header.Address4
	protocol uint8
	id       uint16
}

// reassembler accumulates the fragments of one IPv4 datagram.
type reassembler struct {
	reassemblerEntry
	key         flowKey
	fragments   reasm.FragList
	firstHeader []byte // the fixed header captured from the offset-0 fragment
	declaredLen uint32 // 0 until the last fragment (MF=0) has been seen
	size        int    // bytes charged to the engine's memory accounting
	expiresAt   uint32
}
