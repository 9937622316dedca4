package reasm

import "github.com/packetkit/reasm6/pkg/header"

// hashAddress computes a shift-add-XOR accumulator hash over a 16-byte
// IPv6 address, reduced modulo bucketCount.
func hashAddress(addr header.Address, bucketCount int) int {
	var h uint16
	for _, b := range addr {
		h ^= (h << 5) + (h >> 2) + uint16(b)
	}
	return int(h) % bucketCount
}
