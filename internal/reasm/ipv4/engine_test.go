package ipv4

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packet(id uint16, flags uint16, fragOffsetBytes uint16, payload []byte) []byte {
	p := make([]byte, 20+len(payload))
	p[0] = 0x45
	binary.BigEndian.PutUint16(p[2:], uint16(len(p)))
	binary.BigEndian.PutUint16(p[4:], id)
	binary.BigEndian.PutUint16(p[6:], flags<<13|fragOffsetBytes/8)
	p[9] = 17 // UDP, arbitrary
	p[12], p[13], p[14], p[15] = 10, 0, 0, 1
	p[16], p[17], p[18], p[19] = 10, 0, 0, 2
	copy(p[20:], payload)
	return p
}

func TestIPv4ProcessUnfragmentedPacket(t *testing.T) {
	e := New(DefaultConfig())
	p := packet(1, 0, 0, []byte("hello"))
	out, done := e.Process(0, p)
	require.True(t, done)
	assert.Equal(t, p, out)
	assert.Equal(t, 0, e.UsedBytes())
}

func TestIPv4ProcessTwoFragmentsInOrder(t *testing.T) {
	e := New(DefaultConfig())

	first := packet(2, 1, 0, []byte("0123456789abcdef"))
	out, done := e.Process(0, first)
	assert.False(t, done)
	assert.Nil(t, out)

	second := packet(2, 0, 16, []byte("ghij"))
	out, done = e.Process(0, second)
	require.True(t, done)
	assert.Equal(t, []byte("0123456789abcdefghij"), out[20:])
	assert.Equal(t, 0, e.UsedBytes())
}

func TestIPv4ProcessTimeoutDropsStaleReassembly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeoutSeconds = 30
	e := New(cfg)

	first := packet(3, 1, 0, []byte("0123456789abcdef"))
	_, done := e.Process(0, first)
	require.False(t, done)

	second := packet(3, 0, 16, []byte("ghij"))
	out, done := e.Process(31, second)
	assert.False(t, done)
	assert.Nil(t, out)
}

func TestIPv4ProcessEvictsUnderMemoryPressure(t *testing.T) {
	cfg := Config{HighMemoryLimit: 2048, LowMemoryLimit: 1024, TimeoutSeconds: 30}
	e := New(cfg)

	for id := uint16(0); id < 10; id++ {
		first := packet(id, 1, 0, make([]byte, 400))
		_, done := e.Process(0, first)
		require.False(t, done)
	}

	assert.LessOrEqual(t, e.UsedBytes(), cfg.LowMemoryLimit+400)
}
