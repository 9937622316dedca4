// Package capture reads packets from a live interface or pcap file
// with gopacket, picks out IPv6 datagrams carrying a Fragment
// extension header, and drives them through the reassembly engine —
// grounded on firestige-Otus's decoder.Decoder and file.FileSource,
// simplified to the single concern of feeding a reasm.Engine.
package capture

import (
	"fmt"
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
	"github.com/google/uuid"

	"github.com/packetkit/reasm6/internal/logging"
	"github.com/packetkit/reasm6/internal/reasm"
	"github.com/packetkit/reasm6/pkg/header"
)

// Handler receives one reassembled (or trivially pass-through)
// datagram. runID tags every datagram produced by the same Source.Run
// call, so a consumer aggregating output from several capture runs can
// tell them apart without correlating by timestamp.
type Handler func(runID uuid.UUID, datagram []byte)

// Source reads packets from a single pcap handle, live or offline.
type Source struct {
	handle *pcap.Handle
	engine *reasm.Engine
	log    logging.Logger

	parser  *gopacket.DecodingLayerParser
	eth     layers.Ethernet
	ip6     layers.IPv6
	ip6Frag layers.IPv6Fragment
	decoded []gopacket.LayerType
}

// OpenFile opens a pcap/pcapng file for offline replay.
func OpenFile(path string, engine *reasm.Engine, log logging.Logger) (*Source, error) {
	handle, err := pcap.OpenOffline(path)
	if err != nil {
		return nil, fmt.Errorf("capture: open %s: %w", path, err)
	}
	return newSource(handle, engine, log), nil
}

// OpenLive opens a live capture on the named network interface.
func OpenLive(device string, snapLen int32, promisc bool, engine *reasm.Engine, log logging.Logger) (*Source, error) {
	handle, err := pcap.OpenLive(device, snapLen, promisc, pcap.BlockForever)
	if err != nil {
		return nil, fmt.Errorf("capture: open device %s: %w", device, err)
	}
	return newSource(handle, engine, log), nil
}

func newSource(handle *pcap.Handle, engine *reasm.Engine, log logging.Logger) *Source {
	if log == nil {
		log = logging.Nop
	}
	s := &Source{handle: handle, engine: engine, log: log}
	s.parser = gopacket.NewDecodingLayerParser(
		layers.LayerTypeEthernet,
		&s.eth,
		&s.ip6,
		&s.ip6Frag,
	)
	s.parser.IgnoreUnsupported = true
	return s
}

// Close releases the underlying pcap handle.
func (s *Source) Close() {
	if s.handle != nil {
		s.handle.Close()
	}
}

// Run reads packets until the source is exhausted (EOF, for an offline
// file) or an unrecoverable read error occurs, invoking fn for every
// datagram — reassembled or already-complete — it can hand upward.
// clock supplies the abstract, monotonically non-decreasing "now" the
// engine's timeout logic runs against; cmd/reasm6 passes the whole
// seconds elapsed since the run started.
func (s *Source) Run(clock func() uint32, fn Handler) error {
	runID := uuid.New()
	for {
		data, ci, err := s.handle.ReadPacketData()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("capture: read packet: %w", err)
		}
		s.handlePacket(runID, data, ci, clock(), fn)
	}
}

func (s *Source) handlePacket(runID uuid.UUID, data []byte, ci gopacket.CaptureInfo, now uint32, fn Handler) {
	s.decoded = s.decoded[:0]
	if err := s.parser.DecodeLayers(data, &s.decoded); err != nil {
		s.log.Debugf("capture: decode error: %v", err)
		return
	}

	var sawIP6, sawFrag bool
	for _, lt := range s.decoded {
		switch lt {
		case layers.LayerTypeIPv6:
			sawIP6 = true
		case layers.LayerTypeIPv6Fragment:
			sawFrag = true
		}
	}
	if !sawIP6 {
		return
	}

	fixedHeader := s.ip6.LayerContents()
	if !sawFrag {
		// No fragmentation: the datagram is already whole. Hand it
		// upward unchanged, matching the trivial case of the engine's
		// own Reassemble contract (a lone fragment completes on arrival).
		fn(runID, data[len(s.eth.LayerContents()):])
		return
	}

	fragHeader := header.IPv6Fragment(s.ip6Frag.LayerContents())
	if !fragHeader.IsValid() {
		return
	}

	src := s.ip6.SrcIP
	dst := s.ip6.DstIP
	var srcAddr, dstAddr header.Address
	copy(srcAddr[:], src)
	copy(dstAddr[:], dst)

	out, ok := s.engine.Reassemble(
		srcAddr,
		dstAddr,
		fragHeader.ID(),
		uint32(fragHeader.FragmentOffset()),
		fragHeader.More(),
		fixedHeader,
		s.ip6Frag.LayerPayload(),
		uint8(s.ip6Frag.NextHeader),
		now,
		0,
	)
	if !ok {
		return
	}
	fn(runID, out)
}
