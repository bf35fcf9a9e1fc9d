// Package pcap implements an offline pcap frame source.
//
// The source replays a capture file and extracts TCP segment payloads on the
// Modbus port as candidate frames. Segments are taken as captured: a frame
// torn across TCP reads arrives at the decoder truncated, which is exactly
// the input class the decoder has to survive. Live capture and stream
// reassembly are out of scope.
package pcap

import (
	"fmt"
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/gammahazard/protocol-gateway-sandbox/internal/core"
)

// DefaultPort is the IANA-assigned Modbus/TCP port.
const DefaultPort = 502

// Config selects the capture file and the traffic to extract from it.
type Config struct {
	Path   string `mapstructure:"path"`
	Port   int    `mapstructure:"port"`   // 0 = DefaultPort
	Filter string `mapstructure:"filter"` // Optional BPF filter overriding the port filter
}

// Source reads candidate frames from a pcap file.
type Source struct {
	origin string
	handle *pcap.Handle
	source *gopacket.PacketSource
}

// Open opens the capture file and installs the BPF filter.
func Open(cfg Config) (*Source, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("pcap source: path is required")
	}

	handle, err := pcap.OpenOffline(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pcap file %s: %w", cfg.Path, err)
	}

	filter := cfg.Filter
	if filter == "" {
		port := cfg.Port
		if port == 0 {
			port = DefaultPort
		}
		filter = fmt.Sprintf("tcp port %d", port)
	}
	if err := handle.SetBPFFilter(filter); err != nil {
		handle.Close()
		return nil, fmt.Errorf("failed to set BPF filter %q: %w", filter, err)
	}

	src := gopacket.NewPacketSource(handle, handle.LinkType())
	src.DecodeOptions = gopacket.DecodeOptions{Lazy: true, NoCopy: true}

	return &Source{
		origin: "pcap:" + cfg.Path,
		handle: handle,
		source: src,
	}, nil
}

// Next returns the payload of the next non-empty TCP segment, or io.EOF when
// the capture is drained.
func (s *Source) Next() (core.RawFrame, error) {
	for {
		packet, err := s.source.NextPacket()
		if err == io.EOF {
			return core.RawFrame{}, io.EOF
		}
		if err != nil {
			return core.RawFrame{}, fmt.Errorf("failed to read packet: %w", err)
		}

		tcpLayer := packet.Layer(layers.LayerTypeTCP)
		if tcpLayer == nil {
			continue
		}
		payload := tcpLayer.LayerPayload()
		if len(payload) == 0 {
			// SYN/ACK/FIN bookkeeping segments
			continue
		}

		// Copy: gopacket NoCopy payloads alias the handle's read buffer.
		data := make([]byte, len(payload))
		copy(data, payload)

		return core.RawFrame{
			Data:      data,
			Timestamp: packet.Metadata().Timestamp,
			Source:    s.origin,
		}, nil
	}
}

// Close releases the pcap handle.
func (s *Source) Close() error {
	if s.handle != nil {
		s.handle.Close()
		s.handle = nil
	}
	return nil
}
