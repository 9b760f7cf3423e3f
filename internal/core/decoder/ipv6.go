// Package decoder implements bounds-checked wire-format decoding for the
// IPv6/ICMPv6 packets the test helpers inspect.
package decoder

import (
	"encoding/binary"
	"net/netip"

	"firestige.xyz/meshtest/internal/core"
)

const (
	ipv6HeaderLen = 40

	// Next-header protocol numbers
	ProtoUDP    = 17
	ProtoICMPv6 = 58
)

// DecodeIPv6 decodes the fixed 40-byte IPv6 header.
// Returns the header and the remaining payload.
func DecodeIPv6(data []byte) (core.IPv6Header, []byte, error) {
	if len(data) < ipv6HeaderLen {
		return core.IPv6Header{}, nil, core.ErrPacketTooShort
	}

	// Version (upper 4 bits of first byte)
	version := data[0] >> 4
	if version != 6 {
		return core.IPv6Header{}, nil, core.ErrUnsupportedProto
	}

	hdr := core.IPv6Header{
		Version: 6,
	}

	// Payload Length (2 bytes at offset 4)
	hdr.PayloadLen = binary.BigEndian.Uint16(data[4:6])

	// Next Header (1 byte at offset 6)
	hdr.NextHeader = data[6]

	// Hop Limit (1 byte at offset 7)
	hdr.HopLimit = data[7]

	// Source IP (16 bytes at offset 8)
	addr, ok := netip.AddrFromSlice(data[8:24])
	if !ok {
		return hdr, nil, core.ErrPacketTooShort
	}
	hdr.SrcIP = addr

	// Destination IP (16 bytes at offset 24)
	addr, ok = netip.AddrFromSlice(data[24:40])
	if !ok {
		return hdr, nil, core.ErrPacketTooShort
	}
	hdr.DstIP = addr

	// Extension headers are not walked: the mesh test traffic this package
	// inspects (RA, UDP) carries its upper-layer header at offset 40.
	payload := data[ipv6HeaderLen:]
	return hdr, payload, nil
}
