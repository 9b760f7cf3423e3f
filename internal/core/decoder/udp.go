package decoder

import (
	"encoding/binary"

	"firestige.xyz/meshtest/internal/core"
)

const udpHeaderLen = 8

// UDPHeader represents the fixed 8-byte UDP header.
type UDPHeader struct {
	SrcPort uint16
	DstPort uint16
	Length  uint16
}

// DecodeUDP decodes the UDP header. Returns the header and the datagram
// payload.
func DecodeUDP(data []byte) (UDPHeader, []byte, error) {
	if len(data) < udpHeaderLen {
		return UDPHeader{}, nil, core.ErrPacketTooShort
	}

	hdr := UDPHeader{
		// Source Port (2 bytes at offset 0)
		SrcPort: binary.BigEndian.Uint16(data[0:2]),

		// Destination Port (2 bytes at offset 2)
		DstPort: binary.BigEndian.Uint16(data[2:4]),

		// Length (2 bytes at offset 4) - includes header and data
		Length: binary.BigEndian.Uint16(data[4:6]),
	}

	// Checksum (2 bytes at offset 6) - not needed for decoding

	payload := data[udpHeaderLen:]
	return hdr, payload, nil
}
