package decoder

import (
	"encoding/binary"
	"time"

	"firestige.xyz/meshtest/internal/core"
)

const (
	icmpv6HeaderLen = 4
	raHeaderLen     = 12

	// ICMPv6 message types (RFC 4861)
	TypeRouterSolicit   = 133
	TypeRouterAdvert    = 134
	TypeNeighborSolicit = 135
	TypeNeighborAdvert  = 136
)

// DecodeICMPv6 decodes the 4 leading bytes common to all ICMPv6 messages.
// Returns the header and the remaining message body.
func DecodeICMPv6(data []byte) (core.ICMPv6Header, []byte, error) {
	if len(data) < icmpv6HeaderLen {
		return core.ICMPv6Header{}, nil, core.ErrPacketTooShort
	}

	hdr := core.ICMPv6Header{
		// Type (1 byte at offset 0), Code (1 byte at offset 1)
		Type: data[0],
		Code: data[1],
	}

	// Checksum (2 bytes at offset 2) - not verified, capture may be partial
	hdr.Checksum = binary.BigEndian.Uint16(data[2:4])

	body := data[icmpv6HeaderLen:]
	return hdr, body, nil
}

// DecodeRouterAdvert decodes the 12-byte RA body that follows the ICMPv6
// header (RFC 4861 §4.2). Returns the header and the trailing option list.
func DecodeRouterAdvert(data []byte) (core.RouterAdvert, []byte, error) {
	if len(data) < raHeaderLen {
		return core.RouterAdvert{}, nil, core.ErrPacketTooShort
	}

	ra := core.RouterAdvert{
		// Cur Hop Limit (1 byte at offset 0)
		CurHopLimit: data[0],
	}

	// Flags (1 byte at offset 1): M=0x80, O=0x40
	ra.Managed = data[1]&0x80 != 0
	ra.OtherConfig = data[1]&0x40 != 0

	// Router Lifetime (2 bytes at offset 2), seconds
	ra.RouterLifetime = time.Duration(binary.BigEndian.Uint16(data[2:4])) * time.Second

	// Reachable Time (4 bytes at offset 4), milliseconds
	ra.ReachableTime = time.Duration(binary.BigEndian.Uint32(data[4:8])) * time.Millisecond

	// Retrans Timer (4 bytes at offset 8), milliseconds
	ra.RetransTimer = time.Duration(binary.BigEndian.Uint32(data[8:12])) * time.Millisecond

	options := data[raHeaderLen:]
	return ra, options, nil
}
