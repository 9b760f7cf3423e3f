package decoder

import (
	"encoding/binary"

	"firestige.xyz/meshtest/internal/core"
)

const (
	ethHeaderLen = 14

	etherTypeIPv6 = 0x86DD
	etherTypeVLAN = 0x8100
)

// StripEthernet removes the L2 Ethernet framing (including up to two VLAN
// tags) from a captured frame and returns the IPv6 packet it carries.
// TUN captures have no L2 header, so frames that already start with an IPv6
// version nibble are returned unchanged.
//
// Returns ErrUnsupportedProto when the frame does not carry IPv6.
func StripEthernet(frame []byte) ([]byte, error) {
	if len(frame) >= 1 && frame[0]>>4 == 6 {
		return frame, nil
	}
	if len(frame) < ethHeaderLen {
		return nil, core.ErrPacketTooShort
	}

	// EtherType (2 bytes at offset 12)
	etherType := binary.BigEndian.Uint16(frame[12:14])
	offset := ethHeaderLen

	// QinQ scenarios have 2 VLAN tags
	for i := 0; i < 2 && etherType == etherTypeVLAN; i++ {
		if len(frame) < offset+4 {
			return nil, core.ErrPacketTooShort
		}
		etherType = binary.BigEndian.Uint16(frame[offset+2 : offset+4])
		offset += 4
	}

	if etherType != etherTypeIPv6 {
		return nil, core.ErrUnsupportedProto
	}
	return frame[offset:], nil
}
