package decoder

import (
	"encoding/binary"
	"net/netip"

	"firestige.xyz/meshtest/internal/core"
)

const (
	// ND option types (RFC 4861 §4.6)
	OptPrefixInfo = 3

	// A PIO is always encoded as 32 bytes (length field 4).
	pioLen = 32
)

// DecodePrefixInfo decodes a fixed 32-byte Prefix Information Option
// starting at the option's type byte (RFC 4861 §4.6.2).
func DecodePrefixInfo(data []byte) (core.PrefixInfoOption, error) {
	if len(data) < pioLen {
		return core.PrefixInfoOption{}, core.ErrPacketTooShort
	}

	pio := core.PrefixInfoOption{
		// Type (offset 0) and Length (offset 1) are not re-validated here;
		// the option walk already matched on the type byte.

		// Prefix Length (1 byte at offset 2)
		PrefixLength: data[2],
	}

	// Flags (1 byte at offset 3): L=0x80, A=0x40
	pio.OnLink = data[3]&0x80 != 0
	pio.Autonomous = data[3]&0x40 != 0

	// Valid Lifetime (4 bytes at offset 4), seconds
	pio.ValidLifetime = binary.BigEndian.Uint32(data[4:8])

	// Preferred Lifetime (4 bytes at offset 8), seconds
	pio.PreferredLifetime = binary.BigEndian.Uint32(data[8:12])

	// Reserved2 (4 bytes at offset 12)

	// Prefix (16 bytes at offset 16)
	addr, ok := netip.AddrFromSlice(data[16:32])
	if !ok {
		return pio, core.ErrPacketTooShort
	}
	pio.Prefix = addr

	return pio, nil
}

// AppendPrefixInfo appends the 32-byte encoding of pio to b. It is the
// encode counterpart of DecodePrefixInfo, used to build synthetic RAs.
func AppendPrefixInfo(b []byte, pio core.PrefixInfoOption) []byte {
	var opt [pioLen]byte
	opt[0] = OptPrefixInfo
	opt[1] = pioLen / 8
	opt[2] = pio.PrefixLength
	if pio.OnLink {
		opt[3] |= 0x80
	}
	if pio.Autonomous {
		opt[3] |= 0x40
	}
	binary.BigEndian.PutUint32(opt[4:8], pio.ValidLifetime)
	binary.BigEndian.PutUint32(opt[8:12], pio.PreferredLifetime)
	prefix := pio.Prefix.As16()
	copy(opt[16:32], prefix[:])
	return append(b, opt[:]...)
}

// ExtractPrefixOptions returns the Prefix Information Options carried by an
// ICMPv6 Router Advertisement. The packet must start at the IPv6 header.
//
// It never fails: nil input, short input, non-ICMPv6 and non-RA packets all
// yield an empty slice. A structurally broken option list (zero-length
// option or truncated PIO) stops the walk and returns the PIOs collected up
// to that point.
func ExtractPrefixOptions(packet []byte) []core.PrefixInfoOption {
	var pios []core.PrefixInfoOption

	ipv6, payload, err := DecodeIPv6(packet)
	if err != nil || ipv6.NextHeader != ProtoICMPv6 {
		return pios
	}

	icmp, body, err := DecodeICMPv6(payload)
	if err != nil || icmp.Type != TypeRouterAdvert {
		return pios
	}

	_, options, err := DecodeRouterAdvert(body)
	if err != nil {
		return pios
	}

	for len(options) >= 2 {
		optType := options[0]
		optLen := options[1]

		if optType == OptPrefixInfo {
			pio, err := DecodePrefixInfo(options)
			if err != nil {
				break
			}
			pios = append(pios, pio)
			// A PIO's encoded size is fixed; advance past it regardless of
			// the declared length byte.
			options = options[pioLen:]
			continue
		}

		// The length field is in units of 8 octets. A zero length can never
		// advance the cursor, so treat it as malformed and stop.
		if optLen == 0 {
			break
		}
		skip := int(optLen) * 8
		if skip > len(options) {
			break
		}
		options = options[skip:]
	}

	return pios
}
