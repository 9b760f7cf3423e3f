// Package core defines core types with zero external dependencies.
package core

import (
	"net/netip"
	"time"
)

// IPv6Header represents the fixed 40-byte IPv6 header.
type IPv6Header struct {
	Version    uint8
	PayloadLen uint16
	NextHeader uint8 // ICMPv6=58, UDP=17
	HopLimit   uint8
	SrcIP      netip.Addr // Go stdlib value type, zero allocation
	DstIP      netip.Addr
}

// ICMPv6Header represents the 4 leading bytes common to all ICMPv6 messages.
type ICMPv6Header struct {
	Type     uint8 // RouterAdvert=134, NeighborAdvert=136
	Code     uint8
	Checksum uint16
}

// RouterAdvert represents the 12-byte RA body that follows the ICMPv6 header
// (RFC 4861 §4.2). Consumed to locate the option list, not further decoded.
type RouterAdvert struct {
	CurHopLimit    uint8
	Managed        bool
	OtherConfig    bool
	RouterLifetime time.Duration
	ReachableTime  time.Duration
	RetransTimer   time.Duration
}

// PrefixInfoOption represents a Prefix Information Option (RFC 4861 §4.6.2).
// The encoded form is always 32 bytes.
type PrefixInfoOption struct {
	PrefixLength      uint8
	OnLink            bool // L flag
	Autonomous        bool // A flag
	ValidLifetime     uint32
	PreferredLifetime uint32
	Prefix            netip.Addr
}
