package decoder

import (
	"net/netip"
)

// Packet predicates used to filter captured traffic. Each classifies a raw
// packet starting at the IPv6 header and returns false on nil or malformed
// input: test traffic can be sent by anybody, so garbage is
// indistinguishable from "does not match".

// IsICMPv6OfType reports whether packet is an ICMPv6 message of the given
// type.
func IsICMPv6OfType(packet []byte, icmpType uint8) bool {
	ipv6, payload, err := DecodeIPv6(packet)
	if err != nil || ipv6.NextHeader != ProtoICMPv6 {
		return false
	}
	icmp, _, err := DecodeICMPv6(payload)
	if err != nil {
		return false
	}
	return icmp.Type == icmpType
}

// IsFromIPv6Source reports whether packet's IPv6 source address equals src.
func IsFromIPv6Source(packet []byte, src netip.Addr) bool {
	ipv6, _, err := DecodeIPv6(packet)
	if err != nil {
		return false
	}
	return ipv6.SrcIP == src
}

// IsToIPv6Destination reports whether packet's IPv6 destination address
// equals dst.
func IsToIPv6Destination(packet []byte, dst netip.Addr) bool {
	ipv6, _, err := DecodeIPv6(packet)
	if err != nil {
		return false
	}
	return ipv6.DstIP == dst
}

// IsUDPToPort reports whether packet is a UDP datagram destined to port.
// Used to verify that test UDP traffic reached the interface under test.
func IsUDPToPort(packet []byte, port uint16) bool {
	ipv6, payload, err := DecodeIPv6(packet)
	if err != nil || ipv6.NextHeader != ProtoUDP {
		return false
	}
	udp, _, err := DecodeUDP(payload)
	if err != nil {
		return false
	}
	return udp.DstPort == port
}
