package decoder

import (
	"net/netip"
	"testing"
)

func TestDecodeIPv6Basic(t *testing.T) {
	// Minimal IPv6 header (40 bytes)
	data := make([]byte, 40+4) // Header + payload

	// Version (6), Traffic Class, Flow Label
	data[0] = 0x60

	// Payload Length
	data[4], data[5] = 0x00, 0x04 // 4 bytes

	// Next Header
	data[6] = ProtoICMPv6

	// Hop Limit
	data[7] = 255

	// Source IP: fe80::1
	copy(data[8:24], []byte{
		0xfe, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
	})

	// Destination IP: ff02::1
	copy(data[24:40], []byte{
		0xff, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
	})

	// Payload
	data[40], data[41], data[42], data[43] = 0x01, 0x02, 0x03, 0x04

	hdr, payload, err := DecodeIPv6(data)
	if err != nil {
		t.Fatalf("DecodeIPv6 failed: %v", err)
	}

	if hdr.Version != 6 {
		t.Errorf("Expected version 6, got %d", hdr.Version)
	}
	if hdr.PayloadLen != 4 {
		t.Errorf("Expected PayloadLen 4, got %d", hdr.PayloadLen)
	}
	if hdr.NextHeader != ProtoICMPv6 {
		t.Errorf("Expected NextHeader %d, got %d", ProtoICMPv6, hdr.NextHeader)
	}
	if hdr.HopLimit != 255 {
		t.Errorf("Expected HopLimit 255, got %d", hdr.HopLimit)
	}

	expectedSrc := netip.MustParseAddr("fe80::1")
	if hdr.SrcIP != expectedSrc {
		t.Errorf("Expected SrcIP %v, got %v", expectedSrc, hdr.SrcIP)
	}
	expectedDst := netip.MustParseAddr("ff02::1")
	if hdr.DstIP != expectedDst {
		t.Errorf("Expected DstIP %v, got %v", expectedDst, hdr.DstIP)
	}

	if len(payload) != 4 {
		t.Errorf("Expected payload length 4, got %d", len(payload))
	}
}

func TestDecodeIPv6TooShort(t *testing.T) {
	data := make([]byte, 39)
	data[0] = 0x60

	if _, _, err := DecodeIPv6(data); err == nil {
		t.Error("Expected error for 39-byte packet, got nil")
	}
}

func TestDecodeIPv6WrongVersion(t *testing.T) {
	data := make([]byte, 40)
	data[0] = 0x45 // IPv4

	if _, _, err := DecodeIPv6(data); err == nil {
		t.Error("Expected error for IPv4 packet, got nil")
	}
}
