package netutil

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	"golang.org/x/net/ipv6"
)

// meshHopLimit is applied to link-local and multicast test traffic so it
// survives the mesh-side forwarding hops.
const meshHopLimit = 64

// SendUDPMessage sends payload as a single connected UDP datagram to dst.
// Socket errors propagate to the caller; there is no retry.
func SendUDPMessage(ctx context.Context, dst netip.AddrPort, payload []byte) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", dst.String())
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", dst, err)
	}
	defer conn.Close()

	if udp, ok := conn.(*net.UDPConn); ok && dst.Addr().Is6() {
		p := ipv6.NewPacketConn(udp)
		if dst.Addr().IsMulticast() {
			if err := p.SetMulticastHopLimit(meshHopLimit); err != nil {
				return fmt.Errorf("failed to set multicast hop limit: %w", err)
			}
		} else if dst.Addr().IsLinkLocalUnicast() {
			if err := p.SetHopLimit(meshHopLimit); err != nil {
				return fmt.Errorf("failed to set hop limit: %w", err)
			}
		}
	}

	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("failed to send UDP message to %s: %w", dst, err)
	}
	return nil
}
