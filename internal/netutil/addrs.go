package netutil

import (
	"context"
	"fmt"
	"net/netip"
	"strings"

	"firestige.xyz/meshtest/internal/core"
)

// LinkAddress is one IPv6 address assigned to an interface, as reported by
// `ip -6 addr show`.
type LinkAddress struct {
	Prefix     netip.Prefix
	Scope      string // "global", "link", "host"
	Deprecated bool
}

// IPv6LinkAddresses lists the IPv6 addresses of iface by parsing the
// "inet6" lines of `ip -6 addr show dev <iface>`.
func IPv6LinkAddresses(ctx context.Context, r Runner, iface string) ([]LinkAddress, error) {
	output, err := r.Run(ctx, "ip", "-6", "addr", "show", "dev", iface)
	if err != nil {
		return nil, err
	}

	var addrs []LinkAddress
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "inet6") {
			continue
		}
		addr, err := parseAddressLine(line)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// parseAddressLine parses one `ip -6 addr show` output line.
//
// Example: "inet6 2001:db8:1:1::1/64 scope global deprecated"
func parseAddressLine(line string) (LinkAddress, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "inet6" {
		return LinkAddress{}, fmt.Errorf("%w: not an inet6 line: %q", core.ErrMalformedOutput, line)
	}

	prefix, err := netip.ParsePrefix(fields[1])
	if err != nil {
		return LinkAddress{}, fmt.Errorf("%w: bad address %q: %v", core.ErrMalformedOutput, fields[1], err)
	}

	addr := LinkAddress{Prefix: prefix}
	for i := 2; i < len(fields); i++ {
		switch fields[i] {
		case "scope":
			if i+1 < len(fields) {
				addr.Scope = fields[i+1]
				i++
			}
		case "deprecated":
			addr.Deprecated = true
		}
	}
	return addr, nil
}

// IsInMulticastGroup reports whether iface has joined the given multicast
// group, per `ip -6 maddr show dev <iface>`.
func IsInMulticastGroup(ctx context.Context, r Runner, iface string, group netip.Addr) (bool, error) {
	output, err := r.Run(ctx, "ip", "-6", "maddr", "show", "dev", iface)
	if err != nil {
		return false, err
	}

	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		for i := 0; i+1 < len(fields); i++ {
			if fields[i] != "inet6" {
				continue
			}
			addr, err := netip.ParseAddr(fields[i+1])
			if err == nil && addr == group {
				return true, nil
			}
		}
	}
	return false, nil
}
