package capture

import (
	"fmt"

	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
	"golang.org/x/net/bpf"
)

// RouterAdvertFilter matches ICMPv6 Router Advertisements. ip6[40] is the
// ICMPv6 type byte when no extension headers are present, which holds for
// RA traffic.
const RouterAdvertFilter = "icmp6 and ip6[40] == 134"

// CompileBPF compiles a pcap filter expression into raw instructions
// suitable for AF_PACKET sockets.
func CompileBPF(filter string, snapLen int) ([]bpf.RawInstruction, error) {
	pcapBpf, err := pcap.CompileBPFFilter(layers.LinkTypeEthernet, snapLen, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to compile BPF filter: %w", err)
	}

	rawBpf := make([]bpf.RawInstruction, len(pcapBpf))
	for i, ins := range pcapBpf {
		rawBpf[i] = bpf.RawInstruction{Op: ins.Code, Jt: ins.Jt, Jf: ins.Jf, K: ins.K}
	}
	return rawBpf, nil
}
