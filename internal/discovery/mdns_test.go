package discovery

import (
	"net"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPTR(name, target string, ttl uint32) *dns.PTR {
	return &dns.PTR{
		Hdr: dns.RR_Header{Name: name, Rrtype: dns.TypePTR, Class: dns.ClassINET, Ttl: ttl},
		Ptr: target,
	}
}

func newSRV(name, target string, port uint16) *dns.SRV {
	return &dns.SRV{
		Hdr:    dns.RR_Header{Name: name, Rrtype: dns.TypeSRV, Class: dns.ClassINET, Ttl: 120},
		Target: target,
		Port:   port,
	}
}

func newTXT(name string, txt ...string) *dns.TXT {
	return &dns.TXT{
		Hdr: dns.RR_Header{Name: name, Rrtype: dns.TypeTXT, Class: dns.ClassINET, Ttl: 120},
		Txt: txt,
	}
}

func newAAAA(name, addr string) *dns.AAAA {
	return &dns.AAAA{
		Hdr:  dns.RR_Header{Name: name, Rrtype: dns.TypeAAAA, Class: dns.ClassINET, Ttl: 120},
		AAAA: net.ParseIP(addr),
	}
}

func TestServicesFromMsgFullResponse(t *testing.T) {
	msg := new(dns.Msg)
	msg.Response = true
	msg.Answer = []dns.RR{
		newPTR("_meshcop._udp.local.", "br-1._meshcop._udp.local.", 120),
	}
	msg.Extra = []dns.RR{
		newSRV("br-1._meshcop._udp.local.", "br-1-host.local.", 49191),
		newTXT("br-1._meshcop._udp.local.", "rv=1", "nn=TestNet"),
		newAAAA("br-1-host.local.", "fd00::1"),
	}

	services := servicesFromMsg(msg, "_meshcop._udp", "local.")
	require.Len(t, services, 1)

	info := services[0]
	assert.False(t, info.lost)
	assert.Equal(t, "br-1", info.Name)
	assert.Equal(t, "_meshcop._udp", info.Type)
	assert.Equal(t, "br-1-host.local", info.Host)
	assert.Equal(t, uint16(49191), info.Port)
	require.Len(t, info.Addrs, 1)
	assert.Equal(t, "fd00::1", info.Addrs[0].String())
	assert.Equal(t, "TestNet", info.TXT["nn"])
}

func TestServicesFromMsgGoodbye(t *testing.T) {
	msg := new(dns.Msg)
	msg.Response = true
	msg.Answer = []dns.RR{
		newPTR("_meshcop._udp.local.", "br-1._meshcop._udp.local.", 0),
	}

	services := servicesFromMsg(msg, "_meshcop._udp", "local.")
	require.Len(t, services, 1)
	assert.True(t, services[0].lost)
	assert.Equal(t, "br-1", services[0].Name)
}

func TestServicesFromMsgIgnoresOtherTypes(t *testing.T) {
	msg := new(dns.Msg)
	msg.Response = true
	msg.Answer = []dns.RR{
		newPTR("_trel._udp.local.", "br-1._trel._udp.local.", 120),
	}

	assert.Empty(t, servicesFromMsg(msg, "_meshcop._udp", "local."))
}

func TestServicesFromMsgSRVOnlyAnswer(t *testing.T) {
	// Resolution responses carry the SRV in the answer section without a PTR.
	msg := new(dns.Msg)
	msg.Response = true
	msg.Answer = []dns.RR{
		newSRV("br-1._meshcop._udp.local.", "br-1-host.local.", 49191),
	}

	services := servicesFromMsg(msg, "_meshcop._udp", "local.")
	require.Len(t, services, 1)
	assert.Equal(t, "br-1", services[0].Name)
	assert.Equal(t, uint16(49191), services[0].Port)
}

func TestServicesFromMsgDeduplicates(t *testing.T) {
	msg := new(dns.Msg)
	msg.Response = true
	msg.Answer = []dns.RR{
		newPTR("_meshcop._udp.local.", "br-1._meshcop._udp.local.", 120),
		newSRV("br-1._meshcop._udp.local.", "br-1-host.local.", 49191),
	}

	assert.Len(t, servicesFromMsg(msg, "_meshcop._udp", "local."), 1)
}
