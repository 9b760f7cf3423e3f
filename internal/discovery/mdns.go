package discovery

import (
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/net/ipv6"
)

const (
	mdnsGroup = "ff02::fb"
	mdnsPort  = 5353

	// mDNS queriers re-ask until an answer arrives; tests tear the browser
	// down via stop/timeout, so a fixed cadence is enough.
	mdnsQueryInterval = time.Second
)

// MDNS is a minimal DNS-SD browser/resolver over IPv6 mDNS, used when the
// test runs against a real network instead of a platform NSD service. It
// implements Browser and Resolver.
type MDNS struct {
	iface  *net.Interface
	domain string
}

// NewMDNS returns an mDNS browser/resolver bound to the named interface.
// An empty domain defaults to "local.".
func NewMDNS(ifaceName, domain string) (*MDNS, error) {
	iface, err := net.InterfaceByName(ifaceName)
	if err != nil {
		return nil, fmt.Errorf("failed to get interface %s: %w", ifaceName, err)
	}
	if domain == "" {
		domain = "local."
	}
	return &MDNS{iface: iface, domain: dns.Fqdn(domain)}, nil
}

// Discover implements Browser. It joins the mDNS group on the bound
// interface, queries PTR records of serviceType and reports instances until
// stop is called. Goodbye announcements (TTL 0) are reported as lost.
func (m *MDNS) Discover(serviceType string, found, lost func(ServiceInfo)) (func(), error) {
	question := dns.Fqdn(serviceType + "." + m.domain)
	return m.run(question, dns.TypePTR, func(msg *dns.Msg) {
		for _, info := range servicesFromMsg(msg, serviceType, m.domain) {
			if info.lost {
				if lost != nil {
					lost(info.ServiceInfo)
				}
			} else if found != nil {
				found(info.ServiceInfo)
			}
		}
	})
}

// Resolve implements Resolver. It queries SRV/TXT records of the instance
// and reports every complete answer until stop is called.
func (m *MDNS) Resolve(info ServiceInfo, updated func(ServiceInfo)) (func(), error) {
	question := dns.Fqdn(instanceFQDN(info.Name, info.Type, m.domain))
	return m.run(question, dns.TypeSRV, func(msg *dns.Msg) {
		for _, resolved := range servicesFromMsg(msg, info.Type, m.domain) {
			if resolved.lost || resolved.Name != info.Name {
				continue
			}
			if updated != nil {
				updated(resolved.ServiceInfo)
			}
		}
	})
}

// run opens the multicast socket, starts the query/receive loop and hands
// every response to handle. The returned stop closes the socket and waits
// for the loop to exit.
func (m *MDNS) run(question string, qtype uint16, handle func(*dns.Msg)) (func(), error) {
	conn, err := net.ListenUDP("udp6", &net.UDPAddr{IP: net.IPv6unspecified, Port: 0})
	if err != nil {
		return nil, fmt.Errorf("failed to open mDNS socket: %w", err)
	}

	p := ipv6.NewPacketConn(conn)
	group := &net.UDPAddr{IP: net.ParseIP(mdnsGroup)}
	if err := p.JoinGroup(m.iface, group); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to join %s on %s: %w", mdnsGroup, m.iface.Name, err)
	}
	if err := p.SetMulticastInterface(m.iface); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to bind multicast interface: %w", err)
	}

	query := new(dns.Msg)
	query.SetQuestion(question, qtype)
	// mDNS queries are not recursive.
	query.RecursionDesired = false
	packed, err := query.Pack()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to pack mDNS query: %w", err)
	}

	dst := &net.UDPAddr{IP: net.ParseIP(mdnsGroup), Port: mdnsPort, Zone: m.iface.Name}
	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(mdnsQueryInterval)
		defer ticker.Stop()
		for {
			if _, err := conn.WriteToUDP(packed, dst); err != nil {
				slog.Debug("mDNS query send failed", "error", err)
			}
			select {
			case <-done:
				return
			case <-ticker.C:
			}
		}
	}()
	go func() {
		defer wg.Done()
		buf := make([]byte, 65535)
		for {
			n, _, err := conn.ReadFromUDP(buf)
			if err != nil {
				select {
				case <-done:
				default:
					slog.Debug("mDNS read failed", "error", err)
				}
				return
			}
			msg := new(dns.Msg)
			if err := msg.Unpack(buf[:n]); err != nil || !msg.Response {
				continue
			}
			handle(msg)
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			conn.Close()
			wg.Wait()
		})
	}
	return stop, nil
}

// mdnsService is a ServiceInfo plus the goodbye flag of the PTR record it
// came from.
type mdnsService struct {
	ServiceInfo
	lost bool
}

// servicesFromMsg extracts service instances of serviceType from one mDNS
// response message. SRV, TXT and AAAA records are collected from both the
// answer and additional sections, keyed by instance FQDN.
func servicesFromMsg(msg *dns.Msg, serviceType, domain string) []mdnsService {
	typeFQDN := dns.Fqdn(serviceType + "." + domain)

	records := append(append([]dns.RR{}, msg.Answer...), msg.Extra...)

	srvByTarget := make(map[string]*dns.SRV)
	txtByTarget := make(map[string][]string)
	addrsByHost := make(map[string][]netip.Addr)
	for _, rr := range records {
		switch r := rr.(type) {
		case *dns.SRV:
			srvByTarget[r.Hdr.Name] = r
		case *dns.TXT:
			txtByTarget[r.Hdr.Name] = r.Txt
		case *dns.AAAA:
			if addr, ok := netip.AddrFromSlice(r.AAAA); ok {
				addrsByHost[r.Hdr.Name] = append(addrsByHost[r.Hdr.Name], addr)
			}
		case *dns.A:
			if addr, ok := netip.AddrFromSlice(r.A.To4()); ok {
				addrsByHost[r.Hdr.Name] = append(addrsByHost[r.Hdr.Name], addr)
			}
		}
	}

	var services []mdnsService
	seen := make(map[string]bool)

	collect := func(instanceFQDN string, goodbye bool) {
		if seen[instanceFQDN] {
			return
		}
		seen[instanceFQDN] = true

		info := ServiceInfo{
			Name: instanceFromFQDN(instanceFQDN, typeFQDN),
			Type: serviceType,
			TXT:  parseTXT(txtByTarget[instanceFQDN]),
		}
		if srv := srvByTarget[instanceFQDN]; srv != nil {
			info.Host = strings.TrimSuffix(srv.Target, ".")
			info.Port = srv.Port
			info.Addrs = addrsByHost[srv.Target]
		}
		services = append(services, mdnsService{ServiceInfo: info, lost: goodbye})
	}

	for _, rr := range msg.Answer {
		switch r := rr.(type) {
		case *dns.PTR:
			if r.Hdr.Name == typeFQDN {
				collect(r.Ptr, r.Hdr.Ttl == 0)
			}
		case *dns.SRV:
			if strings.HasSuffix(r.Hdr.Name, "."+typeFQDN) {
				collect(r.Hdr.Name, false)
			}
		}
	}
	return services
}

// parseTXT splits DNS-SD "key=value" TXT strings into a map. Keys without
// a value map to the empty string.
func parseTXT(txt []string) map[string]string {
	if len(txt) == 0 {
		return nil
	}
	attrs := make(map[string]string, len(txt))
	for _, entry := range txt {
		key, value, _ := strings.Cut(entry, "=")
		if key != "" {
			attrs[key] = value
		}
	}
	return attrs
}

// instanceFQDN assembles "<instance>.<type>.<domain>".
func instanceFQDN(name, serviceType, domain string) string {
	return name + "." + serviceType + "." + domain
}

// instanceFromFQDN strips the type and domain suffix from an instance FQDN.
func instanceFromFQDN(fqdn, typeFQDN string) string {
	return strings.TrimSuffix(strings.TrimSuffix(fqdn, "."+typeFQDN), ".")
}

var (
	_ Browser  = (*MDNS)(nil)
	_ Resolver = (*MDNS)(nil)
)
