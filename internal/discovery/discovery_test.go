package discovery

import (
	"errors"
	"net/netip"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/meshtest/internal/core"
	"firestige.xyz/meshtest/internal/poll"
)

// fakeBrowser delivers scripted found/lost events and records stop calls.
type fakeBrowser struct {
	mu      sync.Mutex
	found   []ServiceInfo
	lost    []ServiceInfo
	err     error
	stopped bool
}

func (b *fakeBrowser) Discover(serviceType string, found, lost func(ServiceInfo)) (func(), error) {
	if b.err != nil {
		return nil, b.err
	}
	go func() {
		for _, info := range b.found {
			if found != nil {
				found(info)
			}
		}
		for _, info := range b.lost {
			if lost != nil {
				lost(info)
			}
		}
	}()
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.stopped = true
	}, nil
}

func (b *fakeBrowser) wasStopped() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stopped
}

type fakeResolver struct {
	updates []ServiceInfo
	err     error
	stopped bool
}

func (r *fakeResolver) Resolve(info ServiceInfo, updated func(ServiceInfo)) (func(), error) {
	if r.err != nil {
		return nil, r.err
	}
	go func() {
		for _, u := range r.updates {
			updated(u)
		}
	}()
	return func() { r.stopped = true }, nil
}

func TestDiscoverServiceFirstInstanceWins(t *testing.T) {
	b := &fakeBrowser{found: []ServiceInfo{
		{Name: "br-1", Type: "_meshcop._udp", Port: 49191},
		{Name: "br-2", Type: "_meshcop._udp", Port: 49192},
	}}

	info, err := DiscoverService(b, "_meshcop._udp", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "br-1", info.Name)
	assert.True(t, b.wasStopped(), "discovery must be stopped on success")
}

func TestDiscoverServiceTimeout(t *testing.T) {
	b := &fakeBrowser{}

	_, err := DiscoverService(b, "_meshcop._udp", 50*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTimeout)
	assert.True(t, b.wasStopped(), "discovery must be stopped on timeout")
}

func TestDiscoverServiceStartFailure(t *testing.T) {
	b := &fakeBrowser{err: errors.New("nsd daemon not running")}

	_, err := DiscoverService(b, "_meshcop._udp", time.Second)
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrTimeout)
}

func TestDiscoverServiceLost(t *testing.T) {
	b := &fakeBrowser{
		found: []ServiceInfo{{Name: "br-1", Type: "_trel._udp"}},
		lost:  []ServiceInfo{{Name: "br-1", Type: "_trel._udp"}},
	}

	future := poll.NewFuture[ServiceInfo]()
	stop, err := DiscoverServiceLost(b, "_trel._udp", future)
	require.NoError(t, err)
	defer stop()

	info, err := future.Await(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "br-1", info.Name)
}

func TestResolveService(t *testing.T) {
	resolved := ServiceInfo{
		Name:  "br-1",
		Type:  "_meshcop._udp",
		Host:  "br-1.local",
		Port:  49191,
		Addrs: []netip.Addr{netip.MustParseAddr("fd00::1")},
		TXT:   map[string]string{"rv": "1"},
	}
	r := &fakeResolver{updates: []ServiceInfo{resolved}}

	info, err := ResolveService(r, ServiceInfo{Name: "br-1", Type: "_meshcop._udp"}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, uint16(49191), info.Port)
	assert.True(t, r.stopped, "resolution must be deregistered on success")
}

func TestResolveServiceUntilPredicate(t *testing.T) {
	r := &fakeResolver{updates: []ServiceInfo{
		{Name: "br-1", Port: 0},     // incomplete update
		{Name: "br-1", Port: 49191}, // complete update
	}}

	info, err := ResolveServiceUntil(r, ServiceInfo{Name: "br-1"},
		func(s ServiceInfo) bool { return s.Port != 0 }, time.Second)
	require.NoError(t, err)
	assert.Equal(t, uint16(49191), info.Port)
}

func TestResolveServiceTimeout(t *testing.T) {
	r := &fakeResolver{updates: []ServiceInfo{{Name: "br-1", Port: 0}}}

	_, err := ResolveServiceUntil(r, ServiceInfo{Name: "br-1"},
		func(s ServiceInfo) bool { return s.Port != 0 }, 50*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTimeout)
	assert.True(t, r.stopped, "resolution must be deregistered on timeout")
}
