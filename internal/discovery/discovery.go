// Package discovery wraps DNS-SD service discovery with single-shot wait
// helpers for integration tests.
package discovery

import (
	"fmt"
	"net/netip"
	"time"

	"firestige.xyz/meshtest/internal/core"
	"firestige.xyz/meshtest/internal/poll"
)

// ServiceInfo describes one discovered service instance.
type ServiceInfo struct {
	Name  string // instance name, e.g. "my-border-router"
	Type  string // service type, e.g. "_meshcop._udp"
	Host  string
	Port  uint16
	Addrs []netip.Addr
	TXT   map[string]string
}

// Browser starts service-type discovery and reports instances through the
// found and lost callbacks until stop is called. Callbacks are delivered on
// a platform-owned goroutine.
type Browser interface {
	Discover(serviceType string, found, lost func(ServiceInfo)) (stop func(), err error)
}

// Resolver resolves one service instance, reporting every update through
// the callback until stop is called.
type Resolver interface {
	Resolve(info ServiceInfo, updated func(ServiceInfo)) (stop func(), err error)
}

// DiscoverService returns the first discovered instance of serviceType.
// Discovery is always stopped before returning.
func DiscoverService(b Browser, serviceType string, timeout time.Duration) (ServiceInfo, error) {
	future := poll.NewFuture[ServiceInfo]()

	stop, err := b.Discover(serviceType, func(info ServiceInfo) {
		future.Complete(info)
	}, nil)
	if err != nil {
		return ServiceInfo{}, fmt.Errorf("failed to start discovery of %s: %w", serviceType, err)
	}
	defer stop()

	info, err := future.Await(timeout)
	if err != nil {
		return ServiceInfo{}, fmt.Errorf("%w: no %s service within %v", core.ErrTimeout, serviceType, timeout)
	}
	return info, nil
}

// DiscoverServiceLost starts discovery of serviceType and completes future
// with the first instance that goes away. The caller owns the returned stop
// and must invoke it when done waiting.
func DiscoverServiceLost(b Browser, serviceType string, future *poll.Future[ServiceInfo]) (stop func(), err error) {
	stop, err = b.Discover(serviceType, nil, func(info ServiceInfo) {
		future.Complete(info)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start discovery of %s: %w", serviceType, err)
	}
	return stop, nil
}

// ResolveService resolves info and returns the first resolution result.
func ResolveService(r Resolver, info ServiceInfo, timeout time.Duration) (ServiceInfo, error) {
	return ResolveServiceUntil(r, info, func(ServiceInfo) bool { return true }, timeout)
}

// ResolveServiceUntil resolves info and returns the first resolution result
// satisfying pred. The resolution callback is always deregistered before
// returning.
func ResolveServiceUntil(r Resolver, info ServiceInfo, pred func(ServiceInfo) bool, timeout time.Duration) (ServiceInfo, error) {
	future := poll.NewFuture[ServiceInfo]()

	stop, err := r.Resolve(info, func(resolved ServiceInfo) {
		if pred(resolved) {
			future.Complete(resolved)
		}
	})
	if err != nil {
		return ServiceInfo{}, fmt.Errorf("failed to resolve %s.%s: %w", info.Name, info.Type, err)
	}
	defer stop()

	resolved, err := future.Await(timeout)
	if err != nil {
		return ServiceInfo{}, fmt.Errorf("%w: %s.%s not resolved within %v",
			core.ErrTimeout, info.Name, info.Type, timeout)
	}
	return resolved, nil
}
