package thread

import (
	"fmt"
	"time"

	"firestige.xyz/meshtest/internal/core"
	"firestige.xyz/meshtest/internal/poll"
)

// Network identifies a platform network backed by the Thread interface.
type Network struct {
	ID        string
	Interface string
}

// NetworkRequester files a request for a Thread-backed network and delivers
// the network once it becomes available. cancel withdraws the request.
type NetworkRequester interface {
	RequestNetwork(available func(Network)) (cancel func(), err error)
}

// WaitForNetwork requests a Thread network and blocks until the platform
// reports it available. The request is always withdrawn before returning.
func WaitForNetwork(r NetworkRequester, timeout time.Duration) (Network, error) {
	future := poll.NewFuture[Network]()

	cancel, err := r.RequestNetwork(func(n Network) {
		future.Complete(n)
	})
	if err != nil {
		return Network{}, fmt.Errorf("failed to request thread network: %w", err)
	}
	defer cancel()

	network, err := future.Await(timeout)
	if err != nil {
		return Network{}, fmt.Errorf("%w: no thread network within %v", core.ErrTimeout, timeout)
	}
	return network, nil
}
