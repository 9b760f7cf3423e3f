// Package poll implements fixed-cadence condition waits and one-shot
// futures for callback-based platform APIs.
package poll

import (
	"fmt"
	"time"

	"firestige.xyz/meshtest/internal/core"
)

// DefaultInterval is the cadence at which WaitFor re-evaluates its
// condition.
const DefaultInterval = 500 * time.Millisecond

// WaitFor blocks until condition observes true, re-evaluating every
// DefaultInterval. It returns a core.ErrTimeout-wrapped error when the
// condition is still false after timeout; the condition is checked one
// final time at the deadline before giving up.
func WaitFor(condition func() bool, timeout time.Duration) error {
	return WaitForInterval(condition, timeout, DefaultInterval)
}

// WaitForInterval is WaitFor with a caller-supplied polling interval.
func WaitForInterval(condition func() bool, timeout, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	deadline := time.Now().Add(timeout)
	for {
		if condition() {
			return nil
		}
		if !time.Now().Before(deadline) {
			break
		}
		time.Sleep(interval)
	}

	// One final check at/after the nominal deadline.
	if condition() {
		return nil
	}
	return fmt.Errorf("%w: condition not met within %v", core.ErrTimeout, timeout)
}
