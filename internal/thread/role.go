// Package thread wraps the Thread controller surface used by integration
// tests: device-role waits, network availability waits and ot-ctl netdata
// parsing.
package thread

import (
	"fmt"
	"slices"
	"time"

	"firestige.xyz/meshtest/internal/core"
	"firestige.xyz/meshtest/internal/poll"
)

// DeviceRole is the Thread device role reported by the controller.
type DeviceRole int

const (
	RoleStopped DeviceRole = iota
	RoleDetached
	RoleChild
	RoleRouter
	RoleLeader
)

func (r DeviceRole) String() string {
	switch r {
	case RoleStopped:
		return "stopped"
	case RoleDetached:
		return "detached"
	case RoleChild:
		return "child"
	case RoleRouter:
		return "router"
	case RoleLeader:
		return "leader"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// Default wait budgets for controller state changes. Rejoining after an
// ot-daemon restart sends 6 Link Requests every 5 seconds followed by 4
// Parent Requests every second, so the restart budget is 40 seconds.
const (
	RestartJoinTimeout      = 40 * time.Second
	JoinTimeout             = 30 * time.Second
	LeaveTimeout            = 2 * time.Second
	CallbackTimeout         = 1 * time.Second
	ServiceDiscoveryTimeout = 20 * time.Second
)

// RoleWatcher delivers device-role changes from the controller. cancel must
// deregister the callback; implementations may deliver the current role
// immediately on registration.
type RoleWatcher interface {
	WatchRole(cb func(DeviceRole)) (cancel func(), err error)
}

// WaitForRoleAnyOf blocks until the controller reports any role in roles,
// returning that role. The watcher callback is always deregistered before
// returning, on success, timeout and registration failure alike.
func WaitForRoleAnyOf(w RoleWatcher, roles []DeviceRole, timeout time.Duration) (DeviceRole, error) {
	future := poll.NewFuture[DeviceRole]()

	cancel, err := w.WatchRole(func(role DeviceRole) {
		if slices.Contains(roles, role) {
			future.Complete(role)
		}
	})
	if err != nil {
		return RoleStopped, fmt.Errorf("failed to watch device role: %w", err)
	}
	defer cancel()

	role, err := future.Await(timeout)
	if err != nil {
		return RoleStopped, fmt.Errorf("%w: device did not become any of %v within %v",
			core.ErrTimeout, roles, timeout)
	}
	return role, nil
}
