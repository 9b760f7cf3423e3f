package thread

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/meshtest/internal/core"
)

// fakeWatcher delivers a scripted role sequence and records whether the
// callback registration was paired with a cancel.
type fakeWatcher struct {
	mu        sync.Mutex
	roles     []DeviceRole
	delay     time.Duration
	watchErr  error
	cancelled bool
}

func (w *fakeWatcher) WatchRole(cb func(DeviceRole)) (func(), error) {
	if w.watchErr != nil {
		return nil, w.watchErr
	}
	go func() {
		for _, role := range w.roles {
			time.Sleep(w.delay)
			cb(role)
		}
	}()
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.cancelled = true
	}, nil
}

func (w *fakeWatcher) wasCancelled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cancelled
}

func TestWaitForRoleAnyOfFirstAcceptedRoleWins(t *testing.T) {
	w := &fakeWatcher{roles: []DeviceRole{RoleDetached, RoleChild, RoleLeader}}

	role, err := WaitForRoleAnyOf(w, []DeviceRole{RoleChild, RoleRouter, RoleLeader}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, RoleChild, role)
	assert.True(t, w.wasCancelled(), "watcher must be deregistered on success")
}

func TestWaitForRoleAnyOfTimeout(t *testing.T) {
	w := &fakeWatcher{roles: []DeviceRole{RoleDetached, RoleDetached}}

	_, err := WaitForRoleAnyOf(w, []DeviceRole{RoleLeader}, 50*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTimeout)
	assert.Contains(t, err.Error(), "50ms")
	assert.True(t, w.wasCancelled(), "watcher must be deregistered on timeout")
}

func TestWaitForRoleAnyOfRegistrationError(t *testing.T) {
	w := &fakeWatcher{watchErr: errors.New("controller unavailable")}

	_, err := WaitForRoleAnyOf(w, []DeviceRole{RoleLeader}, time.Second)
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrTimeout)
}

func TestWaitForRoleAnyOfLateDelivery(t *testing.T) {
	w := &fakeWatcher{roles: []DeviceRole{RoleDetached, RoleRouter}, delay: 20 * time.Millisecond}

	role, err := WaitForRoleAnyOf(w, []DeviceRole{RoleRouter}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, RoleRouter, role)
}

func TestDeviceRoleString(t *testing.T) {
	assert.Equal(t, "leader", RoleLeader.String())
	assert.Equal(t, "detached", RoleDetached.String())
	assert.Equal(t, "role(42)", DeviceRole(42).String())
}
