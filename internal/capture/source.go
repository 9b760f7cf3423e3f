// Package capture provides packet sources and a predicate-driven poll for
// waiting on specific frames during integration tests.
package capture

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/gopacket"

	"firestige.xyz/meshtest/internal/core"
)

// DefaultPollTimeout is the per-call budget of Poll when the caller passes
// a non-positive timeout.
const DefaultPollTimeout = 3 * time.Second

// ErrReadTimeout is returned by a Source when no frame arrived within its
// read budget. Poll treats it as "keep waiting"; any other error aborts.
var ErrReadTimeout = errors.New("meshtest: packet read timeout")

// Source yields captured frames. Implementations are AFPacketSource for
// live interfaces and ChanSource for tests and replay.
type Source interface {
	ReadPacket() (data []byte, ci gopacket.CaptureInfo, err error)
	Close() error
}

// Poll reads frames from src until one satisfies pred or timeout elapses.
// Returns a core.ErrTimeout-wrapped error when no matching frame arrived in
// time.
func Poll(src Source, timeout time.Duration, pred func([]byte) bool) ([]byte, error) {
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		data, _, err := src.ReadPacket()
		if errors.Is(err, ErrReadTimeout) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if pred(data) {
			return data, nil
		}
	}
	return nil, fmt.Errorf("%w: no matching packet within %v", core.ErrTimeout, timeout)
}

// ChanSource is an in-memory Source fed from a channel. Closing the channel
// makes subsequent reads fail.
type ChanSource struct {
	frames      <-chan []byte
	readTimeout time.Duration
}

// NewChanSource wraps frames as a Source. readTimeout bounds each
// ReadPacket call; non-positive values default to 100ms.
func NewChanSource(frames <-chan []byte, readTimeout time.Duration) *ChanSource {
	if readTimeout <= 0 {
		readTimeout = 100 * time.Millisecond
	}
	return &ChanSource{frames: frames, readTimeout: readTimeout}
}

func (s *ChanSource) ReadPacket() ([]byte, gopacket.CaptureInfo, error) {
	select {
	case data, ok := <-s.frames:
		if !ok {
			return nil, gopacket.CaptureInfo{}, errors.New("meshtest: packet source closed")
		}
		ci := gopacket.CaptureInfo{
			Timestamp:     time.Now(),
			CaptureLength: len(data),
			Length:        len(data),
		}
		return data, ci, nil
	case <-time.After(s.readTimeout):
		return nil, gopacket.CaptureInfo{}, ErrReadTimeout
	}
}

func (s *ChanSource) Close() error { return nil }
