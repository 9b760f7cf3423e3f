package capture

import "time"

// Options configures a live AF_PACKET source.
type Options struct {
	Interface   string
	SnapLen     int
	BufferSize  int
	Filter      string        // BPF filter expression, empty = capture all
	PollTimeout time.Duration // per-read budget before ErrReadTimeout
}

// DefaultOptions returns capture options sized for low-rate mesh test
// traffic.
func DefaultOptions(iface string) *Options {
	return &Options{
		Interface:   iface,
		SnapLen:     65535,
		BufferSize:  2 * 1024 * 1024,
		PollTimeout: 100 * time.Millisecond,
	}
}
