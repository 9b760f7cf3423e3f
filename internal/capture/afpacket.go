package capture

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/afpacket"

	"firestige.xyz/meshtest/internal/core"
)

// AFPacketSource captures live frames from a network interface through an
// AF_PACKET ring.
type AFPacketSource struct {
	tpacket *afpacket.TPacket
	opts    *Options
}

// OpenAFPacket opens an AF_PACKET capture on opts.Interface.
func OpenAFPacket(opts *Options) (*AFPacketSource, error) {
	if opts == nil {
		return nil, fmt.Errorf("%w: nil capture options", core.ErrConfigInvalid)
	}

	iface, err := net.InterfaceByName(opts.Interface)
	if err != nil {
		return nil, fmt.Errorf("failed to get interface %s: %w", opts.Interface, err)
	}

	slog.Info("opening capture",
		"interface", iface.Name,
		"index", iface.Index,
		"mtu", iface.MTU,
		"flags", iface.Flags.String())

	frameSize, blockSize, numBlocks, err := computeFrameSizeAndBlocks(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to compute frame size and blocks: %w", err)
	}

	pollTimeout := opts.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 100 * time.Millisecond
	}

	tpacket, err := afpacket.NewTPacket(
		afpacket.OptInterface(iface.Name),
		afpacket.OptFrameSize(frameSize),
		afpacket.OptBlockSize(blockSize),
		afpacket.OptNumBlocks(numBlocks),
		afpacket.OptPollTimeout(pollTimeout),
		afpacket.SocketRaw,
		afpacket.TPacketVersion3,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create TPacket: %w", err)
	}

	if opts.Filter != "" {
		rawBpf, err := CompileBPF(opts.Filter, opts.SnapLen)
		if err != nil {
			tpacket.Close()
			return nil, fmt.Errorf("failed to compile BPF filter: %w", err)
		}
		if err := tpacket.SetBPF(rawBpf); err != nil {
			tpacket.Close()
			return nil, fmt.Errorf("failed to set BPF filter: %w", err)
		}
		slog.Debug("BPF filter set", "filter", opts.Filter)
	}

	return &AFPacketSource{tpacket: tpacket, opts: opts}, nil
}

// computeFrameSizeAndBlocks sizes the TPacket ring from the snap length and
// the total buffer budget.
func computeFrameSizeAndBlocks(opts *Options) (frameSize, blockSize, numBlocks int, err error) {
	pageSize := os.Getpagesize()
	if opts.SnapLen < pageSize {
		frameSize = pageSize / (pageSize / opts.SnapLen)
	} else {
		frameSize = (opts.SnapLen/pageSize + 1) * pageSize
	}
	blockSize = frameSize * 128
	numBlocks = opts.BufferSize / blockSize

	if numBlocks < 1 {
		return 0, 0, 0, fmt.Errorf("buffer size %d too small for frame size %d", opts.BufferSize, frameSize)
	}
	return frameSize, blockSize, numBlocks, nil
}

// ReadPacket reads the next frame. Ring poll expiry is reported as
// ErrReadTimeout so Poll keeps waiting.
func (s *AFPacketSource) ReadPacket() ([]byte, gopacket.CaptureInfo, error) {
	if s.tpacket == nil {
		return nil, gopacket.CaptureInfo{}, fmt.Errorf("capture source not opened")
	}

	data, ci, err := s.tpacket.ReadPacketData()
	if err != nil {
		if err == afpacket.ErrTimeout || err == syscall.EAGAIN ||
			strings.Contains(strings.ToLower(err.Error()), "timeout") {
			return nil, ci, ErrReadTimeout
		}
		return nil, ci, err
	}
	return data, ci, nil
}

// Close releases the AF_PACKET ring.
func (s *AFPacketSource) Close() error {
	if s.tpacket != nil {
		s.tpacket.Close()
		s.tpacket = nil
	}
	return nil
}

// InterfaceName returns the captured interface's name.
func (s *AFPacketSource) InterfaceName() string {
	return s.opts.Interface
}
