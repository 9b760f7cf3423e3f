package cmd

import (
	"context"
	"fmt"
	"net/netip"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"firestige.xyz/meshtest/internal/netutil"
)

var sendCmd = &cobra.Command{
	Use:   "send <address> <port> <message>",
	Short: "Send a UDP test message",
	Long: `Send sends a single UDP datagram to the given destination. Link-local
IPv6 destinations may carry a zone, e.g. fe80::1%thread-wpan0.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := netip.ParseAddr(args[0])
		if err != nil {
			return fmt.Errorf("invalid destination address %q: %w", args[0], err)
		}
		port, err := strconv.ParseUint(args[1], 10, 16)
		if err != nil {
			return fmt.Errorf("invalid destination port %q: %w", args[1], err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		dst := netip.AddrPortFrom(addr, uint16(port))
		if err := netutil.SendUDPMessage(ctx, dst, []byte(args[2])); err != nil {
			return err
		}
		fmt.Printf("sent %d bytes to %s\n", len(args[2]), dst)
		return nil
	},
}
