package cmd

import (
	"fmt"
	"net/netip"

	"github.com/spf13/cobra"

	"firestige.xyz/meshtest/internal/netutil"
)

var addrsMulticast string

var addrsCmd = &cobra.Command{
	Use:   "addrs",
	Short: "List IPv6 addresses of the interface under test",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner := netutil.NewExecRunner()

		if addrsMulticast != "" {
			group, err := netip.ParseAddr(addrsMulticast)
			if err != nil {
				return fmt.Errorf("invalid multicast group %q: %w", addrsMulticast, err)
			}
			in, err := netutil.IsInMulticastGroup(cmd.Context(), runner, cfg.Interface, group)
			if err != nil {
				return err
			}
			fmt.Printf("%s in %s: %v\n", cfg.Interface, group, in)
			return nil
		}

		addrs, err := netutil.IPv6LinkAddresses(cmd.Context(), runner, cfg.Interface)
		if err != nil {
			return err
		}
		if len(addrs) == 0 {
			fmt.Printf("no IPv6 addresses on %s\n", cfg.Interface)
			return nil
		}
		for _, addr := range addrs {
			status := ""
			if addr.Deprecated {
				status = " (deprecated)"
			}
			fmt.Printf("%s scope %s%s\n", addr.Prefix, addr.Scope, status)
		}
		return nil
	},
}

func init() {
	addrsCmd.Flags().StringVarP(&addrsMulticast, "multicast", "m", "",
		"check membership of the given multicast group instead of listing addresses")
}
