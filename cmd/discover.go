package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"firestige.xyz/meshtest/internal/discovery"
)

var discoverResolve bool

var discoverCmd = &cobra.Command{
	Use:   "discover [service-type]",
	Short: "Browse DNS-SD services over mDNS",
	Long: `Discover browses the given DNS-SD service type (default from config,
_meshcop._udp) on the interface under test and prints the first instance
found. With --resolve the instance is also resolved to host, port and
addresses.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		serviceType := cfg.Discovery.ServiceType
		if len(args) == 1 {
			serviceType = args[0]
		}

		mdns, err := discovery.NewMDNS(cfg.Interface, cfg.Discovery.Domain)
		if err != nil {
			return err
		}

		info, err := discovery.DiscoverService(mdns, serviceType, cfg.Timeouts.Discovery)
		if err != nil {
			return err
		}
		fmt.Printf("found %s.%s\n", info.Name, info.Type)

		if discoverResolve {
			resolved, err := discovery.ResolveServiceUntil(mdns, info,
				func(s discovery.ServiceInfo) bool { return s.Port != 0 },
				cfg.Timeouts.Discovery)
			if err != nil {
				return err
			}
			info = resolved
		}

		if info.Host != "" {
			fmt.Printf("  host: %s:%d\n", info.Host, info.Port)
		}
		for _, addr := range info.Addrs {
			fmt.Printf("  addr: %s\n", addr)
		}
		if len(info.TXT) > 0 {
			pairs := make([]string, 0, len(info.TXT))
			for k, v := range info.TXT {
				pairs = append(pairs, k+"="+v)
			}
			fmt.Printf("  txt: %s\n", strings.Join(pairs, " "))
		}
		return nil
	},
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverResolve, "resolve", false,
		"resolve the discovered instance to host, port and addresses")
}
