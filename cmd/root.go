// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"github.com/spf13/cobra"

	"firestige.xyz/meshtest/internal/config"
	"firestige.xyz/meshtest/internal/log"
)

var (
	// Global flags
	configFile string
	ifaceName  string

	// cfg is loaded once in the persistent pre-run and shared by all
	// subcommands.
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "meshtest",
	Short: "Meshtest - Thread mesh network integration test toolkit",
	Long: `Meshtest is a toolkit for integration-testing a Thread border router stack
from a Linux test host. It captures and decodes ICMPv6 Router Advertisements,
sends test UDP traffic, inspects interface addresses and multicast
memberships, and browses DNS-SD services advertised by border routers.

Commands:
  radump    capture Router Advertisements and print their Prefix Information Options
  send      send a UDP test message
  addrs     list IPv6 addresses and check multicast memberships
  discover  browse and resolve DNS-SD services over mDNS`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configFile != "" {
			cfg, err = config.Load(configFile)
			if err != nil {
				return err
			}
		} else {
			cfg = config.Default()
		}
		if ifaceName != "" {
			cfg.Interface = ifaceName
		}
		return log.Init(cfg.Log)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (default: built-in defaults)")
	rootCmd.PersistentFlags().StringVarP(&ifaceName, "interface", "i", "",
		"network interface under test (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(radumpCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(addrsCmd)
	rootCmd.AddCommand(discoverCmd)
}
