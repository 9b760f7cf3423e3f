package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"firestige.xyz/meshtest/internal/capture"
	"firestige.xyz/meshtest/internal/core"
	"firestige.xyz/meshtest/internal/core/decoder"
)

var (
	radumpCount   int
	radumpTimeout time.Duration
	radumpOutput  string
)

// raReport is the printable form of one captured Router Advertisement.
type raReport struct {
	Source   string      `json:"source" yaml:"source"`
	Prefixes []pioReport `json:"prefixes" yaml:"prefixes"`
}

type pioReport struct {
	Prefix            string `json:"prefix" yaml:"prefix"`
	OnLink            bool   `json:"on_link" yaml:"on_link"`
	Autonomous        bool   `json:"autonomous" yaml:"autonomous"`
	ValidLifetime     uint32 `json:"valid_lifetime" yaml:"valid_lifetime"`
	PreferredLifetime uint32 `json:"preferred_lifetime" yaml:"preferred_lifetime"`
}

var radumpCmd = &cobra.Command{
	Use:   "radump",
	Short: "Capture Router Advertisements and print their Prefix Information Options",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := capture.DefaultOptions(cfg.Interface)
		opts.SnapLen = cfg.Capture.SnapLen
		opts.BufferSize = cfg.Capture.BufferSize
		opts.Filter = capture.RouterAdvertFilter

		src, err := capture.OpenAFPacket(opts)
		if err != nil {
			return err
		}
		defer src.Close()

		slog.Info("capturing router advertisements",
			"interface", cfg.Interface, "count", radumpCount, "timeout", radumpTimeout)

		deadline := time.Now().Add(radumpTimeout)
		seen := 0
		for seen < radumpCount && time.Now().Before(deadline) {
			frame, err := capture.Poll(src, time.Until(deadline), isRouterAdvert)
			if errors.Is(err, core.ErrTimeout) {
				break
			}
			if err != nil {
				return err
			}

			packet, err := decoder.StripEthernet(frame)
			if err != nil {
				continue
			}
			if err := printRA(os.Stdout, packet, radumpOutput); err != nil {
				return err
			}
			seen++
		}

		if seen == 0 {
			return fmt.Errorf("%w: no router advertisement on %s within %v",
				core.ErrTimeout, cfg.Interface, radumpTimeout)
		}
		return nil
	},
}

func isRouterAdvert(frame []byte) bool {
	packet, err := decoder.StripEthernet(frame)
	if err != nil {
		return false
	}
	return decoder.IsICMPv6OfType(packet, decoder.TypeRouterAdvert)
}

func printRA(w io.Writer, packet []byte, format string) error {
	ipv6, _, err := decoder.DecodeIPv6(packet)
	if err != nil {
		return err
	}

	report := raReport{Source: ipv6.SrcIP.String()}
	for _, pio := range decoder.ExtractPrefixOptions(packet) {
		report.Prefixes = append(report.Prefixes, pioReport{
			Prefix:            fmt.Sprintf("%s/%d", pio.Prefix, pio.PrefixLength),
			OnLink:            pio.OnLink,
			Autonomous:        pio.Autonomous,
			ValidLifetime:     pio.ValidLifetime,
			PreferredLifetime: pio.PreferredLifetime,
		})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		return yaml.NewEncoder(w).Encode(report)
	case "text":
		fmt.Fprintf(w, "RA from %s:\n", report.Source)
		if len(report.Prefixes) == 0 {
			fmt.Fprintln(w, "  (no prefix information options)")
		}
		for _, p := range report.Prefixes {
			fmt.Fprintf(w, "  %s on-link=%v autonomous=%v valid=%ds preferred=%ds\n",
				p.Prefix, p.OnLink, p.Autonomous, p.ValidLifetime, p.PreferredLifetime)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (must be text, json or yaml)", format)
	}
}

func init() {
	radumpCmd.Flags().IntVarP(&radumpCount, "count", "n", 1,
		"number of router advertisements to capture")
	radumpCmd.Flags().DurationVarP(&radumpTimeout, "timeout", "t", 60*time.Second,
		"overall capture budget")
	radumpCmd.Flags().StringVarP(&radumpOutput, "output", "o", "text",
		"output format: text, json or yaml")
}
