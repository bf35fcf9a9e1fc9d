// Package cmd implements CLI commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gammahazard/protocol-gateway-sandbox/internal/core/decoder"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/pipeline"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/reporter"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/reporter/console"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/source/script"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/source/static"
)

var (
	decodeEnforceProtocol bool
	decodeFormat          string
)

var decodeCmd = &cobra.Command{
	Use:   "decode HEX [HEX...]",
	Short: "Decode hex-encoded candidate frames",
	Long: `Decode one or more candidate frames given as hex strings and print the
per-frame outcomes. Whitespace inside a hex string is ignored.

The exit code is 1 only when an argument is not valid hex; frames that fail
to decode are reported as outcomes, not as command failures.

Examples:
  modbus-gateway decode 000100000006010300 00000A
  modbus-gateway decode --format json "00 01 00"
  modbus-gateway decode --enforce-protocol-id 0001DEAD000601 03`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDecodeCommand(args, decodeEnforceProtocol, decodeFormat, os.Stdout); err != nil {
			exitWithError("decode failed", err)
		}
	},
}

func init() {
	decodeCmd.Flags().BoolVar(&decodeEnforceProtocol, "enforce-protocol-id", false,
		"reject frames whose MBAP protocol id is not 0x0000")
	decodeCmd.Flags().StringVar(&decodeFormat, "format", "text",
		"output format (text or json)")
	rootCmd.AddCommand(decodeCmd)
}

func runDecodeCommand(args []string, enforce bool, format string, out io.Writer) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q, must be text or json", format)
	}

	frames := make([][]byte, 0, len(args))
	for _, arg := range args {
		raw, err := script.DecodeHex(arg)
		if err != nil {
			return err
		}
		frames = append(frames, raw)
	}

	p := pipeline.New(pipeline.Config{
		Source:    static.New("cli", frames...),
		Reporters: []reporter.Reporter{console.NewWithWriter(out, format)},
		Decoder:   decoder.Options{EnforceProtocolID: enforce},
	})
	_, err := p.Run(context.Background())
	return err
}
