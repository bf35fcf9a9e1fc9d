// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "modbus-gateway",
	Short: "Modbus/TCP frame gateway - decodes untrusted PLC traffic without falling over",
	Long: `modbus-gateway decodes Modbus/TCP frames arriving from an untrusted
transport (a PLC/SCADA link). Every byte access in the decoder is preceded by
an explicit length check, and the supervising loop records each frame's
outcome instead of aborting, so a single malformed frame never takes the
process down or hides the frames that follow it.

Commands:
  run       replay a frame source (pcap capture or frame script) and report outcomes
  decode    decode one or more hex-encoded frames from the command line
  validate  check a gateway configuration file`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "/etc/modbus-gateway/config.yml",
		"config file path")
}

// exitWithError prints error message and exits with code 1
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
