// Package cmd implements CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gammahazard/protocol-gateway-sandbox/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a gateway configuration file",
	Long: `Validate a gateway configuration file without running it.

This is useful for pre-checking configuration before deployment.

Examples:
  modbus-gateway validate -f gateway.yml`,
	Run: func(cmd *cobra.Command, args []string) {
		runValidateCommand()
	},
}

var validateConfigFile string

func init() {
	validateCmd.Flags().StringVarP(&validateConfigFile, "file", "f", "",
		"configuration file to validate (required)")
	validateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(validateCmd)
}

func runValidateCommand() {
	cfg, err := config.Load(validateConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "INVALID: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("VALID: source %s:%s, %d reporter(s), enforce_protocol_id=%v\n",
		cfg.Source.Type,
		cfg.Source.Path,
		len(cfg.Reporters),
		cfg.Decoder.EnforceProtocolID,
	)
}
