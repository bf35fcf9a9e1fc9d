// Package cmd implements CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gammahazard/protocol-gateway-sandbox/internal/config"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/core/decoder"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/log"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/pipeline"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/reporter"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/reporter/console"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/reporter/jsonl"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/source"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/source/pcap"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/source/script"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a frame source and report per-frame outcomes",
	Long: `Run the gateway over the frame source configured in the config file
(an offline pcap capture or a YAML frame script), decode every candidate
frame, and forward each outcome to the configured reporters.

Frames that fail to decode are reported and skipped; the run always reaches
the end of the source. The exit code is 0 even when frames failed - decode
failure is data, not a process fault.

Examples:
  modbus-gateway run -c gateway.yml
  GATEWAY_DECODER_ENFORCE_PROTOCOL_ID=true modbus-gateway run -c gateway.yml`,
	Run: func(cmd *cobra.Command, args []string) {
		runRunCommand()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRunCommand() {
	cfg, err := config.Load(configFile)
	if err != nil {
		exitWithError("failed to load config", err)
	}

	if err := log.Init(&cfg.Log); err != nil {
		exitWithError("failed to init logger", err)
	}
	logger := log.GetLogger()

	src, err := buildSource(cfg)
	if err != nil {
		exitWithError("failed to open frame source", err)
	}
	defer src.Close()

	reporters, err := buildReporters(cfg)
	if err != nil {
		exitWithError("failed to build reporters", err)
	}
	defer func() {
		for _, r := range reporters {
			if err := r.Close(); err != nil {
				logger.WithField("reporter", r.Name()).WithError(err).Error("reporter close failed")
			}
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(pipeline.Config{
		Source:    src,
		Reporters: reporters,
		Decoder:   decoder.Options{EnforceProtocolID: cfg.Decoder.EnforceProtocolID},
	})

	logger.WithField("source", cfg.Source.Type+":"+cfg.Source.Path).Info("run starting")
	report, runErr := p.Run(ctx)
	if runErr != nil {
		logger.WithError(runErr).Warn("run interrupted")
	}

	stats := p.Stats()
	logger.WithFields(map[string]interface{}{
		"decoded": report.Decoded(),
		"failed":  report.Failed(),
	}).Info("run finished")
	fmt.Println(pipeline.FormatStats(stats))
	if report.Exhausted() {
		fmt.Println("run terminated: frame source exhausted")
	}
}

// buildSource constructs the configured frame source.
func buildSource(cfg *config.GlobalConfig) (source.Source, error) {
	switch cfg.Source.Type {
	case "pcap":
		return pcap.Open(pcap.Config{
			Path:   cfg.Source.Path,
			Port:   cfg.Source.Port,
			Filter: cfg.Source.Filter,
		})
	case "script":
		return script.Open(cfg.Source.Path)
	default:
		return nil, fmt.Errorf("unsupported source type %q", cfg.Source.Type)
	}
}

// buildReporters constructs the configured reporter chain.
func buildReporters(cfg *config.GlobalConfig) ([]reporter.Reporter, error) {
	reporters := make([]reporter.Reporter, 0, len(cfg.Reporters))
	for _, rc := range cfg.Reporters {
		var (
			r   reporter.Reporter
			err error
		)
		switch rc.Name {
		case "console":
			r, err = console.New(rc.Config)
		case "jsonl":
			r, err = jsonl.New(rc.Config)
		default:
			err = fmt.Errorf("unknown reporter %q", rc.Name)
		}
		if err != nil {
			return nil, err
		}
		reporters = append(reporters, r)
	}
	return reporters, nil
}
