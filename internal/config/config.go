// Package config handles gateway configuration loading using viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/gammahazard/protocol-gateway-sandbox/internal/core"
	"github.com/gammahazard/protocol-gateway-sandbox/internal/log"
)

// GlobalConfig represents the top-level gateway configuration.
// Maps to the `gateway:` root key in YAML.
type GlobalConfig struct {
	Decoder   DecoderConfig    `mapstructure:"decoder"`
	Source    SourceConfig     `mapstructure:"source"`
	Reporters []ReporterConfig `mapstructure:"reporters"`
	Log       log.LoggerConfig `mapstructure:"log"`
}

// DecoderConfig contains frame decoder policy.
type DecoderConfig struct {
	// EnforceProtocolID rejects frames whose MBAP protocol id is not 0x0000.
	EnforceProtocolID bool `mapstructure:"enforce_protocol_id"`
}

// SourceConfig selects the candidate frame source.
type SourceConfig struct {
	Type   string `mapstructure:"type"`   // "pcap" | "script"
	Path   string `mapstructure:"path"`   // capture file or frame script
	Port   int    `mapstructure:"port"`   // pcap: Modbus port, default 502
	Filter string `mapstructure:"filter"` // pcap: optional BPF filter override
}

// ReporterConfig contains one reporter and its plugin-specific options.
type ReporterConfig struct {
	Name   string         `mapstructure:"name"` // console / jsonl
	Config map[string]any `mapstructure:"config"`
}

// configRoot is the top-level wrapper matching the YAML structure `gateway: ...`.
type configRoot struct {
	Gateway GlobalConfig `mapstructure:"gateway"`
}

// Load loads configuration from file.
// The YAML file uses `gateway:` as root key; env vars override via the key
// replacer (e.g. key "gateway.log.level" → env "GATEWAY_LOG_LEVEL").
func Load(path string) (*GlobalConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Gateway

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration.
// All keys use the "gateway." prefix to match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("gateway.decoder.enforce_protocol_id", false)

	v.SetDefault("gateway.source.port", 502)

	v.SetDefault("gateway.log.level", "info")
	v.SetDefault("gateway.log.pattern", "%time [%level] %field %msg\n")
	v.SetDefault("gateway.log.time", "2006-01-02 15:04:05")
}

// ValidateAndApplyDefaults validates configuration and applies runtime
// defaults.
func (cfg *GlobalConfig) ValidateAndApplyDefaults() error {
	switch cfg.Source.Type {
	case "pcap", "script":
		if cfg.Source.Path == "" {
			return fmt.Errorf("%w: source.path is required for source type %q",
				core.ErrConfigInvalid, cfg.Source.Type)
		}
	case "":
		return fmt.Errorf("%w: source.type is required (pcap or script)", core.ErrConfigInvalid)
	default:
		return fmt.Errorf("%w: unsupported source.type %q (must be pcap or script)",
			core.ErrConfigInvalid, cfg.Source.Type)
	}

	if cfg.Source.Port < 0 || cfg.Source.Port > 65535 {
		return fmt.Errorf("%w: source.port %d out of range", core.ErrConfigInvalid, cfg.Source.Port)
	}

	if len(cfg.Reporters) == 0 {
		cfg.Reporters = []ReporterConfig{{Name: "console"}}
	}
	for _, r := range cfg.Reporters {
		switch r.Name {
		case "console", "jsonl":
		default:
			return fmt.Errorf("%w: unknown reporter %q (must be console or jsonl)",
				core.ErrConfigInvalid, r.Name)
		}
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if cfg.Log.Level != "" && !validLevels[cfg.Log.Level] {
		return fmt.Errorf("%w: invalid log level %q", core.ErrConfigInvalid, cfg.Log.Level)
	}

	return nil
}
