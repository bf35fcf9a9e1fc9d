package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gammahazard/protocol-gateway-sandbox/internal/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gateway.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
gateway:
  decoder:
    enforce_protocol_id: true
  source:
    type: pcap
    path: /data/plant.pcap
    port: 1502
  reporters:
    - name: console
      config:
        format: json
    - name: jsonl
      config:
        path: /tmp/report.jsonl
  log:
    level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Decoder.EnforceProtocolID)
	assert.Equal(t, "pcap", cfg.Source.Type)
	assert.Equal(t, "/data/plant.pcap", cfg.Source.Path)
	assert.Equal(t, 1502, cfg.Source.Port)
	require.Len(t, cfg.Reporters, 2)
	assert.Equal(t, "console", cfg.Reporters[0].Name)
	assert.Equal(t, "json", cfg.Reporters[0].Config["format"])
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
gateway:
  source:
    type: script
    path: frames.yml
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Decoder.EnforceProtocolID)
	assert.Equal(t, 502, cfg.Source.Port)
	require.Len(t, cfg.Reporters, 1)
	assert.Equal(t, "console", cfg.Reporters[0].Name)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadSource(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing type", "gateway:\n  source:\n    path: x.pcap\n"},
		{"unknown type", "gateway:\n  source:\n    type: serial\n    path: /dev/ttyS0\n"},
		{"missing path", "gateway:\n  source:\n    type: pcap\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrConfigInvalid))
		})
	}
}

func TestValidateRejectsUnknownReporter(t *testing.T) {
	path := writeConfig(t, `
gateway:
  source:
    type: script
    path: frames.yml
  reporters:
    - name: kafka
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	path := writeConfig(t, `
gateway:
  source:
    type: script
    path: frames.yml
  log:
    level: loud
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))
}
