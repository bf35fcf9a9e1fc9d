package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gammahazard/protocol-gateway-sandbox/internal/config"
)

func TestBuildSourceScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.yml")
	content := "frames:\n  - name: valid\n    hex: \"0001000000060103\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := &config.GlobalConfig{Source: config.SourceConfig{Type: "script", Path: path}}
	src, err := buildSource(cfg)
	require.NoError(t, err)
	defer src.Close()

	frame, err := src.Next()
	require.NoError(t, err)
	assert.Len(t, frame.Data, 8)
}

func TestBuildSourceUnsupported(t *testing.T) {
	cfg := &config.GlobalConfig{Source: config.SourceConfig{Type: "serial"}}
	_, err := buildSource(cfg)
	assert.Error(t, err)
}

func TestBuildReporters(t *testing.T) {
	cfg := &config.GlobalConfig{Reporters: []config.ReporterConfig{
		{Name: "console", Config: map[string]any{"format": "json"}},
		{Name: "jsonl", Config: map[string]any{"path": filepath.Join(t.TempDir(), "r.jsonl")}},
	}}

	reporters, err := buildReporters(cfg)
	require.NoError(t, err)
	require.Len(t, reporters, 2)
	assert.Equal(t, "console", reporters[0].Name())
	assert.Equal(t, "jsonl", reporters[1].Name())

	for _, r := range reporters {
		assert.NoError(t, r.Close())
	}
}

func TestBuildReportersUnknown(t *testing.T) {
	cfg := &config.GlobalConfig{Reporters: []config.ReporterConfig{{Name: "kafka"}}}
	_, err := buildReporters(cfg)
	assert.Error(t, err)
}
