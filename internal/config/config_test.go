package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, 0.01, cfg.Pipeline.WinsorLower)
	assert.Equal(t, 0.99, cfg.Pipeline.WinsorUpper)
	assert.Equal(t, 20.0, cfg.Pipeline.DelinquencyCap)
	assert.Equal(t, 0.95, cfg.Pipeline.CorrelationThreshold)
	assert.Equal(t, 20, cfg.Pipeline.TopFeatures)
	assert.Equal(t, 100, cfg.Pipeline.Forest.Trees)
	assert.Equal(t, int64(42), cfg.Pipeline.Forest.Seed)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadYAMLOverlay(t *testing.T) {
	path := writeConfigFile(t, `
logging:
  level: debug
  format: text
pipeline:
  correlation_threshold: 0.9
  top_features: 10
  forest:
    trees: 50
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	// Unspecified fields keep their defaults.
	assert.Equal(t, "console", cfg.Logging.Output)
	assert.Equal(t, 0.9, cfg.Pipeline.CorrelationThreshold)
	assert.Equal(t, 10, cfg.Pipeline.TopFeatures)
	assert.Equal(t, 50, cfg.Pipeline.Forest.Trees)
	assert.Equal(t, 10, cfg.Pipeline.Forest.MaxDepth)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
pipeline:
  top_features: 30
`)
	t.Setenv("CREDIT_PIPELINE_TOP_FEATURES", "7")
	t.Setenv("CREDIT_LOGGING_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Pipeline.TopFeatures)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "bad log level",
			yaml: "logging:\n  level: verbose\n",
		},
		{
			name: "inverted winsor bounds",
			yaml: "pipeline:\n  winsor_lower: 0.99\n  winsor_upper: 0.5\n",
		},
		{
			name: "zero top features",
			yaml: "pipeline:\n  top_features: 0\n",
		},
		{
			name: "invalid forest",
			yaml: "pipeline:\n  forest:\n    trees: -1\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tt.yaml))
			require.Error(t, err)
		})
	}
}
