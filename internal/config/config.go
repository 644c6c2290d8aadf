// Package config loads pipeline configuration in three layers: built-in
// defaults, an optional YAML file, then CREDIT-prefixed environment
// variables, which win. The merged result is validated before use.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"creditrisk/internal/cleaning"
	"creditrisk/internal/selection"
)

// envPrefix namespaces the environment variables consumed by Load.
const envPrefix = "CREDIT"

// Config is the complete application configuration.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains filesystem locations for inputs and outputs.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	WorkDir    string `yaml:"work_dir" envconfig:"WORK_DIR" validate:"required"`
}

// PipelineConfig carries the tunable parameters of the cleaning and
// selection stages. Feature formulas themselves are not configurable; their
// constants are part of the contract.
type PipelineConfig struct {
	WinsorLower          float64                `yaml:"winsor_lower" envconfig:"WINSOR_LOWER" validate:"gte=0,lt=1"`
	WinsorUpper          float64                `yaml:"winsor_upper" envconfig:"WINSOR_UPPER" validate:"gt=0,lte=1,gtfield=WinsorLower"`
	DelinquencyCap       float64                `yaml:"delinquency_cap" envconfig:"DELINQUENCY_CAP" validate:"gt=0"`
	CorrelationThreshold float64                `yaml:"correlation_threshold" envconfig:"CORRELATION_THRESHOLD" validate:"gte=0,lt=1"`
	TopFeatures          int                    `yaml:"top_features" envconfig:"TOP_FEATURES" validate:"gt=0"`
	Forest               selection.ForestConfig `yaml:"forest" envconfig:"FOREST"`
}

// DefaultConfig returns the built-in configuration layer.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/pipeline.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			ReportsDir: "reports",
			WorkDir:    "work",
		},
		Pipeline: PipelineConfig{
			WinsorLower:          cleaning.DefaultLowerPercentile,
			WinsorUpper:          cleaning.DefaultUpperPercentile,
			DelinquencyCap:       cleaning.DefaultDelinquencyCap,
			CorrelationThreshold: 0.95,
			TopFeatures:          20,
			Forest:               selection.DefaultForestConfig(),
		},
	}
}

// Load builds the configuration. The YAML file at path is skipped when path
// is empty or the file does not exist; environment variables are applied
// last so they override the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := loadFromFile(path, &cfg); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("apply config environment: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if !cfg.Pipeline.Forest.IsValid() {
		return nil, fmt.Errorf("config validation failed: invalid forest parameters %+v", cfg.Pipeline.Forest)
	}
	return &cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
