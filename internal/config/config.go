package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"edaqc/internal/quality"
)

// envPrefix namespaces the environment variables, e.g. EDAQC_LOGGING_LEVEL.
const envPrefix = "EDAQC"

// defaultConfigFile is looked up next to the working directory when no
// explicit path is given.
const defaultConfigFile = "edaqc.yaml"

// Config is the complete application configuration. Precedence, lowest to
// highest: built-in defaults, YAML file, environment variables.
type Config struct {
	Quality quality.Config `yaml:"quality" envconfig:"QUALITY"`
	Logging LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"` // console, file, both
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	// InputDir is the root holding session export directories.
	InputDir string `yaml:"input_dir" envconfig:"INPUT_DIR"`
	// OutputDir receives the per-session result files.
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Quality: quality.DefaultConfig(),
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: filepath.Join("logs", "edaqc.log"),
		},
		Paths: PathsConfig{
			InputDir:  "data",
			OutputDir: "results",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (or
// ./edaqc.yaml when path is empty, silently skipped when absent), and the
// EDAQC_* environment. Engine threshold cross-checks are left to the
// quality package so there is a single fatal-validation path.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; defaults plus environment apply.
	default:
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config from environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// validate checks the non-engine sections. The quality thresholds are
// validated by quality.ValidateInput at assessment time.
func (c *Config) validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %s", c.Logging.Output)
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging output %q requires a file path", c.Logging.Output)
	}
	return nil
}
