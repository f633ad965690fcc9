package config

import (
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/cuemby/burrow/pkg/types"
)

// Environment variables honored by Load, applied after the file overlay.
const (
	EnvSchemaDir       = "BURROW_SCHEMA_DIR"
	EnvExtraSchemaDirs = "BURROW_EXTRA_SCHEMA_DIRS"
	EnvCIBFile         = "BURROW_CIB_FILE"
	EnvDataDir         = "BURROW_DATA_DIR"
	EnvLogLevel        = "BURROW_LOG_LEVEL"
)

// LogConfig controls the process logger.
type LogConfig struct {
	Level      string `yaml:"level"`
	JSONOutput bool   `yaml:"json_output"`
}

// Config is the process configuration shared by the burrow tools.
type Config struct {
	// SchemaDir is the primary schema catalog directory.
	SchemaDir string `yaml:"schema_dir"`

	// ExtraSchemaDirs are supplementary catalog directories, lower
	// priority than SchemaDir for duplicate version names.
	ExtraSchemaDirs []string `yaml:"extra_schema_dirs"`

	// CIBFile is the path of the cluster configuration document.
	CIBFile string `yaml:"cib_file"`

	// DataDir holds node-local state such as the attribute database.
	DataDir string `yaml:"data_dir"`

	Log LogConfig `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		SchemaDir: "/etc/burrow/schemas",
		CIBFile:   "/var/lib/burrow/cluster.xml",
		DataDir:   "/var/lib/burrow",
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the effective configuration: defaults first, then the YAML
// file at path when one is given, then environment overrides. An empty
// path means no file is consulted.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		}

		var file Config
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse config file %q: %w: %w", path, err, types.ErrInvalidInput)
		}

		if err := mergo.Merge(cfg, file, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge config file %q: %w", path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvSchemaDir); v != "" {
		cfg.SchemaDir = v
	}
	if v := os.Getenv(EnvExtraSchemaDirs); v != "" {
		cfg.ExtraSchemaDirs = filepath.SplitList(v)
	}
	if v := os.Getenv(EnvCIBFile); v != "" {
		cfg.CIBFile = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks the configuration for values no tool can work without.
func (c *Config) Validate() error {
	if c.SchemaDir == "" {
		return fmt.Errorf("schema directory required: %w", types.ErrInvalidInput)
	}
	if c.CIBFile == "" {
		return fmt.Errorf("configuration file path required: %w", types.ErrInvalidInput)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data directory required: %w", types.ErrInvalidInput)
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q: %w", c.Log.Level, types.ErrInvalidInput)
	}
	return nil
}
