package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mdrcp/mdrcp/internal/logger"
)

// Config holds optional per-project deployment defaults.
// Command line flags always take precedence over values loaded from here.
type Config struct {
	// TargetDir is the default destination directory override.
	// Relative paths resolve against the project directory.
	TargetDir string `yaml:"target_dir"`
	// Profile selects the artifact subdirectory: "release" or "debug".
	Profile string `yaml:"profile"`
	// Summary selects the summary rendering: "text", "json" or "json-pretty".
	Summary string `yaml:"summary"`
	// Quiet suppresses progress output when true.
	Quiet bool `yaml:"quiet"`
	// LogLevel sets the diagnostic log level (debug, info, warn, error, fatal).
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the per-project defaults file looked up in the project directory.
	DefaultConfigFilename = ".mdrcp.yaml"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errUnknownProfile is returned for profile values other than release or debug.
	errUnknownProfile = errors.New("profile must be \"release\" or \"debug\"")
	// errUnknownSummary is returned for unsupported summary format values.
	errUnknownSummary = errors.New("summary must be \"text\", \"json\" or \"json-pretty\"")
	// errUnknownLogLevel is returned for unparseable log level values.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Load reads the defaults file from the provided path and validates it.
// A missing file is not an error: the tool works without any configuration,
// so Load returns (nil, nil) in that case.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read defaults: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal defaults: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the defaults to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write defaults: %w", err)
	}

	return nil
}

// Validate checks the provided defaults for supported enumeration values.
// Empty fields are fine: they simply defer to the built-in defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	switch cfg.Profile {
	case "", "release", "debug":
	default:
		return fmt.Errorf("%w, got %q", errUnknownProfile, cfg.Profile)
	}

	switch cfg.Summary {
	case "", "text", "json", "json-pretty":
	default:
		return fmt.Errorf("%w, got %q", errUnknownSummary, cfg.Summary)
	}

	if cfg.LogLevel != "" {
		if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
			return fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
		}
	}

	return nil
}
