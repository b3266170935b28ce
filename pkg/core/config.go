package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/wysaid/ccapkg/internal/paths"
	"github.com/wysaid/ccapkg/pkg/platform"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds ccapkg configuration
type Config struct {
	CachePath      string                       `yaml:"cache_path"`
	Jobs           int                          `yaml:"jobs" validate:"gte=0"`
	Generator      string                       `yaml:"generator,omitempty"`
	CanRun         *bool                        `yaml:"can_run,omitempty"`
	Debug          bool                         `yaml:"debug"`
	DefaultProfile string                       `yaml:"default_profile,omitempty"`
	Profiles       map[string]platform.Settings `yaml:"profiles,omitempty" validate:"dive"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		CachePath: paths.Cache(),
		Jobs:      0, // Let the build tool decide
		Debug:     false,
		Profiles:  make(map[string]platform.Settings),
	}
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Profile returns the named settings profile. An empty name selects the
// default profile; when no profile is configured the host is detected.
func (c *Config) Profile(name string) (platform.Settings, error) {
	if name == "" {
		name = c.DefaultProfile
	}

	if name == "" {
		if p, ok := c.Profiles["default"]; ok {
			return p, nil
		}
		return platform.Detect()
	}

	p, ok := c.Profiles[name]
	if !ok {
		return platform.Settings{}, fmt.Errorf("profile %q not found", name)
	}
	return p, nil
}

// LoadConfig loads configuration from file
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = paths.ConfigFile()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = paths.ConfigFile()
	}

	if err := os.MkdirAll(filepath.Dir(path), paths.DefaultDirMode); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, paths.DefaultFileMode); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
