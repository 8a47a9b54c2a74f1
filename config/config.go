package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cratediff/cratediff/domain"
)

// Config is the optional file-based configuration for cratediff. Every value
// can be overridden by a command-line flag.
type Config struct {
	IncludeDevDependencies    bool   `yaml:"include_dev_dependencies"`
	IncludeBuildDependencies  bool   `yaml:"include_build_dependencies"`
	IncludeTargetDependencies bool   `yaml:"include_target_dependencies"`
	MinimumReportedSeverity   string `yaml:"minimum_reported_severity"`
	FailOnSeverity            string `yaml:"fail_on_severity"`
	Format                    string `yaml:"format"`
}

// Default returns the configuration used when no file is present: all tables
// included, nothing filtered, text output, no failure threshold.
func Default() *Config {
	return &Config{
		IncludeDevDependencies:    true,
		IncludeBuildDependencies:  true,
		IncludeTargetDependencies: true,
		MinimumReportedSeverity:   "",
		FailOnSeverity:            "",
		Format:                    "text",
	}
}

// Load reads and parses a configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	cfg := Default()
	if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	if validateErr := validate(cfg); validateErr != nil {
		return nil, validateErr
	}

	return cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".cratediff.yaml",
		".cratediff.yml",
		"cratediff.yaml",
		"cratediff.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// MinimumSeverity parses the configured reporting threshold. An empty value
// means report everything.
func (c *Config) MinimumSeverity() (domain.Severity, error) {
	if c.MinimumReportedSeverity == "" {
		return domain.SeverityNonSemver, nil
	}
	return domain.ParseSeverity(c.MinimumReportedSeverity)
}

// validate checks the configured values name known severities and formats.
func validate(cfg *Config) error {
	if cfg.MinimumReportedSeverity != "" {
		if _, err := domain.ParseSeverity(cfg.MinimumReportedSeverity); err != nil {
			return fmt.Errorf("minimum_reported_severity: %w", err)
		}
	}
	if cfg.FailOnSeverity != "" {
		if _, err := domain.ParseSeverity(cfg.FailOnSeverity); err != nil {
			return fmt.Errorf("fail_on_severity: %w", err)
		}
	}
	if cfg.Format != "text" && cfg.Format != "json" {
		return fmt.Errorf("format must be %q or %q, got %q", "text", "json", cfg.Format)
	}
	return nil
}
