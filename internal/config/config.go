// Package config loads projman settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds user settings. Zero values are never used directly; Load
// starts from Default.
type Config struct {
	// Workbook is the CSV file one-shot commands load and save.
	Workbook string `yaml:"workbook"`
	// Autosave makes one-shot mutating commands write the workbook back.
	Autosave bool `yaml:"autosave"`
	// LogUseCases enables structured use-case logging on stderr.
	LogUseCases bool `yaml:"log_use_cases"`
	// Backup keeps a .bak copy of the workbook on every save.
	Backup bool `yaml:"backup"`
	// HistoryFile persists shell history between sessions. Empty uses
	// ~/.projman/shell_history.
	HistoryFile string `yaml:"history_file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Workbook: "projman.csv",
		Autosave: true,
		Backup:   true,
	}
}

// Path returns the config file location: $PROJMAN_CONFIG, or
// ~/.projman/config.yaml.
func Path() string {
	if v := os.Getenv("PROJMAN_CONFIG"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".projman", "config.yaml")
}

// Load reads Path() if it exists and applies environment overrides.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads settings from path on top of the defaults, then applies
// environment overrides. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	if cfg.Workbook == "" {
		cfg.Workbook = Default().Workbook
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PROJMAN_FILE"); v != "" {
		cfg.Workbook = v
	}
	if v := os.Getenv("PROJMAN_LOG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogUseCases = b
		}
	}
	if v := os.Getenv("PROJMAN_AUTOSAVE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Autosave = b
		}
	}
	if v := os.Getenv("PROJMAN_HISTORY"); v != "" {
		cfg.HistoryFile = v
	}
}
