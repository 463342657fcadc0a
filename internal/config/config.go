// Package config resolves fimbl's settings: compiled-in defaults,
// overridden by an optional YAML config file, overridden by flags
// (the flag layer lives in the cli package).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by every command.
type Config struct {
	// Database is the filesystem location of the persisted store.
	Database string `yaml:"database"`

	// Jobs bounds the fingerprinting worker pool. Zero means one
	// worker per CPU.
	Jobs int `yaml:"jobs"`

	// Tolerant downgrades precondition violations (already-tracked on
	// add, not-tracked on accept/remove) from errors to informational
	// outcomes.
	Tolerant bool `yaml:"tolerant"`

	// FollowSymlinks expands symlink arguments into their reference
	// chain so both the link and its target are operated on.
	FollowSymlinks bool `yaml:"follow_symlinks"`
}

// Default returns the compiled-in configuration. The database lives
// under the user's config directory, matching where the config file
// itself is looked up.
func Default() (Config, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return Config{}, fmt.Errorf("no user config directory: %w", err)
	}
	return Config{
		Database: filepath.Join(dir, "fimbl", "fimbl.db"),
	}, nil
}

// DefaultPath returns where LoadDefault looks for the config file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("no user config directory: %w", err)
	}
	return filepath.Join(dir, "fimbl", "config.yaml"), nil
}

// Load reads a YAML config file over the defaults. Unknown fields are
// rejected (catches typos like "tolerent:").
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.Database == "" {
		return Config{}, fmt.Errorf("config %s: database must not be empty", path)
	}
	if cfg.Jobs < 0 {
		return Config{}, fmt.Errorf("config %s: jobs must not be negative", path)
	}

	return cfg, nil
}

// LoadDefault loads the config file from its default location. A
// missing file is not an error - defaults apply.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Config{}, err
	}

	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default()
	}
	return cfg, err
}
