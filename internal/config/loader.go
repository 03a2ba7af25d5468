package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".parsescope"

// xdgConfigFile is the file name looked up in the XDG config directory.
const xdgConfigFile = "config.yaml"

// LoadConfigFile loads profiles from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cf.Profiles == nil {
		cf.Profiles = make(map[string]Profile)
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .parsescope in the current directory
// 3. Look for .parsescope in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load finds and reads the configuration file into c.Profiles, then applies
// the selected profile. A missing file is only an error when
// c.ConfigFilePath was set explicitly.
func (c *Config) Load(changed func(flag string) bool) error {
	path := FindConfigFile(c.ConfigFilePath)
	if path == "" {
		if c.ConfigFilePath != "" {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, c.ConfigFilePath)
		}
		if c.Profile != "" {
			return fmt.Errorf("%w: %q (no configuration file)", ErrProfileNotFound, c.Profile)
		}
		c.Profiles = &File{Profiles: make(map[string]Profile)}
		return nil
	}

	f, err := LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	c.Profiles = f

	p, err := f.GetProfile(c.Profile)
	if err != nil {
		return err
	}
	c.ApplyProfile(p, changed)
	return nil
}
