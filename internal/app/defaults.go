package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fel1x-developer/pkg.freebsd.org/internal/config"
)

// DatabaseURLEnv overrides database.url from the config file.
const DatabaseURLEnv = "DATABASE_URL"

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - PKGSITE_CONFIG_PATH: config file location (default: ~/.config/pkgsite.toml)
//   - PKGSITE_HOME: base directory for pkgsite data (default: ~/.local/share/pkgsite)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// LoadConfig reads the config file named by defaults. A missing file is not
// an error: the built-in defaults are used instead. DATABASE_URL, when set,
// replaces database.url either way.
func LoadConfig(defaults map[string]string) (*config.Config, error) {
	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		cfg = config.NewConfig(defaults["base_dir"])
	}

	if url := os.Getenv(DatabaseURLEnv); url != "" {
		cfg.Database.URL = url
	}
	if cfg.LogDir == "" {
		cfg.LogDir = defaults["log_dir"]
	}
	return cfg, nil
}

// getConfigPath returns the config file path, checking PKGSITE_CONFIG_PATH env var first,
// then falling back to the default ~/.config/pkgsite.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("PKGSITE_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "pkgsite.toml"), nil
}

// getBaseDir returns the base directory for pkgsite data, checking PKGSITE_HOME env var first,
// then falling back to the XDG default ~/.local/share/pkgsite.
func getBaseDir() (string, error) {
	if path := os.Getenv("PKGSITE_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "pkgsite"), nil
}
