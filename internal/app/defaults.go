package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - WSNAP_CONFIG_PATH: config file location (default: ~/.config/wsnap.toml)
//   - WSNAP_HOME: base directory for wsnap data (default: ~/.local/share/wsnap)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine home directory: %w", err)
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
		"home":        homeDir,
	}, nil
}

// getConfigPath returns the config file path, checking WSNAP_CONFIG_PATH env var first,
// then falling back to the default ~/.config/wsnap.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("WSNAP_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "wsnap.toml"), nil
}

// getBaseDir returns the base directory for wsnap data, checking WSNAP_HOME env var first,
// then falling back to the XDG default ~/.local/share/wsnap.
func getBaseDir() (string, error) {
	if path := os.Getenv("WSNAP_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "wsnap"), nil
}
