package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultDataDir is the subdirectory within the user's home directory.
const defaultDataDir = ".config/suggestbox/data"

// ResolveDataDir returns the directory holding the persisted collections,
// creating it if needed. An empty configuredDir selects ~/.config/suggestbox/data.
func ResolveDataDir(configuredDir string) (string, error) {
	dir := configuredDir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		dir = filepath.Join(homeDir, defaultDataDir)
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create data directory '%s': %w", dir, err)
	}
	return dir, nil
}

// ResolveFile joins name onto dir unless name is already absolute.
func ResolveFile(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}
