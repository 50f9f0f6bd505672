package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetXDGDataDir returns the XDG data directory for labtrack.
// It respects XDG_DATA_HOME if set, otherwise falls back to ~/.local/share/labtrack
func GetXDGDataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "labtrack"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".local", "share", "labtrack"), nil
}

// DataPath joins elem onto the XDG data directory.
func DataPath(elem ...string) (string, error) {
	dir, err := GetXDGDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{dir}, elem...)...), nil
}
