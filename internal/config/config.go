// Package config resolves the scriptterm data directory and manages
// the user's preference store.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultDirName = ".scriptterm"

// DataDir returns the scriptterm data directory. An explicit override
// (from the --data-dir flag) wins; otherwise it lives under the
// user's home directory.
func DataDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, defaultDirName), nil
}

// EnsureDataDir creates the data directory (and the scripts
// subdirectory) if missing.
func EnsureDataDir(dir string) error {
	if err := os.MkdirAll(filepath.Join(dir, "scripts"), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// ScriptsDir is where stored scripts live inside the data directory.
func ScriptsDir(dataDir string) string {
	return filepath.Join(dataDir, "scripts")
}

// PrefsPath is the preference file inside the data directory.
func PrefsPath(dataDir string) string {
	return filepath.Join(dataDir, "prefs.yml")
}

// LogPath is the log file written while the TUI owns the terminal.
func LogPath(dataDir string) string {
	return filepath.Join(dataDir, "scriptterm.log")
}
