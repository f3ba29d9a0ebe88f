package logging

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultLogDir returns ~/.objsearch/logs, or a temp-dir equivalent when the
// home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".objsearch", "logs")
	}
	return filepath.Join(home, ".objsearch", "logs")
}

// DefaultLogPath returns the CLI log path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "objsearch.log")
}

// FindLogFile resolves the log file to view: explicit first, then the default.
func FindLogFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
		return "", fmt.Errorf("log file not found: %s", explicit)
	}

	path := DefaultLogPath()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("no log file found. Run a command with --debug first.\nExpected at: %s", path)
}
