package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// MaxBackups is how many backups are kept per config file.
const MaxBackups = 3

// backupStamp sorts lexically in time order.
const backupStamp = "20060102-150405.000000000"

// ErrNoBackup is returned by Restore when a file has no backups.
var ErrNoBackup = stderrors.New("no backup found")

// Backup is one saved copy of a config file, stored next to it as
// <name>.bak.<stamp>.
type Backup struct {
	Path  string
	Taken time.Time
}

// BackupFile saves a copy of path and prunes copies beyond MaxBackups.
// A missing path is not an error; the returned Backup is then zero.
func BackupFile(path string) (Backup, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Backup{}, nil
	}
	if err != nil {
		return Backup{}, fmt.Errorf("failed to read %s for backup: %w", path, err)
	}

	now := time.Now()
	b := Backup{Path: backupPrefix(path) + now.Format(backupStamp), Taken: now}
	if err := os.WriteFile(b.Path, data, 0o644); err != nil {
		return Backup{}, fmt.Errorf("failed to write backup: %w", err)
	}

	backups, err := Backups(path)
	if err != nil {
		return b, nil
	}
	for _, old := range backups[min(len(backups), MaxBackups):] {
		_ = os.Remove(old.Path)
	}
	return b, nil
}

// Backups lists the backups of path, newest first. Files with the backup
// prefix but no readable stamp are ignored.
func Backups(path string) ([]Backup, error) {
	dir := filepath.Dir(path)
	prefix := filepath.Base(backupPrefix(path))

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var backups []Backup
	for _, entry := range entries {
		stamp, ok := strings.CutPrefix(entry.Name(), prefix)
		if !ok || entry.IsDir() {
			continue
		}
		taken, err := time.ParseInLocation(backupStamp, stamp, time.Local)
		if err != nil {
			continue
		}
		backups = append(backups, Backup{Path: filepath.Join(dir, entry.Name()), Taken: taken})
	}

	slices.SortFunc(backups, func(a, b Backup) int { return b.Taken.Compare(a.Taken) })
	return backups, nil
}

// Restore moves the newest backup of path back into place.
func Restore(path string) (Backup, error) {
	backups, err := Backups(path)
	if err != nil {
		return Backup{}, err
	}
	if len(backups) == 0 {
		return Backup{}, fmt.Errorf("%s: %w", path, ErrNoBackup)
	}

	newest := backups[0]
	if err := os.Rename(newest.Path, path); err != nil {
		return Backup{}, fmt.Errorf("failed to restore %s: %w", newest.Path, err)
	}
	return newest, nil
}

func backupPrefix(path string) string {
	return path + ".bak."
}
