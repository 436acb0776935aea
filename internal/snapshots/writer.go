package snapshots

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gamelib-service/internal/domain"
	"gamelib-service/internal/timeutil"
)

// Writer persists the library file and dated backups with pruning.
type Writer struct {
	basePath      string
	retentionDays int
}

// NewWriter constructs a writer rooted at basePath with a rolling backup
// retention window.
func NewWriter(basePath string, retentionDays int) *Writer {
	if retentionDays <= 0 {
		retentionDays = 14
	}
	return &Writer{
		basePath:      basePath,
		retentionDays: retentionDays,
	}
}

// BasePath exposes the writer root path (primarily for testing).
func (w *Writer) BasePath() string {
	if w == nil {
		return ""
	}
	return w.basePath
}

// WriteLibrary atomically replaces the live library file.
func (w *Writer) WriteLibrary(snapshot domain.LibrarySnapshot) error {
	if w == nil {
		return fmt.Errorf("snapshot writer not configured")
	}
	if snapshot.Games == nil {
		snapshot.Games = []domain.Game{}
	}
	_, err := w.writeFile(LibraryPath(w.basePath), snapshot)
	return err
}

// WriteBackup writes a dated backup (YYYY-MM-DD), updates the manifest
// and prunes backups past the retention window.
func (w *Writer) WriteBackup(date string, snapshot domain.LibrarySnapshot) error {
	if w == nil {
		return fmt.Errorf("snapshot writer not configured")
	}
	if date == "" {
		return fmt.Errorf("date required")
	}
	if snapshot.Games == nil {
		snapshot.Games = []domain.Game{}
	}
	if _, err := w.writeFile(BackupPath(w.basePath, date), snapshot); err != nil {
		return err
	}
	return w.updateManifest(date)
}

// writeFile marshals payload and writes it via tmp+rename. It skips the
// rename when the on-disk content is already identical, reporting whether
// anything changed.
func (w *Writer) writeFile(target string, payload any) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return false, err
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return false, err
	}
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return false, nil
	}
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return false, err
	}
	if err := os.Rename(tmp, target); err != nil {
		return false, err
	}
	return true, nil
}

func (w *Writer) updateManifest(date string) error {
	m, _ := readManifest(manifestPath(w.basePath), w.retentionDays)

	dates, err := w.listBackupDates()
	if err != nil {
		return err
	}
	if !containsDate(dates, date) {
		dates = append(dates, date)
	}
	pruned, err := w.pruneOldBackups(dates)
	if err != nil {
		return err
	}

	m.Backups.Dates = pruned
	m.Backups.LastRefreshed = time.Now().UTC()
	m.Retention.BackupDays = w.retentionDays

	return writeManifest(w.basePath, m)
}

func containsDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}

func (w *Writer) listBackupDates() ([]string, error) {
	dir := filepath.Join(w.basePath, "backups")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var (
		dates []string
		seen  = make(map[string]struct{})
	)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}
		base := name[:len(name)-len(".json")]
		if _, ok := seen[base]; ok {
			continue
		}
		seen[base] = struct{}{}
		dates = append(dates, base)
	}
	sort.Strings(dates)
	return dates, nil
}

func (w *Writer) pruneOldBackups(dates []string) ([]string, error) {
	now := time.Now()
	cutoff := timeutil.StartOfDay(now).AddDate(0, 0, -w.retentionDays)
	var keep []string
	for _, d := range dates {
		parsed, err := timeutil.ParseLocalDate(d)
		if err != nil {
			keep = append(keep, d)
			continue
		}
		if parsed.Before(cutoff) {
			_ = os.Remove(BackupPath(w.basePath, d))
			continue
		}
		keep = append(keep, d)
	}
	sort.Strings(keep)
	return keep, nil
}
