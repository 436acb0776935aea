package snapshots

import (
	"fmt"
	"path/filepath"
)

// LibraryPath builds the path to the live library file.
func LibraryPath(basePath string) string {
	return filepath.Join(basePath, "library.json")
}

// BackupPath builds the path to a dated library backup (YYYY-MM-DD).
func BackupPath(basePath, date string) string {
	return filepath.Join(basePath, "backups", fmt.Sprintf("%s.json", date))
}

func manifestPath(basePath string) string {
	return filepath.Join(basePath, "manifest.json")
}
