package snapshots

import (
	"encoding/json"
	"errors"
	"os"

	"gamelib-service/internal/domain"
)

// FSStore loads library files and backups from the filesystem.
type FSStore struct {
	basePath string
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath}
}

// LoadLibrary reads the live library file from disk. A missing file is not
// an error; it returns an empty snapshot so a fresh data dir boots clean.
func (s *FSStore) LoadLibrary() (domain.LibrarySnapshot, error) {
	if s == nil {
		return domain.LibrarySnapshot{}, errors.New("snapshot store not configured")
	}
	var payload domain.LibrarySnapshot
	err := s.decodeFile(LibraryPath(s.basePath), &payload)
	if os.IsNotExist(err) {
		return domain.NewLibrarySnapshot("", nil, ""), nil
	}
	if err != nil {
		return domain.LibrarySnapshot{}, err
	}
	if payload.Games == nil {
		payload.Games = []domain.Game{}
	}
	return payload, nil
}

// LoadBackup reads a dated backup (YYYY-MM-DD) from disk.
func (s *FSStore) LoadBackup(date string) (domain.LibrarySnapshot, error) {
	if s == nil {
		return domain.LibrarySnapshot{}, errors.New("snapshot store not configured")
	}
	if date == "" {
		return domain.LibrarySnapshot{}, errors.New("backup date required")
	}
	var payload domain.LibrarySnapshot
	if err := s.decodeFile(BackupPath(s.basePath, date), &payload); err != nil {
		return domain.LibrarySnapshot{}, err
	}
	if payload.Games == nil {
		payload.Games = []domain.Game{}
	}
	return payload, nil
}

func (s *FSStore) decodeFile(path string, payload any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(payload)
}
