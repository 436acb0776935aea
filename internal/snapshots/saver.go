package snapshots

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"gamelib-service/internal/app/library"
	"gamelib-service/internal/domain"
	"gamelib-service/internal/timeutil"
)

// LibraryReader exposes the current library for persistence.
type LibraryReader interface {
	Games(ctx context.Context) ([]domain.Game, error)
}

// Saver persists the library file after every mutation. It implements
// library.Notifier so the service can stay unaware of the storage layout.
type Saver struct {
	mu      sync.Mutex
	reader  LibraryReader
	writer  *Writer
	logger  *slog.Logger
	now     func() time.Time
	timeout time.Duration
}

// NewSaver constructs a write-behind saver. logger may be nil.
func NewSaver(reader LibraryReader, writer *Writer, logger *slog.Logger) *Saver {
	return &Saver{
		reader:  reader,
		writer:  writer,
		logger:  logger,
		now:     time.Now,
		timeout: 10 * time.Second,
	}
}

// LibraryChanged rewrites the live library file with the current contents.
// Failures are logged, never propagated; persistence must not block reads.
func (s *Saver) LibraryChanged(event library.ChangeEvent) {
	if s == nil || s.reader == nil || s.writer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	games, err := s.reader.Games(ctx)
	if err != nil {
		s.logWarn("library save read failed", "event", event.Type, "err", err)
		return
	}
	snapshot := domain.NewLibrarySnapshot("", games, s.now().Format(time.RFC3339))
	if err := s.writer.WriteLibrary(snapshot); err != nil {
		s.logWarn("library save write failed", "event", event.Type, "err", err)
		return
	}
	s.logInfo("library saved", "event", event.Type, "count", len(games))
}

// Backup writes a dated backup of the current library and returns the date
// key it was stored under.
func (s *Saver) Backup(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	games, err := s.reader.Games(ctx)
	if err != nil {
		return "", err
	}
	stamp := s.now()
	date := timeutil.FormatDate(stamp)
	snapshot := domain.NewLibrarySnapshot("", games, stamp.Format(time.RFC3339))
	if err := s.writer.WriteBackup(date, snapshot); err != nil {
		return "", err
	}
	return date, nil
}

func (s *Saver) logInfo(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Saver) logWarn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
