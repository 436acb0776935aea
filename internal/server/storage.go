package server

import (
	"context"
	"fmt"

	"log/slog"

	"gamelib-service/internal/app/library"
	"gamelib-service/internal/config"
	"gamelib-service/internal/logging"
	"gamelib-service/internal/snapshots"
	"gamelib-service/internal/store"
)

// buildStore selects the library backend from config. The memory backend is
// seeded from the on-disk library snapshot so restarts keep the library; the
// postgres backend owns persistence itself. The returned closer is nil for
// backends with nothing to release.
func buildStore(cfg config.Config, logger *slog.Logger) (library.Store, func() error, error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pg, err := store.OpenPostgres(cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		return pg, pg.Close, nil
	default:
		memory := store.NewMemoryStore()
		snapshot, err := snapshots.NewFSStore(cfg.Storage.DataDir).LoadLibrary()
		if err != nil {
			logging.Warn(logger, "library snapshot load failed, starting empty", "err", err)
			return memory, nil, nil
		}
		if len(snapshot.Games) > 0 {
			if err := memory.ReplaceGames(context.Background(), snapshot.Games); err != nil {
				return nil, nil, fmt.Errorf("seed memory store: %w", err)
			}
			logging.Info(logger, "library loaded from snapshot", "count", len(snapshot.Games))
		}
		return memory, nil, nil
	}
}
