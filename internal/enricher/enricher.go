package enricher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"gamelib-service/internal/domain"
	"gamelib-service/internal/logging"
	"gamelib-service/internal/metrics"
	"gamelib-service/internal/providers"
)

const defaultInterval = 5 * time.Minute

// Library is the slice of the library service the enricher needs.
type Library interface {
	Games(ctx context.Context) ([]domain.Game, error)
	UpsertGame(ctx context.Context, game domain.Game) (domain.Game, error)
}

// Enricher scans the library on an interval and backfills missing thumbnails
// from the artwork provider. Analytics never depend on artwork, so failures
// here degrade presentation only.
type Enricher struct {
	provider providers.ArtworkProvider
	library  Library
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the enrichment loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the enricher has had a recent success and is not
// failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs an Enricher with sane defaults.
func New(provider providers.ArtworkProvider, library Library, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Enricher {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Enricher{
		provider: provider,
		library:  library,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start begins enrichment until the context is cancelled or Stop is called.
func (e *Enricher) Start(ctx context.Context) {
	e.startMu.Lock()
	if e.started {
		e.startMu.Unlock()
		return
	}
	e.started = true
	e.startMu.Unlock()

	e.ticker = time.NewTicker(e.interval)

	go func() {
		e.logInfo("enricher started", slog.Int64(logging.FieldDurationMS, e.interval.Milliseconds()))
		// Initial pass to fill artwork on boot.
		e.enrichOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				e.stopTicker()
				e.logInfo("enricher stopped")
				return
			case <-e.done:
				e.stopTicker()
				e.logInfo("enricher stopped")
				return
			case <-e.ticker.C:
				e.enrichOnce(ctx)
			}
		}
	}()
}

// Stop halts the enrichment loop.
func (e *Enricher) Stop(ctx context.Context) error {
	_ = ctx
	e.stopOnce.Do(func() {
		close(e.done)
		e.stopTicker()
	})
	return nil
}

func (e *Enricher) enrichOnce(ctx context.Context) {
	start := time.Now()
	e.recordAttempt(start)

	games, err := e.library.Games(ctx)
	if err != nil {
		if e.metrics != nil {
			e.metrics.RecordEnrichCycle(time.Since(start), err)
		}
		e.logError("enrich list failed", err)
		e.recordFailure(err, start)
		return
	}

	enriched := 0
	var cycleErr error
	for _, game := range games {
		if game.Thumbnail != "" || game.Name == "" {
			continue
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		fetchStart := time.Now()
		art, fetchErr := e.provider.FetchArtwork(ctx, game.Name)
		if e.metrics != nil {
			e.metrics.RecordProviderAttempt(art.Source, time.Since(fetchStart), fetchErr)
		}
		if fetchErr != nil {
			if rl, ok := providers.AsRateLimitError(fetchErr); ok {
				if e.metrics != nil {
					e.metrics.RecordRateLimit(rl.Provider, rl.RetryAfter)
				}
				e.logWarn("enrich rate limited", slog.String(logging.FieldProvider, rl.Provider))
				cycleErr = fetchErr
				break
			}
			if errors.Is(fetchErr, providers.ErrArtworkNotFound) {
				continue
			}
			e.logWarn("enrich fetch failed", slog.String(logging.FieldGameID, game.ID), slog.Any("err", fetchErr))
			cycleErr = fetchErr
			continue
		}

		game.Thumbnail = art.ThumbnailURL
		if _, upsertErr := e.library.UpsertGame(ctx, game); upsertErr != nil {
			e.logWarn("enrich write failed", slog.String(logging.FieldGameID, game.ID), slog.Any("err", upsertErr))
			cycleErr = upsertErr
			continue
		}
		enriched++
	}

	if e.metrics != nil {
		e.metrics.RecordEnrichCycle(time.Since(start), cycleErr)
	}
	if cycleErr != nil {
		e.recordFailure(cycleErr, start)
	} else {
		e.recordSuccess(start)
	}
	e.logInfo("enrich cycle finished",
		logging.FieldCount, enriched,
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
}

func (e *Enricher) stopTicker() {
	if e.ticker != nil {
		e.ticker.Stop()
	}
}

func (e *Enricher) logInfo(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Info(msg, args...)
	}
}

func (e *Enricher) logWarn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}

func (e *Enricher) logError(msg string, err error, attrs ...any) {
	if e.logger != nil {
		e.logger.Error(msg, append(attrs, "error", err)...)
	}
}

func (e *Enricher) recordAttempt(at time.Time) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.status.LastAttempt = at
}

func (e *Enricher) recordSuccess(at time.Time) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.status.ConsecutiveFailures = 0
	e.status.LastError = ""
	e.status.LastSuccess = at
}

func (e *Enricher) recordFailure(err error, at time.Time) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.status.ConsecutiveFailures++
	if err != nil {
		e.status.LastError = err.Error()
	}
	e.status.LastAttempt = at
}

// Status returns a snapshot of the enricher's recent health.
func (e *Enricher) Status() Status {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()
	return e.status
}
