package providers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gamelib-service/internal/logging"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// retryingProvider wraps an ArtworkProvider with retry/backoff behavior.
type retryingProvider struct {
	inner       ArtworkProvider
	logger      *slog.Logger
	maxAttempts int
	backoffFn   backoffFunc
}

// NewRetryingProvider wraps the given provider with retries. If maxAttempts
// or backoff are <= 0, defaults are used. Not-found results and rate limit
// responses are returned immediately; retrying them wastes quota.
func NewRetryingProvider(inner ArtworkProvider, logger *slog.Logger, maxAttempts int, backoff time.Duration) ArtworkProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &retryingProvider{
		inner:       inner,
		logger:      logger,
		maxAttempts: maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
	}
}

func (r *retryingProvider) FetchArtwork(ctx context.Context, title string) (Artwork, error) {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		art, err := r.inner.FetchArtwork(ctx, title)
		if err == nil {
			return art, nil
		}
		if errors.Is(err, ErrArtworkNotFound) {
			return Artwork{}, err
		}
		if _, ok := AsRateLimitError(err); ok {
			return Artwork{}, err
		}
		lastErr = err

		if attempt == r.maxAttempts {
			break
		}

		r.logWarn(ctx, "artwork fetch retry", "attempt", attempt, "max_attempts", r.maxAttempts, "err", err)

		delay := r.backoffFn(attempt)
		select {
		case <-ctx.Done():
			return Artwork{}, ctx.Err()
		case <-time.After(delay):
		}
	}

	r.logWarn(ctx, "artwork fetch failed", "attempts", r.maxAttempts, "err", lastErr)
	return Artwork{}, lastErr
}

func (r *retryingProvider) logWarn(ctx context.Context, msg string, args ...any) {
	logger := logging.FromContext(ctx, r.logger)
	if logger != nil {
		logger.Warn(msg, args...)
	}
}
