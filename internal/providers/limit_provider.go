package providers

import (
	"context"
	"time"

	"log/slog"
)

// rateLimitedProvider wraps an ArtworkProvider and enforces a minimum
// interval between calls.
type rateLimitedProvider struct {
	next     ArtworkProvider
	interval time.Duration
	ticker   *time.Ticker
	logger   *slog.Logger
}

// NewRateLimitedProvider returns an ArtworkProvider that limits calls to the
// given interval. Calls block until the interval elapses to avoid exceeding
// upstream quotas.
func NewRateLimitedProvider(next ArtworkProvider, interval time.Duration, logger *slog.Logger) ArtworkProvider {
	if interval <= 0 {
		interval = time.Second
	}
	return &rateLimitedProvider{
		next:     next,
		interval: interval,
		ticker:   time.NewTicker(interval),
		logger:   logger,
	}
}

// Close stops the interval ticker. Call during shutdown to avoid leaking it.
func (p *rateLimitedProvider) Close() {
	if p != nil && p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *rateLimitedProvider) FetchArtwork(ctx context.Context, title string) (Artwork, error) {
	if p == nil || p.next == nil {
		if p.logger != nil {
			p.logger.Warn("provider unavailable", slog.String("provider", "rate-limited"))
		}
		return Artwork{}, ErrProviderUnavailable
	}
	select {
	case <-ctx.Done():
		if p.logger != nil {
			p.logger.Warn("rate-limited fetch canceled", slog.String("provider", "rate-limited"))
		}
		return Artwork{}, ctx.Err()
	case <-p.ticker.C:
	}
	if p.logger != nil {
		p.logger.Debug("rate-limited provider fetch", slog.String("provider", "rate-limited"), slog.String("title", title))
	}
	return p.next.FetchArtwork(ctx, title)
}
