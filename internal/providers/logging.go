package providers

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// loggingProvider wraps an ArtworkProvider with structured fetch logging.
type loggingProvider struct {
	next   ArtworkProvider
	name   string
	logger *slog.Logger
}

// NewLoggingProvider wraps the provider with per-call logs tagged by name.
func NewLoggingProvider(next ArtworkProvider, name string, logger *slog.Logger) ArtworkProvider {
	return &loggingProvider{next: next, name: name, logger: logger}
}

func (p *loggingProvider) FetchArtwork(ctx context.Context, title string) (Artwork, error) {
	if p.next == nil {
		return Artwork{}, ErrProviderUnavailable
	}
	start := time.Now()
	art, err := p.next.FetchArtwork(ctx, title)
	if p.logger == nil {
		return art, err
	}
	args := []any{
		slog.String("provider", p.name),
		slog.String("title", title),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	}
	switch {
	case errors.Is(err, ErrArtworkNotFound):
		p.logger.Debug("artwork not found", args...)
	case err != nil:
		p.logger.Warn("artwork fetch failed", append(args, slog.Any("err", err))...)
	default:
		p.logger.Debug("artwork fetched", args...)
	}
	return art, err
}
