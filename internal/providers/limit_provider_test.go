package providers

import (
	"context"
	"errors"
	"testing"
	"time"
)

type countingProvider struct {
	calls int
}

func (p *countingProvider) FetchArtwork(ctx context.Context, title string) (Artwork, error) {
	p.calls++
	return Artwork{Title: title}, nil
}

func TestRateLimitedProviderBlocksUntilTick(t *testing.T) {
	inner := &countingProvider{}
	provider := NewRateLimitedProvider(inner, 5*time.Millisecond, nil)

	start := time.Now()
	if _, err := provider.FetchArtwork(context.Background(), "Hades"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Fatalf("expected the call to wait for a tick")
	}
	if inner.calls != 1 {
		t.Fatalf("expected one inner call, got %d", inner.calls)
	}
}

func TestRateLimitedProviderRespectsCanceledContext(t *testing.T) {
	inner := &countingProvider{}
	provider := NewRateLimitedProvider(inner, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := provider.FetchArtwork(ctx, "Hades"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if inner.calls != 0 {
		t.Fatalf("expected no inner calls, got %d", inner.calls)
	}
}

func TestRateLimitedProviderHandlesNilInner(t *testing.T) {
	provider := NewRateLimitedProvider(nil, time.Millisecond, nil)

	if _, err := provider.FetchArtwork(context.Background(), "Hades"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
