package covergrid

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"gamelib-service/internal/providers"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(rt roundTripperFunc) *Client {
	return NewClient(Config{
		BaseURL:    "http://covergrid.test/v1",
		APIKey:     "secret",
		HTTPClient: &http.Client{Transport: rt},
	})
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestFetchArtworkHitsAPIAndMapsBestMatch(t *testing.T) {
	var capturedAuth, capturedQuery string

	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/v1/covers/search" {
			t.Fatalf("expected /v1/covers/search path, got %s", req.URL.Path)
		}
		capturedAuth = req.Header.Get("Authorization")
		capturedQuery = req.URL.Query().Get("q")
		return jsonResponse(http.StatusOK, `{
			"data": [
				{"title": "Hades II", "thumb_url": "http://img/h2-thumb.png", "cover_url": "http://img/h2.png", "match_rank": 2},
				{"title": "Hades", "thumb_url": "http://img/h1-thumb.png", "cover_url": "http://img/h1.png", "match_rank": 1}
			],
			"meta": {"total_results": 2}
		}`), nil
	})

	art, err := client.FetchArtwork(context.Background(), "Hades")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if capturedAuth != "Bearer secret" {
		t.Fatalf("expected bearer auth, got %q", capturedAuth)
	}
	if capturedQuery != "Hades" {
		t.Fatalf("expected query %q, got %q", "Hades", capturedQuery)
	}
	if art.Title != "Hades" || art.ThumbnailURL != "http://img/h1-thumb.png" {
		t.Fatalf("unexpected artwork: %+v", art)
	}
	if art.Source != ProviderName {
		t.Fatalf("expected source %q, got %q", ProviderName, art.Source)
	}
}

func TestFetchArtworkNotFound(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"error": "no match"}`), nil
	})

	_, err := client.FetchArtwork(context.Background(), "Unknown Title")
	if !errors.Is(err, providers.ErrArtworkNotFound) {
		t.Fatalf("expected ErrArtworkNotFound, got %v", err)
	}
}

func TestFetchArtworkEmptyResultsTreatedAsNotFound(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data": [], "meta": {"total_results": 0}}`), nil
	})

	_, err := client.FetchArtwork(context.Background(), "Obscure Indie")
	if !errors.Is(err, providers.ErrArtworkNotFound) {
		t.Fatalf("expected ErrArtworkNotFound, got %v", err)
	}
}

func TestFetchArtworkRateLimit(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		resp := jsonResponse(http.StatusTooManyRequests, ``)
		resp.Header.Set("Retry-After", "30")
		return resp, nil
	})

	_, err := client.FetchArtwork(context.Background(), "Hades")
	rl, ok := providers.AsRateLimitError(err)
	if !ok {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rl.Provider != ProviderName || rl.RetryAfter.Seconds() != 30 {
		t.Fatalf("unexpected rate limit details: %+v", rl)
	}
}

func TestFetchArtworkUnexpectedStatus(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `upstream exploded`), nil
	})

	_, err := client.FetchArtwork(context.Background(), "Hades")
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestFetchArtworkBlankTitle(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		t.Fatalf("expected no request for a blank title")
		return nil, nil
	})

	_, err := client.FetchArtwork(context.Background(), "   ")
	if !errors.Is(err, providers.ErrArtworkNotFound) {
		t.Fatalf("expected ErrArtworkNotFound, got %v", err)
	}
}
