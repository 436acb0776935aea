package covergrid

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gamelib-service/internal/providers"
)

// ProviderName identifies this client in logs and metrics.
const ProviderName = "covergrid"

// Config controls how the covergrid client reaches the upstream API.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// Client looks up cover art from the covergrid search API and maps the best
// match to the provider result.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
}

// NewClient constructs a covergrid client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient),
	}
}

// FetchArtwork searches covergrid for the title and returns the best match.
func (c *Client) FetchArtwork(ctx context.Context, title string) (providers.Artwork, error) {
	if strings.TrimSpace(title) == "" {
		return providers.Artwork{}, providers.ErrArtworkNotFound
	}

	req, err := c.buildRequest(ctx, title)
	if err != nil {
		return providers.Artwork{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return providers.Artwork{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return providers.Artwork{}, providers.ErrArtworkNotFound
	case http.StatusTooManyRequests:
		return providers.Artwork{}, &providers.RateLimitError{
			Provider:   ProviderName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return providers.Artwork{}, fmt.Errorf("covergrid: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return providers.Artwork{}, err
	}
	return mapBestMatch(payload)
}

func (c *Client) buildRequest(ctx context.Context, title string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/covers/search", nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("q", title)
	q.Set("limit", strconv.Itoa(defaultPageSize))
	req.URL.RawQuery = q.Encode()

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	return req, nil
}

func parseRetryAfter(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
