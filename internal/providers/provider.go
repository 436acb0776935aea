package providers

import (
	"context"
	"errors"
)

// ErrProviderUnavailable is returned when a provider is not configured or
// its dependency chain is missing.
var ErrProviderUnavailable = errors.New("provider unavailable")

// ErrArtworkNotFound is returned when the upstream has no match for a title.
var ErrArtworkNotFound = errors.New("artwork not found")

// Artwork is the normalized cover-art result for a game title.
type Artwork struct {
	Title        string
	ThumbnailURL string
	CoverURL     string
	Source       string
}

// ArtworkProvider defines how cover art is looked up for a game title.
// Implementations return ErrArtworkNotFound when the title has no match.
type ArtworkProvider interface {
	FetchArtwork(ctx context.Context, title string) (Artwork, error)
}
