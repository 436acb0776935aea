package covergrid

import "gamelib-service/internal/providers"

// mapBestMatch picks the highest-ranked cover with a usable thumbnail.
// Entries are assumed rank-ordered by the upstream; MatchRank breaks ties
// when the API returns them out of order.
func mapBestMatch(payload searchResponse) (providers.Artwork, error) {
	best := apiCover{MatchRank: -1}
	for _, cover := range payload.Data {
		if cover.ThumbURL == "" {
			continue
		}
		if best.MatchRank == -1 || cover.MatchRank < best.MatchRank {
			best = cover
		}
	}
	if best.MatchRank == -1 {
		return providers.Artwork{}, providers.ErrArtworkNotFound
	}
	return providers.Artwork{
		Title:        best.Title,
		ThumbnailURL: best.ThumbURL,
		CoverURL:     best.CoverURL,
		Source:       ProviderName,
	}, nil
}
