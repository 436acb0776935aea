package covergrid

// searchResponse mirrors the covergrid /covers/search payload.
type searchResponse struct {
	Data []apiCover `json:"data"`
	Meta apiMeta    `json:"meta"`
}

type apiCover struct {
	Title     string `json:"title"`
	ThumbURL  string `json:"thumb_url"`
	CoverURL  string `json:"cover_url"`
	MatchRank int    `json:"match_rank"`
}

type apiMeta struct {
	TotalResults int `json:"total_results"`
}
