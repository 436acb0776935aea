package covergrid

import "time"

const (
	defaultBaseURL     = "https://api.covergrid.io/v1"
	defaultHTTPTimeout = 10 * time.Second
	defaultPageSize    = 5
)
