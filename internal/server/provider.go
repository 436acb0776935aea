package server

import (
	"log/slog"

	"gamelib-service/internal/config"
	"gamelib-service/internal/providers"
	"gamelib-service/internal/providers/covergrid"
)

// buildProvider assembles the artwork lookup chain: the covergrid client
// wrapped with rate limiting, retries and outcome logging. The returned
// close func stops the rate limiter ticker. Both are nil when enrichment is
// disabled.
func buildProvider(cfg config.Config, logger *slog.Logger) (providers.ArtworkProvider, func()) {
	if !cfg.Covergrid.Enabled {
		return nil, nil
	}
	var provider providers.ArtworkProvider = covergrid.NewClient(covergrid.Config{
		BaseURL: cfg.Covergrid.BaseURL,
		APIKey:  cfg.Covergrid.APIKey,
	})
	provider = providers.NewRateLimitedProvider(provider, 0, logger)
	var closeFn func()
	if closer, ok := provider.(interface{ Close() }); ok {
		closeFn = closer.Close
	}
	provider = providers.NewRetryingProvider(provider, logger, 0, 0)
	return providers.NewLoggingProvider(provider, covergrid.ProviderName, logger), closeFn
}
