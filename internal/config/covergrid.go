package config

const (
	envCgBaseURL = "COVERGRID_BASE_URL"
	envCgAPIKey  = "COVERGRID_API_KEY"

	defaultCgBaseURL = "https://api.covergrid.io/v1"
)

// CovergridConfig controls how we talk to the cover-art lookup API.
type CovergridConfig struct {
	BaseURL string
	APIKey  string
	Enabled bool
}

func loadCovergrid() CovergridConfig {
	return CovergridConfig{
		BaseURL: envOrDefault(envCgBaseURL, defaultCgBaseURL),
		APIKey:  envOrDefault(envCgAPIKey, ""),
		Enabled: boolEnvOrDefault(envEnrichEnabled, defaultEnrichEnabled),
	}
}
