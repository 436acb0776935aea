package config

// Config holds runtime configuration for the server.
type Config struct {
	Port           string
	EnrichInterval Duration
	Storage        StorageConfig
	Covergrid      CovergridConfig
	Metrics        MetricsConfig
	Backups        BackupConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:           envOrDefault(envPort, defaultPort),
		EnrichInterval: durationEnvOrDefault(envEnrichInterval, defaultEnrichInterval),
		Storage:        loadStorage(),
		Covergrid:      loadCovergrid(),
		Metrics:        loadMetrics(),
		Backups:        loadBackups(),
	}
}
