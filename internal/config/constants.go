package config

import "time"

const (
	envPort            = "PORT"
	envStorageBackend  = "STORAGE_BACKEND"
	envDatabaseURL     = "DATABASE_URL"
	envDataDir         = "DATA_DIR"
	envEnrichInterval  = "ENRICH_INTERVAL"
	envEnrichEnabled   = "ENRICH_ENABLED"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService     = "OTEL_SERVICE_NAME"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"
	envAdminTokenHash  = "ADMIN_TOKEN_HASH"
	envBackupRetention = "BACKUP_RETENTION_DAYS"

	defaultPort           = "4000"
	defaultStorageBackend = "memory"
	defaultDataDir        = "data/library"
	// Conservative default so artwork lookups stay well under upstream quotas.
	defaultEnrichInterval      = 5 * Duration(time.Minute)
	defaultEnrichEnabled       = true
	defaultMetricsPort         = "9090"
	defaultBackupRetentionDays = 14
)
