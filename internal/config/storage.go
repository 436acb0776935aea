package config

// StorageBackend selects which library store implementation to build.
type StorageBackend string

const (
	BackendMemory   StorageBackend = "memory"
	BackendPostgres StorageBackend = "postgres"
)

// StorageConfig controls library persistence. The memory backend keeps the
// library in process and persists it through file snapshots under DataDir;
// the postgres backend stores it in a database addressed by DatabaseURL.
type StorageConfig struct {
	Backend     StorageBackend
	DatabaseURL string
	DataDir     string
}

func loadStorage() StorageConfig {
	backend := StorageBackend(envOrDefault(envStorageBackend, defaultStorageBackend))
	if backend != BackendMemory && backend != BackendPostgres {
		backend = BackendMemory
	}
	return StorageConfig{
		Backend:     backend,
		DatabaseURL: envOrDefault(envDatabaseURL, ""),
		DataDir:     envOrDefault(envDataDir, defaultDataDir),
	}
}
