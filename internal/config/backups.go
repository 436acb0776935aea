package config

// BackupConfig controls library backup snapshots and the admin endpoints
// that trigger them.
type BackupConfig struct {
	RetentionDays int
	// AdminTokenHash is a bcrypt hash of the admin token; empty disables
	// the admin endpoints entirely.
	AdminTokenHash string
}

func loadBackups() BackupConfig {
	return BackupConfig{
		RetentionDays:  intEnvOrDefault(envBackupRetention, defaultBackupRetentionDays),
		AdminTokenHash: envOrDefault(envAdminTokenHash, ""),
	}
}
