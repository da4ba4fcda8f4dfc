package blob

import (
	"fmt"
	"path/filepath"

	"organ-go/internal/config"
)

// NewStoreFromConfig creates a Store based on the configuration type.
func NewStoreFromConfig(cfg config.StorageConfig) (Store, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem", "":
		if cfg.Root == "" {
			return nil, fmt.Errorf("filesystem store requires a root")
		}
		return NewFileSystemStore(cfg.Root)
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("sqlite store requires a data_dir")
		}
		return NewSQLiteStore(filepath.Join(cfg.DataDir, "organ.db"))
	case "s3":
		return NewS3Store(S3Options{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("unknown storage type: %q", cfg.Type)
	}
}
