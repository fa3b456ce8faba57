package cmd

import (
	"context"
	"fmt"

	"blobutil/config"
	"blobutil/internal/storage"
	"blobutil/internal/storage/gcsstore"
	"blobutil/internal/storage/miniostore"
	"blobutil/internal/storage/s3store"
	"blobutil/pkg/logger"
)

func openClient(ctx context.Context, cfg *config.Config) (storage.Client, error) {
	var (
		client storage.Client
		err    error
	)

	switch cfg.Driver {
	case config.DriverS3, "":
		client, err = s3store.New(ctx, cfg)
	case config.DriverMinio:
		client, err = miniostore.New(cfg)
	case config.DriverGCS:
		client, err = gcsstore.New(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q (want %s, %s or %s)",
			cfg.Driver, config.DriverS3, config.DriverMinio, config.DriverGCS)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Driver, err)
	}

	logger.Log.Debug().Str("driver", cfg.Driver).Msg("storage client ready")
	return client, nil
}
