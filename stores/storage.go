package stores

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"whtpst/config"
	"whtpst/core"
	"whtpst/stores/aws"
	"whtpst/stores/bolt"
	"whtpst/stores/filesystem"
	"whtpst/stores/memory"
	"whtpst/stores/redis"
	"whtpst/stores/sqlite"
)

// GetStore builds the backend named by cfg.Type. The returned close function
// releases the backend's resources and is never nil.
func GetStore(ctx context.Context, cfg config.StorageConfig) (core.PasteRepository, func() error, error) {
	var (
		store core.PasteRepository
		err   error
	)
	storageField := logrus.Fields{
		"storageType": cfg.Type,
	}

	switch cfg.Type {
	case config.StorageFilesystem:
		storageField["basePath"] = cfg.LocalStoragePath
		store, err = filesystem.NewPasteStore(cfg.LocalStoragePath)
	case config.StorageSQLite:
		storageField["dataSourceName"] = cfg.DataSourceName
		store, err = sqlite.NewPasteStore(cfg.DataSourceName)
	case config.StorageBolt:
		storageField["boltPath"] = cfg.BoltPath
		store, err = bolt.NewPasteStore(cfg.BoltPath)
	case config.StorageRedis:
		storageField["redisAddr"] = cfg.RedisAddr
		store, err = redis.NewPasteStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.StorageS3:
		storageField["bucketName"] = cfg.S3BucketName
		store, err = aws.NewPasteStore(ctx, cfg.S3BucketName, cfg.S3Region)
	case config.StorageMemory, "":
		store = memory.NewPasteStore()
		storageField["storageType"] = "in-memory"
	default:
		return nil, nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
	if err != nil {
		logrus.WithFields(storageField).WithField("error", err).Error("Could not set up storage")
		return nil, nil, err
	}

	logrus.WithFields(storageField).Info("Use storage")
	closeFn := func() error { return nil }
	if c, ok := store.(io.Closer); ok {
		closeFn = c.Close
	}
	return store, closeFn, nil
}
