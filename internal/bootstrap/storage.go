package bootstrap

import (
	"context"
	"fmt"
	"log"

	"capsule-labeling-be/internal/config"
	"capsule-labeling-be/internal/repository"
	"capsule-labeling-be/internal/repository/unitofwork"
	"capsule-labeling-be/pkg/registry"
	"capsule-labeling-be/pkg/storage"
	"capsule-labeling-be/pkg/storage/cache"
	"capsule-labeling-be/pkg/storage/drive"
	"capsule-labeling-be/pkg/storage/local"
	"capsule-labeling-be/pkg/storage/xlsx"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Storage is the set of collaborators a labeling session talks to.
type Storage struct {
	Images  storage.ImageSource
	Fetcher storage.ImageFetcher
	Tables  storage.TableStore
}

// NewStorage wires the configured backends. db is only needed for the
// postgres table backend and rdb only for the redis cache.
func NewStorage(ctx context.Context, cfg *config.Config, vocab registry.Vocabulary, db *gorm.DB, rdb *redis.Client) (*Storage, error) {
	codec := xlsx.NewCodec(vocab)
	localBackend := local.New(cfg.Storage.LocalRoot, codec)

	var driveBackend *drive.Backend
	if cfg.Storage.TableBackend == config.BackendDrive || cfg.Storage.ImageBackend == config.BackendDrive {
		key, err := cfg.Storage.ServiceAccountKey()
		if err != nil {
			return nil, fmt.Errorf("read service account key: %w", err)
		}
		driveBackend, err = drive.NewFromServiceAccount(ctx, key, codec)
		if err != nil {
			return nil, err
		}
	}

	s := &Storage{}
	switch cfg.Storage.ImageBackend {
	case config.BackendDrive:
		s.Images, s.Fetcher = driveBackend, driveBackend
	case config.BackendLocal:
		s.Images, s.Fetcher = localBackend, localBackend
	default:
		return nil, fmt.Errorf("unknown image backend %q", cfg.Storage.ImageBackend)
	}

	var tables storage.TableStore
	switch cfg.Storage.TableBackend {
	case config.BackendDrive:
		tables = driveBackend
	case config.BackendLocal:
		tables = localBackend
	case config.BackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("table backend postgres needs DB_CONNECTION_STRING")
		}
		tables = repository.NewRegistryTableStore(unitofwork.NewRepositoryFactory(db))
	default:
		return nil, fmt.Errorf("unknown table backend %q", cfg.Storage.TableBackend)
	}

	switch cfg.Cache.Backend {
	case config.CacheMemory:
		tables = cache.NewStore(tables, cache.NewMemoryCache(cfg.Cache.TTL))
	case config.CacheRedis:
		if rdb == nil {
			log.Printf("[WARN] Redis cache requested without a Redis client, table cache disabled")
			break
		}
		tables = cache.NewStore(tables, cache.NewRedisCache(rdb, cfg.Cache.TTL))
	}
	s.Tables = tables

	return s, nil
}
