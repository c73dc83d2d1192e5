package bootstrap

import (
	"context"
	"testing"
	"time"

	"capsule-labeling-be/internal/config"
	"capsule-labeling-be/pkg/registry"
	"capsule-labeling-be/pkg/storage/cache"
	"capsule-labeling-be/pkg/storage/local"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localConfig(t *testing.T) *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{
			TableBackend: config.BackendLocal,
			ImageBackend: config.BackendLocal,
			LocalRoot:    t.TempDir(),
		},
		Cache: config.CacheConfig{Backend: config.CacheMemory, TTL: time.Minute},
	}
}

func TestNewStorageLocal(t *testing.T) {
	cfg := localConfig(t)

	s, err := NewStorage(context.Background(), cfg, registry.DefaultVocabulary, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &local.Backend{}, s.Images)
	assert.IsType(t, &cache.Store{}, s.Tables)

	cfg.Cache.Backend = config.CacheNone
	s, err = NewStorage(context.Background(), cfg, registry.DefaultVocabulary, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &local.Backend{}, s.Tables)
}

func TestNewStorageRejectsMisconfiguration(t *testing.T) {
	cfg := localConfig(t)
	cfg.Storage.TableBackend = config.BackendPostgres
	_, err := NewStorage(context.Background(), cfg, registry.DefaultVocabulary, nil, nil)
	assert.Error(t, err)

	cfg = localConfig(t)
	cfg.Storage.ImageBackend = "ftp"
	_, err = NewStorage(context.Background(), cfg, registry.DefaultVocabulary, nil, nil)
	assert.Error(t, err)

	cfg = localConfig(t)
	cfg.Storage.TableBackend = config.BackendDrive
	cfg.Storage.ServiceAccountFile = "/does/not/exist.json"
	_, err = NewStorage(context.Background(), cfg, registry.DefaultVocabulary, nil, nil)
	assert.Error(t, err)
}
