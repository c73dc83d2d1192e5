package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TABLE_BACKEND", "")
	cfg := Load()

	assert.Equal(t, "", cfg.Storage.TableBackend)
	assert.Equal(t, BackendDrive, cfg.Storage.ImageBackend)
	assert.Equal(t, 8*time.Hour, cfg.Labeling.SessionTTL)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FRAMES_DS_FILE_ID", "labeled-id")
	t.Setenv("UNLABELED_FILE_ID", "unlabeled-id")
	t.Setenv("STRICT_RECONCILE", "true")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("TABLE_CACHE_TTL", "30")

	cfg := Load()

	assert.Equal(t, "labeled-id", cfg.Storage.LabeledRef)
	assert.Equal(t, "unlabeled-id", cfg.Storage.UnlabeledRef)
	assert.True(t, cfg.Labeling.StrictReconcile)
	assert.Equal(t, 45*time.Minute, cfg.Labeling.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
}

func TestGetEnvAsBoolFallback(t *testing.T) {
	t.Setenv("SOME_FLAG", "maybe")
	assert.True(t, getEnvAsBool("SOME_FLAG", true))
}
