package bootstrap

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"labsheet/internal/config"
	"labsheet/internal/model"
	"labsheet/internal/store"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "none.toml"))
	t.Setenv("LOG_LEVEL", "error")
}

func TestNewWithMemoryStore(t *testing.T) {
	isolate(t)
	t.Setenv("WORKSPACE_STORE", config.StoreMemory)

	a, err := New(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.Nil(t, a.Redis)
	_, ok := a.Store.(*store.MemoryStore)
	assert.True(t, ok)
	assert.NotNil(t, a.Generator)
}

func TestNewWithRedisStore(t *testing.T) {
	isolate(t)
	mr := miniredis.RunT(t)
	t.Setenv("WORKSPACE_STORE", config.StoreRedis)
	t.Setenv("REDIS_ADDR", mr.Addr())

	a, err := New(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.NotNil(t, a.Redis)
	require.NoError(t, a.Store.Ping(context.Background()))
	require.NoError(t, a.Store.Save(context.Background(), &model.Workspace{ID: "w1"}))
	assert.True(t, mr.Exists("labsheet:workspace:w1"))
}

func TestNewFailsWhenRedisUnreachable(t *testing.T) {
	isolate(t)
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	t.Setenv("WORKSPACE_STORE", config.StoreRedis)
	t.Setenv("REDIS_ADDR", addr)

	_, err := New(context.Background())
	assert.Error(t, err)
}

func TestGenerateConfigMapsSection(t *testing.T) {
	cfg := config.Default()
	cfg.Generation.Endpoint = "http://localhost:9999/v1/generate"
	cfg.Generation.TimeoutSeconds = 5

	gc := GenerateConfig(cfg)
	assert.Equal(t, "http://localhost:9999/v1/generate", gc.Endpoint)
	assert.Equal(t, "2022-12-06", gc.APIVersion)
	assert.Equal(t, 2048, gc.MaxTokens)
	assert.Equal(t, 5*time.Second, gc.Timeout)
}

func TestSweepStopsOnCancel(t *testing.T) {
	mem := store.NewMemoryStore(time.Millisecond)
	require.NoError(t, mem.Save(context.Background(), &model.Workspace{ID: "old"}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweep(ctx, mem, nopLogger(), 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return mem.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func nopLogger() *zap.Logger { return zap.NewNop() }
