package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"labsheet/internal/ai"
	"labsheet/internal/config"
	"labsheet/internal/logging"
	redisClient "labsheet/internal/platform/redis"
	"labsheet/internal/store"
)

type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Redis     *redis.Client
	Store     store.Store
	Generator ai.Generator

	StartedAt time.Time

	stopSweeper context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("build logger failed: %w", err)
	}

	a := &App{
		Config:    cfg,
		Logger:    logger,
		Generator: ai.NewCohereClient(GenerateConfig(cfg)),
		StartedAt: time.Now(),
	}

	switch cfg.Workspace.Store {
	case config.StoreRedis:
		redisCli, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.Redis = redisCli
		a.Store = store.NewRedisStore(redisCli, cfg.WorkspaceTTL())
	default:
		mem := store.NewMemoryStore(cfg.WorkspaceTTL())
		sweepCtx, cancel := context.WithCancel(context.Background())
		a.stopSweeper = cancel
		go sweep(sweepCtx, mem, logger, time.Minute)
		a.Store = mem
	}

	logger.Info("bootstrap complete",
		zap.String("env", cfg.App.Env),
		zap.String("workspace_store", cfg.Workspace.Store),
		zap.String("generation_endpoint", cfg.Generation.Endpoint),
		zap.Bool("default_api_key", cfg.Generation.APIKey != ""),
	)
	return a, nil
}

// GenerateConfig maps the [generation] section onto the client settings.
func GenerateConfig(cfg *config.Config) ai.GenerateConfig {
	return ai.GenerateConfig{
		Endpoint:    cfg.Generation.Endpoint,
		APIVersion:  cfg.Generation.APIVersion,
		MaxTokens:   cfg.Generation.MaxTokens,
		Temperature: cfg.Generation.Temperature,
		K:           cfg.Generation.K,
		Timeout:     cfg.GenerationTimeout(),
	}
}

func sweep(ctx context.Context, mem *store.MemoryStore, logger *zap.Logger, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := mem.Sweep(); n > 0 {
				logger.Debug("expired workspaces dropped", zap.Int("count", n), zap.Int("remaining", mem.Len()))
			}
		}
	}
}

func (a *App) Close() error {
	var closeErr error
	if a.stopSweeper != nil {
		a.stopSweeper()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return closeErr
}
