package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"

	"labsheet/internal/model"
)

const maxUpdateAttempts = 16

var releaseScript = redisv9.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore shares workspaces between server replicas. Each workspace is one
// JSON value whose TTL is refreshed on every save. Updates use WATCH/MULTI, and
// the generation claim is a separate key set with NX and its own expiry.
type RedisStore struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewRedisStore(client *redisv9.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*model.Workspace, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redisv9.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get workspace failed: %w", err)
	}
	return decodeWorkspace(raw)
}

func (s *RedisStore) Save(ctx context.Context, ws *model.Workspace) error {
	payload, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("marshal workspace failed: %w", err)
	}
	if err := s.client.Set(ctx, s.key(ws.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set workspace failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(ws *model.Workspace) error) (*model.Workspace, error) {
	key := s.key(id)
	var updated *model.Workspace
	txf := func(tx *redisv9.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redisv9.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("redis get workspace failed: %w", err)
		}
		ws, err := decodeWorkspace(raw)
		if err != nil {
			return err
		}
		if err := fn(ws); err != nil {
			return err
		}
		payload, err := json.Marshal(ws)
		if err != nil {
			return fmt.Errorf("marshal workspace failed: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = ws
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redisv9.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, ErrConflict
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id), s.claimKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete workspace failed: %w", err)
	}
	return nil
}

func (s *RedisStore) ClaimGeneration(ctx context.Context, id string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := s.client.SetNX(ctx, s.claimKey(id), token, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("redis claim generation failed: %w", err)
	}
	if !ok {
		return "", ErrClaimed
	}
	return token, nil
}

func (s *RedisStore) ReleaseGeneration(ctx context.Context, id, token string) error {
	if err := releaseScript.Run(ctx, s.client, []string{s.claimKey(id)}, token).Err(); err != nil {
		return fmt.Errorf("redis release generation failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Generating(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, s.claimKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check generation failed: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("labsheet:workspace:%s", id)
}

func (s *RedisStore) claimKey(id string) string {
	return fmt.Sprintf("labsheet:generating:%s", id)
}

func decodeWorkspace(raw []byte) (*model.Workspace, error) {
	var ws model.Workspace
	if err := json.Unmarshal(raw, &ws); err != nil {
		return nil, fmt.Errorf("unmarshal cached workspace failed: %w", err)
	}
	return &ws, nil
}
