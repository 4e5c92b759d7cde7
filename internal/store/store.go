// Package store keeps workspaces between requests. Nothing here is durable:
// entries expire after the configured TTL and the API key is never persisted.
package store

import (
	"context"
	"errors"
	"time"

	"labsheet/internal/model"
)

var (
	ErrNotFound = errors.New("workspace not found")
	// ErrClaimed means another caller holds the workspace's generation claim.
	ErrClaimed = errors.New("generation already claimed")
	// ErrConflict means an update kept losing to concurrent writers.
	ErrConflict = errors.New("workspace update conflict")
)

// Store is the only place workspace state lives. Implementations hand out and
// keep independent copies, so callers may mutate what Get returns.
type Store interface {
	Get(ctx context.Context, id string) (*model.Workspace, error)
	Save(ctx context.Context, ws *model.Workspace) error
	// Update loads the workspace, applies fn and saves the result as one
	// atomic step with respect to every other writer of the same store. fn may
	// run more than once and must not keep references to earlier attempts.
	Update(ctx context.Context, id string, fn func(ws *model.Workspace) error) (*model.Workspace, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error

	// ClaimGeneration takes the workspace's single generation slot. The claim
	// lapses on its own after ttl so a crashed holder cannot wedge it.
	ClaimGeneration(ctx context.Context, id string, ttl time.Duration) (token string, err error)
	// ReleaseGeneration drops the claim only if token still owns it.
	ReleaseGeneration(ctx context.Context, id, token string) error
	Generating(ctx context.Context, id string) (bool, error)
}
