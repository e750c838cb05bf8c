package service

import (
	"context"
	"fmt"
	"time"

	"alcyxob/gym-tracker/internal/auth"
	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/repository"
)

// MaxFetchLimit caps how many rows a single scope fetch returns.
const MaxFetchLimit = 500

// MirrorClient talks to the remote mirror on behalf of the identity in ctx.
// Without a configured backend or an authenticated identity every call is a
// silent no-op. Backend failures, including running past the call timeout, are
// returned wrapped in repository.ErrRemoteUnavailable.
type MirrorClient interface {
	Enabled(ctx context.Context) bool
	Upsert(ctx context.Context, rec *domain.WorkoutRecord) error
	Fetch(ctx context.Context, profileID, planID string) ([]domain.WorkoutRecord, error)
	Delete(ctx context.Context, id string) error
}

type mirrorClient struct {
	backend repository.WorkoutMirror // nil when no remote is configured
	limit   int
	timeout time.Duration // per call; 0 leaves the caller's deadline alone
}

// NewMirrorClient wraps backend. A nil backend gives a client that never does anything.
// Every backend call is bounded by timeout so a stalled remote cannot hold up local reads.
func NewMirrorClient(backend repository.WorkoutMirror, fetchLimit int, timeout time.Duration) MirrorClient {
	if fetchLimit <= 0 || fetchLimit > MaxFetchLimit {
		fetchLimit = MaxFetchLimit
	}
	return &mirrorClient{backend: backend, limit: fetchLimit, timeout: timeout}
}

func (c *mirrorClient) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

func (c *mirrorClient) identity(ctx context.Context) (domain.Identity, bool) {
	if c.backend == nil {
		return domain.Identity{}, false
	}
	id := auth.IdentityFromContext(ctx)
	return id, id.Authenticated()
}

func (c *mirrorClient) Enabled(ctx context.Context) bool {
	_, ok := c.identity(ctx)
	return ok
}

func (c *mirrorClient) Upsert(ctx context.Context, rec *domain.WorkoutRecord) error {
	id, ok := c.identity(ctx)
	if !ok || rec == nil {
		return nil
	}
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	if err := c.backend.Upsert(ctx, id.UserID, rec); err != nil {
		return fmt.Errorf("%w: %w", repository.ErrRemoteUnavailable, err)
	}
	return nil
}

func (c *mirrorClient) Fetch(ctx context.Context, profileID, planID string) ([]domain.WorkoutRecord, error) {
	id, ok := c.identity(ctx)
	if !ok {
		return nil, nil
	}
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	records, err := c.backend.FetchByScope(ctx, id.UserID, profileID, planID, c.limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", repository.ErrRemoteUnavailable, err)
	}
	if len(records) > c.limit {
		records = records[:c.limit]
	}
	return records, nil
}

func (c *mirrorClient) Delete(ctx context.Context, recordID string) error {
	id, ok := c.identity(ctx)
	if !ok {
		return nil
	}
	ctx, cancel := c.callContext(ctx)
	defer cancel()
	if err := c.backend.Delete(ctx, id.UserID, recordID); err != nil {
		return fmt.Errorf("%w: %w", repository.ErrRemoteUnavailable, err)
	}
	return nil
}
