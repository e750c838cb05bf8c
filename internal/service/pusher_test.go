package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"alcyxob/gym-tracker/internal/auth"
	"alcyxob/gym-tracker/internal/config"
	"alcyxob/gym-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedMirror blocks every upsert until released and records the identity it ran under.
type gatedMirror struct {
	MirrorClient
	started chan string
	release chan struct{}

	mu    sync.Mutex
	users []string
	ids   []string
}

func newGatedMirror(inner MirrorClient) *gatedMirror {
	return &gatedMirror{MirrorClient: inner, started: make(chan string, 16), release: make(chan struct{})}
}

func (g *gatedMirror) Upsert(ctx context.Context, rec *domain.WorkoutRecord) error {
	g.started <- rec.ID
	<-g.release
	g.mu.Lock()
	g.users = append(g.users, auth.IdentityFromContext(ctx).UserID)
	g.ids = append(g.ids, rec.ID)
	g.mu.Unlock()
	return g.MirrorClient.Upsert(ctx, rec)
}

func TestPusher_DeliversAndDrainsOnClose(t *testing.T) {
	mirror := newFakeMirror()
	pusher := NewPusher(NewMirrorClient(mirror, 0, 0), testPushConfig())
	ctx := signedIn("user-1")

	a := remoteRecord("a", 1, 1, "2024-03-01T10:00:00.000Z")
	b := remoteRecord("b", 1, 2, "2024-03-02T10:00:00.000Z")
	pusher.ScheduleUpsert(ctx, &a)
	pusher.ScheduleUpsert(ctx, &b)
	pusher.ScheduleDelete(ctx, "a")
	pusher.Close()

	assert.Equal(t, []string{"a", "b"}, mirror.upsertedIDs())
	assert.Equal(t, []string{"a"}, mirror.deleted)
	assert.NotContains(t, mirror.rows["user-1"], "a")
	assert.Contains(t, mirror.rows["user-1"], "b")
}

func TestPusher_SnapshotsRecordAtSchedule(t *testing.T) {
	mirror := newFakeMirror()
	pusher := NewPusher(NewMirrorClient(mirror, 0, 0), testPushConfig())

	rec := remoteRecord("a", 1, 1, "2024-03-01T10:00:00.000Z")
	pusher.ScheduleUpsert(signedIn("user-1"), &rec)
	rec.CreatedAt = "2030-01-01T00:00:00.000Z"
	rec.Weights["0-0"] = domain.TextWeight("999")
	pusher.Close()

	pushed := mirror.rows["user-1"]["a"]
	assert.Equal(t, "2024-03-01T10:00:00.000Z", pushed.CreatedAt)
	assert.Equal(t, "50", pushed.Weights["0-0"].String())
}

func TestPusher_AnonymousSchedulesNothing(t *testing.T) {
	mirror := newFakeMirror()
	pusher := NewPusher(NewMirrorClient(mirror, 0, 0), testPushConfig())

	rec := remoteRecord("a", 1, 1, "2024-03-01T10:00:00.000Z")
	pusher.ScheduleUpsert(context.Background(), &rec)
	pusher.ScheduleDelete(context.Background(), "a")
	pusher.Close()

	assert.Empty(t, mirror.upsertedIDs())
	assert.Empty(t, mirror.deleted)
}

func TestPusher_RunsUnderScheduledIdentity(t *testing.T) {
	gate := newGatedMirror(NewMirrorClient(newFakeMirror(), 0, 0))
	pusher := NewPusher(gate, testPushConfig())

	ctx, cancel := context.WithCancel(signedIn("user-7"))
	rec := remoteRecord("a", 1, 1, "2024-03-01T10:00:00.000Z")
	pusher.ScheduleUpsert(ctx, &rec)
	// The request is over before the push runs.
	cancel()

	<-gate.started
	close(gate.release)
	pusher.Close()

	assert.Equal(t, []string{"user-7"}, gate.users)
}

func TestPusher_DropsWhenQueueIsFull(t *testing.T) {
	gate := newGatedMirror(NewMirrorClient(newFakeMirror(), 0, 0))
	pusher := NewPusher(gate, config.PushConfig{QueueSize: 1, Timeout: time.Second})
	ctx := signedIn("user-1")

	first := remoteRecord("first", 1, 1, "2024-03-01T10:00:00.000Z")
	queued := remoteRecord("queued", 1, 2, "2024-03-02T10:00:00.000Z")
	dropped := remoteRecord("dropped", 1, 3, "2024-03-03T10:00:00.000Z")

	pusher.ScheduleUpsert(ctx, &first)
	require.Equal(t, "first", <-gate.started)

	done := make(chan struct{})
	go func() {
		// Neither call may block even though the worker is stuck.
		pusher.ScheduleUpsert(ctx, &queued)
		pusher.ScheduleUpsert(ctx, &dropped)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduling blocked on a full queue")
	}

	close(gate.release)
	pusher.Close()
	assert.Equal(t, []string{"first", "queued"}, gate.ids)
}

func TestPusher_ScheduleAfterCloseIsDropped(t *testing.T) {
	mirror := newFakeMirror()
	pusher := NewPusher(NewMirrorClient(mirror, 0, 0), testPushConfig())
	pusher.Close()

	rec := remoteRecord("late", 1, 1, "2024-03-01T10:00:00.000Z")
	assert.NotPanics(t, func() { pusher.ScheduleUpsert(signedIn("user-1"), &rec) })
	assert.NotPanics(t, pusher.Close)
	assert.Empty(t, mirror.upsertedIDs())
}

func TestPusher_FailuresAreSwallowed(t *testing.T) {
	mirror := newFakeMirror()
	mirror.upsertErr = errors.New("remote down")
	pusher := NewPusher(NewMirrorClient(mirror, 0, 0), testPushConfig())

	a := remoteRecord("a", 1, 1, "2024-03-01T10:00:00.000Z")
	b := remoteRecord("b", 1, 2, "2024-03-02T10:00:00.000Z")
	pusher.ScheduleUpsert(signedIn("user-1"), &a)
	pusher.ScheduleUpsert(signedIn("user-1"), &b)
	assert.NotPanics(t, pusher.Close)
	assert.Empty(t, mirror.upsertedIDs())
}
