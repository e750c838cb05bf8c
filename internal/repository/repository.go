package repository

import (
	"alcyxob/gym-tracker/internal/domain"
	"context"
)

// Error constants for repository layer
var (
	ErrRemoteUnavailable = RepositoryError("remote mirror unavailable")
	ErrInvalidRecord     = RepositoryError("invalid workout record")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// --- Local repositories ---
// Local repositories never fail: corrupt or missing data reads as nil/empty,
// and writes to an unavailable store are dropped by the store itself.

// RecordRepository owns workout record content, one entry per record id.
type RecordRepository interface {
	Put(rec *domain.WorkoutRecord)
	Get(id string) *domain.WorkoutRecord // Normalized; nil when absent or unreadable
	SetCreatedAt(id, createdAt string) *domain.WorkoutRecord
	Remove(id string)
}

// HistoryRepository owns the per-(profile, plan) ordered index of record ids.
type HistoryRepository interface {
	Append(profileID, planID, id string)
	Remove(profileID, planID, id string)
	ReadAll(profileID, planID string) []string
	Materialize(profileID, planID string) []domain.WorkoutRecord
	MaterializeAll() []domain.WorkoutRecord // Every scope, newest first
}

// DraftRepository owns the autosaved, uncommitted entries per slot.
type DraftRepository interface {
	Save(draft *domain.WorkoutDraft)
	Load(profileID, planID string, week, day int) *domain.WorkoutDraft
	Clear(profileID, planID string, week, day int)
}

// SelectionRepository owns the single "current slot" pointer.
type SelectionRepository interface {
	Load(fallback domain.SelectedSlot) domain.SelectedSlot
	Save(slot domain.SelectedSlot)
}

// RoutineCache holds the last loaded copy of the plan catalog.
type RoutineCache interface {
	Load() *domain.RoutineDB
	Save(db *domain.RoutineDB)
}

// Migrator gates one-time local storage migrations behind a version stamp.
type Migrator interface {
	MigrateIfNeeded() int
}

// --- Remote mirror ---

// WorkoutMirror is a remote table of workout rows scoped by user id.
// Unlike the local repositories, every method reports transport and server errors.
type WorkoutMirror interface {
	Upsert(ctx context.Context, userID string, rec *domain.WorkoutRecord) error
	FetchByScope(ctx context.Context, userID, profileID, planID string, limit int) ([]domain.WorkoutRecord, error)
	Delete(ctx context.Context, userID, id string) error
}
