// Package postgres mirrors workout records into a PostgreSQL "workouts" table.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/repository"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS workouts (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	profile_id  TEXT NOT NULL,
	plan_id     TEXT NOT NULL,
	week        INTEGER NOT NULL,
	day         INTEGER NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	payload     JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS workouts_scope_idx ON workouts (user_id, profile_id, plan_id, created_at DESC);
`

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the workouts table and its scope index if missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create workouts schema: %w", err)
	}
	return nil
}

// WorkoutMirror implements repository.WorkoutMirror on PostgreSQL.
type WorkoutMirror struct {
	db *sql.DB
}

func NewWorkoutMirror(db *sql.DB) *WorkoutMirror {
	return &WorkoutMirror{db: db}
}

var _ repository.WorkoutMirror = (*WorkoutMirror)(nil)

// Upsert inserts the row or replaces it when the id already exists for the same user.
// A row owned by another user is left alone.
func (m *WorkoutMirror) Upsert(ctx context.Context, userID string, rec *domain.WorkoutRecord) error {
	if rec == nil || rec.ID == "" {
		return repository.ErrInvalidRecord
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode workout %s: %w", rec.ID, err)
	}
	createdAt := rec.CreatedTime()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO workouts (id, user_id, profile_id, plan_id, week, day, created_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			profile_id = EXCLUDED.profile_id,
			plan_id = EXCLUDED.plan_id,
			week = EXCLUDED.week,
			day = EXCLUDED.day,
			created_at = EXCLUDED.created_at,
			payload = EXCLUDED.payload
		WHERE workouts.user_id = EXCLUDED.user_id
	`
	_, err = m.db.ExecContext(ctx, query,
		rec.ID, userID, rec.ProfileID, rec.PlanID, rec.Week, rec.Day, createdAt, string(payload))
	if err != nil {
		return fmt.Errorf("upsert workout %s: %w", rec.ID, err)
	}
	return nil
}

// FetchByScope returns the user's rows for one (profile, plan), newest first.
func (m *WorkoutMirror) FetchByScope(ctx context.Context, userID, profileID, planID string, limit int) ([]domain.WorkoutRecord, error) {
	rows, err := m.db.QueryContext(ctx,
		"SELECT id, payload FROM workouts WHERE user_id = $1 AND profile_id = $2 AND plan_id = $3 ORDER BY created_at DESC LIMIT $4",
		userID, profileID, planID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch workouts: %w", err)
	}
	defer rows.Close()

	var records []domain.WorkoutRecord
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("fetch workouts: %w", err)
		}
		var rec domain.WorkoutRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			log.Printf("WARN: skipping mirrored workout %s: %v", id, err)
			continue
		}
		rec.ID = id
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch workouts: %w", err)
	}
	return records, nil
}

// Delete removes the user's row with id. Deleting a missing row is not an error.
func (m *WorkoutMirror) Delete(ctx context.Context, userID, id string) error {
	if _, err := m.db.ExecContext(ctx, "DELETE FROM workouts WHERE id = $1 AND user_id = $2", id, userID); err != nil {
		return fmt.Errorf("delete workout %s: %w", id, err)
	}
	return nil
}
