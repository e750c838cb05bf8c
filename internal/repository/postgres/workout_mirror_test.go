package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*WorkoutMirror, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWorkoutMirror(db), mock
}

func TestWorkoutMirror_Upsert(t *testing.T) {
	mirror, mock := newMock(t)
	rec := &domain.WorkoutRecord{
		ID: "w1", ProfileID: "cecilia", PlanID: "cecilia-rutina-6", Week: 1, Day: 2,
		CreatedAt: "2024-01-01T10:00:00.000Z",
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO workouts")).
		WithArgs("w1", "user-1", "cecilia", "cecilia-rutina-6", 1, 2, rec.CreatedTime(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, mirror.Upsert(context.Background(), "user-1", rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkoutMirror_UpsertErrors(t *testing.T) {
	mirror, mock := newMock(t)

	assert.ErrorIs(t, mirror.Upsert(context.Background(), "user-1", &domain.WorkoutRecord{}), repository.ErrInvalidRecord)

	boom := errors.New("connection refused")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO workouts")).WillReturnError(boom)
	err := mirror.Upsert(context.Background(), "user-1", &domain.WorkoutRecord{ID: "w1"})
	assert.ErrorIs(t, err, boom)
}

func TestWorkoutMirror_FetchByScope(t *testing.T) {
	mirror, mock := newMock(t)

	rows := sqlmock.NewRows([]string{"id", "payload"}).
		AddRow("w2", []byte(`{"id":"stale","profileId":"cecilia","planId":"cecilia-rutina-6","week":1,"day":2,"createdAt":"2024-01-02T10:00:00.000Z","weights":{"0-0":40},"completed":true}`)).
		AddRow("bad", []byte(`not json`)).
		AddRow("w1", []byte(`{"profileId":"cecilia","week":1,"day":1,"createdAt":"2024-01-01T10:00:00.000Z"}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, payload FROM workouts WHERE user_id = $1 AND profile_id = $2 AND plan_id = $3 ORDER BY created_at DESC LIMIT $4")).
		WithArgs("user-1", "cecilia", "cecilia-rutina-6", 500).
		WillReturnRows(rows)

	records, err := mirror.FetchByScope(context.Background(), "user-1", "cecilia", "cecilia-rutina-6", 500)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "w2", records[0].ID, "row id wins over payload id")
	assert.Equal(t, "40", records[0].Weights["0-0"].String())
	assert.Equal(t, domain.CompletionDone, records[0].Completed)
	assert.Equal(t, "w1", records[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkoutMirror_FetchError(t *testing.T) {
	mirror, mock := newMock(t)
	mock.ExpectQuery("SELECT id, payload FROM workouts").WillReturnError(errors.New("timeout"))

	_, err := mirror.FetchByScope(context.Background(), "user-1", "cecilia", "cecilia-rutina-6", 500)
	assert.Error(t, err)
}

func TestWorkoutMirror_Delete(t *testing.T) {
	mirror, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM workouts WHERE id = $1 AND user_id = $2")).
		WithArgs("w1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, mirror.Delete(context.Background(), "user-1", "w1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS workouts")).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, EnsureSchema(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
