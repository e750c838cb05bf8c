package local

import (
	"testing"

	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/kv"
	"alcyxob/gym-tracker/internal/repository"
)

type fixture struct {
	store   *kv.Memory
	records repository.RecordRepository
	history repository.HistoryRepository
	drafts  repository.DraftRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := kv.NewMemory()
	records := NewRecordRepository(store)
	return &fixture{
		store:   store,
		records: records,
		history: NewHistoryRepository(store, records),
		drafts:  NewDraftRepository(store),
	}
}

// commit stores a record and indexes it, the way the workout service does.
func (f *fixture) commit(rec *domain.WorkoutRecord) {
	f.records.Put(rec)
	f.history.Append(rec.ProfileID, rec.PlanID, rec.ID)
}

func newRecord(id string, week, day int, createdAt string) *domain.WorkoutRecord {
	sets := 3
	return &domain.WorkoutRecord{
		Version:   domain.DataVersion,
		ID:        id,
		ProfileID: "cecilia",
		PlanID:    "cecilia-rutina-6",
		Week:      week,
		Day:       day,
		CreatedAt: createdAt,
		Exercises: []domain.ExerciseSnapshot{
			{Name: "SENTADILLA", Reps: []byte(`"12"`), Sets: &sets, Type: domain.ExerciseNormal},
		},
		ExerciseNames: []string{"SENTADILLA"},
		Weights:       map[string]domain.WeightValue{"0-0": domain.NumberWeight(40)},
		WeightsByExercise: map[string]map[string]domain.WeightValue{
			"SENTADILLA": {"0-0": domain.NumberWeight(40)},
		},
		Checks: map[string]bool{"0-0-done": true},
	}
}

func ids(records []domain.WorkoutRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
