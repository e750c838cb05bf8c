// Package local implements the repositories that persist into the local
// key/value store. Each repository owns exactly one key namespace.
package local

import (
	"encoding/json"
	"time"

	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/keys"
	"alcyxob/gym-tracker/internal/kv"
	"alcyxob/gym-tracker/internal/repository"

	"github.com/google/uuid"
)

// recordRepository implements repository.RecordRepository over gym:workout:{id} keys.
type recordRepository struct {
	store kv.Store
}

// NewRecordRepository creates a record repository on top of store.
func NewRecordRepository(store kv.Store) repository.RecordRepository {
	return &recordRepository{store: store}
}

// Put writes the record verbatim under its id. Re-putting overwrites.
func (r *recordRepository) Put(rec *domain.WorkoutRecord) {
	if rec == nil || rec.ID == "" {
		return
	}
	kv.SaveJSON(r.store, keys.RecordKey(rec.ID), rec)
}

// Get loads and normalizes a record. When normalization changed anything the
// healed form is written back, so older records upgrade themselves on read.
func (r *recordRepository) Get(id string) *domain.WorkoutRecord {
	key := keys.RecordKey(id)
	raw, ok := r.store.Get(key)
	if !ok {
		return nil
	}
	var rec *domain.WorkoutRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec == nil {
		return nil
	}
	if rec.ID == "" {
		// The key is the only identity an id-less record has.
		rec.ID = id
	}
	NormalizeRecord(rec)

	healed, err := json.Marshal(rec)
	if err == nil && string(healed) != raw {
		r.store.Set(key, string(healed))
	}
	return rec
}

// SetCreatedAt corrects the logical session date and nothing else.
func (r *recordRepository) SetCreatedAt(id, createdAt string) *domain.WorkoutRecord {
	rec := r.Get(id)
	if rec == nil {
		return nil
	}
	rec.CreatedAt = createdAt
	r.Put(rec)
	return rec
}

// Remove deletes the record entry only; history indexes are not touched.
func (r *recordRepository) Remove(id string) {
	r.store.Remove(keys.RecordKey(id))
}

// NormalizeRecord fills structurally absent fields with defaults and
// canonicalizes the plan id. It never changes a field that already has a value,
// so applying it twice is the same as applying it once.
func NormalizeRecord(rec *domain.WorkoutRecord) *domain.WorkoutRecord {
	if rec.CreatedAt == "" {
		rec.CreatedAt = domain.ISO(time.Now())
	}
	if rec.ID == "" {
		rec.ID = "legacy-" + uuid.NewString()
	}
	rec.PlanID = keys.CanonicalPlanID(rec.PlanID)
	if rec.Version == 0 {
		rec.Version = domain.DataVersion
	}
	if rec.Exercises == nil {
		rec.Exercises = []domain.ExerciseSnapshot{}
	}
	if rec.ExerciseNames == nil {
		rec.ExerciseNames = make([]string, len(rec.Exercises))
		for i, ex := range rec.Exercises {
			rec.ExerciseNames[i] = ex.Name
		}
	}
	if rec.Weights == nil {
		rec.Weights = map[string]domain.WeightValue{}
	}
	if rec.WeightsByExercise == nil {
		rec.WeightsByExercise = map[string]map[string]domain.WeightValue{}
	}
	if rec.Checks == nil {
		rec.Checks = map[string]bool{}
	}
	return rec
}
