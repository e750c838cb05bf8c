// internal/domain/training_plan.go
package domain

import "encoding/json"

// FallbackSetsIfMissing is used when the catalog does not declare defaultSetsIfMissing.
const FallbackSetsIfMissing = 4

// RoutineDB is the read-only plan catalog: profile -> plan -> week -> day -> exercise.
type RoutineDB struct {
	DefaultSetsIfMissing int              `json:"defaultSetsIfMissing"`
	Profiles             []RoutineProfile `json:"profiles"`
}

type RoutineProfile struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Plans []RoutinePlan `json:"plans"`
}

// RoutinePlan is one monthly training plan.
type RoutinePlan struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Month int           `json:"month,omitempty"`
	Year  int           `json:"year,omitempty"`
	Weeks []RoutineWeek `json:"weeks"`
}

type RoutineWeek struct {
	Week int          `json:"week"`
	Days []RoutineDay `json:"days"`
}

type RoutineDay struct {
	Day       int               `json:"day"`
	Exercises []RoutineExercise `json:"exercises"`
}

// RoutineExercise is a catalog exercise definition.
type RoutineExercise struct {
	Name  string          `json:"name"`
	Reps  json.RawMessage `json:"reps,omitempty"`
	Type  ExerciseType    `json:"type,omitempty"`
	Notes string          `json:"notes,omitempty"`
	Sets  *int            `json:"sets"` // nil when the source did not say
}

// SetCount resolves how many sets to log, falling back to the catalog default.
func (e RoutineExercise) SetCount(defaultSetsIfMissing int) int {
	if e.Sets != nil && *e.Sets > 0 {
		return *e.Sets
	}
	return defaultSetsIfMissing
}

// DropCount is 3 for triple drop sets ("12+10+8") and 0 otherwise.
func (e RoutineExercise) DropCount() int {
	if IsDropReps(e.Reps) {
		return 3
	}
	return 0
}

// Snapshot freezes the exercise into the shape stored on a WorkoutRecord.
func (e RoutineExercise) Snapshot() ExerciseSnapshot {
	t := e.Type
	if t == "" {
		t = ExerciseNormal
	}
	snap := ExerciseSnapshot{Name: e.Name, Type: t}
	if e.Reps != nil {
		snap.Reps = append(json.RawMessage(nil), e.Reps...)
	}
	if e.Sets != nil {
		n := *e.Sets
		snap.Sets = &n
	}
	return snap
}

// Profile returns the profile with the given id, or nil.
func (db *RoutineDB) Profile(id string) *RoutineProfile {
	for i := range db.Profiles {
		if db.Profiles[i].ID == id {
			return &db.Profiles[i]
		}
	}
	return nil
}

// Plan returns the plan with the given id, or nil.
func (p *RoutineProfile) Plan(id string) *RoutinePlan {
	for i := range p.Plans {
		if p.Plans[i].ID == id {
			return &p.Plans[i]
		}
	}
	return nil
}

// DayExercises returns the exercises of one slot, or nil if the slot is not in the catalog.
func (db *RoutineDB) DayExercises(profileID, planID string, week, day int) []RoutineExercise {
	profile := db.Profile(profileID)
	if profile == nil {
		return nil
	}
	plan := profile.Plan(planID)
	if plan == nil {
		return nil
	}
	for _, w := range plan.Weeks {
		if w.Week != week {
			continue
		}
		for _, d := range w.Days {
			if d.Day == day {
				return d.Exercises
			}
		}
	}
	return nil
}
