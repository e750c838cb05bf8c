package service

import (
	"sort"

	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/repository"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ProgressPoint is the heaviest numeric weight logged for an exercise in one session.
type ProgressPoint struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"createdAt"`
	MaxWeight float64 `json:"maxWeight"`
}

// ExerciseProgress is an exercise's weight series, oldest first, plus the best mark.
type ExerciseProgress struct {
	Exercise string          `json:"exercise"`
	Points   []ProgressPoint `json:"points"`
	Best     float64         `json:"best"`
}

// ExerciseSummary counts the trained sessions that logged an exercise.
type ExerciseSummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Last  string `json:"last"`
}

type ProgressService interface {
	// Exercises lists every exercise with logged weights for a profile, across plans.
	Exercises(profileID string) []string
	Progress(profileID, exercise string) ExerciseProgress
	// Summary aggregates one plan's sessions, most logged exercise first.
	Summary(profileID, planID string) []ExerciseSummary
}

type progressService struct {
	history repository.HistoryRepository
}

func NewProgressService(history repository.HistoryRepository) ProgressService {
	return &progressService{history: history}
}

func (s *progressService) profileSessions(profileID string) []domain.WorkoutRecord {
	var out []domain.WorkoutRecord
	for _, rec := range s.history.MaterializeAll() {
		if rec.ProfileID == profileID {
			out = append(out, rec)
		}
	}
	return out
}

func (s *progressService) Exercises(profileID string) []string {
	seen := map[string]struct{}{}
	names := []string{}
	for _, rec := range s.profileSessions(profileID) {
		for name := range rec.WeightsByExercise {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	// Exercise names are Spanish. A Collator is not safe for concurrent use.
	collate.New(language.Spanish).SortStrings(names)
	return names
}

func (s *progressService) Progress(profileID, exercise string) ExerciseProgress {
	out := ExerciseProgress{Exercise: exercise, Points: []ProgressPoint{}}
	for _, rec := range s.profileSessions(profileID) {
		sets, ok := rec.WeightsByExercise[exercise]
		if !ok {
			continue
		}
		heaviest, found := 0.0, false
		for _, w := range sets {
			f, ok := w.Float()
			if !ok {
				continue
			}
			if !found || f > heaviest {
				heaviest, found = f, true
			}
		}
		if !found {
			continue
		}
		out.Points = append(out.Points, ProgressPoint{ID: rec.ID, CreatedAt: rec.CreatedAt, MaxWeight: heaviest})
		if heaviest > out.Best {
			out.Best = heaviest
		}
	}
	sort.SliceStable(out.Points, func(i, j int) bool {
		return domain.ParseISO(out.Points[i].CreatedAt).Before(domain.ParseISO(out.Points[j].CreatedAt))
	})
	return out
}

// Summary skips sessions explicitly marked as not trained. Ties in count are
// broken by name so the order is stable.
func (s *progressService) Summary(profileID, planID string) []ExerciseSummary {
	byName := map[string]*ExerciseSummary{}
	for _, rec := range s.history.Materialize(profileID, planID) {
		if rec.IsSkipped() {
			continue
		}
		for name := range rec.WeightsByExercise {
			sum, ok := byName[name]
			if !ok {
				sum = &ExerciseSummary{Name: name, Last: rec.CreatedAt}
				byName[name] = sum
			}
			sum.Count++
			if rec.CreatedTime().After(domain.ParseISO(sum.Last)) {
				sum.Last = rec.CreatedAt
			}
		}
	}

	out := make([]ExerciseSummary, 0, len(byName))
	for _, sum := range byName {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
