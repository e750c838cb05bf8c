package service

import (
	"testing"

	"alcyxob/gym-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func session(id, planID, createdAt string, byExercise map[string][]string) domain.WorkoutRecord {
	rec := domain.WorkoutRecord{
		Version:           domain.DataVersion,
		ID:                id,
		ProfileID:         "cecilia",
		PlanID:            planID,
		Week:              1,
		Day:               1,
		CreatedAt:         createdAt,
		Weights:           map[string]domain.WeightValue{},
		WeightsByExercise: map[string]map[string]domain.WeightValue{},
	}
	for name, values := range byExercise {
		sets := map[string]domain.WeightValue{}
		for i, v := range values {
			key := name + "-" + string(rune('0'+i))
			sets[key] = domain.TextWeight(v)
			rec.Weights[key] = domain.TextWeight(v)
		}
		rec.WeightsByExercise[name] = sets
	}
	return rec
}

func TestProgress_Exercises(t *testing.T) {
	e := newEnv(t)
	seedLocal(e,
		session("a", "cecilia-rutina-6", "2024-03-01T10:00:00.000Z", map[string][]string{"PESO MUERTO": {"80"}, "ÑANDÚ": {"BW"}}),
		session("b", "cecilia-rutina-5", "2024-02-01T10:00:00.000Z", map[string][]string{"NADO": {"1"}, "ABDOMINALES": {"0"}}),
	)
	other := session("c", "gabriel-rutina-1", "2024-03-01T10:00:00.000Z", map[string][]string{"REMO": {"40"}})
	other.ProfileID = "gabriel"
	seedLocal(e, other)

	got := NewProgressService(e.history).Exercises("cecilia")

	assert.Equal(t, []string{"ABDOMINALES", "NADO", "ÑANDÚ", "PESO MUERTO"}, got)
	assert.Empty(t, NewProgressService(e.history).Exercises("nobody"))
}

func TestProgress_Series(t *testing.T) {
	e := newEnv(t)
	seedLocal(e,
		session("late", "cecilia-rutina-6", "2024-03-08T10:00:00.000Z", map[string][]string{"SENTADILLA": {"60", "62,5", "BW"}}),
		session("early", "cecilia-rutina-5", "2024-02-01T10:00:00.000Z", map[string][]string{"SENTADILLA": {"50"}}),
		session("text-only", "cecilia-rutina-6", "2024-03-04T10:00:00.000Z", map[string][]string{"SENTADILLA": {"BW", ""}}),
		session("mid", "cecilia-rutina-6", "2024-03-01T10:00:00.000Z", map[string][]string{"SENTADILLA": {"70"}, "REMO": {"30"}}),
	)

	got := NewProgressService(e.history).Progress("cecilia", "SENTADILLA")

	assert.Equal(t, "SENTADILLA", got.Exercise)
	require.Len(t, got.Points, 3, "sessions without a numeric weight are left out")
	assert.Equal(t, []string{"early", "mid", "late"}, []string{got.Points[0].ID, got.Points[1].ID, got.Points[2].ID})
	assert.Equal(t, 62.5, got.Points[2].MaxWeight)
	assert.Equal(t, 70.0, got.Best)

	none := NewProgressService(e.history).Progress("cecilia", "CURL")
	assert.NotNil(t, none.Points)
	assert.Empty(t, none.Points)
	assert.Zero(t, none.Best)
}

func TestProgress_Summary(t *testing.T) {
	e := newEnv(t)
	skipped := session("skipped", "cecilia-rutina-6", "2024-03-09T10:00:00.000Z", map[string][]string{"SENTADILLA": {"99"}})
	skipped.Completed = domain.CompletionSkipped
	seedLocal(e,
		session("s1", "cecilia-rutina-6", "2024-03-01T10:00:00.000Z", map[string][]string{"SENTADILLA": {"60"}, "REMO": {"30"}}),
		session("s2", "cecilia-rutina-6", "2024-03-03T10:00:00.000Z", map[string][]string{"SENTADILLA": {"62"}, "CURL": {"10"}}),
		session("other-plan", "cecilia-rutina-5", "2024-03-05T10:00:00.000Z", map[string][]string{"REMO": {"35"}}),
		skipped,
	)

	got := NewProgressService(e.history).Summary("cecilia", "cecilia-rutina-6")

	assert.Equal(t, []ExerciseSummary{
		{Name: "SENTADILLA", Count: 2, Last: "2024-03-03T10:00:00.000Z"},
		{Name: "CURL", Count: 1, Last: "2024-03-03T10:00:00.000Z"},
		{Name: "REMO", Count: 1, Last: "2024-03-01T10:00:00.000Z"},
	}, got)
}
