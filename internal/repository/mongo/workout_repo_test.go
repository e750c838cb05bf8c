package mongo

import (
	"context"
	"testing"

	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func sampleRecord() *domain.WorkoutRecord {
	sets := 4
	return &domain.WorkoutRecord{
		Version:       domain.DataVersion,
		ID:            "cecilia-cecilia-rutina-6-1-2-1704103200000",
		ProfileID:     "cecilia",
		PlanID:        "cecilia-rutina-6",
		Week:          1,
		Day:           2,
		CreatedAt:     "2024-01-01T10:00:00.000Z",
		Exercises:     []domain.ExerciseSnapshot{{Name: "REMO", Reps: []byte(`"10"`), Sets: &sets, Type: domain.ExerciseNormal}},
		ExerciseNames: []string{"REMO"},
		Weights: map[string]domain.WeightValue{
			"0-0": domain.NumberWeight(22.5),
			"0-1": domain.TextWeight("22,5"),
		},
		WeightsByExercise: map[string]map[string]domain.WeightValue{},
		Checks:            map[string]bool{},
		Completed:         domain.CompletionDone,
	}
}

func TestDocumentMapping(t *testing.T) {
	rec := sampleRecord()

	doc, err := toDocument("user-1", rec)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, doc.ID)
	assert.Equal(t, "user-1", doc.UserID)
	assert.Equal(t, "cecilia-rutina-6", doc.PlanID)
	assert.Equal(t, rec.CreatedTime(), doc.CreatedAt)

	doc.ID = "row-id"
	back, err := fromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, "row-id", back.ID)
	assert.Equal(t, "22.5", back.Weights["0-0"].String())
	assert.True(t, back.Weights["0-0"].IsNumber())
	assert.Equal(t, "22,5", back.Weights["0-1"].String())
	assert.Equal(t, domain.CompletionDone, back.Completed)
	assert.Equal(t, rec.Exercises, back.Exercises)

	_, err = toDocument("user-1", &domain.WorkoutRecord{})
	assert.ErrorIs(t, err, repository.ErrInvalidRecord)
}

func TestMongoWorkoutMirror(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("upsert replaces by id and user", func(mt *mtest.T) {
		mirror := NewMongoWorkoutMirror(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		err := mirror.Upsert(context.Background(), "user-1", sampleRecord())
		require.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
	})

	mt.Run("upsert surfaces server errors", func(mt *mtest.T) {
		mirror := NewMongoWorkoutMirror(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 13, Message: "unauthorized", Name: "Unauthorized"}))

		err := mirror.Upsert(context.Background(), "user-1", sampleRecord())
		assert.Error(mt, err)
	})

	mt.Run("fetch decodes rows", func(mt *mtest.T) {
		mirror := NewMongoWorkoutMirror(mt.DB)
		doc, err := toDocument("user-1", sampleRecord())
		require.NoError(mt, err)
		raw, err := bson.Marshal(doc)
		require.NoError(mt, err)
		var row bson.D
		require.NoError(mt, bson.Unmarshal(raw, &row))

		ns := mt.DB.Name() + "." + workoutCollectionName
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, row))

		records, err := mirror.FetchByScope(context.Background(), "user-1", "cecilia", "cecilia-rutina-6", 500)
		require.NoError(mt, err)
		require.Len(mt, records, 1)
		assert.Equal(mt, sampleRecord().ID, records[0].ID)
		assert.Equal(mt, "REMO", records[0].ExerciseNames[0])
	})

	mt.Run("fetch surfaces server errors", func(mt *mtest.T) {
		mirror := NewMongoWorkoutMirror(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad query", Name: "BadValue"}))

		_, err := mirror.FetchByScope(context.Background(), "user-1", "cecilia", "cecilia-rutina-6", 500)
		assert.Error(mt, err)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mirror := NewMongoWorkoutMirror(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.NoError(mt, mirror.Delete(context.Background(), "user-1", "missing"))
	})
}
