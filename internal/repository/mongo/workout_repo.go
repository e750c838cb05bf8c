// internal/repository/mongo/workout_repo.go
package mongo

import (
	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/repository"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// workoutDocument is one mirrored row. The scope columns are copied out of the
// payload so they can be indexed; the payload is the full record.
type workoutDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	ProfileID string    `bson:"profileId"`
	PlanID    string    `bson:"planId"`
	Week      int       `bson:"week"`
	Day       int       `bson:"day"`
	CreatedAt time.Time `bson:"createdAt"`
	Payload   bson.D    `bson:"payload"`
}

// mongoWorkoutMirror implements repository.WorkoutMirror
type mongoWorkoutMirror struct {
	collection *mongo.Collection
}

// NewMongoWorkoutMirror creates the remote mirror on the workouts collection.
func NewMongoWorkoutMirror(db *mongo.Database) repository.WorkoutMirror {
	return &mongoWorkoutMirror{
		collection: db.Collection(workoutCollectionName),
	}
}

// toDocument converts a record into its mirrored form.
func toDocument(userID string, rec *domain.WorkoutRecord) (*workoutDocument, error) {
	if rec == nil || rec.ID == "" {
		return nil, repository.ErrInvalidRecord
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode workout %s: %w", rec.ID, err)
	}
	// Plain JSON is valid relaxed extended JSON, so the payload is stored as a
	// native sub-document instead of an opaque string.
	var payload bson.D
	if err := bson.UnmarshalExtJSON(raw, false, &payload); err != nil {
		return nil, fmt.Errorf("convert workout %s payload: %w", rec.ID, err)
	}
	return &workoutDocument{
		ID:        rec.ID,
		UserID:    userID,
		ProfileID: rec.ProfileID,
		PlanID:    rec.PlanID,
		Week:      rec.Week,
		Day:       rec.Day,
		CreatedAt: rec.CreatedTime(),
		Payload:   payload,
	}, nil
}

// fromDocument decodes the payload back into a record. The row id wins over
// whatever id the payload carries.
func fromDocument(doc *workoutDocument) (*domain.WorkoutRecord, error) {
	raw, err := bson.MarshalExtJSON(doc.Payload, false, false)
	if err != nil {
		return nil, fmt.Errorf("convert workout %s payload: %w", doc.ID, err)
	}
	var rec domain.WorkoutRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode workout %s payload: %w", doc.ID, err)
	}
	rec.ID = doc.ID
	return &rec, nil
}

// Upsert replaces the row with the record's id, inserting it if missing.
func (r *mongoWorkoutMirror) Upsert(ctx context.Context, userID string, rec *domain.WorkoutRecord) error {
	doc, err := toDocument(userID, rec)
	if err != nil {
		return err
	}
	filter := bson.M{"_id": doc.ID, "userId": userID}
	_, err = r.collection.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert workout %s: %w", rec.ID, err)
	}
	return nil
}

// FetchByScope returns the user's rows for one (profile, plan), newest first.
func (r *mongoWorkoutMirror) FetchByScope(ctx context.Context, userID, profileID, planID string, limit int) ([]domain.WorkoutRecord, error) {
	filter := bson.M{"userId": userID, "profileId": profileID, "planId": planID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("fetch workouts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []workoutDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("fetch workouts: %w", err)
	}

	records := make([]domain.WorkoutRecord, 0, len(docs))
	for i := range docs {
		rec, err := fromDocument(&docs[i])
		if err != nil {
			// One unreadable row should not hide the others.
			log.Printf("WARN: skipping mirrored workout: %v", err)
			continue
		}
		records = append(records, *rec)
	}
	return records, nil
}

// Delete removes the row only when it belongs to userID. Deleting a missing row is not an error.
func (r *mongoWorkoutMirror) Delete(ctx context.Context, userID, id string) error {
	filter := bson.M{"_id": id, "userId": userID}
	if _, err := r.collection.DeleteOne(ctx, filter); err != nil {
		return fmt.Errorf("delete workout %s: %w", id, err)
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, db *mongo.Database) {
	collection := db.Collection(workoutCollectionName)
	indexes := []mongo.IndexModel{
		{
			// Scope fetch, sorted by date
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "profileId", Value: 1},
				{Key: "planId", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
