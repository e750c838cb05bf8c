package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"

	"alcyxob/gym-tracker/internal/auth"
	"alcyxob/gym-tracker/internal/config"
	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/kv"
	"alcyxob/gym-tracker/internal/repository"
	"alcyxob/gym-tracker/internal/repository/local"
)

// fakeMirror is an in-memory remote table keyed by user and row id.
type fakeMirror struct {
	mu        sync.Mutex
	rows      map[string]map[string]domain.WorkoutRecord
	fetchErr  error
	upsertErr error
	onFetch   func()
	upserted  []string
	deleted   []string
}

func newFakeMirror() *fakeMirror {
	return &fakeMirror{rows: map[string]map[string]domain.WorkoutRecord{}}
}

func (m *fakeMirror) seed(userID string, recs ...domain.WorkoutRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows[userID] == nil {
		m.rows[userID] = map[string]domain.WorkoutRecord{}
	}
	for _, r := range recs {
		m.rows[userID][r.ID] = r
	}
}

func (m *fakeMirror) Upsert(_ context.Context, userID string, rec *domain.WorkoutRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.rows[userID] == nil {
		m.rows[userID] = map[string]domain.WorkoutRecord{}
	}
	m.rows[userID][rec.ID] = *rec.Clone()
	m.upserted = append(m.upserted, rec.ID)
	return nil
}

func (m *fakeMirror) FetchByScope(_ context.Context, userID, profileID, planID string, limit int) ([]domain.WorkoutRecord, error) {
	if m.onFetch != nil {
		m.onFetch()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	var out []domain.WorkoutRecord
	for _, r := range m.rows[userID] {
		if r.ProfileID == profileID && r.PlanID == planID {
			out = append(out, *r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedTime().After(out[j].CreatedTime()) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *fakeMirror) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows[userID], id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *fakeMirror) upsertedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.upserted...)
}

// recordingPusher runs pushes inline so tests can assert on them directly.
type recordingPusher struct {
	mu      sync.Mutex
	upserts []string
	deletes []string
}

func (p *recordingPusher) ScheduleUpsert(_ context.Context, rec *domain.WorkoutRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.upserts = append(p.upserts, rec.ID)
}

func (p *recordingPusher) ScheduleDelete(_ context.Context, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deletes = append(p.deletes, id)
}

func (p *recordingPusher) Close() {}

// staticSource is a CatalogSource serving a fixed catalog.
type staticSource struct {
	db    *domain.RoutineDB
	err   error
	calls int
}

func (s *staticSource) Load(context.Context) (*domain.RoutineDB, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	// Hand out a copy so normalization can never touch the fixture.
	raw, _ := json.Marshal(s.db)
	var out domain.RoutineDB
	_ = json.Unmarshal(raw, &out)
	return &out, nil
}

func (s *staticSource) Describe() string { return "static" }

func intPtr(n int) *int { return &n }

func testCatalog() *domain.RoutineDB {
	day := func(d int, exercises ...domain.RoutineExercise) domain.RoutineDay {
		return domain.RoutineDay{Day: d, Exercises: exercises}
	}
	week := func(w int) domain.RoutineWeek {
		return domain.RoutineWeek{Week: w, Days: []domain.RoutineDay{
			day(1,
				domain.RoutineExercise{Name: "SENTADILLA", Reps: json.RawMessage(`"12"`), Sets: intPtr(4)},
				domain.RoutineExercise{Name: "REMO", Reps: json.RawMessage(`"10+10+10"`), Sets: nil},
			),
			day(2, domain.RoutineExercise{Name: "PRESS MILITAR + VUELOS LATERALES", Reps: json.RawMessage(`12`), Sets: intPtr(3)}),
			day(3, domain.RoutineExercise{Name: "PESO MUERTO", Sets: intPtr(0)}),
			day(4, domain.RoutineExercise{Name: "PLANCHA"}),
		}}
	}
	return &domain.RoutineDB{
		DefaultSetsIfMissing: 4,
		Profiles: []domain.RoutineProfile{
			{ID: "cecilia", Name: "Cecilia", Plans: []domain.RoutinePlan{
				{ID: "cecilia-rutina-6", Name: "Rutina 6", Weeks: []domain.RoutineWeek{week(1), week(2), week(3), week(4)}},
			}},
			{ID: "gabriel", Name: "Gabriel", Plans: []domain.RoutinePlan{
				{ID: "gabriel-rutina-1", Name: "Rutina 1", Weeks: []domain.RoutineWeek{week(1)}},
			}},
		},
	}
}

// env wires the real local repositories and services over a memory store.
type env struct {
	store   *kv.Memory
	records repository.RecordRepository
	history repository.HistoryRepository
	drafts  repository.DraftRepository
	mirror  *fakeMirror
	pusher  *recordingPusher
	catalog CatalogService
	sync    SyncService
	svc     *workoutService
	clock   time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		store:  kv.NewMemory(),
		mirror: newFakeMirror(),
		pusher: &recordingPusher{},
		clock:  time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC),
	}
	e.records = local.NewRecordRepository(e.store)
	e.history = local.NewHistoryRepository(e.store, e.records)
	e.drafts = local.NewDraftRepository(e.store)
	e.catalog = NewCatalogService(&staticSource{db: testCatalog()}, local.NewRoutineCache(e.store))
	e.sync = NewSyncService(NewMirrorClient(e.mirror, 0, 0), e.records, e.history)
	e.svc = NewWorkoutService(e.records, e.history, e.drafts, local.NewSelectionRepository(e.store), e.catalog, e.sync, e.pusher).(*workoutService)
	e.svc.now = func() time.Time { return e.clock }
	return e
}

func signedIn(userID string) context.Context {
	return auth.WithIdentity(context.Background(), domain.Identity{UserID: userID})
}

func remoteRecord(id string, week, day int, createdAt string) domain.WorkoutRecord {
	return domain.WorkoutRecord{
		Version:   domain.DataVersion,
		ID:        id,
		ProfileID: "cecilia",
		PlanID:    "cecilia-rutina-6",
		Week:      week,
		Day:       day,
		CreatedAt: createdAt,
		Weights:   map[string]domain.WeightValue{"0-0": domain.TextWeight("50")},
		WeightsByExercise: map[string]map[string]domain.WeightValue{
			"SENTADILLA": {"0-0": domain.TextWeight("50")},
		},
	}
}

func snapshot(store *kv.Memory) map[string]string {
	out := map[string]string{}
	for _, k := range store.Keys() {
		v, _ := store.Get(k)
		out[k] = v
	}
	return out
}

func testPushConfig() config.PushConfig {
	return config.PushConfig{QueueSize: 8, Timeout: time.Second}
}
