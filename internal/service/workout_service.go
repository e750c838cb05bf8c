package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/keys"
	"alcyxob/gym-tracker/internal/repository"
)

// --- Error Definitions ---
var (
	ErrInvalidSlot     = errors.New("invalid slot: profile, plan, week and day (1-4) are required")
	ErrWorkoutNotFound = errors.New("workout not found")
)

// DateMode picks the logical session date for a save or a date fix.
type DateMode string

const (
	DateToday     DateMode = "today"
	DateYesterday DateMode = "yesterday"
	DateManual    DateMode = "manual" // DD-MM-YYYY, placed at 12:00 local time
)

var manualDatePattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

// ResolveCreatedAt turns a date choice into an ISO timestamp. Anything it
// cannot interpret falls back to now.
func ResolveCreatedAt(mode DateMode, manual string, now time.Time) string {
	switch mode {
	case DateYesterday:
		return domain.ISO(now.AddDate(0, 0, -1))
	case DateManual:
		manual = strings.TrimSpace(manual)
		if !manualDatePattern.MatchString(manual) {
			break
		}
		d, _ := strconv.Atoi(manual[0:2])
		m, _ := strconv.Atoi(manual[3:5])
		y, _ := strconv.Atoi(manual[6:10])
		return domain.ISO(time.Date(y, time.Month(m), d, 12, 0, 0, 0, now.Location()))
	}
	return domain.ISO(now)
}

// SaveWorkoutInput is one committed session as entered by the user.
type SaveWorkoutInput struct {
	Slot       domain.Slot
	Weights    map[string]domain.WeightValue
	Checks     map[string]bool
	DateMode   DateMode
	ManualDate string
}

// Board is the completion state of a whole plan, keyed "week-day".
type Board struct {
	Statuses      map[string]domain.SessionStatus `json:"statuses"`
	WeekCompleted map[int]bool                    `json:"weekCompleted"`
}

// Status returns the status of one slot on the board.
func (b Board) Status(week, day int) domain.SessionStatus {
	return b.Statuses[boardKey(week, day)]
}

func boardKey(week, day int) string {
	return strconv.Itoa(week) + "-" + strconv.Itoa(day)
}

// --- Service Interface ---
type WorkoutService interface {
	// Sessions
	SaveWorkout(ctx context.Context, in SaveWorkoutInput) (*domain.WorkoutRecord, error)
	SkipWorkout(ctx context.Context, slot domain.Slot, mode DateMode, manualDate string) (*domain.WorkoutRecord, error)
	FixDate(ctx context.Context, id string, mode DateMode, manualDate string) (*domain.WorkoutRecord, error)
	DeleteWorkout(ctx context.Context, profileID, planID, id string)
	GetWorkout(id string) *domain.WorkoutRecord

	// Reads
	History(ctx context.Context, profileID, planID string) (records []domain.WorkoutRecord, imported int)
	LocalHistory(profileID, planID string) []domain.WorkoutRecord
	AllHistory() []domain.WorkoutRecord
	LatestForSlot(slot domain.Slot) *domain.WorkoutRecord
	Board(profileID, planID string) Board
	WeekStatuses(profileID, planID string, week int) map[int]domain.SessionStatus
	NextSlot(slot domain.Slot) domain.Slot

	// Selection and drafts
	LoadSelection(ctx context.Context) domain.SelectedSlot
	SaveSelection(ctx context.Context, slot domain.SelectedSlot) domain.SelectedSlot
	SaveDraft(draft *domain.WorkoutDraft) error
	LoadDraft(slot domain.Slot) *domain.WorkoutDraft
	ClearDraft(slot domain.Slot)
}

// --- Service Implementation ---

type workoutService struct {
	records   repository.RecordRepository
	history   repository.HistoryRepository
	drafts    repository.DraftRepository
	selection repository.SelectionRepository
	catalog   CatalogService
	sync      SyncService
	pusher    Pusher
	now       func() time.Time
}

func NewWorkoutService(
	records repository.RecordRepository,
	history repository.HistoryRepository,
	drafts repository.DraftRepository,
	selection repository.SelectionRepository,
	catalog CatalogService,
	sync SyncService,
	pusher Pusher,
) WorkoutService {
	return &workoutService{
		records:   records,
		history:   history,
		drafts:    drafts,
		selection: selection,
		catalog:   catalog,
		sync:      sync,
		pusher:    pusher,
		now:       time.Now,
	}
}

func canonicalSlot(slot domain.Slot) (domain.Slot, error) {
	slot.PlanID = keys.CanonicalPlanID(slot.PlanID)
	if !slot.Valid() {
		return slot, ErrInvalidSlot
	}
	return slot, nil
}

// newRecordID composes profile, plan, slot and the creation millisecond. A
// colliding id in the local store moves to the next free millisecond.
func (s *workoutService) newRecordID(slot domain.Slot) string {
	ms := s.now().UnixMilli()
	for {
		id := fmt.Sprintf("%s-%s-%d-%d-%d", slot.ProfileID, slot.PlanID, slot.Week, slot.Day, ms)
		if s.records.Get(id) == nil {
			return id
		}
		ms++
	}
}

// newRecord builds the record skeleton with the catalog's exercises frozen in.
func (s *workoutService) newRecord(ctx context.Context, slot domain.Slot, createdAt string) *domain.WorkoutRecord {
	exercises := s.catalog.DayExercises(ctx, slot.ProfileID, slot.PlanID, slot.Week, slot.Day)
	rec := &domain.WorkoutRecord{
		Version:           domain.DataVersion,
		ID:                s.newRecordID(slot),
		ProfileID:         slot.ProfileID,
		PlanID:            slot.PlanID,
		Week:              slot.Week,
		Day:               slot.Day,
		CreatedAt:         createdAt,
		Exercises:         make([]domain.ExerciseSnapshot, len(exercises)),
		ExerciseNames:     make([]string, len(exercises)),
		Weights:           map[string]domain.WeightValue{},
		WeightsByExercise: map[string]map[string]domain.WeightValue{},
		Checks:            map[string]bool{},
	}
	for i, ex := range exercises {
		rec.Exercises[i] = ex.Snapshot()
		rec.ExerciseNames[i] = ex.Name
	}
	return rec
}

// GroupWeightsByExercise regroups per-set weights under the exercise name found
// at the key's leading index. Keys pointing past the list group under "exercise_<idx>".
func GroupWeightsByExercise(weights map[string]domain.WeightValue, names []string) map[string]map[string]domain.WeightValue {
	out := map[string]map[string]domain.WeightValue{}
	for key, value := range weights {
		idx, _, _ := strings.Cut(key, "-")
		name := "exercise_" + idx
		if i, err := strconv.Atoi(idx); err == nil && i >= 0 && i < len(names) {
			name = names[i]
		}
		if out[name] == nil {
			out[name] = map[string]domain.WeightValue{}
		}
		out[name][key] = value
	}
	return out
}

// commit is the single local write path for new and updated records: record
// first, then index, then the detached remote push.
func (s *workoutService) commit(ctx context.Context, rec *domain.WorkoutRecord) {
	s.records.Put(rec)
	s.history.Append(rec.ProfileID, rec.PlanID, rec.ID)
	s.pusher.ScheduleUpsert(ctx, rec)
}

func (s *workoutService) SaveWorkout(ctx context.Context, in SaveWorkoutInput) (*domain.WorkoutRecord, error) {
	slot, err := canonicalSlot(in.Slot)
	if err != nil {
		return nil, err
	}

	rec := s.newRecord(ctx, slot, ResolveCreatedAt(in.DateMode, in.ManualDate, s.now()))
	for k, v := range in.Weights {
		rec.Weights[k] = v
	}
	for k, v := range in.Checks {
		rec.Checks[k] = v
	}
	rec.WeightsByExercise = GroupWeightsByExercise(rec.Weights, rec.ExerciseNames)

	s.commit(ctx, rec)
	s.drafts.Clear(slot.ProfileID, slot.PlanID, slot.Week, slot.Day)
	return rec, nil
}

func (s *workoutService) SkipWorkout(ctx context.Context, slot domain.Slot, mode DateMode, manualDate string) (*domain.WorkoutRecord, error) {
	slot, err := canonicalSlot(slot)
	if err != nil {
		return nil, err
	}
	rec := s.newRecord(ctx, slot, ResolveCreatedAt(mode, manualDate, s.now()))
	rec.Completed = domain.CompletionSkipped

	s.commit(ctx, rec)
	return rec, nil
}

// FixDate corrects the logical date of a record. Nothing else about it changes.
func (s *workoutService) FixDate(ctx context.Context, id string, mode DateMode, manualDate string) (*domain.WorkoutRecord, error) {
	rec := s.records.SetCreatedAt(id, ResolveCreatedAt(mode, manualDate, s.now()))
	if rec == nil {
		return nil, ErrWorkoutNotFound
	}
	s.pusher.ScheduleUpsert(ctx, rec)
	return rec, nil
}

// DeleteWorkout drops the id from every alias index of the scope, then the
// record, then schedules the remote delete. Unknown ids are ignored.
func (s *workoutService) DeleteWorkout(ctx context.Context, profileID, planID, id string) {
	s.history.Remove(profileID, planID, id)
	s.records.Remove(id)
	s.pusher.ScheduleDelete(ctx, id)
}

func (s *workoutService) GetWorkout(id string) *domain.WorkoutRecord {
	return s.records.Get(id)
}

// History is the page-load read: pull from the mirror (best effort), then read locally.
func (s *workoutService) History(ctx context.Context, profileID, planID string) ([]domain.WorkoutRecord, int) {
	imported := s.sync.Pull(ctx, profileID, planID)
	return s.LocalHistory(profileID, planID), imported
}

func (s *workoutService) LocalHistory(profileID, planID string) []domain.WorkoutRecord {
	return s.history.Materialize(profileID, keys.CanonicalPlanID(planID))
}

func (s *workoutService) AllHistory() []domain.WorkoutRecord {
	return s.history.MaterializeAll()
}

// LatestForSlot is the newest record for the slot's week and day, or nil.
func (s *workoutService) LatestForSlot(slot domain.Slot) *domain.WorkoutRecord {
	for _, rec := range s.LocalHistory(slot.ProfileID, slot.PlanID) {
		if rec.Week == slot.Week && rec.Day == slot.Day {
			r := rec
			return &r
		}
	}
	return nil
}

// Board takes the status of the newest record with evidence for every slot.
func (s *workoutService) Board(profileID, planID string) Board {
	board := Board{Statuses: map[string]domain.SessionStatus{}, WeekCompleted: map[int]bool{}}
	for _, rec := range s.LocalHistory(profileID, planID) {
		key := boardKey(rec.Week, rec.Day)
		if _, seen := board.Statuses[key]; seen {
			continue
		}
		if status := rec.Status(); status != domain.StatusNone {
			board.Statuses[key] = status
		}
	}
	for w := 1; w <= domain.MaxWeekDay; w++ {
		complete := true
		for d := 1; d <= domain.MaxWeekDay; d++ {
			if board.Status(w, d) == domain.StatusNone {
				complete = false
				break
			}
		}
		board.WeekCompleted[w] = complete
	}
	return board
}

// WeekStatuses maps each day of week to the status of its newest record.
// Days without a record, or whose newest record has no evidence, are absent.
func (s *workoutService) WeekStatuses(profileID, planID string, week int) map[int]domain.SessionStatus {
	out := map[int]domain.SessionStatus{}
	for _, rec := range s.LocalHistory(profileID, planID) {
		if rec.Week != week {
			continue
		}
		if _, seen := out[rec.Day]; seen {
			continue
		}
		out[rec.Day] = rec.Status()
	}
	for day, status := range out {
		if status == domain.StatusNone {
			delete(out, day)
		}
	}
	return out
}

// NextSlot advances the selection once the selected day has a session dated
// today: to the next open day of the week, or when the week is complete to
// the first open day of a later week. Otherwise the slot is returned as is.
func (s *workoutService) NextSlot(slot domain.Slot) domain.Slot {
	list := s.LocalHistory(slot.ProfileID, slot.PlanID)
	today := s.now()
	doneToday := false
	for _, rec := range list {
		if rec.Week == slot.Week && rec.Day == slot.Day && sameLocalDay(rec.CreatedTime(), today) {
			doneToday = true
			break
		}
	}
	if !doneToday {
		return slot
	}

	board := s.Board(slot.ProfileID, slot.PlanID)
	next := slot
	if board.WeekCompleted[slot.Week] {
		for w := slot.Week + 1; w <= domain.MaxWeekDay; w++ {
			if d := firstOpenDay(board, w, 1); d > 0 {
				next.Week, next.Day = w, d
				break
			}
		}
	} else if d := firstOpenDay(board, slot.Week, slot.Day+1); d > 0 {
		next.Day = d
	}
	return next
}

func firstOpenDay(board Board, week, from int) int {
	for d := from; d <= domain.MaxWeekDay; d++ {
		if board.Status(week, d) == domain.StatusNone {
			return d
		}
	}
	return 0
}

func sameLocalDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// --- Selection and drafts ---

// LoadSelection returns the stored selection repaired against the catalog.
func (s *workoutService) LoadSelection(ctx context.Context) domain.SelectedSlot {
	return s.catalog.ResolveSlot(ctx, s.selection.Load(s.catalog.DefaultSlot(ctx)))
}

func (s *workoutService) SaveSelection(ctx context.Context, slot domain.SelectedSlot) domain.SelectedSlot {
	slot = s.catalog.ResolveSlot(ctx, slot)
	s.selection.Save(slot)
	return slot
}

func (s *workoutService) SaveDraft(draft *domain.WorkoutDraft) error {
	if draft == nil {
		return ErrInvalidSlot
	}
	if _, err := canonicalSlot(draft.Slot()); err != nil {
		return err
	}
	s.drafts.Save(draft)
	return nil
}

func (s *workoutService) LoadDraft(slot domain.Slot) *domain.WorkoutDraft {
	return s.drafts.Load(slot.ProfileID, slot.PlanID, slot.Week, slot.Day)
}

func (s *workoutService) ClearDraft(slot domain.Slot) {
	s.drafts.Clear(slot.ProfileID, slot.PlanID, slot.Week, slot.Day)
}
