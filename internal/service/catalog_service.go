package service

import (
	"context"
	"log"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/keys"
	"alcyxob/gym-tracker/internal/repository"
	"alcyxob/gym-tracker/internal/storage"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Used when the catalog is empty or unavailable.
const (
	DefaultProfileID = "cecilia"
	DefaultPlanID    = "cecilia-rutina-6"
)

// CatalogService serves the read-only plan catalog. It prefers the local
// cache and only goes to the configured source when nothing usable is cached.
type CatalogService interface {
	Routine(ctx context.Context) *domain.RoutineDB
	// Refresh reloads from the source and replaces the cache.
	Refresh(ctx context.Context) (*domain.RoutineDB, error)
	DayExercises(ctx context.Context, profileID, planID string, week, day int) []domain.RoutineExercise
	DefaultSlot(ctx context.Context) domain.Slot
	// ResolveSlot repairs a stored slot that no longer fits the catalog.
	ResolveSlot(ctx context.Context, slot domain.Slot) domain.Slot
	CombinedGroups(ctx context.Context, profileID, planID string, week, day int) [][]string
}

type catalogService struct {
	source storage.CatalogSource
	cache  repository.RoutineCache

	mu     sync.Mutex
	loaded *domain.RoutineDB
}

func NewCatalogService(source storage.CatalogSource, cache repository.RoutineCache) CatalogService {
	return &catalogService{source: source, cache: cache}
}

func (s *catalogService) Routine(ctx context.Context) *domain.RoutineDB {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded != nil {
		return s.loaded
	}

	if cached := s.cache.Load(); cached != nil {
		s.loaded = NormalizeRoutine(cached)
		return s.loaded
	}
	db, err := s.fetch(ctx)
	if err != nil {
		// Not cached on purpose so the next call retries the source.
		log.Printf("ERROR: failed to load plan catalog: %v", err)
		return &domain.RoutineDB{DefaultSetsIfMissing: domain.FallbackSetsIfMissing}
	}
	s.loaded = db
	return db
}

func (s *catalogService) Refresh(ctx context.Context) (*domain.RoutineDB, error) {
	db, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.loaded = db
	s.mu.Unlock()
	return db, nil
}

func (s *catalogService) fetch(ctx context.Context) (*domain.RoutineDB, error) {
	if s.source == nil {
		return nil, storage.ErrCatalogNotFound
	}
	raw, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	db := NormalizeRoutine(raw)
	s.cache.Save(db)
	log.Printf("INFO: plan catalog loaded from %s (%d profiles)", s.source.Describe(), len(db.Profiles))
	return db, nil
}

// DayExercises looks the slot up under the canonical plan id first, then under its legacy ids.
func (s *catalogService) DayExercises(ctx context.Context, profileID, planID string, week, day int) []domain.RoutineExercise {
	db := s.Routine(ctx)
	for _, pid := range keys.AllPlanIDs(planID) {
		if exercises := db.DayExercises(profileID, pid, week, day); exercises != nil {
			return exercises
		}
	}
	return nil
}

func (s *catalogService) DefaultSlot(ctx context.Context) domain.Slot {
	slot := domain.Slot{ProfileID: DefaultProfileID, PlanID: DefaultPlanID, Week: 1, Day: 1}
	db := s.Routine(ctx)
	if len(db.Profiles) == 0 {
		return slot
	}
	profile := db.Profiles[0]
	slot.ProfileID = profile.ID
	if len(profile.Plans) > 0 {
		slot.PlanID = profile.Plans[0].ID
	}
	return slot
}

func (s *catalogService) ResolveSlot(ctx context.Context, slot domain.Slot) domain.Slot {
	fallback := s.DefaultSlot(ctx)
	db := s.Routine(ctx)

	out := domain.Slot{
		ProfileID: fallback.ProfileID,
		PlanID:    fallback.PlanID,
		Week:      clampWeekDay(slot.Week),
		Day:       clampWeekDay(slot.Day),
	}
	profile := db.Profile(slot.ProfileID)
	if profile == nil {
		profile = db.Profile(fallback.ProfileID)
	}
	if profile == nil && len(db.Profiles) > 0 {
		profile = &db.Profiles[0]
	}
	if profile == nil {
		return out
	}
	out.ProfileID = profile.ID

	plan := profile.Plan(keys.CanonicalPlanID(slot.PlanID))
	if plan == nil {
		plan = profile.Plan(slot.PlanID)
	}
	if plan == nil && len(profile.Plans) > 0 {
		plan = &profile.Plans[0]
	}
	if plan != nil {
		out.PlanID = plan.ID
	}
	return out
}

func clampWeekDay(v int) int {
	if v < 1 {
		return 1
	}
	if v > domain.MaxWeekDay {
		return domain.MaxWeekDay
	}
	return v
}

// CombinedGroups lists the supersets of a day: exercises whose name joins several with " + ".
func (s *catalogService) CombinedGroups(ctx context.Context, profileID, planID string, week, day int) [][]string {
	var groups [][]string
	for _, ex := range s.DayExercises(ctx, profileID, planID, week, day) {
		if !strings.Contains(ex.Name, " + ") {
			continue
		}
		var parts []string
		for _, part := range strings.Split(ex.Name, " + ") {
			if part = strings.TrimSpace(part); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) > 1 {
			groups = append(groups, parts)
		}
	}
	return groups
}

// FindCombinedGroup returns the label of the group containing exerciseName,
// compared without accents, case or repeated spaces. Empty when none matches.
func FindCombinedGroup(exerciseName string, groups [][]string) string {
	needle := foldName(exerciseName)
	for _, group := range groups {
		for _, member := range group {
			if foldName(member) == needle {
				return strings.Join(group, " + ")
			}
		}
	}
	return ""
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldName(s string) string {
	folded, _, err := transform.String(accentStripper, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(strings.Join(strings.Fields(folded), " "))
}

// --- Catalog normalization ---

// Text the PDF importer leaves inside exercise names.
var noisyFragments = []*regexp.Regexp{
	regexp.MustCompile(`(?i)P R I M E R A S E M A N A`),
	regexp.MustCompile(`(?i)S E G U N D A S E M A N A`),
	regexp.MustCompile(`(?i)T E R C E R A S E M A N A`),
	regexp.MustCompile(`(?i)C U A R T A S E M A N A`),
	regexp.MustCompile(`(?i)EJERCICIO`),
	regexp.MustCompile(`(?i)SERIES`),
	regexp.MustCompile(`(?i)REPETICIONES`),
}

func cleanExerciseName(name string) string {
	for _, re := range noisyFragments {
		name = re.ReplaceAllString(name, " ")
	}
	return strings.Join(strings.Fields(name), " ")
}

// NormalizeRoutine returns a cleaned copy of db: names stripped of importer
// noise, types inferred, zero set counts defaulted, nameless exercises dropped.
// Unknown set counts stay nil.
func NormalizeRoutine(db *domain.RoutineDB) *domain.RoutineDB {
	if db == nil {
		return &domain.RoutineDB{DefaultSetsIfMissing: domain.FallbackSetsIfMissing}
	}
	defaultSets := db.DefaultSetsIfMissing
	if defaultSets <= 0 {
		defaultSets = domain.FallbackSetsIfMissing
	}

	out := &domain.RoutineDB{DefaultSetsIfMissing: defaultSets, Profiles: make([]domain.RoutineProfile, len(db.Profiles))}
	for pi, profile := range db.Profiles {
		plans := make([]domain.RoutinePlan, len(profile.Plans))
		for pj, plan := range profile.Plans {
			weeks := make([]domain.RoutineWeek, len(plan.Weeks))
			for wi, week := range plan.Weeks {
				days := make([]domain.RoutineDay, len(week.Days))
				for di, day := range week.Days {
					exercises := make([]domain.RoutineExercise, 0, len(day.Exercises))
					for _, ex := range day.Exercises {
						if ex = normalizeExercise(ex, defaultSets); ex.Name != "" {
							exercises = append(exercises, ex)
						}
					}
					day.Exercises = exercises
					days[di] = day
				}
				week.Days = days
				weeks[wi] = week
			}
			plan.Weeks = weeks
			plans[pj] = plan
		}
		profile.Plans = plans
		out.Profiles[pi] = profile
	}
	return out
}

func normalizeExercise(ex domain.RoutineExercise, defaultSets int) domain.RoutineExercise {
	ex.Name = cleanExerciseName(ex.Name)
	if ex.Type == "" {
		ex.Type = domain.ExerciseNormal
		if domain.IsDropReps(ex.Reps) {
			ex.Type = domain.ExerciseDropset
		}
	}
	if ex.Sets != nil && *ex.Sets == 0 {
		n := defaultSets
		ex.Sets = &n
	}
	return ex
}
