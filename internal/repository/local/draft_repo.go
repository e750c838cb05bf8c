package local

import (
	"time"

	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/keys"
	"alcyxob/gym-tracker/internal/kv"
	"alcyxob/gym-tracker/internal/repository"
)

type draftRepository struct {
	store kv.Store
}

// NewDraftRepository creates the draft store over gym:draft:* keys.
func NewDraftRepository(store kv.Store) repository.DraftRepository {
	return &draftRepository{store: store}
}

// Save overwrites the slot's draft. The caller's value is not modified.
func (r *draftRepository) Save(draft *domain.WorkoutDraft) {
	if draft == nil {
		return
	}
	d := *draft
	d.PlanID = keys.CanonicalPlanID(d.PlanID)
	d.Version = domain.DataVersion
	d.UpdatedAt = domain.ISO(time.Now())
	kv.SaveJSON(r.store, keys.DraftKey(d.ProfileID, d.PlanID, d.Week, d.Day), &d)
}

// Load looks under the canonical key first, then under each legacy alias.
// A legacy hit is returned with the canonical plan id; storage is left as is.
func (r *draftRepository) Load(profileID, planID string, week, day int) *domain.WorkoutDraft {
	canonical := keys.CanonicalPlanID(planID)
	for _, pid := range keys.AllPlanIDs(canonical) {
		d := kv.LoadJSON[*domain.WorkoutDraft](r.store, keys.DraftKey(profileID, pid, week, day), nil)
		if d == nil {
			continue
		}
		d.PlanID = canonical
		return d
	}
	return nil
}

// Clear removes the slot's draft under the canonical and every legacy key.
func (r *draftRepository) Clear(profileID, planID string, week, day int) {
	for _, pid := range keys.AllPlanIDs(planID) {
		r.store.Remove(keys.DraftKey(profileID, pid, week, day))
	}
}
