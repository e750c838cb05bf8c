package local

import (
	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/keys"
	"alcyxob/gym-tracker/internal/kv"
	"alcyxob/gym-tracker/internal/repository"
)

type selectionRepository struct {
	store kv.Store
}

func NewSelectionRepository(store kv.Store) repository.SelectionRepository {
	return &selectionRepository{store: store}
}

// Load returns the stored selection, or fallback when none is stored.
func (r *selectionRepository) Load(fallback domain.SelectedSlot) domain.SelectedSlot {
	slot := kv.LoadJSON(r.store, keys.SelectionKey(), fallback)
	slot.PlanID = keys.CanonicalPlanID(slot.PlanID)
	return slot
}

func (r *selectionRepository) Save(slot domain.SelectedSlot) {
	slot.PlanID = keys.CanonicalPlanID(slot.PlanID)
	kv.SaveJSON(r.store, keys.SelectionKey(), slot)
}
