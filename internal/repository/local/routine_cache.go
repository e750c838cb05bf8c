package local

import (
	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/keys"
	"alcyxob/gym-tracker/internal/kv"
	"alcyxob/gym-tracker/internal/repository"
)

type routineCache struct {
	store kv.Store
}

func NewRoutineCache(store kv.Store) repository.RoutineCache {
	return &routineCache{store: store}
}

// Load returns the cached catalog, or nil if nothing usable is cached.
func (c *routineCache) Load() *domain.RoutineDB {
	db := kv.LoadJSON[*domain.RoutineDB](c.store, keys.RoutineKey(), nil)
	if db == nil || db.Profiles == nil {
		return nil
	}
	return db
}

func (c *routineCache) Save(db *domain.RoutineDB) {
	if db == nil {
		return
	}
	kv.SaveJSON(c.store, keys.RoutineKey(), db)
}
