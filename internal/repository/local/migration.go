package local

import (
	"log"

	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/keys"
	"alcyxob/gym-tracker/internal/kv"
	"alcyxob/gym-tracker/internal/repository"
)

// Schema version tracking:
// 1 - original layout (no marker written)
// 2 - records, drafts and selections carry canonical plan ids; stamp only
const CurrentSchemaVersion = domain.DataVersion

// migration upgrades local storage to version. Steps must be idempotent: a
// crash between a step and the stamp re-runs the step on the next start.
type migration struct {
	version int
	apply   func(store kv.Store) error
}

// Existing keys are preserved as they are; alias resolution happens on read.
var migrations = []migration{
	{version: 2, apply: func(kv.Store) error { return nil }},
}

type migrator struct {
	store kv.Store
	steps []migration
}

func NewMigrator(store kv.Store) repository.Migrator {
	return &migrator{store: store, steps: migrations}
}

// MigrateIfNeeded applies pending steps in order and stamps the new version.
// It returns the version the store is at afterwards.
func (m *migrator) MigrateIfNeeded() int {
	marker := kv.LoadJSON(m.store, keys.VersionKey(), 1)
	if marker >= CurrentSchemaVersion {
		return marker
	}

	for _, step := range m.steps {
		if step.version <= marker || step.version > CurrentSchemaVersion {
			continue
		}
		if err := step.apply(m.store); err != nil {
			// Leave the stamp where it is so the step is retried next start.
			log.Printf("ERROR: local storage migration to v%d failed: %v", step.version, err)
			return marker
		}
		marker = step.version
	}

	kv.SaveJSON(m.store, keys.VersionKey(), CurrentSchemaVersion)
	log.Printf("INFO: local storage migrated to v%d", CurrentSchemaVersion)
	return CurrentSchemaVersion
}
