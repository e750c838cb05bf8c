package service

import (
	"context"
	"log"

	"alcyxob/gym-tracker/internal/keys"
	"alcyxob/gym-tracker/internal/repository"
	"alcyxob/gym-tracker/internal/repository/local"
)

// SyncService merges remote rows into the local store. Remote is an extra
// source, never an authority: pulls only add or refresh, they never delete.
type SyncService interface {
	// Pull imports the scope's remote rows and returns how many were new locally.
	// It never fails; any remote problem reads as zero imported.
	Pull(ctx context.Context, profileID, planID string) int
}

type syncService struct {
	mirror  MirrorClient
	records repository.RecordRepository
	history repository.HistoryRepository
}

func NewSyncService(mirror MirrorClient, records repository.RecordRepository, history repository.HistoryRepository) SyncService {
	return &syncService{mirror: mirror, records: records, history: history}
}

func (s *syncService) Pull(ctx context.Context, profileID, planID string) int {
	canonical := keys.CanonicalPlanID(planID)
	if !s.mirror.Enabled(ctx) {
		return 0
	}

	fetched, err := s.mirror.Fetch(ctx, profileID, canonical)
	if err != nil {
		log.Printf("WARN: pull for %s/%s failed, continuing with local data: %v", profileID, canonical, err)
		return 0
	}
	// The caller may have moved on while the fetch was in flight.
	if ctx.Err() != nil {
		log.Printf("INFO: pull for %s/%s discarded: %v", profileID, canonical, ctx.Err())
		return 0
	}

	imported := 0
	// Rows arrive newest first; commit oldest first so the index head stays newest.
	for i := len(fetched) - 1; i >= 0; i-- {
		rec := local.NormalizeRecord(&fetched[i])
		rec.ProfileID = profileID
		rec.PlanID = canonical

		if s.records.Get(rec.ID) == nil {
			imported++
		}
		// Direct commit: pulled rows are not pushed back.
		s.records.Put(rec)
		s.history.Append(profileID, canonical, rec.ID)
	}
	if imported > 0 {
		log.Printf("INFO: imported %d remote workouts into %s/%s", imported, profileID, canonical)
	}
	return imported
}
