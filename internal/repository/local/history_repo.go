package local

import (
	"bytes"
	"encoding/json"
	"sort"

	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/keys"
	"alcyxob/gym-tracker/internal/kv"
	"alcyxob/gym-tracker/internal/repository"

	"github.com/google/uuid"
)

// indexEntry is one element of a stored history list. Current data stores bare
// ids; the oldest format embedded whole records. Both are decoded here and
// nothing past this file sees the embedded form.
type indexEntry struct {
	raw    json.RawMessage
	id     string
	record *domain.WorkoutRecord
}

func (e *indexEntry) UnmarshalJSON(data []byte) error {
	e.raw = append(json.RawMessage(nil), data...)
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '"':
		_ = json.Unmarshal(trimmed, &e.id)
	case '{':
		var rec domain.WorkoutRecord
		if err := json.Unmarshal(trimmed, &rec); err == nil {
			if rec.ID == "" {
				rec.ID = legacyEntryID(e.raw)
			}
			e.record = &rec
			e.id = rec.ID
		}
	}
	// Anything else is junk; it decodes to an empty entry and is skipped.
	return nil
}

// legacyEntryID derives an id for an embedded record that never had one. It
// depends only on the entry bytes, so reads and removals agree on it.
func legacyEntryID(raw []byte) string {
	return "legacy-" + uuid.NewSHA1(uuid.NameSpaceOID, raw).String()
}

func (e indexEntry) MarshalJSON() ([]byte, error) {
	if len(e.raw) > 0 {
		return e.raw, nil
	}
	return json.Marshal(e.id)
}

// historyRepository implements repository.HistoryRepository over gym:history:* keys.
type historyRepository struct {
	store   kv.Store
	records repository.RecordRepository
}

// NewHistoryRepository creates a history index. Embedded legacy entries are
// promoted into records through the given record repository.
func NewHistoryRepository(store kv.Store, records repository.RecordRepository) repository.HistoryRepository {
	return &historyRepository{store: store, records: records}
}

func (h *historyRepository) loadEntries(key string) []indexEntry {
	return kv.LoadJSON[[]indexEntry](h.store, key, nil)
}

// idsFromEntries resolves entries to ids. An embedded record is written to the
// record store only while no standalone copy exists; later edits to that copy win.
func (h *historyRepository) idsFromEntries(entries []indexEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.record != nil {
			if h.records.Get(entry.id) == nil {
				h.records.Put(NormalizeRecord(entry.record))
			}
			ids = append(ids, entry.id)
			continue
		}
		if entry.id != "" {
			ids = append(ids, entry.id)
		}
	}
	return ids
}

// ReadAll returns the canonical index followed by every legacy-alias index,
// deduplicated with first occurrence winning.
func (h *historyRepository) ReadAll(profileID, planID string) []string {
	var all []string
	for _, pid := range keys.AllPlanIDs(planID) {
		all = append(all, h.idsFromEntries(h.loadEntries(keys.HistoryKey(profileID, pid)))...)
	}
	return dedupe(all)
}

// Append moves id to the head of the scope's index. Only the canonical key is written.
func (h *historyRepository) Append(profileID, planID, id string) {
	if id == "" {
		return
	}
	current := h.ReadAll(profileID, planID)
	next := make([]string, 0, len(current)+1)
	next = append(next, id)
	for _, existing := range current {
		if existing != id {
			next = append(next, existing)
		}
	}
	kv.SaveJSON(h.store, keys.HistoryKey(profileID, keys.CanonicalPlanID(planID)), next)
}

// Remove drops id from the canonical index and from every legacy-alias index.
func (h *historyRepository) Remove(profileID, planID, id string) {
	for _, pid := range keys.AllPlanIDs(planID) {
		key := keys.HistoryKey(profileID, pid)
		if _, ok := h.store.Get(key); !ok {
			continue
		}
		entries := h.loadEntries(key)
		kept := make([]indexEntry, 0, len(entries))
		for _, entry := range entries {
			if entry.id != id {
				kept = append(kept, entry)
			}
		}
		kv.SaveJSON(h.store, key, kept)
	}
}

// Materialize resolves the scope's index into records, newest createdAt first.
// Ids whose records are gone are skipped.
func (h *historyRepository) Materialize(profileID, planID string) []domain.WorkoutRecord {
	return h.resolve(h.ReadAll(profileID, planID))
}

// MaterializeAll scans every history index in the store regardless of scope.
func (h *historyRepository) MaterializeAll() []domain.WorkoutRecord {
	var all []string
	for _, key := range h.store.Keys() {
		if !keys.IsHistoryKey(key) {
			continue
		}
		all = append(all, h.idsFromEntries(h.loadEntries(key))...)
	}
	return h.resolve(dedupe(all))
}

func (h *historyRepository) resolve(ids []string) []domain.WorkoutRecord {
	seen := make(map[string]struct{}, len(ids))
	out := make([]domain.WorkoutRecord, 0, len(ids))
	for _, id := range ids {
		rec := h.records.Get(id)
		if rec == nil {
			continue
		}
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		out = append(out, *rec)
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders records by createdAt descending. Ties keep index order.
func SortNewestFirst(records []domain.WorkoutRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedTime().After(records[j].CreatedTime())
	})
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
