// Package keys derives every storage key the app uses and owns the table of
// renamed plan identifiers. Nothing here touches storage.
package keys

import (
	"sort"
	"strconv"
	"strings"
)

const (
	prefix           = "gym:"
	routineKey       = prefix + "routine"
	selectionKey     = prefix + "selection"
	versionKey       = prefix + "version"
	draftPrefix      = prefix + "draft:"
	historyPrefix    = prefix + "history:"
	workoutKeyPrefix = prefix + "workout:"
)

// planAliases maps historical plan ids to their current id.
var planAliases = map[string]string{
	"cecilia-2026-06": "cecilia-rutina-6",
	"gabriel-2026-01": "gabriel-rutina-1",
}

// componentEscaper keeps composite keys injective when ids contain the
// separator. Ids without ':' or '%' are left untouched, so existing keys are stable.
var componentEscaper = strings.NewReplacer("%", "%25", ":", "%3A")

func component(s string) string {
	return componentEscaper.Replace(s)
}

// RoutineKey is where the cached plan catalog lives.
func RoutineKey() string { return routineKey }

// SelectionKey is where the current SelectedSlot lives.
func SelectionKey() string { return selectionKey }

// VersionKey is where the migration stamp lives.
func VersionKey() string { return versionKey }

func DraftKey(profileID, planID string, week, day int) string {
	return draftPrefix + component(profileID) + ":" + component(planID) + ":" +
		strconv.Itoa(week) + ":" + strconv.Itoa(day)
}

func HistoryKey(profileID, planID string) string {
	return historyPrefix + component(profileID) + ":" + component(planID)
}

// HistoryPrefix is shared by every history index key.
func HistoryPrefix() string { return historyPrefix }

// IsHistoryKey reports whether key belongs to a history index.
func IsHistoryKey(key string) bool {
	return strings.HasPrefix(key, historyPrefix)
}

// RecordKey is the storage key of a single workout record.
func RecordKey(id string) string {
	return workoutKeyPrefix + id
}

// CanonicalPlanID resolves a renamed plan id to its current form.
// Unknown ids pass through unchanged.
func CanonicalPlanID(planID string) string {
	if canonical, ok := planAliases[planID]; ok {
		return canonical
	}
	return planID
}

// LegacyPlanIDs lists every historical id that aliases to planID's canonical form,
// in a stable order. The result may be empty.
func LegacyPlanIDs(planID string) []string {
	canonical := CanonicalPlanID(planID)
	var out []string
	for old, current := range planAliases {
		if current == canonical {
			out = append(out, old)
		}
	}
	sort.Strings(out)
	return out
}

// AllPlanIDs is the canonical id followed by its legacy aliases.
func AllPlanIDs(planID string) []string {
	canonical := CanonicalPlanID(planID)
	return append([]string{canonical}, LegacyPlanIDs(canonical)...)
}
