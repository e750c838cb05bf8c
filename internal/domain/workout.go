package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DataVersion is the schema stamp written on records and drafts.
const DataVersion = 2

// Completion is the tri-state "was this session trained" signal carried by a record.
// It is stored as an optional JSON boolean: absent = unknown, true = done, false = skipped.
type Completion int

const (
	CompletionUnknown Completion = iota
	CompletionDone
	CompletionSkipped
)

// MarshalJSON writes Done as true and Skipped as false. Unknown is the zero value,
// so `omitempty` drops the field entirely.
func (c Completion) MarshalJSON() ([]byte, error) {
	switch c {
	case CompletionDone:
		return []byte("true"), nil
	case CompletionSkipped:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts true, false or null.
func (c *Completion) UnmarshalJSON(data []byte) error {
	var v *bool
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("completed: %w", err)
	}
	switch {
	case v == nil:
		*c = CompletionUnknown
	case *v:
		*c = CompletionDone
	default:
		*c = CompletionSkipped
	}
	return nil
}

func (c Completion) String() string {
	switch c {
	case CompletionDone:
		return "done"
	case CompletionSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// WorkoutRecord is one logged (or explicitly skipped) training session.
// The JSON shape is shared by local storage and the remote mirror payload.
type WorkoutRecord struct {
	Version           int                               `json:"version,omitempty"`
	ID                string                            `json:"id"`
	ProfileID         string                            `json:"profileId"`
	PlanID            string                            `json:"planId"` // Always canonical once written
	Week              int                               `json:"week"`
	Day               int                               `json:"day"`
	CreatedAt         string                            `json:"createdAt"` // Logical session date (ISO-8601), correctable
	Exercises         []ExerciseSnapshot                `json:"exercises"`
	ExerciseNames     []string                          `json:"exerciseNames"`
	Weights           map[string]WeightValue            `json:"weights"`
	WeightsByExercise map[string]map[string]WeightValue `json:"weightsByExercise"`
	Checks            map[string]bool                   `json:"checks"`
	Completed         Completion                        `json:"completed,omitempty"`
}

// CreatedTime parses CreatedAt. Unparseable dates sort as the zero time.
func (w *WorkoutRecord) CreatedTime() time.Time {
	return ParseISO(w.CreatedAt)
}

// IsSkipped reports whether the session was explicitly marked as not trained.
func (w *WorkoutRecord) IsSkipped() bool {
	return w.Completed == CompletionSkipped
}

// Slot returns the catalog slot this record belongs to.
func (w *WorkoutRecord) Slot() Slot {
	return Slot{ProfileID: w.ProfileID, PlanID: w.PlanID, Week: w.Week, Day: w.Day}
}

// Clone returns a deep copy so callers can mutate without touching cached values.
func (w *WorkoutRecord) Clone() *WorkoutRecord {
	if w == nil {
		return nil
	}
	out := *w
	if w.Exercises != nil {
		out.Exercises = make([]ExerciseSnapshot, len(w.Exercises))
		for i, ex := range w.Exercises {
			out.Exercises[i] = ex.Clone()
		}
	}
	if w.ExerciseNames != nil {
		out.ExerciseNames = append([]string(nil), w.ExerciseNames...)
	}
	if w.Weights != nil {
		out.Weights = make(map[string]WeightValue, len(w.Weights))
		for k, v := range w.Weights {
			out.Weights[k] = v
		}
	}
	if w.WeightsByExercise != nil {
		out.WeightsByExercise = make(map[string]map[string]WeightValue, len(w.WeightsByExercise))
		for name, sets := range w.WeightsByExercise {
			inner := make(map[string]WeightValue, len(sets))
			for k, v := range sets {
				inner[k] = v
			}
			out.WeightsByExercise[name] = inner
		}
	}
	if w.Checks != nil {
		out.Checks = make(map[string]bool, len(w.Checks))
		for k, v := range w.Checks {
			out.Checks[k] = v
		}
	}
	return &out
}

// ISO formats t the way records store dates (UTC, millisecond precision).
func ISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// Forms older clients wrote besides full RFC 3339. A bare date is UTC midnight;
// a date-time without a zone is wall-clock local time.
var (
	dateOnlyLayout  = "2006-01-02"
	localTimeLayout = []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04"}
)

// ParseISO parses an ISO-8601 timestamp, returning the zero time on failure.
func ParseISO(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		return t
	}
	for _, layout := range localTimeLayout {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}
