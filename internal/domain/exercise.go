// internal/domain/exercise.go
package domain

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ExerciseType distinguishes straight sets from drop sets.
type ExerciseType string

const (
	ExerciseNormal  ExerciseType = "normal"
	ExerciseDropset ExerciseType = "dropset"
)

var dropRepsPattern = regexp.MustCompile(`^\d+\+\d+\+\d+$`)

// IsDropReps reports whether a rep scheme is a triple drop ("12+10+8").
// Only JSON string rep schemes can describe drops.
func IsDropReps(reps json.RawMessage) bool {
	var s string
	if len(reps) == 0 || json.Unmarshal(reps, &s) != nil {
		return false
	}
	return dropRepsPattern.MatchString(strings.Join(strings.Fields(s), ""))
}

// ExerciseSnapshot is the catalog exercise as it looked when a session was saved.
// It is never updated when the catalog changes later.
type ExerciseSnapshot struct {
	Name string          `json:"name"`
	Reps json.RawMessage `json:"reps,omitempty"` // number | number[] | string, kept verbatim
	Sets *int            `json:"sets"`
	Type ExerciseType    `json:"type,omitempty"`
}

func (e ExerciseSnapshot) Clone() ExerciseSnapshot {
	out := e
	if e.Reps != nil {
		out.Reps = append(json.RawMessage(nil), e.Reps...)
	}
	if e.Sets != nil {
		n := *e.Sets
		out.Sets = &n
	}
	return out
}
