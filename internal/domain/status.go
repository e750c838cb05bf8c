package domain

// SessionStatus is what a record says about its slot on the week board.
type SessionStatus string

const (
	StatusDone    SessionStatus = "done"
	StatusSkipped SessionStatus = "skipped"
	// StatusNone means the record carries no evidence either way and is ignored.
	StatusNone SessionStatus = ""
)

// Status derives the board status. An explicit completed flag wins; otherwise
// any logged weight or ticked check counts as a trained session.
func (w *WorkoutRecord) Status() SessionStatus {
	switch w.Completed {
	case CompletionSkipped:
		return StatusSkipped
	case CompletionDone:
		return StatusDone
	}
	if len(w.Weights) > 0 {
		return StatusDone
	}
	for _, bySet := range w.WeightsByExercise {
		if len(bySet) > 0 {
			return StatusDone
		}
	}
	for _, checked := range w.Checks {
		if checked {
			return StatusDone
		}
	}
	return StatusNone
}
