package domain

// Slot is a (profile, plan, week, day) coordinate: one training day of a plan.
type Slot struct {
	ProfileID string `json:"profileId"`
	PlanID    string `json:"planId"`
	Week      int    `json:"week"`
	Day       int    `json:"day"`
}

// Week and day numbers run from 1 to MaxWeekDay inclusive.
const MaxWeekDay = 4

// Valid reports whether the slot names a profile and plan and sits inside the 4x4 grid.
func (s Slot) Valid() bool {
	return s.ProfileID != "" && s.PlanID != "" &&
		s.Week >= 1 && s.Week <= MaxWeekDay &&
		s.Day >= 1 && s.Day <= MaxWeekDay
}

// SelectedSlot is the process-wide "where is the user right now" pointer.
type SelectedSlot = Slot

// WorkoutDraft is the unsaved, in-progress entry state for one slot.
type WorkoutDraft struct {
	Version   int                    `json:"version,omitempty"`
	ProfileID string                 `json:"profileId"`
	PlanID    string                 `json:"planId"`
	Week      int                    `json:"week"`
	Day       int                    `json:"day"`
	UpdatedAt string                 `json:"updatedAt"`
	Weights   map[string]WeightValue `json:"weights"`
	Checks    map[string]bool        `json:"checks,omitempty"`
}

func (d *WorkoutDraft) Slot() Slot {
	return Slot{ProfileID: d.ProfileID, PlanID: d.PlanID, Week: d.Week, Day: d.Day}
}
