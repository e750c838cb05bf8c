package api

import (
	"errors"
	"net/http"
	"strconv"

	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler serves sessions, history, drafts and the current selection.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type SlotRequest struct {
	ProfileID string `json:"profileId" binding:"required"`
	PlanID    string `json:"planId" binding:"required"`
	Week      int    `json:"week" binding:"required,min=1,max=4"`
	Day       int    `json:"day" binding:"required,min=1,max=4"`
}

func (r SlotRequest) slot() domain.Slot {
	return domain.Slot{ProfileID: r.ProfileID, PlanID: r.PlanID, Week: r.Week, Day: r.Day}
}

// SaveWorkoutRequest is a finished session. Weight keys are "<exercise>-<set>"
// or "<exercise>-<set>-<drop>"; values may be strings or numbers.
type SaveWorkoutRequest struct {
	SlotRequest
	Weights    map[string]domain.WeightValue `json:"weights"`
	Checks     map[string]bool               `json:"checks"`
	DateMode   string                        `json:"dateMode" binding:"omitempty,oneof=today yesterday manual"`
	ManualDate string                        `json:"manualDate"` // DD-MM-YYYY
}

type SkipWorkoutRequest struct {
	SlotRequest
	DateMode   string `json:"dateMode" binding:"omitempty,oneof=today yesterday manual"`
	ManualDate string `json:"manualDate"`
}

type FixDateRequest struct {
	Mode       string `json:"mode" binding:"required,oneof=today yesterday manual"`
	ManualDate string `json:"manualDate"`
}

type DraftRequest struct {
	Weights map[string]domain.WeightValue `json:"weights"`
	Checks  map[string]bool               `json:"checks"`
}

type HistoryResponse struct {
	Records  []domain.WorkoutRecord `json:"records"`
	Imported int                    `json:"imported"`
}

// --- Helpers ---

// pathSlot reads :profileId/:planId/:week/:day. Week and day are range-checked by the service.
func pathSlot(c *gin.Context) (domain.Slot, bool) {
	week, errW := strconv.Atoi(c.Param("week"))
	day, errD := strconv.Atoi(c.Param("day"))
	if errW != nil || errD != nil {
		abortWithError(c, http.StatusBadRequest, "Week and day must be numbers")
		return domain.Slot{}, false
	}
	return domain.Slot{ProfileID: c.Param("profileId"), PlanID: c.Param("planId"), Week: week, Day: day}, true
}

// queryScope reads ?profileId=&planId=, both required.
func queryScope(c *gin.Context) (string, string, bool) {
	profileID, planID := c.Query("profileId"), c.Query("planId")
	if profileID == "" || planID == "" {
		abortWithError(c, http.StatusBadRequest, "profileId and planId query parameters are required")
		return "", "", false
	}
	return profileID, planID, true
}

func handleWorkoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSlot):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// --- Selection ---

// GET /api/v1/selection
func (h *WorkoutHandler) GetSelection(c *gin.Context) {
	c.JSON(http.StatusOK, h.workoutService.LoadSelection(c.Request.Context()))
}

// PUT /api/v1/selection
// The stored slot is repaired against the catalog; the response is what was stored.
func (h *WorkoutHandler) PutSelection(c *gin.Context) {
	var req domain.SelectedSlot
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, h.workoutService.SaveSelection(c.Request.Context(), req))
}

// --- Drafts ---

// GET /api/v1/drafts/{profileId}/{planId}/{week}/{day}
func (h *WorkoutHandler) GetDraft(c *gin.Context) {
	slot, ok := pathSlot(c)
	if !ok {
		return
	}
	draft := h.workoutService.LoadDraft(slot)
	if draft == nil {
		abortWithError(c, http.StatusNotFound, "No draft for this day")
		return
	}
	c.JSON(http.StatusOK, draft)
}

// PUT /api/v1/drafts/{profileId}/{planId}/{week}/{day}
func (h *WorkoutHandler) PutDraft(c *gin.Context) {
	slot, ok := pathSlot(c)
	if !ok {
		return
	}
	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	draft := &domain.WorkoutDraft{
		ProfileID: slot.ProfileID,
		PlanID:    slot.PlanID,
		Week:      slot.Week,
		Day:       slot.Day,
		Weights:   req.Weights,
		Checks:    req.Checks,
	}
	if draft.Weights == nil {
		draft.Weights = map[string]domain.WeightValue{}
	}
	if err := h.workoutService.SaveDraft(draft); err != nil {
		handleWorkoutError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DELETE /api/v1/drafts/{profileId}/{planId}/{week}/{day}
func (h *WorkoutHandler) DeleteDraft(c *gin.Context) {
	slot, ok := pathSlot(c)
	if !ok {
		return
	}
	h.workoutService.ClearDraft(slot)
	c.Status(http.StatusNoContent)
}

// --- Workouts ---

// POST /api/v1/workouts
func (h *WorkoutHandler) SaveWorkout(c *gin.Context) {
	var req SaveWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	rec, err := h.workoutService.SaveWorkout(c.Request.Context(), service.SaveWorkoutInput{
		Slot:       req.slot(),
		Weights:    req.Weights,
		Checks:     req.Checks,
		DateMode:   service.DateMode(req.DateMode),
		ManualDate: req.ManualDate,
	})
	if err != nil {
		handleWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// POST /api/v1/workouts/skip
func (h *WorkoutHandler) SkipWorkout(c *gin.Context) {
	var req SkipWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	rec, err := h.workoutService.SkipWorkout(c.Request.Context(), req.slot(), service.DateMode(req.DateMode), req.ManualDate)
	if err != nil {
		handleWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// GET /api/v1/workouts/{id}
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	rec := h.workoutService.GetWorkout(c.Param("id"))
	if rec == nil {
		handleWorkoutError(c, service.ErrWorkoutNotFound)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// PATCH /api/v1/workouts/{id}/date
func (h *WorkoutHandler) FixDate(c *gin.Context) {
	var req FixDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	rec, err := h.workoutService.FixDate(c.Request.Context(), c.Param("id"), service.DateMode(req.Mode), req.ManualDate)
	if err != nil {
		handleWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// DELETE /api/v1/workouts/{id}?profileId=&planId=
// Without a scope the record's own scope is used. Unknown ids still answer 204.
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	id := c.Param("id")
	profileID, planID := c.Query("profileId"), c.Query("planId")
	if profileID == "" || planID == "" {
		if rec := h.workoutService.GetWorkout(id); rec != nil {
			profileID, planID = rec.ProfileID, rec.PlanID
		}
	}
	h.workoutService.DeleteWorkout(c.Request.Context(), profileID, planID, id)
	c.Status(http.StatusNoContent)
}

// --- History ---

// GET /api/v1/history?profileId=&planId=
// Pulls from the remote mirror when signed in, then answers from local storage.
func (h *WorkoutHandler) GetHistory(c *gin.Context) {
	profileID, planID, ok := queryScope(c)
	if !ok {
		return
	}
	records, imported := h.workoutService.History(c.Request.Context(), profileID, planID)
	c.JSON(http.StatusOK, HistoryResponse{Records: records, Imported: imported})
}

// GET /api/v1/history/all
func (h *WorkoutHandler) GetAllHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.workoutService.AllHistory())
}

// GET /api/v1/history/latest?profileId=&planId=&week=&day=
func (h *WorkoutHandler) GetLatest(c *gin.Context) {
	profileID, planID, ok := queryScope(c)
	if !ok {
		return
	}
	week, errW := strconv.Atoi(c.Query("week"))
	day, errD := strconv.Atoi(c.Query("day"))
	if errW != nil || errD != nil {
		abortWithError(c, http.StatusBadRequest, "Week and day must be numbers")
		return
	}

	rec := h.workoutService.LatestForSlot(domain.Slot{ProfileID: profileID, PlanID: planID, Week: week, Day: day})
	if rec == nil {
		abortWithError(c, http.StatusNotFound, "No workout logged for this day")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// --- Plan board ---

// GET /api/v1/plans/{profileId}/{planId}/board
func (h *WorkoutHandler) GetBoard(c *gin.Context) {
	c.JSON(http.StatusOK, h.workoutService.Board(c.Param("profileId"), c.Param("planId")))
}

// GET /api/v1/plans/{profileId}/{planId}/weeks/{week}/statuses
func (h *WorkoutHandler) GetWeekStatuses(c *gin.Context) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Week must be a number")
		return
	}
	c.JSON(http.StatusOK, h.workoutService.WeekStatuses(c.Param("profileId"), c.Param("planId"), week))
}

// GET /api/v1/plans/{profileId}/{planId}/next?week=&day=
func (h *WorkoutHandler) GetNextSlot(c *gin.Context) {
	week, errW := strconv.Atoi(c.Query("week"))
	day, errD := strconv.Atoi(c.Query("day"))
	if errW != nil || errD != nil {
		abortWithError(c, http.StatusBadRequest, "Week and day must be numbers")
		return
	}
	slot := domain.Slot{ProfileID: c.Param("profileId"), PlanID: c.Param("planId"), Week: week, Day: day}
	c.JSON(http.StatusOK, h.workoutService.NextSlot(slot))
}
