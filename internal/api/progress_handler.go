package api

import (
	"net/http"

	"alcyxob/gym-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// GET /api/v1/progress/exercises?profileId=
func (h *ProgressHandler) GetExercises(c *gin.Context) {
	profileID := c.Query("profileId")
	if profileID == "" {
		abortWithError(c, http.StatusBadRequest, "profileId query parameter is required")
		return
	}
	c.JSON(http.StatusOK, gin.H{"exercises": h.progressService.Exercises(profileID)})
}

// GET /api/v1/progress?profileId=&exercise=
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	profileID, exercise := c.Query("profileId"), c.Query("exercise")
	if profileID == "" || exercise == "" {
		abortWithError(c, http.StatusBadRequest, "profileId and exercise query parameters are required")
		return
	}
	c.JSON(http.StatusOK, h.progressService.Progress(profileID, exercise))
}

// GET /api/v1/progress/summary?profileId=&planId=
func (h *ProgressHandler) GetSummary(c *gin.Context) {
	profileID, planID, ok := queryScope(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"exercises": h.progressService.Summary(profileID, planID)})
}
