package api

import (
	"net/http"

	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes the read-only plan catalog.
type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// DayExerciseResponse is a catalog exercise with its set and drop counts resolved.
type DayExerciseResponse struct {
	domain.RoutineExercise
	SetCount  int    `json:"setCount"`
	DropCount int    `json:"dropCount"`
	Group     string `json:"group,omitempty"` // combined group label when part of one
}

type DayResponse struct {
	Exercises      []DayExerciseResponse `json:"exercises"`
	CombinedGroups [][]string            `json:"combinedGroups"`
}

// GET /api/v1/catalog
func (h *CatalogHandler) GetRoutine(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogService.Routine(c.Request.Context()))
}

// GET /api/v1/catalog/{profileId}/{planId}/weeks/{week}/days/{day}
func (h *CatalogHandler) GetDay(c *gin.Context) {
	slot, ok := pathSlot(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	exercises := h.catalogService.DayExercises(ctx, slot.ProfileID, slot.PlanID, slot.Week, slot.Day)
	if exercises == nil {
		abortWithError(c, http.StatusNotFound, "Day not found in catalog")
		return
	}
	groups := h.catalogService.CombinedGroups(ctx, slot.ProfileID, slot.PlanID, slot.Week, slot.Day)
	if groups == nil {
		groups = [][]string{}
	}
	defaultSets := h.catalogService.Routine(ctx).DefaultSetsIfMissing

	resp := DayResponse{Exercises: make([]DayExerciseResponse, len(exercises)), CombinedGroups: groups}
	for i, ex := range exercises {
		resp.Exercises[i] = DayExerciseResponse{
			RoutineExercise: ex,
			SetCount:        ex.SetCount(defaultSets),
			DropCount:       ex.DropCount(),
			Group:           service.FindCombinedGroup(ex.Name, groups),
		}
	}
	c.JSON(http.StatusOK, resp)
}
