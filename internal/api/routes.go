package api

import (
	"net/http"

	"alcyxob/gym-tracker/internal/auth"
	"alcyxob/gym-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	verifier auth.Verifier,
	workoutService service.WorkoutService,
	catalogService service.CatalogService,
	progressService service.ProgressService,
) {
	workoutHandler := NewWorkoutHandler(workoutService)
	catalogHandler := NewCatalogHandler(catalogService)
	progressHandler := NewProgressHandler(progressService)

	router.Use(RequestIDMiddleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	apiV1.Use(IdentityMiddleware(verifier))
	{
		// --- Selection ---
		apiV1.GET("/selection", workoutHandler.GetSelection)
		apiV1.PUT("/selection", workoutHandler.PutSelection)

		// --- Drafts ---
		// /api/v1/drafts/{profileId}/{planId}/{week}/{day}
		drafts := apiV1.Group("/drafts/:profileId/:planId/:week/:day")
		{
			drafts.GET("", workoutHandler.GetDraft)
			drafts.PUT("", workoutHandler.PutDraft)
			drafts.DELETE("", workoutHandler.DeleteDraft)
		}

		// --- Workouts ---
		workouts := apiV1.Group("/workouts")
		{
			workouts.POST("", workoutHandler.SaveWorkout)
			workouts.POST("/skip", workoutHandler.SkipWorkout)
			workouts.GET("/:id", workoutHandler.GetWorkout)
			workouts.PATCH("/:id/date", workoutHandler.FixDate)
			workouts.DELETE("/:id", workoutHandler.DeleteWorkout)
		}

		// --- History ---
		// Scope comes from ?profileId=&planId=
		history := apiV1.Group("/history")
		{
			history.GET("", workoutHandler.GetHistory)
			history.GET("/all", workoutHandler.GetAllHistory)
			history.GET("/latest", workoutHandler.GetLatest)
		}

		// --- Plan board ---
		plans := apiV1.Group("/plans/:profileId/:planId")
		{
			plans.GET("/board", workoutHandler.GetBoard)
			plans.GET("/weeks/:week/statuses", workoutHandler.GetWeekStatuses)
			plans.GET("/next", workoutHandler.GetNextSlot)
		}

		// --- Catalog ---
		catalog := apiV1.Group("/catalog")
		{
			catalog.GET("", catalogHandler.GetRoutine)
			catalog.GET("/:profileId/:planId/weeks/:week/days/:day", catalogHandler.GetDay)
		}

		// --- Progress ---
		progress := apiV1.Group("/progress")
		{
			progress.GET("", progressHandler.GetProgress)
			progress.GET("/exercises", progressHandler.GetExercises)
			progress.GET("/summary", progressHandler.GetSummary)
		}
	}
}
