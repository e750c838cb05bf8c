package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/gym-tracker/internal/api"
	"alcyxob/gym-tracker/internal/app"
	"alcyxob/gym-tracker/internal/config"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Gym Tracker Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Printf("Configuration loaded (store=%s, remote=%s, catalog=%s).", cfg.Store.Driver, cfg.Remote.Driver, cfg.Catalog.Source)

	// --- Stores, mirror and services ---
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	application, err := app.Open(startCtx, cfg)
	cancelStart()
	if err != nil {
		log.Fatalf("FATAL: Could not initialize: %v", err)
	}
	defer func() {
		log.Println("Draining remote pushes and closing stores...")
		application.Close()
	}()

	// Warm the catalog so the first request does not pay for it.
	warmCtx, cancelWarm := context.WithTimeout(context.Background(), 30*time.Second)
	catalog := application.Catalog.Routine(warmCtx)
	cancelWarm()
	log.Printf("Plan catalog ready (%d profiles).", len(catalog.Profiles))

	// --- Initialize Gin Engine ---
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, application.Verifier, application.Workouts, application.Catalog, application.Progress)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // history requests may wait on a remote pull
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		log.Printf("ERROR: ListenAndServe Error: %v", err)
	}
	log.Println("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the requests it is currently handling
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
