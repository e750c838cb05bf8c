// Package app wires configuration into the running set of stores, mirrors and
// services shared by the HTTP server and the CLI.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"alcyxob/gym-tracker/internal/auth"
	"alcyxob/gym-tracker/internal/config"
	"alcyxob/gym-tracker/internal/kv"
	"alcyxob/gym-tracker/internal/repository"
	"alcyxob/gym-tracker/internal/repository/local"
	"alcyxob/gym-tracker/internal/repository/mongo"
	"alcyxob/gym-tracker/internal/repository/postgres"
	"alcyxob/gym-tracker/internal/service"
	"alcyxob/gym-tracker/internal/storage"
)

// App holds every long-lived component. Close releases them in reverse order.
type App struct {
	Config config.Config

	Store    kv.Backend
	Records  repository.RecordRepository
	History  repository.HistoryRepository
	Migrator repository.Migrator

	CatalogSource storage.CatalogSource // nil when the configured source could not be built
	Catalog       service.CatalogService
	Mirror        service.MirrorClient
	Pusher        service.Pusher
	Sync          service.SyncService
	Workouts      service.WorkoutService
	Progress      service.ProgressService
	Verifier      auth.Verifier

	closers []func()
}

// Open builds the App. Neither a missing local store nor an unreachable remote
// stops startup: the first runs without persistence, the second local-only.
// Only an invalid configuration is an error.
func Open(ctx context.Context, cfg config.Config) (*App, error) {
	a := &App{Config: cfg}

	// --- Local store ---
	a.Store = kv.OpenOrNop(cfg.Store)
	a.closers = append(a.closers, func() {
		if err := a.Store.Close(); err != nil {
			log.Printf("ERROR: Failed to close local store: %v", err)
		}
	})
	a.Migrator = local.NewMigrator(a.Store)
	log.Printf("INFO: Local store at schema v%d.", a.Migrator.MigrateIfNeeded())

	a.Records = local.NewRecordRepository(a.Store)
	a.History = local.NewHistoryRepository(a.Store, a.Records)

	// --- Catalog ---
	source, err := storage.NewCatalogSource(cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("catalog source: %w", err)
	}
	a.CatalogSource = source
	a.Catalog = service.NewCatalogService(source, local.NewRoutineCache(a.Store))

	// --- Remote mirror ---
	backend, err := a.openMirror(ctx, cfg.Remote)
	if err != nil {
		log.Printf("WARN: Remote mirror unavailable, running local-only: %v", err)
		backend = nil
	}
	a.Mirror = service.NewMirrorClient(backend, cfg.Remote.FetchLimit, cfg.Remote.Timeout)
	a.Pusher = service.NewPusher(a.Mirror, cfg.Push)
	// Registered after the backend so queued pushes drain before it disconnects.
	a.closers = append(a.closers, a.Pusher.Close)

	// --- Services ---
	a.Sync = service.NewSyncService(a.Mirror, a.Records, a.History)
	a.Workouts = service.NewWorkoutService(
		a.Records,
		a.History,
		local.NewDraftRepository(a.Store),
		local.NewSelectionRepository(a.Store),
		a.Catalog,
		a.Sync,
		a.Pusher,
	)
	a.Progress = service.NewProgressService(a.History)
	a.Verifier = auth.NewVerifier(cfg.Auth.JWTSecret)

	return a, nil
}

// openMirror connects the backend named by cfg.Driver. It returns nil, nil
// when no remote is configured.
func (a *App) openMirror(ctx context.Context, cfg config.RemoteConfig) (repository.WorkoutMirror, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	switch cfg.Driver {
	case "mongo":
		client, err := mongo.ConnectDB(cfg.URI, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() {
			log.Println("Disconnecting MongoDB...")
			if err := mongo.DisconnectDB(client); err != nil {
				log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
			}
		})
		db := client.Database(cfg.Database)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
			defer cancel()
			mongo.EnsureWorkoutIndexes(ctx, db)
		}()
		log.Printf("INFO: Remote mirror: mongo database %q.", cfg.Database)
		return mongo.NewMongoWorkoutMirror(db), nil

	case "postgres":
		db, err := postgres.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		a.closers = append(a.closers, closeSQL(db))
		log.Println("INFO: Remote mirror: postgres.")
		return postgres.NewWorkoutMirror(db), nil

	default:
		return nil, fmt.Errorf("unknown remote driver %q", cfg.Driver)
	}
}

func closeSQL(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			log.Printf("ERROR: Failed to close postgres: %v", err)
		}
	}
}

// Close drains the push queue and releases the remote and local stores.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
