// Package main is the entry point for the LuxPlan server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/luxplan/luxplan-go/internal/api"
	"github.com/luxplan/luxplan-go/internal/config"
	"github.com/luxplan/luxplan-go/internal/database"
	"github.com/luxplan/luxplan-go/internal/database/models"
	"github.com/luxplan/luxplan-go/internal/database/repositories"
	"github.com/luxplan/luxplan-go/internal/services/library"
	"github.com/luxplan/luxplan-go/internal/services/placement"
	"github.com/luxplan/luxplan-go/internal/services/pubsub"
	"github.com/luxplan/luxplan-go/internal/services/solver"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Print startup banner
	printBanner(cfg)

	// Connect to database
	db, err := database.Connect(database.Config{
		URL:         cfg.DatabaseURL,
		MaxIdleConn: cfg.DBMaxIdleConn,
		MaxOpenConn: cfg.DBMaxOpenConn,
		Debug:       cfg.DBDebug,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close() }()

	// Auto-migrate database schema
	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&models.FixtureRecord{},
		&models.PhotometricEntry{},
		&models.Setting{},
		&models.ProfileImportMeta{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if err := normalizeLegacyCurveTypes(db); err != nil {
		log.Printf("Warning: failed to normalize stored curve types: %v", err)
	}
	log.Println("Database migrations complete")

	// Repositories and profile library
	profileRepo := repositories.NewProfileRepository(db)
	settingRepo := repositories.NewSettingRepository(db)
	libraryService := library.NewService(db, profileRepo)

	// Import profile documents dropped into the library directory
	if cfg.ProfileLibraryEnabled {
		loader := library.NewLoader(libraryService, profileRepo, settingRepo, cfg.ProfileLibraryPath)
		if _, err := loader.LoadDirectory(context.Background()); err != nil {
			log.Printf("Warning: profile library import failed: %v", err)
		}
	}

	// Load last import time from database
	if saved, err := settingRepo.FindByKey(context.Background(), library.LastImportSettingKey); err == nil && saved != nil && saved.Value != "" {
		log.Printf("📡 Last profile library import: %s", saved.Value)
	}

	// Assemble the runtime catalog: built-ins plus stored profiles. The
	// catalog never mutates while serving.
	catalog, err := libraryService.BuildCatalog(context.Background())
	if err != nil {
		log.Fatalf("Failed to build fixture catalog: %v", err)
	}
	log.Printf("✅ Fixture catalog ready with %d lights", catalog.Len())

	// Core services
	solverService := solver.New(catalog)
	events := pubsub.New()
	placements := placement.NewService(solverService, events, cfg.SessionTimeout)

	// Router
	handler := api.NewHandler(solverService, placements, events, Version)
	router := api.NewRouter(cfg, handler)

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on http://localhost:%s\n", cfg.Port)
		log.Printf("Calculate endpoint: http://localhost:%s/api/calculate\n", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// normalizeLegacyCurveTypes rewrites curve_type values left in their
// lowercase wire form by imports that predate column normalization.
func normalizeLegacyCurveTypes(db *gorm.DB) error {
	if !db.Migrator().HasTable("fixture_records") {
		return nil
	}
	return db.Exec("UPDATE fixture_records SET curve_type = UPPER(curve_type) WHERE curve_type <> UPPER(curve_type)").Error
}

// printBanner prints the startup banner.
func printBanner(cfg *config.Config) {
	fmt.Println("============================================")
	fmt.Println("  LuxPlan Go Server")
	fmt.Printf("  Version: %s\n", Version)
	fmt.Printf("  Build:   %s\n", BuildTime)
	fmt.Printf("  Commit:  %s\n", GitCommit)
	fmt.Println("============================================")
	fmt.Printf("  Environment: %s\n", cfg.Env)
	fmt.Printf("  Port:        %s\n", cfg.Port)
	fmt.Printf("  Database:    %s\n", cfg.DatabaseURL)
	fmt.Printf("  Profiles:    %v\n", cfg.ProfileLibraryEnabled)
	fmt.Println("============================================")
}
