package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyhub/internal/config"
	"studyhub/internal/db"
	"studyhub/internal/email"
	"studyhub/internal/jobs"
	"studyhub/internal/keywords"
	"studyhub/internal/metrics"
	"studyhub/internal/models"
	"studyhub/internal/server"
	"studyhub/internal/storage"
	"studyhub/internal/validation"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Seed categories from YAML if configured
	if cfg.CategorySeedFile != "" {
		if err := seedCategories(ctx, database, cfg.CategorySeedFile); err != nil {
			log.Fatalf("Failed to seed categories: %v", err)
		}
	}

	// Object storage
	store, err := storage.New(ctx, storage.Config{
		Endpoint:  cfg.StorageEndpoint,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.StorageBucket,
		UseSSL:    cfg.StorageUseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	// Keyword usage ledger and its Prometheus collector
	tracker := keywords.NewTracker(database)
	metrics.Init(database)

	// Background sweep of exhausted ledger rows
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if cfg.SweepInterval != "" {
		interval, err := time.ParseDuration(cfg.SweepInterval)
		if err != nil {
			log.Fatalf("Invalid SWEEP_INTERVAL %q: %v", cfg.SweepInterval, err)
		}
		go jobs.NewSweeper(database, interval).Start(sweepCtx)
	}

	// Email notifications
	notifier := email.NewNotifier(cfg, database)
	if !cfg.EmailEnabled() {
		log.Println("Email notifications are disabled. Set SMTP_HOST and SMTP_FROM to enable.")
	}

	// HTTP server
	srv := server.New(cfg)
	if err := srv.RegisterRoutes(ctx, database, store, tracker, notifier); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopSweep()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

// seedCategories loads the YAML seed file and inserts any categories not
// already present.
func seedCategories(ctx context.Context, database *db.DB, path string) error {
	seeds, err := config.LoadCategorySeed(path)
	if err != nil {
		return err
	}
	for _, s := range seeds {
		cat := &models.Category{
			NameEn:      s.NameEn,
			NameVi:      s.NameVi,
			SlugEn:      validation.Slugify(s.NameEn),
			SlugVi:      validation.Slugify(s.NameVi),
			Description: s.Description,
			Keywords:    keywords.CleanList(s.Keywords),
		}
		if err := database.SeedCategory(ctx, cat); err != nil {
			return err
		}
	}
	log.Printf("Seeded %d categories from %s", len(seeds), path)
	return nil
}
