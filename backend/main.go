package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillnexis/backend/config"
	"skillnexis/backend/routes"
	"skillnexis/backend/services"
	"skillnexis/backend/store"
	"skillnexis/backend/utils"
)

func openStore(cfg *config.Config, logger *log.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case "postgres":
		db, err := store.OpenPostgres(cfg.DSN(), logger)
		if err != nil {
			return nil, err
		}
		return store.NewGormStore(db)
	default:
		logger.Printf("[STORE] Using in-memory store, data is lost on restart")
		return store.NewMemoryStore(), nil
	}
}

func newMailer(cfg *config.Config, logger *log.Logger) services.Mailer {
	if cfg.BrevoAPIKey == "" {
		logger.Printf("[EMAIL] BREVO_API_KEY not set, contact messages are only logged")
		return &services.LogMailer{Logger: logger}
	}
	return services.NewBrevoMailer(cfg.BrevoAPIKey, cfg.BrevoAPIURL)
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{
		Format:       cfg.LogFormat,
		EnableColors: cfg.LogColors,
	})

	loc, err := time.LoadLocation(cfg.StatsTimezone)
	if err != nil {
		log.Fatalf("Invalid STATS_TIMEZONE %q: %v", cfg.StatsTimezone, err)
	}

	// Initialize store
	st, err := openStore(cfg, logger)
	if err != nil {
		log.Fatalf("Error initializing store: %v", err)
	}

	data := services.NewAdminDataManager(st, logger, services.WithStatsLocation(loc))
	if cfg.SeedSampleData {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := services.SeedSampleData(ctx, data); err != nil {
			logger.Printf("[SEED] Error loading sample data: %v", err)
		}
		cancel()
	}

	auth, err := services.NewAuthService(data, services.NewSessionStore(st), cfg.AdminEmail, cfg.AdminPassword, logger)
	if err != nil {
		log.Fatalf("Error initializing auth: %v", err)
	}

	practice, err := services.NewPracticeService(st, logger)
	if err != nil {
		log.Fatalf("Error loading practice challenges: %v", err)
	}

	var watcher store.Watcher
	if w, ok := st.(store.Watcher); ok {
		watcher = w
	}

	svc := &routes.Services{
		Data:     data,
		Auth:     auth,
		Progress: services.NewProgressService(data, logger, cfg.CertificatePrefix),
		Catalog:  services.NewCourseCatalog(data, watcher, logger),
		Contact: services.NewContactService(newMailer(cfg, logger), services.ContactConfig{
			FromName:     cfg.FromName,
			FromEmail:    cfg.FromEmail,
			ContactEmail: cfg.ContactEmail,
		}, logger),
		Practice: practice,
	}

	scheduler, err := services.StartStatsScheduler(data, cfg.StatsCron, loc, logger)
	if err != nil {
		log.Fatalf("Error starting stats scheduler: %v", err)
	}

	app := routes.NewApp(cfg, svc, logger)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit

		logger.Printf("Shutting down...")
		<-scheduler.Stop().Done()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Printf("Error during shutdown: %v", err)
		}
	}()

	// Start server
	logger.Printf("Listening on :%s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		log.Fatal(err)
	}
}
