package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"acem-epargne/internal/adapters/http/middleware"
	"acem-epargne/internal/adapters/http/routes"
	"acem-epargne/internal/adapters/persistence/models"
	"acem-epargne/internal/adapters/persistence/repositories"
	"acem-epargne/internal/config"
	"acem-epargne/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Build the record store: MySQL primary with a local file fallback
	store := buildRecordStore(cfg)

	// Seed demo data (SEED_DEMO=true)
	if cfg.SeedDemo {
		if err := config.SeedDemoData(store); err != nil {
			log.Printf("⚠️ Warning: Failed to seed demo data: %v", err)
		}
	}

	// Wire services
	svc := routes.BuildServices(store)

	// Start the change-detection scan scheduler
	cronService := services.NewCronService(svc.Notifier, cfg.Scan.Interval)
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "ACEM Épargne API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, store, svc)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// buildRecordStore connects MySQL and wraps it with the file-store
// fallback. When the database is unreachable at boot the file store takes
// over directly instead of aborting startup.
func buildRecordStore(cfg *config.Config) repositories.RecordStore {
	fileStore, err := repositories.NewFileRecordStore(cfg.Store.DataDir)
	if err != nil {
		log.Fatalf("❌ Failed to open local record store: %v", err)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Printf("⚠️ Database unreachable, running on local store: %v", err)
		return fileStore
	}

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	return repositories.NewFailoverStore(repositories.NewGormRecordStore(db), fileStore)
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}

	config.CloseDatabase()
	log.Println("✅ Server stopped gracefully")
}
