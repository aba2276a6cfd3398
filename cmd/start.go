package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"rental-manager/core/config"
	"rental-manager/core/database"
	"rental-manager/core/loader"
	"rental-manager/core/logger"
	"rental-manager/core/middleware/auth"
	"rental-manager/core/middleware/rayid"
	"rental-manager/core/storage"

	"rental-manager/feature/calendar"
	"rental-manager/feature/calendar/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "rental-manager/docs/swagger"
)

// @title Rental Manager API
// @version 1.0
// @description Calendar synchronization service for rental listings.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the rental manager server",
	Long:  `Starts the HTTP server, the sync scheduler, and all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (Required)
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := db.AutoMigrate(&models.Listing{}, &models.Reservation{}); err != nil {
			logg.Fatal("Failed to run migrations", zap.Error(err))
		}

		// 4. Initialize Storage (Optional feed archive)
		var archive *calendar.Archive
		if cfg.Storage.Enabled {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			archive = calendar.NewArchive(client, cfg.Storage, logg)
			logg.Info("Feed archive enabled", zap.String("bucket", cfg.Storage.Bucket))
		}

		// 5. Build the sync service
		store := calendar.NewStore(db)
		fetcher := calendar.NewFetcher(cfg.Sync)
		normalizer := calendar.NewNormalizer(cfg.Sync, logg)
		engine := calendar.NewEngine(store, logg)
		service := calendar.NewService(store, fetcher, normalizer, engine, archive, logg)

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 7. Register Features
		mgr := loader.NewManager()
		mgr.Register(calendar.NewFeature(service))

		// Middleware Registration
		// RayID first so every request is traceable.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start the sync scheduler
		var scheduler *calendar.Scheduler
		if cfg.Sync.CronEnabled {
			scheduler = calendar.NewScheduler(service, archive, cfg.Sync.CronSpec, logg)
			if err := scheduler.Start(); err != nil {
				logg.Fatal("Failed to start scheduler", zap.Error(err))
			}
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		if scheduler != nil {
			scheduler.Stop()
		}
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
