package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"lead-sync/core/config"
	"lead-sync/core/database"
	"lead-sync/core/loader"
	"lead-sync/core/logger"
	"lead-sync/core/middleware/rayid"
	"lead-sync/core/storage"
	"lead-sync/core/telemetry"

	"lead-sync/feature/leads"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "lead-sync/docs/swagger"
)

// @title Lead Sync API
// @version 1.0
// @description Full-replace synchronization of leads pushed by an external source.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the lead sync server",
	Long:  `Starts the HTTP server serving the sync webhook, the read endpoints and /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		shutdownTelemetry, err := telemetry.Setup(context.Background(), cfg.Telemetry)
		if err != nil {
			logg.Warn("Telemetry disabled", zap.Error(err))
		}
		defer func() { _ = shutdownTelemetry(context.Background()) }()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

		archiver := newArchiver(cfg, logg)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager(logg)
		mgr.Register(leads.NewFeature(db, archiver, logg, cfg.Server, cfg.Sync))

		// RayID first so every log line of a request carries it.
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

		// Public endpoints.
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
		app.Get("/healthz", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})

		if !cfg.Server.WebhookProtected() {
			logg.Warn("Sync webhook is unauthenticated; set SERVER_WEBHOOK_SECRET or SERVER_ALLOWED_IPS to protect it")
		}

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

// newArchiver returns the snapshot archiver, or nil when archiving is off
// or object storage is unreachable.
func newArchiver(cfg *config.Config, logg *zap.Logger) *storage.Archiver {
	if !cfg.Storage.Archive {
		return nil
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		logg.Warn("Snapshot archive disabled", zap.Error(err))
		return nil
	}

	archiver := storage.NewArchiver(client, cfg.Storage.Bucket, cfg.Storage.ArchivePrefix)
	if err := archiver.EnsureBucket(context.Background()); err != nil {
		logg.Warn("Snapshot archive disabled", zap.Error(err))
		return nil
	}
	logg.Info("Snapshot archive enabled", zap.String("bucket", cfg.Storage.Bucket))
	return archiver
}

func init() {
	RootCmd.AddCommand(startCmd)
}
