package leads

import (
	"fmt"

	"lead-sync/core/middleware/auth"
	"lead-sync/core/reconcile"
	"lead-sync/core/server"
	"lead-sync/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	store   *Store
	service *Service
	handler *Handler
	server  server.Config
}

// NewFeature creates the leads feature. archiver may be nil.
func NewFeature(db *gorm.DB, archiver *storage.Archiver, logger *zap.Logger, srv server.Config, cfg reconcile.Config) *Feature {
	store := NewStore(db)
	svc := NewService(store, archiver, logger, cfg)
	return &Feature{
		store:   store,
		service: svc,
		handler: NewHandler(svc),
		server:  srv,
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "leads"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load verifies the leads table and registers the routes.
func (f *Feature) Load(app fiber.Router) error {
	if err := f.store.CheckSchema(); err != nil {
		return err
	}
	guard, err := auth.New(auth.Config{
		Secret:     f.server.WebhookSecret,
		AllowedIPs: f.server.AllowedIPs,
	})
	if err != nil {
		return fmt.Errorf("failed to configure webhook guard: %w", err)
	}
	f.handler.RegisterRoutes(app, guard)
	return nil
}

// Service exposes the sync service for non-HTTP callers.
func (f *Feature) Service() *Service {
	return f.service
}
