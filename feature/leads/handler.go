package leads

import (
	"errors"

	"lead-sync/core/logger"
	"lead-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SyncResponse is the body returned by POST /sync/leads.
type SyncResponse struct {
	Success        bool                    `json:"success" yaml:"success"`
	Created        int                     `json:"created" yaml:"created"`
	Updated        int                     `json:"updated" yaml:"updated"`
	Deleted        int                     `json:"deleted" yaml:"deleted"`
	TotalProcessed int                     `json:"total_processed" yaml:"total_processed"`
	Unchanged      int                     `json:"unchanged" yaml:"unchanged"`
	Skipped        int                     `json:"skipped" yaml:"skipped"`
	Skips          []reconcile.SkipReason  `json:"skips,omitempty" yaml:"skips,omitempty"`
	Errors         []reconcile.RecordError `json:"errors,omitempty" yaml:"errors,omitempty"`
	Error          string                  `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewSyncResponse builds the response for a sync outcome. Error is only
// set for failures not already listed per record.
func NewSyncResponse(res reconcile.SyncResult, err error) SyncResponse {
	resp := SyncResponse{
		Success:        err == nil && res.Success(),
		Created:        res.Created,
		Updated:        res.Updated,
		Deleted:        res.Deleted,
		TotalProcessed: res.TotalProcessed,
		Unchanged:      res.Unchanged,
		Skipped:        res.Skipped,
		Skips:          res.Skips,
		Errors:         res.Errors,
	}
	if err != nil && len(res.Errors) == 0 {
		resp.Error = err.Error()
	}
	return resp
}

// Handler handles HTTP requests for leads.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the lead routes behind guard.
func (h *Handler) RegisterRoutes(app fiber.Router, guard fiber.Handler) {
	sync := app.Group("/sync", guard)
	sync.Post("/leads", h.HandleSync)
	sync.Get("/status", h.HandleStatus)

	leads := app.Group("/leads", guard)
	leads.Get("/", h.HandleList)
	leads.Get("/:id", h.HandleGet)
}

// HandleSync reconciles the stored leads against the pushed snapshot.
// @Summary Sync Leads
// @Description Full-replace sync: creates unknown ids, updates changed rows and deletes leads missing from the snapshot. Rows with an empty identity field are skipped.
// @Tags sync
// @Accept json
// @Produce json
// @Param X-Webhook-Secret header string false "Shared webhook secret, when configured"
// @Param payload body Payload true "Complete lead snapshot"
// @Success 200 {object} SyncResponse "Sync result; success is false when single records failed"
// @Failure 400 {object} map[string]string "Malformed payload"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} SyncResponse "Sync aborted before any change"
// @Failure 504 {object} SyncResponse "Sync timed out; applied changes remain"
// @Router /sync/leads [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	res, err := h.service.Sync(c.UserContext(), c.Body())
	switch {
	case errors.Is(err, ErrInvalidPayload):
		l.Warn("Rejected sync payload", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, ErrTimeout):
		l.Error("Sync timed out", zap.Error(err))
		resp := NewSyncResponse(res, err)
		resp.Error = ErrTimeout.Error()
		return c.Status(fiber.StatusGatewayTimeout).JSON(resp)
	case err != nil && len(res.Errors) == 0:
		l.Error("Sync failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(NewSyncResponse(res, err))
	case err != nil:
		l.Warn("Sync completed with record errors", zap.Int("errors", len(res.Errors)))
	}

	return c.JSON(NewSyncResponse(res, err))
}

// HandleStatus returns the outcome of the last sync.
// @Summary Last Sync Status
// @Description Result and time of the most recent sync call since startup.
// @Tags sync
// @Produce json
// @Success 200 {object} Status "Last sync"
// @Failure 404 {object} map[string]string "No sync yet"
// @Router /sync/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	status, ok := h.service.LastStatus()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no sync has run yet",
		})
	}
	return c.JSON(status)
}

// HandleList returns every stored lead.
// @Summary List Leads
// @Tags leads
// @Produce json
// @Success 200 {array} reconcile.Record "Leads ordered by id"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /leads [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	records, err := h.service.List(c.UserContext())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to list leads", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(records)
}

// HandleGet returns one lead.
// @Summary Get Lead
// @Tags leads
// @Produce json
// @Param id path string true "Lead id"
// @Success 200 {object} reconcile.Record "Lead"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /leads/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id := c.Params("id")
	rec, err := h.service.Get(c.UserContext(), id)
	if errors.Is(err, reconcile.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "lead not found",
		})
	}
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to get lead", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(rec)
}
