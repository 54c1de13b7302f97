package handlers

import (
	"acem-epargne/internal/adapters/persistence/repositories"
	"acem-epargne/internal/config"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	store repositories.RecordStore
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store repositories.RecordStore) *HealthHandler {
	return &HealthHandler{store: store}
}

// Root handles root endpoint
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚀 ACEM Épargne API v1.0 is running",
		"mode":    config.AppConfig.AppMode,
	})
}

// HealthCheck handles health check
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	storeStatus := "healthy"
	if err := h.store.Ping(c.Context()); err != nil {
		storeStatus = "unhealthy"
	}

	degraded := false
	if fs, ok := h.store.(*repositories.FailoverStore); ok {
		degraded = fs.PrimaryDown()
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"checks": fiber.Map{
			"api":      "healthy",
			"store":    storeStatus,
			"degraded": degraded,
		},
	})
}

// APIInfo handles API v1 info
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "ACEM Épargne API v1.0",
		"version": "1.0.0",
	})
}
