package handlers

import (
	"strings"

	"acem-epargne/internal/core/services"
	"acem-epargne/internal/pkg/pagination"
	"acem-epargne/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	notifier *services.NotifierService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifier *services.NotifierService) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// List returns the notification feed, most recent first
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	notifications, err := h.notifier.Notifications(c.Context())
	if err != nil {
		return serviceError(c, err)
	}

	params := pagination.GetParams(c)
	page, total := pagination.Window(notifications, params)
	return response.Success(c, "Notifications retrieved successfully",
		pagination.NewResponse(page, params, total))
}

// Push injects a producer notification directly into the feed
func (h *NotificationHandler) Push(c *fiber.Ctx) error {
	var input services.PushNotificationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(input.Type) == "" || strings.TrimSpace(input.Title) == "" {
		return response.BadRequest(c, "type and title are required")
	}
	h.notifier.Push(input.Type, input.Title, input.Detail)
	return response.Created(c, "Notification pushed", nil)
}

// Scan triggers a change-detection cycle outside the schedule
func (h *NotificationHandler) Scan(c *fiber.Ctx) error {
	if err := h.notifier.Scan(c.Context()); err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Scan completed", nil)
}
