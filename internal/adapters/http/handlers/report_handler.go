package handlers

import (
	"acem-epargne/internal/core/services"
	"acem-epargne/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles report endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Summary returns the caisse overview
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	report, err := h.reportService.Summary(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Summary retrieved successfully", report)
}

// Monthly returns per-month deposit and payout flows
func (h *ReportHandler) Monthly(c *fiber.Ctx) error {
	report, err := h.reportService.Monthly(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Monthly report retrieved successfully", report)
}

// MemberBalance returns one member's lifetime position
func (h *ReportHandler) MemberBalance(c *fiber.Ctx) error {
	report, err := h.reportService.MemberBalance(c.Context(), c.Params("code"))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Member balance retrieved successfully", report)
}
