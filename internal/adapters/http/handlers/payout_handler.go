package handlers

import (
	"acem-epargne/internal/core/services"
	"acem-epargne/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PayoutHandler handles payout and eligibility endpoints
type PayoutHandler struct {
	ledgerService *services.LedgerService
	payoutService *services.PayoutService
}

// NewPayoutHandler creates a new payout handler
func NewPayoutHandler(ledgerService *services.LedgerService, payoutService *services.PayoutService) *PayoutHandler {
	return &PayoutHandler{
		ledgerService: ledgerService,
		payoutService: payoutService,
	}
}

// List returns the payout history
func (h *PayoutHandler) List(c *fiber.Ctx) error {
	payouts, err := h.payoutService.List(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Payouts retrieved successfully", payouts)
}

// Eligibility returns members whose savings have matured, most overdue first
func (h *PayoutHandler) Eligibility(c *fiber.Ctx) error {
	records, err := h.ledgerService.ComputeEligibility(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Eligibility computed successfully", records)
}

// Pending returns every member with unpaid deposits and their countdown
func (h *PayoutHandler) Pending(c *fiber.Ctx) error {
	records, err := h.ledgerService.ComputePending(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Pending members computed successfully", records)
}

// Settle pays out one eligible member
func (h *PayoutHandler) Settle(c *fiber.Ctx) error {
	payout, err := h.payoutService.SettleMember(c.Context(), c.Params("code"))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Member settled successfully", payout)
}

// SettleAll pays out every eligible member in one pass
func (h *PayoutHandler) SettleAll(c *fiber.Ctx) error {
	payouts, err := h.payoutService.SettleAll(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Bulk settlement completed", payouts)
}
