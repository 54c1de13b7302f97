package handlers

import (
	"acem-epargne/internal/core/services"
	"acem-epargne/internal/pkg/pagination"
	"acem-epargne/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DepositHandler handles deposit endpoints
type DepositHandler struct {
	depositService *services.DepositService
}

// NewDepositHandler creates a new deposit handler
func NewDepositHandler(depositService *services.DepositService) *DepositHandler {
	return &DepositHandler{depositService: depositService}
}

// List returns all deposits, optionally filtered by member (?member=)
func (h *DepositHandler) List(c *fiber.Ctx) error {
	if code := c.Query("member"); code != "" {
		deposits, err := h.depositService.ListByMember(c.Context(), code)
		if err != nil {
			return serviceError(c, err)
		}
		return response.Success(c, "Deposits retrieved successfully", deposits)
	}

	deposits, err := h.depositService.List(c.Context())
	if err != nil {
		return serviceError(c, err)
	}

	params := pagination.GetParams(c)
	page, total := pagination.Window(deposits, params)
	return response.Success(c, "Deposits retrieved successfully",
		pagination.NewResponse(page, params, total))
}

// Create records a contribution
func (h *DepositHandler) Create(c *fiber.Ctx) error {
	var input services.CreateDepositInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	deposit, err := h.depositService.Create(c.Context(), input)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Created(c, "Deposit recorded successfully", deposit)
}
