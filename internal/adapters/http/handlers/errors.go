package handlers

import (
	"errors"

	"acem-epargne/internal/core/domain"
	"acem-epargne/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// serviceError maps domain errors to the matching HTTP response
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrMemberNotFound), errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrDuplicateEntry):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrNotEligible), errors.Is(err, domain.ErrNothingToSettle):
		return response.Error(c, fiber.StatusUnprocessableEntity, err.Error())
	default:
		return response.InternalServerError(c, "Internal server error")
	}
}
