package handlers

import (
	"acem-epargne/internal/core/services"
	"acem-epargne/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member endpoints
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// List returns all members
func (h *MemberHandler) List(c *fiber.Ctx) error {
	members, err := h.memberService.List(c.Context())
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Members retrieved successfully", members)
}

// Get returns one member by code
func (h *MemberHandler) Get(c *fiber.Ctx) error {
	member, err := h.memberService.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Member retrieved successfully", member)
}

// Search filters members by name or code substring (?q=)
func (h *MemberHandler) Search(c *fiber.Ctx) error {
	members, err := h.memberService.Search(c.Context(), c.Query("q"))
	if err != nil {
		return serviceError(c, err)
	}
	return response.Success(c, "Members retrieved successfully", members)
}

// Create enrolls a new member
func (h *MemberHandler) Create(c *fiber.Ctx) error {
	var input services.CreateMemberInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	member, err := h.memberService.Create(c.Context(), input)
	if err != nil {
		return serviceError(c, err)
	}
	return response.Created(c, "Member created successfully", member)
}
