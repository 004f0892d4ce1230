package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/freelancehub/backend/internal/services/account"
)

type ProfileHandler struct {
	Accounts *account.Service
}

func NewProfileHandler(accounts *account.Service) *ProfileHandler {
	return &ProfileHandler{Accounts: accounts}
}

func (h *ProfileHandler) GetUserType(c *fiber.Ctx) error {
	uid, err := userUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	role, err := h.Accounts.Role(c.Context(), uid)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"user_type": role,
	})
}

func (h *ProfileHandler) ToggleUserType(c *fiber.Ctx) error {
	uid, err := userUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	role, err := h.Accounts.ToggleRole(c.Context(), uid)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Account type updated successfully",
		"user_type": role,
	})
}
