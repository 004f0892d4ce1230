package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/freelancehub/backend/internal/middleware"
	"github.com/freelancehub/backend/internal/models"
	"github.com/freelancehub/backend/internal/services/account"
	"github.com/freelancehub/backend/internal/utils"
)

type AuthHandler struct {
	DB        *gorm.DB
	Accounts  *account.Service
	JWTSecret string
	Expires   int
}

type SignUpReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"user_type"` // client / freelancer
}

func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req SignUpReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	errors := FieldErrors{}
	if username == "" {
		errors.Add("username", "Username is required")
	}
	if email == "" {
		errors.Add("email", "Email is required")
	} else if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		errors.Add("email", "Please use a valid email address")
	}
	if password == "" {
		errors.Add("password", "Password is required")
	} else if len(password) < 6 {
		errors.Add("password", "Password must be at least 6 characters")
	}
	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	_, err := h.Accounts.SignUp(c.Context(), username, email, password, models.Role(req.UserType))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Sign up successful. Please check your email to verify your account.",
	})
}

type VerifyReq struct {
	Username string `json:"username"`
	Code     string `json:"code"`
}

func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req VerifyReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	if err := h.Accounts.Verify(c.Context(), req.Username, req.Code); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Account verified successfully",
	})
}

type LoginReq struct {
	Identifier string `json:"identifier"` // username or email
	Password   string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	errors := FieldErrors{}
	if strings.TrimSpace(req.Identifier) == "" {
		errors.Add("identifier", "Email or username is required")
	}
	if strings.TrimSpace(req.Password) == "" {
		errors.Add("password", "Password is required")
	}
	if len(errors) > 0 {
		return validationFail(c, errors)
	}

	u, err := h.Accounts.Authenticate(c.Context(), req.Identifier, req.Password)
	if err != nil {
		return fail(c, err)
	}

	token, err := utils.SignJWT(h.JWTSecret, u.ID.String(), h.Expires)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to create session",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   h.Expires * 60,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data": fiber.Map{
			"user": fiber.Map{
				"id":        u.ID,
				"username":  u.Username,
				"email":     u.Email,
				"user_type": u.UserType,
			},
		},
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logout successful",
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	uid, err := userUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", uid).Error; err != nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "User not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":          user.ID,
			"username":    user.Username,
			"email":       user.Email,
			"user_type":   user.UserType,
			"is_verified": user.IsVerified,
		},
	})
}
