package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freelancehub/backend/internal/models"
	"github.com/freelancehub/backend/internal/utils"
)

// AttachJWTLocals resolves the token into userId/username/role locals. The
// role is read from the store on every request, never from the token, so a
// toggled account type takes effect immediately.
func AttachJWTLocals(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Locals("user")
		if raw == nil {
			return fiber.ErrUnauthorized
		}

		token, ok := raw.(*jwt.Token)
		if !ok || token == nil {
			return fiber.ErrUnauthorized
		}

		claims, ok := token.Claims.(*utils.Claims)
		if !ok {
			return fiber.ErrUnauthorized
		}

		uid, err := uuid.Parse(strings.TrimSpace(claims.UserID))
		if err != nil {
			return fiber.ErrUnauthorized
		}

		var user models.User
		if err := db.Select("id", "username", "user_type").First(&user, "id = ?", uid).Error; err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals("userId", user.ID)
		c.Locals("username", user.Username)
		c.Locals("role", string(user.UserType))

		return c.Next()
	}
}
