package middleware

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"spendbook.com/internal/domain"
	"spendbook.com/internal/model"
)

// JWTAuth authenticates the bearer token, loads the account behind it and
// enforces the role/route policy.
func JWTAuth(db *gorm.DB, tokens domain.TokenService, enforcer *casbin.Enforcer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Extract token
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing Authorization header"})
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid Authorization header"})
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		// 2. Validate the access token
		userID, err := tokens.ValidateAccess(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// 3. Load the account. A deactivated account has no usable
		// sessions even while its access tokens are still unexpired.
		var user model.User
		if err := db.First(&user, userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found or inactive"})
		}
		if !user.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found or inactive"})
		}

		role := user.Role()

		// Store identity in context for downstream handlers
		c.Locals("user", &user)
		c.Locals("user_id", user.ID)
		c.Locals("role", role)

		// 4. Check permission
		permit, err := enforcer.Enforce(role, c.Path(), c.Method())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Permission check failed"})
		}
		if !permit {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":  "Permission denied",
				"detail": fmt.Sprintf("role %s is not allowed to %s %s", role, c.Method(), c.Path()),
			})
		}

		return c.Next()
	}
}
