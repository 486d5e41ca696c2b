package middleware

import (
	"kitobxon/backend/config"
	"kitobxon/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates the JWT and stores the caller's id and role in
// locals for downstream handlers.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, err := utils.ExtractClaimsFromToken(c, cfg)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		c.Locals("user_id", userID)
		c.Locals("role", role)
		return c.Next()
	}
}

// RequireRole allows only the listed roles through. superadmin passes every
// gate; admin additionally passes teacher gates.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if role == "superadmin" {
			return c.Next()
		}
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
			if allowed == "teacher" && role == "admin" {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	}
}

// CurrentUserID reads the authenticated user's id set by AuthMiddleware.
func CurrentUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("user_id").(uint)
	return userID
}

// CurrentRole reads the authenticated user's role set by AuthMiddleware.
func CurrentRole(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}
