package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/social-connect/internal/utils"
)

const UserIDKey = "userID"

// RequireAuth verifies the bearer token and stores the user id in locals.
func RequireAuth(jwtMgr *utils.JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if auth == "" {
			return utils.JSONError(c, fiber.StatusUnauthorized, "missing authorization")
		}
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return utils.JSONError(c, fiber.StatusUnauthorized, "invalid authorization")
		}
		userID, err := jwtMgr.VerifyAccessToken(parts[1])
		if err != nil {
			return utils.JSONError(c, fiber.StatusUnauthorized, "invalid token")
		}
		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// UserID reads the authenticated user id set by RequireAuth.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
