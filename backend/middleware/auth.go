package middleware

import (
	"errors"

	"skillnexis/backend/config"
	"skillnexis/backend/models"
	"skillnexis/backend/services"
	"skillnexis/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const localsSession = "session"

// AuthMiddleware requires a valid token whose session still exists. The
// session is stored in the request locals.
func AuthMiddleware(cfg *config.Config, auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.ExtractClaimsFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		session, err := auth.Current(c.UserContext(), claims.SessionID)
		if errors.Is(err, services.ErrSessionNotFound) {
			return utils.Unauthorized(c, "Session expired, please log in again")
		}
		if err != nil {
			return utils.InternalServerError(c, "Failed to load session")
		}

		c.Locals(localsSession, session)
		return c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := CurrentSession(c)
		if session == nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if session.User.Role != models.RoleAdmin {
			return utils.Forbidden(c, "Forbidden - Admin access required")
		}
		return c.Next()
	}
}

// CurrentSession returns the session attached by AuthMiddleware, or nil.
func CurrentSession(c *fiber.Ctx) *models.Session {
	session, _ := c.Locals(localsSession).(*models.Session)
	return session
}
