package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func newLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "Too Many Requests",
				"message": message,
			})
		},
	})
}

func LoginRateLimiter() fiber.Handler {
	return newLimiter(10, time.Minute, "Too many login attempts. Please try again later.")
}

func RegisterRateLimiter() fiber.Handler {
	return newLimiter(5, time.Minute, "Too many registrations. Please try again later.")
}

// ContactRateLimiter keeps the contact form from being used to flood the team inbox.
func ContactRateLimiter() fiber.Handler {
	return newLimiter(3, time.Minute, "Too many messages. Please try again later.")
}
