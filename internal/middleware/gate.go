package middleware

import (
	"github.com/gofiber/fiber/v3"

	"github.com/PaulBabatuyi/authapi/internal/db"
	"github.com/PaulBabatuyi/authapi/internal/status"
)

// RequireConnected rejects writes with 503 while the database link is not
// connected. Reads pass through and fail on their own if the store is down.
func RequireConnected(src db.StateSource) fiber.Handler {
	return func(c fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		if state := src.State(); state != db.Connected {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"success":  false,
				"message":  "database unavailable, please try again later",
				"database": status.Label(state),
			})
		}
		return c.Next()
	}
}
