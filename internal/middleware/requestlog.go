package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/rs/zerolog"
)

// RequestLogger logs one line per request. 5xx responses log at error level.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		code := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			code = fe.Code
		}

		ev := log.Info()
		switch {
		case code >= fiber.StatusInternalServerError:
			ev = log.Error()
		case code >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", code).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Str("request_id", requestid.FromContext(c)).
			Err(err).
			Msg("request")
		return err
	}
}
