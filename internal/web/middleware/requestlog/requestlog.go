// Package requestlog provides a fiber middleware writing one structured log
// line per handled request.
package requestlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// New creates the request logging middleware.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		event := log.Info()
		if err != nil {
			event = log.Warn().Err(err)
		}

		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Str("ip", c.IP()).
			Dur("duration", time.Since(start)).
			Msg("request")

		return err
	}
}
