package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a request identifier to every request so that audit log
// lines and error reports can be correlated. An id supplied by the caller is
// kept; otherwise a fresh one is generated. The id is always echoed back in
// the response header.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(requestIDHeader, id)
		c.Set(requestIDHeader, id)

		return c.Next()
	}
}
