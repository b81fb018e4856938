package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hanan-raza/mini-revolut/internal/auth"
	"github.com/hanan-raza/mini-revolut/internal/identity"
)

// JWTAuth validates bearer tokens and resolves the authenticated account id
// into c.Locals("user_id") for every downstream handler.
func JWTAuth(tokens *auth.Service, users identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		sub, err := tokens.VerifyToken(tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		user, err := users.FindByID(c.UserContext(), sub)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		c.Locals("user_id", user.ID)
		return c.Next()
	}
}
