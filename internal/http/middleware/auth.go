package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"foodshare/internal/model"
	"foodshare/internal/service"
)

// IdentityLocalKey is the key used to store the authenticated model.Identity in Fiber's context locals.
const IdentityLocalKey = "identity"

// TokenResolver turns a bearer token into the caller's identity.
type TokenResolver interface {
	IdentityFromToken(ctx context.Context, token string) (model.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token with 401 before any handler runs.
// On success the identity is stored under IdentityLocalKey and added to the request logger.
func RequireAuth(resolver TokenResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "No token, authorization denied")
		}

		id, err := resolver.IdentityFromToken(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				return fiber.NewError(fiber.StatusUnauthorized, "Token is not valid")
			}
			return err
		}

		c.Locals(IdentityLocalKey, id)
		l := zerolog.Ctx(c.UserContext()).With().Str("user_id", id.ID).Logger()
		c.SetUserContext(l.WithContext(c.UserContext()))

		return c.Next()
	}
}

// IdentityFrom returns the identity stored by RequireAuth, or the zero Identity.
func IdentityFrom(c *fiber.Ctx) model.Identity {
	id, _ := c.Locals(IdentityLocalKey).(model.Identity)
	return id
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
