package handlers

import (
	"github.com/bazaarhq/marketplace/internal/domain"
	"github.com/bazaarhq/marketplace/internal/httpx"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const actorKey = "actor"

// Authenticate reads the identity the fronting auth layer attached to
// the request. Session handling itself lives outside this service; by
// the time a request gets here the headers are trusted.
func Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := uuid.Parse(c.Get("X-User-ID"))
		if err != nil {
			return httpx.UnauthorizedResponse(c, "Missing or invalid user identity")
		}

		role, ok := domain.ParseRole(c.Get("X-User-Role"))
		if !ok {
			role = domain.RoleCustomer
		}

		c.Locals(actorKey, domain.Actor{UserID: userID, Role: role})
		return c.Next()
	}
}

// RequireRole is the single authorization predicate evaluated before
// business logic; services stay role-agnostic apart from ownership
// checks.
func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := CurrentActor(c)
		for _, role := range roles {
			if actor.Role == role {
				return c.Next()
			}
		}
		return httpx.ForbiddenResponse(c, "Insufficient role for this operation")
	}
}

func CurrentActor(c *fiber.Ctx) domain.Actor {
	actor, _ := c.Locals(actorKey).(domain.Actor)
	return actor
}
