package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// Verifier turns a bearer token into an identity.
type Verifier interface {
	Verify(token string) (domain.Identity, error)
}

// Gate validates bearer tokens and attaches the caller's identity to the request.
type Gate struct {
	verifier Verifier
}

// NewGate constructs the gate.
func NewGate(verifier Verifier) *Gate {
	return &Gate{verifier: verifier}
}

// RequireAuthenticated rejects requests without a valid bearer token.
func (g *Gate) RequireAuthenticated(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return errorutil.NewUnauthorized("no token provided")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return errorutil.NewUnauthorized("invalid authorization header")
	}

	identity, err := g.verifier.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return errorutil.NewUnauthorized("invalid token")
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	identity, ok := c.Locals(identityKey).(domain.Identity)
	return identity, ok
}
