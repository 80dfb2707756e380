package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"

	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// AdminGuard protects destructive endpoints (delete, bulk delete) with an
// HMAC-signed bearer token checked against a pre-shared secret. With no
// secret configured the guard is disabled, matching the degrade-gracefully
// behavior of the other optional collaborators.
type AdminGuard struct {
	secret []byte
}

// NewAdminGuard constructs the guard. An empty secret disables it.
func NewAdminGuard(secret string) *AdminGuard {
	return &AdminGuard{secret: []byte(secret)}
}

// Enabled reports whether a secret is configured.
func (g *AdminGuard) Enabled() bool {
	return len(g.secret) > 0
}

// Handle enforces the admin token on protected routes.
func (g *AdminGuard) Handle(c *fiber.Ctx) error {
	if !g.Enabled() {
		return c.Next()
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	if err := g.verify(parts[1]); err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	return c.Next()
}

func (g *AdminGuard) verify(tokenStr string) error {
	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return g.secret, nil
	})
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return errors.New("invalid token")
	}
	return nil
}
