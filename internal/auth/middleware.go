package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/powergrid-it/helpdesk-service/internal/domain"
	"github.com/powergrid-it/helpdesk-service/internal/repository"
	apperrors "github.com/powergrid-it/helpdesk-service/pkg/util"
)

const principalKey = "auth_principal"

// TokenRevocations answers whether a token id has been revoked via logout.
type TokenRevocations interface {
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware validates bearer tokens and loads the authenticated user.
// It is fail-closed: any failure during verification rejects the request
// before a downstream handler can run.
type AuthMiddleware struct {
	tokens      *TokenManager
	users       repository.UserRepository
	revocations TokenRevocations
}

// NewAuthMiddleware constructs middleware. revocations may be nil when no
// denylist backend is configured.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, revocations TokenRevocations) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, revocations: revocations}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	if m.revocations != nil {
		revoked, err := m.revocations.IsTokenRevoked(c.Context(), claims.ID)
		if err != nil || revoked {
			return apperrors.NewUnauthorized("token revoked")
		}
	}

	user, err := m.users.GetByID(c.Context(), claims.Subject)
	if err != nil {
		return apperrors.NewUnauthorized("user not found")
	}

	c.Locals(principalKey, user)
	return c.Next()
}

// UserFromContext retrieves the authenticated user set by Handle.
func UserFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	user, ok := val.(*domain.User)
	return user, ok
}
