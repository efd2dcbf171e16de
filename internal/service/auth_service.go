package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/powergrid-it/helpdesk-service/internal/auth"
	"github.com/powergrid-it/helpdesk-service/internal/config"
	"github.com/powergrid-it/helpdesk-service/internal/domain"
	"github.com/powergrid-it/helpdesk-service/internal/events"
	"github.com/powergrid-it/helpdesk-service/internal/repository"
	apperrors "github.com/powergrid-it/helpdesk-service/pkg/util"
)

// TokenRevoker stores revoked token ids until they expire.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, tokenID string, until time.Time) error
}

// AuthService coordinates registration, login and logout flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	revoker    TokenRevoker
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Revoker    TokenRevoker
	Dispatcher events.Dispatcher
}

// RegisterInput is the registration payload after transport decoding.
type RegisterInput struct {
	EmployeeID string
	Name       string
	Email      string
	Password   string
	Role       domain.UserRole
	Contact    domain.Contact
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		revoker:    deps.Revoker,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterUser creates a new account. Email and employee id must both be
// unused; a hit on either is a Conflict, never a second record.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterInput) (*domain.User, string, time.Time, error) {
	if input.EmployeeID == "" || input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("employeeId, name, email, password required", nil)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleEmployee
	}
	if !domain.ValidRole(role) {
		return nil, "", time.Time{}, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.users.GetByEmailOrEmployeeID(ctx, email, input.EmployeeID); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("user already exists", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	user := &domain.User{
		EmployeeID:   input.EmployeeID,
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Contact:      input.Contact,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventUserRegistered,
		ActorID: user.ID,
		Payload: events.UserRegisteredPayload{
			UserID:     user.ID,
			EmployeeID: user.EmployeeID,
			Email:      user.Email,
		},
	})
	return user, token, exp, nil
}

// LoginUser authenticates by email and password.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return user, token, exp, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, tokenStr string) error {
	if s.revoker == nil {
		return nil
	}
	claims, err := s.tokenMgr.ParseToken(tokenStr)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	until := time.Now().Add(time.Hour)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	return apperrors.MapError(s.revoker.RevokeToken(ctx, claims.ID, until))
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
