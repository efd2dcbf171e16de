package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/powergrid-it/helpdesk-service/internal/api/dto"
	"github.com/powergrid-it/helpdesk-service/internal/service"
	apperrors "github.com/powergrid-it/helpdesk-service/pkg/util"
)

// AuthHandler exposes login and logout.
type AuthHandler struct {
	auth       *service.AuthService
	cookieName string
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService, cookieName string) *AuthHandler {
	return &AuthHandler{auth: authService, cookieName: cookieName}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, exp, err := h.auth.LoginUser(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	setTokenCookie(c, h.cookieName, token, exp)
	return c.JSON(fiber.Map{
		"status": "success",
		"token":  token,
		"data":   fiber.Map{"user": dto.NewUserResponse(user)},
	})
}

// Logout handles POST /auth/logout: revokes the presented token and
// clears the cookie transport.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}
	if err := h.auth.Logout(c.Context(), token); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"status": "success"})
}

func bearerToken(c *fiber.Ctx) string {
	parts := strings.SplitN(c.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// setTokenCookie writes the token as a secondary transport; the bearer
// header remains authoritative.
func setTokenCookie(c *fiber.Ctx, name, token string, exp time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    token,
		Expires:  exp,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}
