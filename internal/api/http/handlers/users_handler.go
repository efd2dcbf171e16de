package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/powergrid-it/helpdesk-service/internal/api/dto"
	"github.com/powergrid-it/helpdesk-service/internal/auth"
	"github.com/powergrid-it/helpdesk-service/internal/service"
	apperrors "github.com/powergrid-it/helpdesk-service/pkg/util"
)

// UsersHandler exposes registration and account management endpoints.
type UsersHandler struct {
	auth       *service.AuthService
	users      *service.UserService
	cookieName string
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(authService *service.AuthService, userService *service.UserService, cookieName string) *UsersHandler {
	return &UsersHandler{auth: authService, users: userService, cookieName: cookieName}
}

// Register handles POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, exp, err := h.auth.RegisterUser(c.Context(), service.RegisterInput{
		EmployeeID: req.EmployeeID,
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Contact:    req.Contact,
	})
	if err != nil {
		return err
	}

	setTokenCookie(c, h.cookieName, token, exp)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"token":  token,
		"data":   dto.NewUserResponse(user),
	})
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"user": dto.NewUserResponse(user)},
	})
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"users": items},
	})
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"user": dto.NewUserResponse(user)},
	})
}

// Update handles PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.users.Update(c.Context(), c.Params("id"), service.UserUpdateInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      req.Role,
		AvatarURL: req.AvatarURL,
		Contact:   req.Contact,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"user": dto.NewUserResponse(user)},
	})
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.users.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"msg":    "User removed",
	})
}
