package dto

import (
	"time"

	"github.com/powergrid-it/helpdesk-service/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	EmployeeID string          `json:"employeeId"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Password   string          `json:"password"`
	Role       domain.UserRole `json:"role,omitempty"`
	Contact    domain.Contact  `json:"contact,omitempty"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest carries partial profile updates. Pointer fields
// distinguish "absent" from "set to zero".
type UpdateUserRequest struct {
	Name      *string          `json:"name"`
	Email     *string          `json:"email"`
	Password  *string          `json:"password"`
	Role      *domain.UserRole `json:"role"`
	AvatarURL *string          `json:"avatarUrl"`
	Contact   *domain.Contact  `json:"contact"`
}

// UserResponse is the account projection returned to clients. The
// password hash never appears here.
type UserResponse struct {
	ID             string          `json:"id"`
	EmployeeID     string          `json:"employeeId"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Role           domain.UserRole `json:"role"`
	AvatarURL      string          `json:"avatarUrl,omitempty"`
	Contact        domain.Contact  `json:"contact"`
	TicketCreated  []string        `json:"ticketCreated"`
	TicketAssigned []string        `json:"ticketAssigned"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// NewUserResponse projects a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	created := user.TicketCreated
	if created == nil {
		created = []string{}
	}
	assigned := user.TicketAssigned
	if assigned == nil {
		assigned = []string{}
	}
	return UserResponse{
		ID:             user.ID,
		EmployeeID:     user.EmployeeID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		AvatarURL:      user.AvatarURL,
		Contact:        user.Contact,
		TicketCreated:  created,
		TicketAssigned: assigned,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}
