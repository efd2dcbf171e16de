package domain

import "time"

// UserRole represents the privilege level of an account.
type UserRole string

const (
	RoleEmployee  UserRole = "employee"
	RoleAdmin     UserRole = "admin"
	RoleManager   UserRole = "manager"
	RoleITSupport UserRole = "it_support"
)

// ValidRole reports whether role is one of the known values.
func ValidRole(role UserRole) bool {
	switch role {
	case RoleEmployee, RoleAdmin, RoleManager, RoleITSupport:
		return true
	}
	return false
}

// Contact is the optional contact sub-record on a user.
type Contact struct {
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// User is the domain model for accounts that raise and handle tickets.
// TicketCreated and TicketAssigned are reference sets: ticket ids kept on
// the user record so "my tickets" never needs a join.
type User struct {
	ID             string
	EmployeeID     string
	Name           string
	Email          string
	PasswordHash   string
	Role           UserRole
	AvatarURL      string
	Contact        Contact
	TicketCreated  []string
	TicketAssigned []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserRef is the identity projection embedded in ticket responses.
// It never carries the password hash.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Ref returns the identity projection for this user.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}
