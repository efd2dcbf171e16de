package events

import (
	"time"

	"github.com/powergrid-it/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered      EventType = "user_registered"
	EventTicketCreated       EventType = "ticket_created"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketDeleted       EventType = "ticket_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID     string `json:"user_id"`
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID   string                `json:"ticket_id"`
	Title      string                `json:"title"`
	Priority   domain.TicketPriority `json:"priority"`
	Category   domain.TicketCategory `json:"category"`
	AssignedTo *string               `json:"assigned_to,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TicketID   string `json:"ticket_id"`
	AssignedTo string `json:"assigned_to"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketID  string              `json:"ticket_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	TicketID string `json:"ticket_id"`
}
