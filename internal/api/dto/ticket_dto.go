package dto

import (
	"time"

	"github.com/powergrid-it/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    domain.TicketCategory `json:"category"`
	Subcategory string                `json:"subcategory"`
	Source      string                `json:"source"`
	Tags        []string              `json:"tags"`
}

// UpdateTicketRequest carries partial-field updates.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Priority    *domain.TicketPriority `json:"priority"`
	Category    *domain.TicketCategory `json:"category"`
	Subcategory *string                `json:"subcategory"`
	Status      *domain.TicketStatus   `json:"status"`
	Source      *string                `json:"source"`
	Tags        []string               `json:"tags"`
}

// TicketResponse is the ticket projection returned to clients, with
// creator and assignee identities populated (name and email only).
type TicketResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    domain.TicketCategory `json:"category"`
	Subcategory string                `json:"subcategory,omitempty"`
	Status      domain.TicketStatus   `json:"status"`
	Source      string                `json:"source"`
	Tags        []string              `json:"tags"`
	AIAnalysis  domain.AIAnalysis     `json:"aiAnalysis"`
	CreatedBy   *domain.UserRef       `json:"createdBy"`
	AssignedTo  *domain.UserRef       `json:"assignedTo"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// NewTicketResponse projects a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	tags := ticket.Tags
	if tags == nil {
		tags = []string{}
	}
	return TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Priority:    ticket.Priority,
		Category:    ticket.Category,
		Subcategory: ticket.Subcategory,
		Status:      ticket.Status,
		Source:      ticket.Source,
		Tags:        tags,
		AIAnalysis:  ticket.AIAnalysis,
		CreatedBy:   ticket.Creator,
		AssignedTo:  ticket.Assignee,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
}

// NewTicketResponses projects a slice of domain tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}
