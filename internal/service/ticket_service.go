package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/powergrid-it/helpdesk-service/internal/domain"
	"github.com/powergrid-it/helpdesk-service/internal/events"
	"github.com/powergrid-it/helpdesk-service/internal/repository"
	apperrors "github.com/powergrid-it/helpdesk-service/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	policy     *AssignmentPolicy
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Policy     *AssignmentPolicy
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes the ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Category    domain.TicketCategory
	Subcategory string
	Source      string
	Tags        []string
	AIAnalysis  domain.AIAnalysis
}

// TicketUpdateInput carries the partial-update fields. Nil means "leave
// unchanged". The assignee is deliberately absent: reference sets are
// maintained only through creation and deletion.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Priority    *domain.TicketPriority
	Category    *domain.TicketCategory
	Subcategory *string
	Status      *domain.TicketStatus
	Source      *string
	Tags        []string
	AIAnalysis  *domain.AIAnalysis
}

// TicketListFilter describes listing filters for the unrestricted list.
type TicketListFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	SearchTerm *string
	Limit      int
	Offset     int
}

// UserTickets holds the two independent result sets of listForUser.
type UserTickets struct {
	Created  []domain.Ticket
	Assigned []domain.Ticket
}

// TicketStats aggregates dashboard counts. Active is open plus in-progress.
type TicketStats struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	Closed     int `json:"closed"`
	Active     int `json:"active"`
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		policy:     deps.Policy,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket validates the input, picks an assignee, and persists the
// ticket together with both users' reference sets in one transaction.
// When the creator is the only user the ticket is created unassigned.
func (s *TicketService) CreateTicket(ctx context.Context, creatorID string, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityLow
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	category := input.Category
	if category == "" {
		category = domain.CategoryOther
	}
	if !domain.ValidCategory(category) {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": category})
	}

	source := input.Source
	if source == "" {
		source = "Chatbot"
	}
	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	var assignedTo *string
	assigneeID, err := s.policy.SelectAssignee(ctx, creatorID)
	switch {
	case err == nil:
		assignedTo = &assigneeID
	case errors.Is(err, ErrNoAssigneeAvailable):
		// single-user system: leave unassigned
	default:
		return nil, apperrors.MapError(err)
	}

	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Priority:    priority,
		Category:    category,
		Subcategory: input.Subcategory,
		Status:      domain.TicketStatusOpen,
		Source:      source,
		Tags:        tags,
		AIAnalysis:  input.AIAnalysis,
		CreatedBy:   &creatorID,
		AssignedTo:  assignedTo,
	}

	if err := s.tickets.CreateWithRefs(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventTicketCreated,
		ActorID: creatorID,
		Payload: events.TicketCreatedPayload{
			TicketID:   ticket.ID,
			Title:      ticket.Title,
			Priority:   ticket.Priority,
			Category:   ticket.Category,
			AssignedTo: ticket.AssignedTo,
		},
	})
	if ticket.AssignedTo != nil {
		s.publish(ctx, events.Event{
			Type:    events.EventTicketAssigned,
			ActorID: creatorID,
			Payload: events.TicketAssignedPayload{
				TicketID:   ticket.ID,
				AssignedTo: *ticket.AssignedTo,
			},
		})
	}
	return ticket, nil
}

// ListAll returns tickets without ownership restriction, optionally
// filtered by status, priority and a case-insensitive search term.
func (s *TicketService) ListAll(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		SearchTerm: filter.SearchTerm,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListForUser returns the tickets the user created and the tickets the
// user is assigned, as two independent sets with populated identities.
func (s *TicketService) ListForUser(ctx context.Context, userID string) (*UserTickets, error) {
	created, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{CreatedBy: &userID})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	assigned, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{AssignedTo: &userID})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &UserTickets{Created: created, Assigned: assigned}, nil
}

// GetByID fetches a single ticket.
func (s *TicketService) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if err := checkID("ticket", id); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// Update merges the provided fields onto the stored ticket.
func (s *TicketService) Update(ctx context.Context, actorID, id string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apperrors.NewValidationError("title cannot be empty", nil)
		}
		ticket.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		ticket.Description = *input.Description
	}
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
		ticket.Priority = *input.Priority
	}
	if input.Category != nil {
		if !domain.ValidCategory(*input.Category) {
			return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": *input.Category})
		}
		ticket.Category = *input.Category
	}
	if input.Subcategory != nil {
		ticket.Subcategory = *input.Subcategory
	}
	if input.Status != nil {
		if !domain.ValidStatus(*input.Status) {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
		}
		ticket.Status = *input.Status
	}
	if input.Source != nil {
		ticket.Source = *input.Source
	}
	if input.Tags != nil {
		ticket.Tags = input.Tags
	}
	if input.AIAnalysis != nil {
		ticket.AIAnalysis = *input.AIAnalysis
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if ticket.Status != oldStatus {
		s.publish(ctx, events.Event{
			Type:    events.EventTicketStatusChanged,
			ActorID: actorID,
			Payload: events.TicketStatusChangedPayload{
				TicketID:  ticket.ID,
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	return ticket, nil
}

// Delete removes the ticket and pulls its id from every user's
// reference sets in the same transaction.
func (s *TicketService) Delete(ctx context.Context, actorID, id string) error {
	if err := checkID("ticket", id); err != nil {
		return err
	}
	if err := s.tickets.DeleteWithRefs(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:    events.EventTicketDeleted,
		ActorID: actorID,
		Payload: events.TicketDeletedPayload{TicketID: id},
	})
	return nil
}

// Stats computes dashboard counts.
func (s *TicketService) Stats(ctx context.Context) (*TicketStats, error) {
	counts, err := s.tickets.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	stats := &TicketStats{
		Open:       counts[domain.TicketStatusOpen],
		InProgress: counts[domain.TicketStatusInProgress],
		Closed:     counts[domain.TicketStatusClosed],
	}
	stats.Active = stats.Open + stats.InProgress
	for _, count := range counts {
		stats.Total += count
	}
	return stats, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
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
