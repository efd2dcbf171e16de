package chatbot

import (
	"errors"
	"strings"

	"github.com/powergrid-it/helpdesk-service/internal/domain"
	"github.com/powergrid-it/helpdesk-service/internal/service"
)

// ErrEmptyDraft is returned when the draft lacks the one field that
// cannot be defaulted.
var ErrEmptyDraft = errors.New("ticket draft has no title")

// Sanitize validates the untrusted draft against the ticket creation
// contract. Unknown enum values fall back to their defaults rather than
// being trusted; a missing title rejects the draft.
func (d *TicketDraft) Sanitize() (service.TicketCreateInput, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return service.TicketCreateInput{}, ErrEmptyDraft
	}

	priority := domain.TicketPriority(strings.TrimSpace(d.Priority))
	if !domain.ValidPriority(priority) {
		priority = domain.TicketPriorityLow
	}

	category := domain.TicketCategory(strings.TrimSpace(d.Category))
	if !domain.ValidCategory(category) {
		category = domain.CategoryOther
	}

	tags := make([]string, 0, len(d.Tags))
	for _, tag := range d.Tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}

	return service.TicketCreateInput{
		Title:       title,
		Description: strings.TrimSpace(d.Description),
		Priority:    priority,
		Category:    category,
		Subcategory: strings.TrimSpace(d.Subcategory),
		Source:      "Chatbot",
		Tags:        tags,
		AIAnalysis: domain.AIAnalysis{
			Sentiment:         strings.TrimSpace(d.Sentiment),
			SuggestedCategory: strings.TrimSpace(d.SuggestedCategory),
		},
	}, nil
}
