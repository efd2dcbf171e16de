package client

import (
	"errors"
	"strings"
)

// MinDescriptionLen is the shortest description the creation form accepts.
const MinDescriptionLen = 10

// TicketForm is the ticket-creation form submitted by the dashboard.
type TicketForm struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority,omitempty"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Validate applies the client-side required-field rules before the form
// ever leaves the browser: non-empty title, a minimum-length description
// and a selected category.
func (f TicketForm) Validate() error {
	var problems []string
	if strings.TrimSpace(f.Title) == "" {
		problems = append(problems, "title is required")
	}
	if len(strings.TrimSpace(f.Description)) < MinDescriptionLen {
		problems = append(problems, "description must be at least 10 characters")
	}
	if strings.TrimSpace(f.Category) == "" {
		problems = append(problems, "category is required")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
