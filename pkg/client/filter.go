package client

import "strings"

// FilterAll is the sentinel that bypasses a filter dimension.
const FilterAll = "all"

// Filter narrows a fetched ticket list for display. All dimensions
// combine with AND; the "all" sentinel (or empty string) bypasses a
// dimension. Search matches title or description, case-insensitively.
type Filter struct {
	Status   string
	Priority string
	Search   string
}

// Apply returns the tickets passing every active dimension.
func (f Filter) Apply(tickets []Ticket) []Ticket {
	result := make([]Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if f.matches(ticket) {
			result = append(result, ticket)
		}
	}
	return result
}

func (f Filter) matches(ticket Ticket) bool {
	if !bypassed(f.Status) && !strings.EqualFold(ticket.Status, f.Status) {
		return false
	}
	if !bypassed(f.Priority) && !strings.EqualFold(ticket.Priority, f.Priority) {
		return false
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		lowered := strings.ToLower(search)
		title := strings.ToLower(ticket.Title)
		description := strings.ToLower(ticket.Description)
		if !strings.Contains(title, lowered) && !strings.Contains(description, lowered) {
			return false
		}
	}
	return true
}

func bypassed(value string) bool {
	return value == "" || strings.EqualFold(value, FilterAll)
}

// Counts are the dashboard's display counters. Active is open plus
// in-progress.
type Counts struct {
	Total      int
	Open       int
	InProgress int
	Closed     int
	Active     int
}

// CountByStatus computes display counters over a fetched list.
func CountByStatus(tickets []Ticket) Counts {
	counts := Counts{Total: len(tickets)}
	for _, ticket := range tickets {
		switch {
		case strings.EqualFold(ticket.Status, "Open"):
			counts.Open++
		case strings.EqualFold(ticket.Status, "In Progress"):
			counts.InProgress++
		case strings.EqualFold(ticket.Status, "Closed"):
			counts.Closed++
		}
	}
	counts.Active = counts.Open + counts.InProgress
	return counts
}
