package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Any status may
// follow any other; there is no transition guard.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusClosed     TicketStatus = "Closed"
)

// ValidStatus reports whether status is a known value.
func ValidStatus(status TicketStatus) bool {
	switch status {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
)

// ValidPriority reports whether priority is a known value.
func ValidPriority(priority TicketPriority) bool {
	switch priority {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// TicketCategory enumerates the fixed issue categories.
type TicketCategory string

const (
	CategoryPasswordReset TicketCategory = "Password Reset"
	CategoryHardware      TicketCategory = "Hardware"
	CategorySoftware      TicketCategory = "Software"
	CategoryNetwork       TicketCategory = "Network"
	CategoryOther         TicketCategory = "Other"
)

// ValidCategory reports whether category is a known value.
func ValidCategory(category TicketCategory) bool {
	switch category {
	case CategoryPasswordReset, CategoryHardware, CategorySoftware, CategoryNetwork, CategoryOther:
		return true
	}
	return false
}

// AIAnalysis is the optional classification sub-record produced by the
// external chatbot service.
type AIAnalysis struct {
	Sentiment         string `json:"sentiment,omitempty"`
	SuggestedCategory string `json:"suggestedCategory,omitempty"`
}

// Ticket is the aggregate for support requests. CreatedBy is always a
// valid user id; AssignedTo is nil when no assignee was available.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Priority    TicketPriority
	Category    TicketCategory
	Subcategory string
	Status      TicketStatus
	Source      string
	Tags        []string
	AIAnalysis  AIAnalysis
	CreatedBy   *string
	AssignedTo  *string
	Creator     *UserRef
	Assignee    *UserRef
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
