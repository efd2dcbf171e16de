// Package client is the typed API client backing the helpdesk dashboard.
// It owns the session token explicitly: no ambient storage reads, an
// explicit Refresh/Clear lifecycle, and a revert-on-failure helper for
// optimistic status changes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// User is the account projection returned by the API.
type User struct {
	ID             string   `json:"id"`
	EmployeeID     string   `json:"employeeId"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Role           string   `json:"role"`
	TicketCreated  []string `json:"ticketCreated"`
	TicketAssigned []string `json:"ticketAssigned"`
}

// UserRef is the identity projection embedded in tickets.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Ticket is the ticket projection returned by the API.
type Ticket struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Status      string    `json:"status"`
	Source      string    `json:"source"`
	Tags        []string  `json:"tags"`
	CreatedBy   *UserRef  `json:"createdBy"`
	AssignedTo  *UserRef  `json:"assignedTo"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MyTickets holds the two result sets of the my-tickets endpoint.
type MyTickets struct {
	CreatedBy  []Ticket `json:"createdBy"`
	AssignedTo []Ticket `json:"assignedTo"`
}

// APIError is a structured error decoded from the server envelope.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Client talks to the helpdesk API. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New builds a client for the given API base URL (e.g. "http://localhost:5000/api").
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Token returns the current session token, empty when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken installs a previously persisted session token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Clear drops the session.
func (c *Client) Clear() {
	c.SetToken("")
}

// Login authenticates and stores the session token.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out struct {
		Token string `json:"token"`
		Data  struct {
			User User `json:"user"`
		} `json:"data"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out.Data.User, nil
}

// RegisterInput is the registration form.
type RegisterInput struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role,omitempty"`
}

// Register creates an account and stores the issued token.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*User, error) {
	var out struct {
		Token string `json:"token"`
		Data  User   `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/users", input, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out.Data, nil
}

// Refresh re-resolves the session identity via /users/me. Any failure
// clears the session so the caller lands back on the login screen.
func (c *Client) Refresh(ctx context.Context) (*User, error) {
	if c.Token() == "" {
		return nil, &APIError{StatusCode: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "no session"}
	}
	var out struct {
		Data struct {
			User User `json:"user"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &out); err != nil {
		c.Clear()
		return nil, err
	}
	return &out.Data.User, nil
}

// Logout revokes the token server-side and drops the session.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.Clear()
	return err
}

// CreateTicket validates the form locally, then submits it.
func (c *Client) CreateTicket(ctx context.Context, form TicketForm) (*Ticket, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	var out struct {
		Data struct {
			Ticket Ticket `json:"ticket"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/tickets", form, &out); err != nil {
		return nil, err
	}
	return &out.Data.Ticket, nil
}

// Tickets fetches the unrestricted ticket list.
func (c *Client) Tickets(ctx context.Context) ([]Ticket, error) {
	var out struct {
		Data struct {
			Tickets []Ticket `json:"tickets"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/tickets", nil, &out); err != nil {
		return nil, err
	}
	return out.Data.Tickets, nil
}

// FetchMyTickets fetches the created and assigned sets.
func (c *Client) FetchMyTickets(ctx context.Context) (*MyTickets, error) {
	var out struct {
		Data MyTickets `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/tickets/my-tickets", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// UpdateTicketStatus issues a partial update for the status field.
func (c *Client) UpdateTicketStatus(ctx context.Context, id, status string) (*Ticket, error) {
	var out struct {
		Data struct {
			Ticket Ticket `json:"ticket"`
		} `json:"data"`
	}
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPut, "/tickets/"+id, body, &out); err != nil {
		return nil, err
	}
	return &out.Data.Ticket, nil
}

// SetStatus applies the new status optimistically to the local ticket,
// issues the update, and reverts the local state if the call fails.
func (c *Client) SetStatus(ctx context.Context, ticket *Ticket, status string) error {
	previous := ticket.Status
	ticket.Status = status
	updated, err := c.UpdateTicketStatus(ctx, ticket.ID, status)
	if err != nil {
		ticket.Status = previous
		return err
	}
	ticket.Status = updated.Status
	ticket.UpdatedAt = updated.UpdatedAt
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Code: "UNKNOWN", Message: resp.Status}
		var envelope struct {
			Error *APIError `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&envelope); decodeErr == nil && envelope.Error != nil {
			envelope.Error.StatusCode = resp.StatusCode
			apiErr = envelope.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
