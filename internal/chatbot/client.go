package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/powergrid-it/helpdesk-service/internal/config"
)

// Client talks to the external NLP chat service. The service is an
// opaque HTTP collaborator: it answers free-text messages and may return
// a ticket draft when the conversation warrants one.
type Client struct {
	baseURL string
	http    *http.Client
}

// ChatRequest is the payload sent to the NLP service.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// TicketDraft is the untrusted ticket shape returned by the NLP service.
// It must pass Sanitize before anything persists it.
type TicketDraft struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Priority          string   `json:"priority"`
	Category          string   `json:"category"`
	Subcategory       string   `json:"subcategory"`
	Tags              []string `json:"tags"`
	Sentiment         string   `json:"sentiment"`
	SuggestedCategory string   `json:"suggestedCategory"`
}

// ChatResponse is the NLP service reply.
type ChatResponse struct {
	ResponseText string       `json:"responseText"`
	Solution     []string     `json:"solution"`
	Ticket       *TicketDraft `json:"ticket"`
}

// NewClient builds a client from configuration. Returns nil when no base
// URL is configured, which disables the chat endpoint.
func NewClient(cfg config.ChatbotConfig) *Client {
	if cfg.BaseURL == "" {
		return nil
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout()},
	}
}

// Send posts a chat message and decodes the reply.
func (c *Client) Send(ctx context.Context, message, sessionID string) (*ChatResponse, error) {
	body, err := json.Marshal(ChatRequest{Message: message, SessionID: sessionID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat service returned status %d", resp.StatusCode)
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	return &chatResp, nil
}
