package dto

// ChatMessageRequest is the inbound chat payload.
type ChatMessageRequest struct {
	Message string `json:"message"`
}

// ChatMessageResponse relays the NLP reply, plus the created ticket when
// the conversation produced one.
type ChatMessageResponse struct {
	ResponseText string          `json:"responseText"`
	Solution     []string        `json:"solution,omitempty"`
	Ticket       *TicketResponse `json:"ticket,omitempty"`
}
