package chatbot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/powergrid-it/helpdesk-service/internal/config"
	"github.com/powergrid-it/helpdesk-service/internal/domain"
)

var _ = Describe("Client", func() {
	It("is disabled when no base URL is configured", func() {
		Expect(NewClient(config.ChatbotConfig{})).To(BeNil())
	})

	Describe("Send", func() {
		var (
			server   *httptest.Server
			received ChatRequest
			reply    ChatResponse
			status   int
		)

		BeforeEach(func() {
			status = http.StatusOK
			reply = ChatResponse{ResponseText: "Let me open a ticket for that."}
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()
				Expect(r.Method).To(Equal(http.MethodPost))
				Expect(r.URL.Path).To(Equal("/chat"))
				Expect(r.Header.Get("Content-Type")).To(Equal("application/json"))
				Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())
				w.WriteHeader(status)
				_ = json.NewEncoder(w).Encode(reply)
			}))
		})

		AfterEach(func() {
			server.Close()
		})

		It("posts the message and decodes the reply", func() {
			reply.Solution = []string{"Restart the spooler"}
			reply.Ticket = &TicketDraft{Title: "Printer jam", Priority: "High"}

			client := NewClient(config.ChatbotConfig{BaseURL: server.URL, TimeoutSeconds: 2})
			resp, err := client.Send(context.Background(), "my printer is jammed", "session-7")
			Expect(err).NotTo(HaveOccurred())
			Expect(received.Message).To(Equal("my printer is jammed"))
			Expect(received.SessionID).To(Equal("session-7"))
			Expect(resp.ResponseText).To(Equal("Let me open a ticket for that."))
			Expect(resp.Solution).To(ConsistOf("Restart the spooler"))
			Expect(resp.Ticket).NotTo(BeNil())
			Expect(resp.Ticket.Title).To(Equal("Printer jam"))
		})

		It("fails on a non-200 reply", func() {
			status = http.StatusBadGateway
			client := NewClient(config.ChatbotConfig{BaseURL: server.URL, TimeoutSeconds: 2})
			_, err := client.Send(context.Background(), "hello", "session-7")
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("TicketDraft.Sanitize", func() {
	It("rejects a draft without a title", func() {
		draft := &TicketDraft{Description: "something broke"}
		_, err := draft.Sanitize()
		Expect(err).To(MatchError(ErrEmptyDraft))
	})

	It("passes through valid enum values", func() {
		draft := &TicketDraft{
			Title:    "Cannot reach file share",
			Priority: "High",
			Category: "Network",
		}
		input, err := draft.Sanitize()
		Expect(err).NotTo(HaveOccurred())
		Expect(input.Priority).To(Equal(domain.TicketPriorityHigh))
		Expect(input.Category).To(Equal(domain.CategoryNetwork))
		Expect(input.Source).To(Equal("Chatbot"))
	})

	It("falls back to defaults for unknown enum values", func() {
		draft := &TicketDraft{
			Title:    "Weird noise",
			Priority: "Apocalyptic",
			Category: "Coffee Machine",
		}
		input, err := draft.Sanitize()
		Expect(err).NotTo(HaveOccurred())
		Expect(input.Priority).To(Equal(domain.TicketPriorityLow))
		Expect(input.Category).To(Equal(domain.CategoryOther))
	})

	It("trims whitespace and drops empty tags", func() {
		draft := &TicketDraft{
			Title:             "  VPN flaky  ",
			Description:       "  drops every hour  ",
			Tags:              []string{" vpn ", "", "  "},
			Sentiment:         " frustrated ",
			SuggestedCategory: " Network ",
		}
		input, err := draft.Sanitize()
		Expect(err).NotTo(HaveOccurred())
		Expect(input.Title).To(Equal("VPN flaky"))
		Expect(input.Description).To(Equal("drops every hour"))
		Expect(input.Tags).To(ConsistOf("vpn"))
		Expect(input.AIAnalysis.Sentiment).To(Equal("frustrated"))
		Expect(input.AIAnalysis.SuggestedCategory).To(Equal("Network"))
	})
})
