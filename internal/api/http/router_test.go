package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"

	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	apihttp "github.com/powergrid-it/helpdesk-service/internal/api/http"
	"github.com/powergrid-it/helpdesk-service/internal/api/http/handlers"
	"github.com/powergrid-it/helpdesk-service/internal/auth"
	"github.com/powergrid-it/helpdesk-service/internal/chatbot"
	"github.com/powergrid-it/helpdesk-service/internal/config"
	"github.com/powergrid-it/helpdesk-service/internal/events"
	"github.com/powergrid-it/helpdesk-service/internal/observability"
	"github.com/powergrid-it/helpdesk-service/internal/service"
)

const testCookieName = "helpdesk_token"

func newTestApp(bot *chatbot.Client) (*fiber.App, *fakeStore) {
	store := newFakeStore()
	users := &fakeUserRepo{store: store}
	tickets := &fakeTicketRepo{store: store}

	cfg := config.Config{}
	cfg.Auth.JWTSecret = "api-test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 15
	cfg.Auth.BcryptCost = 4
	cfg.Auth.CookieName = testCookieName

	dispatcher := events.NewInMemoryDispatcher()
	authSvc := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: users, Dispatcher: dispatcher})
	userSvc := service.NewUserService(users, cfg.Auth.BcryptCost)
	ticketSvc := service.NewTicketService(service.TicketDependencies{
		TicketRepo: tickets,
		UserRepo:   users,
		Policy:     service.NewAssignmentPolicy(users),
		Dispatcher: dispatcher,
	})

	logger := zap.NewNop()
	app := fiber.New()
	apihttp.RegisterMiddlewares(app, logger, observability.NewMetrics(), []string{"http://localhost:3000"}, 0)
	apihttp.RegisterRoutes(app, apihttp.RouteConfig{
		Health:         handlers.NewHealthHandler("helpdesk-service", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(authSvc, testCookieName),
		Users:          handlers.NewUsersHandler(authSvc, userSvc, testCookieName),
		Tickets:        handlers.NewTicketsHandler(ticketSvc),
		Chat:           handlers.NewChatHandler(bot, ticketSvc, logger),
		AuthMiddleware: auth.NewAuthMiddleware(authSvc.TokenManager(), users, nil),
	})
	return app, store
}

func doJSON(app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	decoded := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	if len(raw) > 0 {
		Expect(json.Unmarshal(raw, &decoded)).To(Succeed())
	}
	return resp.StatusCode, decoded
}

func register(app *fiber.App, employeeID, name, email, role string) (string, string) {
	payload := map[string]any{
		"employeeId": employeeID,
		"name":       name,
		"email":      email,
		"password":   "s3cret-pass",
	}
	if role != "" {
		payload["role"] = role
	}
	status, body := doJSON(app, nethttp.MethodPost, "/api/users", "", payload)
	Expect(status).To(Equal(nethttp.StatusCreated))
	token := body["token"].(string)
	user := body["data"].(map[string]any)
	return user["id"].(string), token
}

var _ = Describe("Helpdesk API", func() {
	var app *fiber.App

	BeforeEach(func() {
		app, _ = newTestApp(nil)
	})

	It("reports liveness", func() {
		status, body := doJSON(app, nethttp.MethodGet, "/health/live", "", nil)
		Expect(status).To(Equal(nethttp.StatusOK))
		Expect(body["status"]).To(Equal("alive"))
	})

	Describe("registration and login", func() {
		It("registers, lowercases the email and issues a usable token", func() {
			status, body := doJSON(app, nethttp.MethodPost, "/api/users", "", map[string]any{
				"employeeId": "EMP-001",
				"name":       "Amina",
				"email":      "Amina@Example.COM",
				"password":   "s3cret-pass",
			})
			Expect(status).To(Equal(nethttp.StatusCreated))
			user := body["data"].(map[string]any)
			Expect(user["email"]).To(Equal("amina@example.com"))
			Expect(user["role"]).To(Equal("employee"))
			Expect(user).NotTo(HaveKey("password"))

			token := body["token"].(string)
			status, body = doJSON(app, nethttp.MethodGet, "/api/users/me", token, nil)
			Expect(status).To(Equal(nethttp.StatusOK))
			me := body["data"].(map[string]any)["user"].(map[string]any)
			Expect(me["email"]).To(Equal("amina@example.com"))
		})

		It("answers a duplicate registration with a conflict envelope", func() {
			register(app, "EMP-001", "Amina", "amina@example.com", "")
			status, body := doJSON(app, nethttp.MethodPost, "/api/users", "", map[string]any{
				"employeeId": "EMP-002",
				"name":       "Imposter",
				"email":      "amina@example.com",
				"password":   "other-pass",
			})
			Expect(status).To(Equal(nethttp.StatusConflict))
			envelope := body["error"].(map[string]any)
			Expect(envelope["code"]).To(Equal("CONFLICT"))
		})

		It("logs in with valid credentials and rejects bad ones identically", func() {
			register(app, "EMP-001", "Amina", "amina@example.com", "")

			status, body := doJSON(app, nethttp.MethodPost, "/api/auth/login", "", map[string]any{
				"email": "amina@example.com", "password": "s3cret-pass",
			})
			Expect(status).To(Equal(nethttp.StatusOK))
			Expect(body["token"]).NotTo(BeEmpty())

			status, wrongPass := doJSON(app, nethttp.MethodPost, "/api/auth/login", "", map[string]any{
				"email": "amina@example.com", "password": "nope",
			})
			Expect(status).To(Equal(nethttp.StatusUnauthorized))
			status, unknown := doJSON(app, nethttp.MethodPost, "/api/auth/login", "", map[string]any{
				"email": "ghost@example.com", "password": "s3cret-pass",
			})
			Expect(status).To(Equal(nethttp.StatusUnauthorized))
			Expect(wrongPass["error"]).To(Equal(unknown["error"]))
		})
	})

	Describe("ticket workflow", func() {
		var (
			aminaID, aminaToken string
			brunoToken          string
		)

		BeforeEach(func() {
			aminaID, aminaToken = register(app, "EMP-001", "Amina", "amina@example.com", "")
			_, brunoToken = register(app, "EMP-002", "Bruno", "bruno@example.com", "")
		})

		It("rejects unauthenticated access", func() {
			status, _ := doJSON(app, nethttp.MethodGet, "/api/tickets", "", nil)
			Expect(status).To(Equal(nethttp.StatusUnauthorized))
		})

		It("runs the create, partition, update and stats flow", func() {
			status, body := doJSON(app, nethttp.MethodPost, "/api/tickets", brunoToken, map[string]any{
				"title":       "Printer jam on floor 3",
				"description": "Paper stuck in tray two.",
				"category":    "Hardware",
				"priority":    "High",
			})
			Expect(status).To(Equal(nethttp.StatusCreated))
			ticket := body["data"].(map[string]any)["ticket"].(map[string]any)
			Expect(ticket["status"]).To(Equal("Open"))
			ticketID := ticket["id"].(string)

			// the only other user must have been assigned
			status, body = doJSON(app, nethttp.MethodGet, "/api/tickets/my-tickets", aminaToken, nil)
			Expect(status).To(Equal(nethttp.StatusOK))
			data := body["data"].(map[string]any)
			assigned := data["assignedTo"].([]any)
			Expect(assigned).To(HaveLen(1))
			assignedTicket := assigned[0].(map[string]any)
			Expect(assignedTicket["id"]).To(Equal(ticketID))
			Expect(assignedTicket["createdBy"].(map[string]any)["name"]).To(Equal("Bruno"))
			Expect(data["createdBy"].([]any)).To(BeEmpty())

			status, body = doJSON(app, nethttp.MethodGet, "/api/tickets/my-tickets", brunoToken, nil)
			Expect(status).To(Equal(nethttp.StatusOK))
			data = body["data"].(map[string]any)
			Expect(data["createdBy"].([]any)).To(HaveLen(1))
			Expect(data["assignedTo"].([]any)).To(BeEmpty())

			status, body = doJSON(app, nethttp.MethodPut, "/api/tickets/"+ticketID, aminaToken, map[string]any{
				"status": "In Progress",
			})
			Expect(status).To(Equal(nethttp.StatusOK))
			updated := body["data"].(map[string]any)["ticket"].(map[string]any)
			Expect(updated["status"]).To(Equal("In Progress"))
			Expect(updated["title"]).To(Equal("Printer jam on floor 3"))
			Expect(updated["priority"]).To(Equal("High"))

			status, body = doJSON(app, nethttp.MethodGet, "/api/tickets/stats", aminaToken, nil)
			Expect(status).To(Equal(nethttp.StatusOK))
			stats := body["data"].(map[string]any)["stats"].(map[string]any)
			Expect(stats["total"]).To(BeEquivalentTo(1))
			Expect(stats["inProgress"]).To(BeEquivalentTo(1))
			Expect(stats["active"]).To(BeEquivalentTo(1))
		})

		It("treats a malformed ticket id as not found", func() {
			status, body := doJSON(app, nethttp.MethodGet, "/api/tickets/definitely-not-a-uuid", aminaToken, nil)
			Expect(status).To(Equal(nethttp.StatusNotFound))
			Expect(body["error"].(map[string]any)["code"]).To(Equal("NOT_FOUND"))
		})

		It("restricts ticket deletion to admins", func() {
			status, body := doJSON(app, nethttp.MethodPost, "/api/tickets", brunoToken, map[string]any{
				"title": "Screen flicker",
			})
			Expect(status).To(Equal(nethttp.StatusCreated))
			ticketID := body["data"].(map[string]any)["ticket"].(map[string]any)["id"].(string)

			status, _ = doJSON(app, nethttp.MethodDelete, "/api/tickets/"+ticketID, aminaToken, nil)
			Expect(status).To(Equal(nethttp.StatusForbidden))

			_, adminToken := register(app, "EMP-900", "Root", "root@example.com", "admin")
			status, _ = doJSON(app, nethttp.MethodDelete, "/api/tickets/"+ticketID, adminToken, nil)
			Expect(status).To(Equal(nethttp.StatusOK))

			status, _ = doJSON(app, nethttp.MethodGet, "/api/tickets/"+ticketID, aminaToken, nil)
			Expect(status).To(Equal(nethttp.StatusNotFound))
		})

		It("restricts user deletion to admins", func() {
			status, _ := doJSON(app, nethttp.MethodDelete, "/api/users/"+aminaID, brunoToken, nil)
			Expect(status).To(Equal(nethttp.StatusForbidden))

			_, adminToken := register(app, "EMP-900", "Root", "root@example.com", "admin")
			status, _ = doJSON(app, nethttp.MethodDelete, "/api/users/"+aminaID, adminToken, nil)
			Expect(status).To(Equal(nethttp.StatusOK))

			status, _ = doJSON(app, nethttp.MethodGet, "/api/users/"+aminaID, adminToken, nil)
			Expect(status).To(Equal(nethttp.StatusNotFound))
		})

		It("revokes the session on logout", func() {
			// no denylist backend configured here: logout still succeeds
			status, _ := doJSON(app, nethttp.MethodPost, "/api/auth/logout", aminaToken, nil)
			Expect(status).To(Equal(nethttp.StatusOK))
		})
	})

	Describe("chat endpoint", func() {
		var userToken string

		BeforeEach(func() {
			_, userToken = register(app, "EMP-001", "Amina", "amina@example.com", "")
		})

		It("reports unavailability when no NLP service is configured", func() {
			status, body := doJSON(app, nethttp.MethodPost, "/api/chat", userToken, map[string]any{
				"message": "my printer is jammed",
			})
			Expect(status).To(Equal(nethttp.StatusServiceUnavailable))
			Expect(body["error"].(map[string]any)["code"]).To(Equal("CHAT_UNAVAILABLE"))
		})

		It("relays the NLP reply and persists a returned ticket draft", func() {
			nlp := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{
					"responseText": "I have raised a ticket for you.",
					"ticket": map[string]any{
						"title":    "Printer jam on floor 3",
						"priority": "Apocalyptic",
						"category": "Hardware",
					},
				})
			}))
			defer nlp.Close()

			botApp, _ := newTestApp(chatbot.NewClient(config.ChatbotConfig{BaseURL: nlp.URL, TimeoutSeconds: 2}))
			_, token := register(botApp, "EMP-010", "Carol", "carol@example.com", "")

			status, body := doJSON(botApp, nethttp.MethodPost, "/api/chat", token, map[string]any{
				"message": "my printer is jammed",
			})
			Expect(status).To(Equal(nethttp.StatusOK))
			data := body["data"].(map[string]any)
			Expect(data["responseText"]).To(Equal("I have raised a ticket for you."))
			created := data["ticket"].(map[string]any)
			Expect(created["title"]).To(Equal("Printer jam on floor 3"))
			Expect(created["priority"]).To(Equal("Low"))
			Expect(created["category"]).To(Equal("Hardware"))
			Expect(created["source"]).To(Equal("Chatbot"))
		})
	})
})
