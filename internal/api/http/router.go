package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/powergrid-it/helpdesk-service/internal/api/http/handlers"
	"github.com/powergrid-it/helpdesk-service/internal/auth"
	"github.com/powergrid-it/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Chat           *handlers.ChatHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)

	users := api.Group("/users")
	users.Post("/", cfg.Users.Register)
	users.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)
	users.Get("/", cfg.AuthMiddleware.Handle, cfg.Users.List)
	users.Get("/:id", cfg.AuthMiddleware.Handle, cfg.Users.Get)
	users.Put("/:id", cfg.AuthMiddleware.Handle, cfg.Users.Update)
	users.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin), cfg.Users.Delete)

	tickets := api.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/my-tickets", cfg.Tickets.MyTickets)
	tickets.Get("/stats", cfg.Tickets.Stats)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.Delete)

	api.Post("/chat", cfg.AuthMiddleware.Handle, cfg.Chat.Chat)
}
