package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/powergrid-it/helpdesk-service/internal/api/dto"
	"github.com/powergrid-it/helpdesk-service/internal/auth"
	"github.com/powergrid-it/helpdesk-service/internal/domain"
	"github.com/powergrid-it/helpdesk-service/internal/service"
	apperrors "github.com/powergrid-it/helpdesk-service/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create handles POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.Context(), user.ID, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Source:      req.Source,
		Tags:        req.Tags,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"ticket": dto.NewTicketResponse(ticket)},
	})
}

// List handles GET /tickets with optional status/priority/search filters.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	tickets, err := h.service.ListAll(c.Context(), parseTicketQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"tickets": dto.NewTicketResponses(tickets)},
	})
}

// MyTickets handles GET /tickets/my-tickets.
func (h *TicketsHandler) MyTickets(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	result, err := h.service.ListForUser(c.Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"createdBy":  dto.NewTicketResponses(result.Created),
			"assignedTo": dto.NewTicketResponses(result.Assigned),
		},
	})
}

// Stats handles GET /tickets/stats.
func (h *TicketsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"stats": stats},
	})
}

// Get handles GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"ticket": dto.NewTicketResponse(ticket)},
	})
}

// Update handles PUT /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Update(c.Context(), user.ID, c.Params("id"), service.TicketUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Status:      req.Status,
		Source:      req.Source,
		Tags:        req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"ticket": dto.NewTicketResponse(ticket)},
	})
}

// Delete handles DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.Delete(c.Context(), user.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"msg":    "Ticket removed",
	})
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if limit := parseInt(c.Query("limit"), 0); limit > 0 {
		filter.Limit = limit
	}
	if offset := parseInt(c.Query("offset"), 0); offset > 0 {
		filter.Offset = offset
	}
	return filter
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
