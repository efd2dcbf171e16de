package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/powergrid-it/helpdesk-service/internal/api/dto"
	"github.com/powergrid-it/helpdesk-service/internal/auth"
	"github.com/powergrid-it/helpdesk-service/internal/chatbot"
	"github.com/powergrid-it/helpdesk-service/internal/service"
	apperrors "github.com/powergrid-it/helpdesk-service/pkg/util"
)

// ChatHandler bridges the chatbot widget to the external NLP service.
// When the NLP reply carries a ticket draft, the draft is sanitized and
// persisted through the ticket service like any other creation.
type ChatHandler struct {
	bot     *chatbot.Client
	tickets *service.TicketService
	logger  *zap.Logger
}

// NewChatHandler constructs the handler. bot may be nil when no NLP
// service is configured; the endpoint then reports unavailability.
func NewChatHandler(bot *chatbot.Client, ticketService *service.TicketService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{bot: bot, tickets: ticketService, logger: logger}
}

// Chat handles POST /chat.
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if h.bot == nil {
		return apperrors.NewDomainError("CHAT_UNAVAILABLE", "chat service not configured", fiber.StatusServiceUnavailable, nil)
	}

	var req dto.ChatMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Message) == "" {
		return apperrors.NewValidationError("message required", nil)
	}

	reply, err := h.bot.Send(c.Context(), req.Message, user.ID)
	if err != nil {
		h.logger.Error("chat service call failed", zap.Error(err))
		return apperrors.NewInternalError(err)
	}

	resp := dto.ChatMessageResponse{
		ResponseText: reply.ResponseText,
		Solution:     reply.Solution,
	}

	if reply.Ticket != nil {
		input, err := reply.Ticket.Sanitize()
		if err != nil {
			if errors.Is(err, chatbot.ErrEmptyDraft) {
				h.logger.Warn("discarding chatbot ticket draft without title")
				return c.JSON(fiber.Map{"status": "success", "data": resp})
			}
			return apperrors.MapError(err)
		}
		ticket, err := h.tickets.CreateTicket(c.Context(), user.ID, input)
		if err != nil {
			return err
		}
		ticketResp := dto.NewTicketResponse(ticket)
		resp.Ticket = &ticketResp
	}

	return c.JSON(fiber.Map{"status": "success", "data": resp})
}
