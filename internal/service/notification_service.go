package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/powergrid-it/helpdesk-service/internal/events"
)

// NotificationService reacts to domain events. Delivery is a logging
// stub; the dispatcher wiring is the part workflows rely on.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to the events worth notifying on.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketDeleted, n.handleTicketDeleted)
}

func (n *NotificationService) handleTicketCreated(_ context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketAssigned(_ context.Context, event events.Event) error {
	n.logger.Info("TicketAssigned", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(_ context.Context, event events.Event) error {
	n.logger.Info("TicketStatusChanged", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleTicketDeleted(_ context.Context, event events.Event) error {
	n.logger.Info("TicketDeleted", zap.String("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	return nil
}
