// FILE: internal/service/notification_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"contextual-chatbot-be/internal/model"
	"contextual-chatbot-be/internal/pkg/logger"
	"contextual-chatbot-be/pkg/events"

	pktNats "contextual-chatbot-be/pkg/nats"

	"github.com/google/uuid"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userName string, notification model.Notification)
	Broadcast(notification model.Notification)
}

type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	// Subscribe to all events with a durable consumer
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	s.logger.Info("NotificationService", fmt.Sprintf("Processing event: %s", event.EventType()), map[string]interface{}{"type": event.EventType()})

	payload := event.Payload()
	userName, _ := payload["user_name"].(string)
	if userName == "" {
		s.logger.Warn("NotificationService", fmt.Sprintf("No user_name in payload for event %s", event.EventType()), nil)
		return nil
	}

	notif, ok := s.buildNotification(userName, event)
	if !ok {
		// Unknown event type: nothing to push, but the message is handled.
		return nil
	}

	if s.delivery != nil {
		s.delivery.Send(userName, notif)
	}
	return nil
}

func (s *NotificationService) buildNotification(userName string, event events.Event) (model.Notification, bool) {
	payload := event.Payload()

	var title, message string
	switch event.EventType() {
	case events.TypeIngestionJobFinished:
		status, _ := payload["status"].(string)
		title = "Knowledge base sync finished"
		message = fmt.Sprintf("Your document sync finished with status %s.", status)
	case events.TypeDocumentUploaded:
		key, _ := payload["key"].(string)
		title = "Document uploaded"
		message = fmt.Sprintf("Document %s was uploaded. Run a sync to make it searchable.", key)
	case events.TypeDocumentDeleted:
		key, _ := payload["key"].(string)
		title = "Document deleted"
		message = fmt.Sprintf("Document %s was deleted.", key)
	default:
		return model.Notification{}, false
	}

	return model.Notification{
		ID:        uuid.New(),
		UserName:  userName,
		TypeCode:  event.EventType(),
		Title:     title,
		Message:   message,
		Metadata:  payload,
		CreatedAt: time.Now(),
	}, true
}
