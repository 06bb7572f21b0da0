package service

import (
	"context"
	"encoding/json"
	"fmt"

	"paper-assistant-be/internal/model"
	"paper-assistant-be/internal/pkg/logger"
	"paper-assistant-be/internal/repository/unitofwork"
	"paper-assistant-be/internal/websocket"
	"paper-assistant-be/pkg/events"
	pktNats "paper-assistant-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type INotificationService interface {
	// StartConsuming subscribes to the event stream and turns every event
	// into a persisted, broadcast notification.
	StartConsuming() error

	GetNotifications(ctx context.Context, limit, offset int) ([]model.Notification, int64, error)
	MarkAsRead(ctx context.Context, id string) error
	UnreadCount(ctx context.Context) (int64, error)
}

type notificationService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber *pktNats.Subscriber
	hub        *websocket.Hub
	logger     logger.ILogger
}

func NewNotificationService(
	uowFactory unitofwork.RepositoryFactory,
	subscriber *pktNats.Subscriber,
	hub *websocket.Hub,
	log logger.ILogger,
) INotificationService {
	return &notificationService{
		uowFactory: uowFactory,
		subscriber: subscriber,
		hub:        hub,
		logger:     log,
	}
}

func (s *notificationService) StartConsuming() error {
	if s.subscriber == nil {
		s.logger.Warn("NotificationService", "No event subscriber configured, notifications disabled", nil)
		return nil
	}
	return s.subscriber.Subscribe("events.>", "notification-service", s.handleEvent)
}

func (s *notificationService) handleEvent(ctx context.Context, event events.Event) error {
	title, message := describeEvent(event)

	metadata, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	notification := &model.Notification{
		TypeCode: event.EventType(),
		Title:    title,
		Message:  message,
		Metadata: datatypes.JSON(metadata),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().Create(ctx, notification); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}

	s.hub.Broadcast(*notification)
	s.logger.Info("NotificationService", "Notification dispatched", map[string]interface{}{"type": event.EventType()})
	return nil
}

// describeEvent turns an event into the human-readable title and message
// shown in the UI.
func describeEvent(event events.Event) (title, message string) {
	payload := event.Payload()

	switch event.EventType() {
	case events.TypePapersFetched:
		topic, _ := payload["topic"].(string)
		created := asInt(payload["created"])
		return "New papers fetched",
			fmt.Sprintf("%d new papers stored for topic %q", created, topic)
	case events.TypePapersIndexed:
		indexed := asInt(payload["indexed"])
		return "Papers indexed",
			fmt.Sprintf("%d papers embedded into the search index", indexed)
	case events.TypeDigestSent:
		papers := asInt(payload["papers"])
		recipient, _ := payload["recipient"].(string)
		return "Daily digest sent",
			fmt.Sprintf("Digest with %d papers mailed to %s", papers, recipient)
	default:
		return event.EventType(), "Event received"
	}
}

// asInt handles the float64 that json.Unmarshal produces for numbers.
func asInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, limit, offset int) ([]model.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().FindRecent(ctx, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id string) error {
	notificationId, err := uuid.Parse(id)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid notification id")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkAsRead(ctx, notificationId)
}

func (s *notificationService) UnreadCount(ctx context.Context) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().UnreadCount(ctx)
}
