package contract

import (
	"context"

	"paper-assistant-be/internal/model"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	FindRecent(ctx context.Context, limit, offset int) ([]model.Notification, int64, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	UnreadCount(ctx context.Context) (int64, error)
}
