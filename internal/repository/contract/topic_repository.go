package contract

import (
	"context"
	"time"

	"paper-assistant-be/internal/entity"
	"paper-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TopicRepository interface {
	Create(ctx context.Context, topic *entity.Topic) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	TouchLastFetched(ctx context.Context, id uuid.UUID, at time.Time) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Topic, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Topic, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
