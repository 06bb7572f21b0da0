package unitofwork

import (
	"context"

	"paper-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PaperRepository() contract.PaperRepository
	TopicRepository() contract.TopicRepository
	PaperChunkRepository() contract.PaperChunkRepository
	NotificationRepository() contract.NotificationRepository
}
