package service

import (
	"context"
	"fmt"

	"paper-assistant-be/internal/dto"
	"paper-assistant-be/internal/pkg/logger"
	"paper-assistant-be/internal/repository/specification"
	"paper-assistant-be/internal/repository/unitofwork"
	"paper-assistant-be/pkg/events"
	pktNats "paper-assistant-be/pkg/nats"
	"paper-assistant-be/pkg/vectorindex"
)

type IIndexerService interface {
	// IndexPending embeds every paper that has not been indexed yet and
	// returns how many were processed.
	IndexPending(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*dto.IndexStatsResponse, error)
}

type indexerService struct {
	uowFactory     unitofwork.RepositoryFactory
	index          vectorindex.Index
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewIndexerService(
	uowFactory unitofwork.RepositoryFactory,
	index vectorindex.Index,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IIndexerService {
	return &indexerService{
		uowFactory:     uowFactory,
		index:          index,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *indexerService) IndexPending(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	papers, err := uow.PaperRepository().FindAll(ctx,
		specification.Unindexed{},
		specification.OrderBy{Field: "published", Desc: true},
	)
	if err != nil {
		return 0, fmt.Errorf("load unindexed papers: %w", err)
	}
	if len(papers) == 0 {
		return 0, nil
	}

	indexed := 0
	for _, paper := range papers {
		if ctx.Err() != nil {
			break
		}
		if err := s.index.IndexPaper(ctx, paper); err != nil {
			s.logger.Error("IndexerService", "Indexing failed", map[string]interface{}{"paper_id": paper.Id, "error": err.Error()})
			continue
		}
		if err := uow.PaperRepository().MarkIndexed(ctx, paper.Id); err != nil {
			s.logger.Error("IndexerService", "Mark indexed failed", map[string]interface{}{"paper_id": paper.Id, "error": err.Error()})
			continue
		}
		indexed++
	}

	s.logger.Info("IndexerService", "Index pass complete", map[string]interface{}{"pending": len(papers), "indexed": indexed})

	if indexed > 0 && s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewPapersIndexed(indexed)); err != nil {
			s.logger.Warn("IndexerService", "Publish indexed event failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return indexed, nil
}

func (s *indexerService) Stats(ctx context.Context) (*dto.IndexStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chunks, err := s.index.Count(ctx)
	if err != nil {
		return nil, err
	}
	total, err := uow.PaperRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := uow.PaperRepository().Count(ctx, specification.Unindexed{})
	if err != nil {
		return nil, err
	}

	return &dto.IndexStatsResponse{
		IndexedChunks: chunks,
		TotalPapers:   total,
		IndexedPapers: total - pending,
		PendingPapers: pending,
	}, nil
}
