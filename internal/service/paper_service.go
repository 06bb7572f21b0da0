package service

import (
	"context"
	"encoding/json"

	"paper-assistant-be/internal/dto"
	"paper-assistant-be/internal/entity"
	"paper-assistant-be/internal/pkg/logger"
	"paper-assistant-be/internal/repository/specification"
	"paper-assistant-be/internal/repository/unitofwork"
	"paper-assistant-be/pkg/arxiv"
	"paper-assistant-be/pkg/vectorindex"

	"github.com/gofiber/fiber/v2"
)

type IPaperService interface {
	GetPapers(ctx context.Context, req *dto.ListPapersRequest) ([]dto.PaperResponse, int64, error)
	GetPaper(ctx context.Context, paperId string) (*dto.PaperResponse, error)
	DeletePaper(ctx context.Context, paperId string) error
	SearchPapers(ctx context.Context, req *dto.SearchPapersRequest) ([]dto.PaperResponse, error)

	// SearchArxiv queries the live arXiv API, stores anything new, and
	// queues the new papers for embedding.
	SearchArxiv(ctx context.Context, req *dto.ArxivSearchRequest) (*dto.ArxivSearchResponse, error)

	AddFavorite(ctx context.Context, paperId string) error
	RemoveFavorite(ctx context.Context, paperId string) error
	GetFavorites(ctx context.Context, limit, offset int) ([]dto.PaperResponse, error)
}

type paperService struct {
	uowFactory  unitofwork.RepositoryFactory
	arxivClient *arxiv.Client
	index       vectorindex.Index
	publisher   IPublisherService
	logger      logger.ILogger
}

func NewPaperService(
	uowFactory unitofwork.RepositoryFactory,
	arxivClient *arxiv.Client,
	index vectorindex.Index,
	publisher IPublisherService,
	log logger.ILogger,
) IPaperService {
	return &paperService{
		uowFactory:  uowFactory,
		arxivClient: arxivClient,
		index:       index,
		publisher:   publisher,
		logger:      log,
	}
}

func (s *paperService) GetPapers(ctx context.Context, req *dto.ListPapersRequest) ([]dto.PaperResponse, int64, error) {
	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	specs := []specification.Specification{
		specification.OrderBy{Field: "published", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	}
	countSpecs := []specification.Specification{}
	if req.Category != "" {
		specs = append(specs, specification.ByCategory{Category: req.Category})
		countSpecs = append(countSpecs, specification.ByCategory{Category: req.Category})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	papers, err := uow.PaperRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, 0, err
	}
	total, err := uow.PaperRepository().Count(ctx, countSpecs...)
	if err != nil {
		return nil, 0, err
	}

	return s.toResponses(ctx, uow, papers), total, nil
}

func (s *paperService) GetPaper(ctx context.Context, paperId string) (*dto.PaperResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	paper, err := uow.PaperRepository().FindOne(ctx, specification.ByPaperID{PaperID: paperId})
	if err != nil {
		return nil, err
	}
	if paper == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "paper not found")
	}

	fav, err := uow.PaperRepository().IsFavorite(ctx, paper.Id)
	if err != nil {
		return nil, err
	}
	paper.IsFavorite = fav

	resp := paperToResponse(paper)
	return &resp, nil
}

func (s *paperService) DeletePaper(ctx context.Context, paperId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	paper, err := uow.PaperRepository().FindOne(ctx, specification.ByPaperID{PaperID: paperId})
	if err != nil {
		return err
	}
	if paper == nil {
		return fiber.NewError(fiber.StatusNotFound, "paper not found")
	}

	if err := s.index.RemovePaper(ctx, paperId); err != nil {
		s.logger.Warn("PaperService", "Remove embeddings failed", map[string]interface{}{"paper_id": paperId, "error": err.Error()})
	}
	return uow.PaperRepository().Delete(ctx, paperId)
}

func (s *paperService) SearchPapers(ctx context.Context, req *dto.SearchPapersRequest) ([]dto.PaperResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	papers, err := uow.PaperRepository().FindAll(ctx,
		specification.TitleOrSummaryLike{Keyword: req.Keyword},
		specification.OrderBy{Field: "published", Desc: true},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, uow, papers), nil
}

func (s *paperService) SearchArxiv(ctx context.Context, req *dto.ArxivSearchRequest) (*dto.ArxivSearchResponse, error) {
	papers, err := s.arxivClient.Search(ctx, req.Query, req.MaxResults)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadGateway, "arxiv search failed: "+err.Error())
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	created := 0
	for _, paper := range papers {
		isNew, err := uow.PaperRepository().Upsert(ctx, paper)
		if err != nil {
			s.logger.Error("PaperService", "Upsert failed", map[string]interface{}{"paper_id": paper.Id, "error": err.Error()})
			continue
		}
		if !isNew {
			continue
		}
		created++
		s.queueForIndexing(ctx, paper.Id)
	}

	resp := &dto.ArxivSearchResponse{
		Papers:  make([]dto.PaperResponse, 0, len(papers)),
		Fetched: len(papers),
		Created: created,
	}
	for _, paper := range papers {
		resp.Papers = append(resp.Papers, paperToResponse(paper))
	}
	return resp, nil
}

func (s *paperService) AddFavorite(ctx context.Context, paperId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	paper, err := uow.PaperRepository().FindOne(ctx, specification.ByPaperID{PaperID: paperId})
	if err != nil {
		return err
	}
	if paper == nil {
		return fiber.NewError(fiber.StatusNotFound, "paper not found")
	}

	// Adding an existing favorite is a no-op, not an error.
	_, err = uow.PaperRepository().AddFavorite(ctx, paperId)
	return err
}

func (s *paperService) RemoveFavorite(ctx context.Context, paperId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	removed, err := uow.PaperRepository().RemoveFavorite(ctx, paperId)
	if err != nil {
		return err
	}
	if !removed {
		return fiber.NewError(fiber.StatusNotFound, "favorite not found")
	}
	return nil
}

func (s *paperService) GetFavorites(ctx context.Context, limit, offset int) ([]dto.PaperResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	papers, err := uow.PaperRepository().FindFavorites(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.PaperResponse, 0, len(papers))
	for _, paper := range papers {
		responses = append(responses, paperToResponse(paper))
	}
	return responses, nil
}

func (s *paperService) queueForIndexing(ctx context.Context, paperId string) {
	payload, err := json.Marshal(dto.PublishIndexPaperMessage{PaperId: paperId})
	if err != nil {
		s.logger.Error("PaperService", "Marshal index message failed", map[string]interface{}{"paper_id": paperId, "error": err.Error()})
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Error("PaperService", "Queue for indexing failed", map[string]interface{}{"paper_id": paperId, "error": err.Error()})
	}
}

// toResponses hydrates the favorite flag for each paper before mapping.
func (s *paperService) toResponses(ctx context.Context, uow unitofwork.UnitOfWork, papers []*entity.Paper) []dto.PaperResponse {
	responses := make([]dto.PaperResponse, 0, len(papers))
	for _, paper := range papers {
		if fav, err := uow.PaperRepository().IsFavorite(ctx, paper.Id); err == nil {
			paper.IsFavorite = fav
		}
		responses = append(responses, paperToResponse(paper))
	}
	return responses
}

func paperToResponse(p *entity.Paper) dto.PaperResponse {
	return dto.PaperResponse{
		Id:         p.Id,
		Title:      p.Title,
		Authors:    p.Authors,
		Summary:    p.Summary,
		Categories: p.Categories,
		PdfUrl:     p.PdfUrl,
		Published:  p.Published,
		Indexed:    p.Indexed,
		IsFavorite: p.IsFavorite,
	}
}
