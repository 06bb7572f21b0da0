package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"paper-assistant-be/internal/dto"
	"paper-assistant-be/internal/entity"
	"paper-assistant-be/internal/pkg/logger"
	"paper-assistant-be/internal/repository/specification"
	"paper-assistant-be/internal/repository/unitofwork"
	"paper-assistant-be/pkg/arxiv"
	"paper-assistant-be/pkg/events"
	pktNats "paper-assistant-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITopicService interface {
	CreateTopic(ctx context.Context, req *dto.CreateTopicRequest) (*dto.TopicResponse, error)
	GetTopics(ctx context.Context) ([]dto.TopicResponse, error)
	DeleteTopic(ctx context.Context, id string) error

	// FetchAll pulls the latest papers for every tracked topic and queues
	// the new ones for embedding.
	FetchAll(ctx context.Context) ([]dto.FetchTopicResult, error)
}

type topicService struct {
	uowFactory     unitofwork.RepositoryFactory
	arxivClient    *arxiv.Client
	publisher      IPublisherService
	eventPublisher *pktNats.Publisher
	maxResults     int
	logger         logger.ILogger
}

func NewTopicService(
	uowFactory unitofwork.RepositoryFactory,
	arxivClient *arxiv.Client,
	publisher IPublisherService,
	eventPublisher *pktNats.Publisher,
	maxResults int,
	log logger.ILogger,
) ITopicService {
	if maxResults <= 0 {
		maxResults = 20
	}
	return &topicService{
		uowFactory:     uowFactory,
		arxivClient:    arxivClient,
		publisher:      publisher,
		eventPublisher: eventPublisher,
		maxResults:     maxResults,
		logger:         log,
	}
}

func (s *topicService) CreateTopic(ctx context.Context, req *dto.CreateTopicRequest) (*dto.TopicResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.TopicRepository().FindOne(ctx, specification.ByTopicName{Name: req.Name})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fiber.NewError(fiber.StatusConflict, "topic already exists")
	}

	topic := &entity.Topic{
		Id:        uuid.New(),
		Name:      req.Name,
		Query:     req.Query,
		CreatedAt: time.Now(),
	}
	if err := uow.TopicRepository().Create(ctx, topic); err != nil {
		return nil, err
	}

	s.logger.Info("TopicService", "Topic created", map[string]interface{}{"name": topic.Name})
	resp := topicToResponse(topic)
	return &resp, nil
}

func (s *topicService) GetTopics(ctx context.Context) ([]dto.TopicResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	topics, err := uow.TopicRepository().FindAll(ctx, specification.OrderBy{Field: "created_at"})
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TopicResponse, 0, len(topics))
	for _, t := range topics {
		responses = append(responses, topicToResponse(t))
	}
	return responses, nil
}

func (s *topicService) DeleteTopic(ctx context.Context, id string) error {
	topicId, err := uuid.Parse(id)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid topic id")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	deleted, err := uow.TopicRepository().Delete(ctx, topicId)
	if err != nil {
		return err
	}
	if !deleted {
		return fiber.NewError(fiber.StatusNotFound, "topic not found")
	}
	return nil
}

func (s *topicService) FetchAll(ctx context.Context) ([]dto.FetchTopicResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	topics, err := uow.TopicRepository().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}

	results := make([]dto.FetchTopicResult, len(topics))
	var wg sync.WaitGroup
	for i, topic := range topics {
		wg.Add(1)
		go func(i int, topic *entity.Topic) {
			defer wg.Done()
			results[i] = s.fetchTopic(ctx, topic)
		}(i, topic)
	}
	wg.Wait()

	return results, nil
}

// fetchTopic runs one topic's arXiv query, stores the papers that are new,
// and hands them to the embedding worker.
func (s *topicService) fetchTopic(ctx context.Context, topic *entity.Topic) dto.FetchTopicResult {
	result := dto.FetchTopicResult{Topic: topic.Name}

	papers, err := s.arxivClient.Search(ctx, topic.Query, s.maxResults)
	if err != nil {
		s.logger.Error("TopicService", "Fetch failed", map[string]interface{}{"topic": topic.Name, "error": err.Error()})
		result.Error = err.Error()
		return result
	}
	result.Fetched = len(papers)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	for _, paper := range papers {
		created, err := uow.PaperRepository().Upsert(ctx, paper)
		if err != nil {
			s.logger.Error("TopicService", "Upsert failed", map[string]interface{}{"paper_id": paper.Id, "error": err.Error()})
			continue
		}
		if !created {
			continue
		}
		result.Created++
		s.queueForIndexing(ctx, paper.Id)
	}

	now := time.Now()
	if err := uow.TopicRepository().TouchLastFetched(ctx, topic.Id, now); err != nil {
		s.logger.Warn("TopicService", "Touch last_fetched failed", map[string]interface{}{"topic": topic.Name, "error": err.Error()})
	}

	s.logger.Info("TopicService", "Topic fetched", map[string]interface{}{
		"topic":   topic.Name,
		"fetched": result.Fetched,
		"created": result.Created,
	})

	if result.Created > 0 && s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewPapersFetched(topic.Name, result.Created)); err != nil {
			s.logger.Warn("TopicService", "Publish fetched event failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return result
}

func (s *topicService) queueForIndexing(ctx context.Context, paperId string) {
	payload, err := json.Marshal(dto.PublishIndexPaperMessage{PaperId: paperId})
	if err != nil {
		s.logger.Error("TopicService", "Marshal index message failed", map[string]interface{}{"paper_id": paperId, "error": err.Error()})
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Error("TopicService", "Queue for indexing failed", map[string]interface{}{"paper_id": paperId, "error": err.Error()})
	}
}

func topicToResponse(t *entity.Topic) dto.TopicResponse {
	return dto.TopicResponse{
		Id:          t.Id.String(),
		Name:        t.Name,
		Query:       t.Query,
		LastFetched: t.LastFetched,
		CreatedAt:   t.CreatedAt,
	}
}
