package service

import (
	"context"
	"time"

	"paper-assistant-be/internal/dto"
	"paper-assistant-be/internal/repository/unitofwork"
	"paper-assistant-be/internal/scheduler"
	"paper-assistant-be/pkg/llm"
	"paper-assistant-be/pkg/vectorindex"
)

type ISystemService interface {
	Status(ctx context.Context) (*dto.SystemStatusResponse, error)
	Tasks() []dto.TaskStatusResponse
}

type systemService struct {
	uowFactory  unitofwork.RepositoryFactory
	index       vectorindex.Index
	provider    llm.LLMProvider
	chatService IChatService
	sched       *scheduler.Scheduler
}

func NewSystemService(
	uowFactory unitofwork.RepositoryFactory,
	index vectorindex.Index,
	provider llm.LLMProvider,
	chatService IChatService,
	sched *scheduler.Scheduler,
) ISystemService {
	return &systemService{
		uowFactory:  uowFactory,
		index:       index,
		provider:    provider,
		chatService: chatService,
		sched:       sched,
	}
}

func (s *systemService) Status(ctx context.Context) (*dto.SystemStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	papers, err := uow.PaperRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	topics, err := uow.TopicRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	chunks, err := s.index.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.SystemStatusResponse{
		Papers:        papers,
		Topics:        topics,
		IndexedChunks: chunks,
		Conversations: s.chatService.ConversationCount(),
		LLMEnabled:    s.provider != nil,
		SchedulerUp:   s.sched.Running(),
		Time:          time.Now(),
	}, nil
}

func (s *systemService) Tasks() []dto.TaskStatusResponse {
	statuses := s.sched.Status(time.Now())
	tasks := make([]dto.TaskStatusResponse, 0, len(statuses))
	for _, st := range statuses {
		tasks = append(tasks, dto.TaskStatusResponse{
			Name:    st.Name,
			Kind:    st.Kind,
			LastRun: st.LastRun,
			NextRun: st.NextRun,
			Running: st.Running,
		})
	}
	return tasks
}
