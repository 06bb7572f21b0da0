package service

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"paper-assistant-be/internal/constant"
	"paper-assistant-be/internal/dto"
	"paper-assistant-be/pkg/llm"
	"paper-assistant-be/pkg/rag/conversation"
	"paper-assistant-be/pkg/rag/grounding"
	"paper-assistant-be/pkg/rag/pipeline"
	"paper-assistant-be/pkg/rag/rerank"
	"paper-assistant-be/pkg/rag/retrieve"
	"paper-assistant-be/pkg/rag/rewrite"
	"paper-assistant-be/pkg/vectorindex"

	"github.com/gofiber/fiber/v2"
)

type IChatService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
	AskStream(ctx context.Context, req *dto.AskRequest) <-chan pipeline.StreamEvent

	GetConversation(ctx context.Context, conversationId string) (*dto.ConversationResponse, error)
	GetConversationStats(ctx context.Context, conversationId string) (*dto.ConversationStatsResponse, error)
	ClearConversation(ctx context.Context, conversationId string) error
	DeleteConversation(ctx context.Context, conversationId string) error

	ConversationCount() int
	EvictStaleConversations() int
}

type chatService struct {
	answerer  *pipeline.Answerer
	convStore *conversation.Store
	ragLogger *log.Logger
}

func NewChatService(provider llm.LLMProvider, index vectorindex.Index) IChatService {
	ragLogger := initRagLogger()
	convStore := conversation.NewStore()

	answerer := pipeline.NewAnswerer(
		provider,
		convStore,
		rewrite.NewRewriter(provider, convStore, ragLogger),
		retrieve.NewRetriever(index, ragLogger),
		rerank.NewReranker(provider, ragLogger),
		&grounding.Assembler{TruncateLen: constant.DocumentTruncateLen},
		ragLogger,
	)

	return &chatService{
		answerer:  answerer,
		convStore: convStore,
		ragLogger: ragLogger,
	}
}

// initRagLogger creates a dedicated logger for the answering pipeline so
// its stage-by-stage trace does not drown the application log.
func initRagLogger() *log.Logger {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Printf("Failed to create log directory: %v. RAG logs to stdout.", err)
		return log.New(os.Stdout, "[RAG] ", log.LstdFlags)
	}

	logPath := filepath.Join(logDir, "rag_pipeline.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Printf("Failed to open RAG log file: %v. RAG logs to stdout.", err)
		return log.New(os.Stdout, "[RAG] ", log.LstdFlags)
	}

	multi := io.MultiWriter(file, os.Stdout)
	return log.New(multi, "[RAG] ", log.LstdFlags|log.Lmicroseconds)
}

func (s *chatService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	result := s.answerer.Answer(ctx, pipeline.Request{
		Question:       req.Question,
		ConversationID: req.ConversationID,
		TopK:           req.TopK,
		Category:       req.Category,
		EnableRewrite:  req.RewriteEnabled(),
		EnableRerank:   req.RerankEnabled(),
	})

	return &dto.AskResponse{
		Answer:         result.Answer,
		Sources:        result.Sources,
		ConversationID: result.ConversationID,
		RewrittenQuery: result.RewrittenQuery,
		Error:          result.Err,
	}, nil
}

func (s *chatService) AskStream(ctx context.Context, req *dto.AskRequest) <-chan pipeline.StreamEvent {
	return s.answerer.AnswerStream(ctx, pipeline.Request{
		Question:       req.Question,
		ConversationID: req.ConversationID,
		TopK:           req.TopK,
		Category:       req.Category,
		EnableRewrite:  req.RewriteEnabled(),
		EnableRerank:   req.RerankEnabled(),
	})
}

func (s *chatService) GetConversation(ctx context.Context, conversationId string) (*dto.ConversationResponse, error) {
	if !s.convStore.Exists(conversationId) {
		return nil, fiber.NewError(fiber.StatusNotFound, "conversation not found")
	}

	history := s.convStore.History(conversationId, 0)
	messages := make([]dto.ChatMessageResponse, 0, len(history))
	for _, msg := range history {
		messages = append(messages, dto.ChatMessageResponse{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
			Sources:   msg.Sources,
		})
	}

	return &dto.ConversationResponse{
		ConversationID: conversationId,
		Messages:       messages,
	}, nil
}

func (s *chatService) GetConversationStats(ctx context.Context, conversationId string) (*dto.ConversationStatsResponse, error) {
	stats, ok := s.convStore.Stats(conversationId)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "conversation not found")
	}

	return &dto.ConversationStatsResponse{
		ConversationID:    stats.ConversationID,
		CreatedAt:         stats.CreatedAt,
		LastActivity:      stats.LastActivity,
		MessageCount:      stats.MessageCount,
		UserMessages:      stats.UserMessages,
		AssistantMessages: stats.AssistantMessages,
		TotalChars:        stats.TotalChars,
	}, nil
}

func (s *chatService) ClearConversation(ctx context.Context, conversationId string) error {
	if !s.convStore.Clear(conversationId) {
		return fiber.NewError(fiber.StatusNotFound, "conversation not found")
	}
	return nil
}

func (s *chatService) DeleteConversation(ctx context.Context, conversationId string) error {
	if !s.convStore.Delete(conversationId) {
		return fiber.NewError(fiber.StatusNotFound, "conversation not found")
	}
	return nil
}

func (s *chatService) ConversationCount() int {
	return s.convStore.Count()
}

// EvictStaleConversations drops conversations older than the retention
// window and returns how many were removed.
func (s *chatService) EvictStaleConversations() int {
	evicted := s.convStore.EvictOlderThan(constant.ConversationMaxAgeHours * time.Hour)
	if evicted > 0 {
		s.ragLogger.Printf("[evict] dropped %d stale conversations", evicted)
	}
	return evicted
}
