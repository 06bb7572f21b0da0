package dto

import (
	"time"

	"paper-assistant-be/pkg/store"
)

type AskRequest struct {
	Question       string `json:"question" validate:"required,min=1"`
	ConversationID string `json:"conversation_id"`
	TopK           int    `json:"top_k" validate:"omitempty,min=1,max=20"`
	Category       string `json:"category"`
	EnableRewrite  *bool  `json:"enable_rewrite"`
	EnableRerank   *bool  `json:"enable_rerank"`
}

// RewriteEnabled defaults to true when the flag is omitted.
func (r *AskRequest) RewriteEnabled() bool {
	return r.EnableRewrite == nil || *r.EnableRewrite
}

// RerankEnabled defaults to true when the flag is omitted.
func (r *AskRequest) RerankEnabled() bool {
	return r.EnableRerank == nil || *r.EnableRerank
}

type AskResponse struct {
	Answer         string         `json:"answer"`
	Sources        []store.Source `json:"sources"`
	ConversationID string         `json:"conversation_id"`
	RewrittenQuery string         `json:"rewritten_query,omitempty"`
	Error          string         `json:"error,omitempty"`
}

type ChatMessageResponse struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Sources   []store.Source `json:"sources,omitempty"`
}

type ConversationResponse struct {
	ConversationID string                `json:"conversation_id"`
	Messages       []ChatMessageResponse `json:"messages"`
}

type ConversationStatsResponse struct {
	ConversationID    string    `json:"conversation_id"`
	CreatedAt         time.Time `json:"created_at"`
	LastActivity      time.Time `json:"last_activity"`
	MessageCount      int       `json:"message_count"`
	UserMessages      int       `json:"user_messages"`
	AssistantMessages int       `json:"assistant_messages"`
	TotalChars        int       `json:"total_chars"`
}
