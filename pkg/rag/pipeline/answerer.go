package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"paper-assistant-be/internal/constant"
	"paper-assistant-be/pkg/llm"
	"paper-assistant-be/pkg/rag/conversation"
	"paper-assistant-be/pkg/rag/grounding"
	"paper-assistant-be/pkg/rag/rerank"
	"paper-assistant-be/pkg/rag/retrieve"
	"paper-assistant-be/pkg/rag/rewrite"
	"paper-assistant-be/pkg/store"
	"paper-assistant-be/pkg/vectorindex"
)

// Request carries one question through the pipeline.
type Request struct {
	Question       string
	ConversationID string
	TopK           int
	Category       string // optional arXiv category filter, e.g. "cs.CL"
	EnableRewrite  bool
	EnableRerank   bool
}

// Result is the synchronous answer. Err is a machine-readable failure
// class ("no results", "llm unavailable", ...); Answer always holds
// something presentable even when Err is set.
type Result struct {
	Answer         string         `json:"answer"`
	Sources        []store.Source `json:"sources"`
	ConversationID string         `json:"conversation_id"`
	RewrittenQuery string         `json:"rewritten_query,omitempty"`
	Err            string         `json:"error,omitempty"`
}

// Stream event types emitted by AnswerStream.
const (
	EventSources = "sources"
	EventAnswer  = "answer"
	EventError   = "error"
	EventDone    = "done"
)

// StreamEvent is one frame of a streamed answer: first a sources frame,
// then zero or more answer deltas, closed by done (or error at any point).
type StreamEvent struct {
	Type           string         `json:"type"`
	Content        string         `json:"content,omitempty"`
	Sources        []store.Source `json:"sources,omitempty"`
	ConversationID string         `json:"conversation_id,omitempty"`
}

// Answerer runs the retrieval-augmented answering pipeline:
// rewrite -> retrieve (2x over-fetch) -> rerank -> ground -> generate.
// Rewrite and rerank are best-effort stages. Retrieval coming back empty
// short-circuits with an apology; the synchronous path persists it to keep
// the transcript coherent, the streaming path emits an error and persists
// nothing.
type Answerer struct {
	provider  llm.LLMProvider
	convStore *conversation.Store
	rewriter  *rewrite.Rewriter
	retriever *retrieve.Retriever
	reranker  *rerank.Reranker
	assembler *grounding.Assembler
	log       *log.Logger

	genTimeout time.Duration
}

func NewAnswerer(
	provider llm.LLMProvider,
	convStore *conversation.Store,
	rewriter *rewrite.Rewriter,
	retriever *retrieve.Retriever,
	reranker *rerank.Reranker,
	assembler *grounding.Assembler,
	logger *log.Logger,
) *Answerer {
	return &Answerer{
		provider:   provider,
		convStore:  convStore,
		rewriter:   rewriter,
		retriever:  retriever,
		reranker:   reranker,
		assembler:  assembler,
		log:        logger,
		genTimeout: 150 * time.Second,
	}
}

// prepare runs the shared front half of both answer paths. It returns the
// ranked candidates plus everything needed to generate, or a terminal
// Result when the pipeline short-circuits.
func (a *Answerer) prepare(ctx context.Context, req *Request) (ranked []store.Candidate, convID, searchQuery string, early *Result) {
	if req.TopK <= 0 {
		req.TopK = constant.DefaultTopK
	}
	convID = a.convStore.Ensure(req.ConversationID)

	if a.provider == nil {
		return nil, convID, "", &Result{
			Answer:         constant.MsgLLMUnavailable,
			Sources:        []store.Source{},
			ConversationID: convID,
			Err:            "llm unavailable",
		}
	}

	searchQuery = strings.TrimSpace(req.Question)
	if req.EnableRewrite {
		searchQuery = a.rewriter.Rewrite(ctx, searchQuery, req.ConversationID)
	}

	var filter vectorindex.Filter
	if req.Category != "" {
		filter = vectorindex.Filter{"categories": req.Category}
	}

	// Over-fetch so the reranker has room to move things around.
	candidates := a.retriever.Retrieve(ctx, searchQuery, req.TopK*2, filter)
	if len(candidates) == 0 {
		return nil, convID, searchQuery, &Result{
			Answer:         constant.MsgNoPapersFound,
			Sources:        []store.Source{},
			ConversationID: convID,
			Err:            "no results",
		}
	}

	if req.EnableRerank {
		ranked = a.reranker.Rerank(ctx, req.Question, candidates, req.TopK)
	} else {
		if len(candidates) > req.TopK {
			candidates = candidates[:req.TopK]
		}
		ranked = candidates
	}
	return ranked, convID, searchQuery, nil
}

// Answer runs the pipeline end to end and persists the exchange.
func (a *Answerer) Answer(ctx context.Context, req Request) *Result {
	started := time.Now()

	ranked, convID, searchQuery, early := a.prepare(ctx, &req)
	if early != nil {
		if early.Err == "no results" {
			// Persisting the apology keeps the transcript coherent.
			a.convStore.AppendExchange(convID, req.Question, early.Answer, nil)
		}
		return early
	}

	sources := a.assembler.FormatSources(ranked)
	messages := a.buildMessages(convID, req.Question, ranked)

	genCtx, cancel := context.WithTimeout(ctx, a.genTimeout)
	defer cancel()

	result := &Result{
		Sources:        sources,
		ConversationID: convID,
	}
	if searchQuery != req.Question {
		result.RewrittenQuery = searchQuery
	}

	answer, err := a.provider.Chat(genCtx, messages,
		llm.WithTemperature(0.7),
		llm.WithMaxTokens(2000),
	)
	if err != nil {
		a.log.Printf("[answer] generation failed: %v", err)
		result.Answer = constant.MsgAnswerFailedPrefix + err.Error()
		result.Err = "generation failed"
	} else {
		result.Answer = answer
	}

	a.convStore.AppendExchange(convID, req.Question, result.Answer, sources)
	a.log.Printf("[answer] conversation=%s papers=%d took=%s", convID, len(ranked), time.Since(started).Round(time.Millisecond))
	return result
}

// AnswerStream runs the same pipeline but streams the generation. The
// exchange is persisted only after the stream completes; a cancelled or
// failed stream leaves the conversation untouched.
func (a *Answerer) AnswerStream(ctx context.Context, req Request) <-chan StreamEvent {
	events := make(chan StreamEvent, 16)

	go func() {
		defer close(events)

		ranked, convID, _, early := a.prepare(ctx, &req)
		if early != nil {
			a.emit(ctx, events, StreamEvent{Type: EventError, Content: early.Answer, ConversationID: convID})
			return
		}

		sources := a.assembler.FormatSources(ranked)
		if !a.emit(ctx, events, StreamEvent{Type: EventSources, Sources: sources, ConversationID: convID}) {
			return
		}

		messages := a.buildMessages(convID, req.Question, ranked)

		genCtx, cancel := context.WithTimeout(ctx, a.genTimeout)
		defer cancel()

		chunks, err := a.provider.ChatStream(genCtx, messages,
			llm.WithTemperature(0.7),
			llm.WithMaxTokens(2000),
		)
		if err != nil {
			a.log.Printf("[stream] generation failed to start: %v", err)
			a.emit(ctx, events, StreamEvent{Type: EventError, Content: constant.MsgAnswerFailedPrefix + err.Error(), ConversationID: convID})
			return
		}

		var answer strings.Builder
		for chunk := range chunks {
			if chunk.Err != nil {
				a.log.Printf("[stream] generation failed mid-stream: %v", chunk.Err)
				a.emit(ctx, events, StreamEvent{Type: EventError, Content: constant.MsgAnswerFailedPrefix + chunk.Err.Error(), ConversationID: convID})
				return
			}
			answer.WriteString(chunk.Content)
			if !a.emit(ctx, events, StreamEvent{Type: EventAnswer, Content: chunk.Content}) {
				return
			}
		}
		if ctx.Err() != nil {
			// Client went away; nothing is persisted.
			return
		}

		a.convStore.AppendExchange(convID, req.Question, answer.String(), sources)
		a.emit(ctx, events, StreamEvent{Type: EventDone, ConversationID: convID})
	}()

	return events
}

func (a *Answerer) emit(ctx context.Context, events chan<- StreamEvent, ev StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// buildMessages assembles the chat window: system prompt, trailing
// history within budget, then the grounded question as the final user turn.
func (a *Answerer) buildMessages(convID, question string, ranked []store.Candidate) []llm.Message {
	contextBlock := a.assembler.BuildContext(ranked)
	messages := a.convStore.ContextWindow(convID, constant.ChatSystemPromptV1)
	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleUser,
		Content: fmt.Sprintf(constant.GroundedQuestionPromptV1, contextBlock, question),
	})
	return messages
}
