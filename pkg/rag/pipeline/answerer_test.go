package pipeline

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"paper-assistant-be/internal/constant"
	"paper-assistant-be/internal/entity"
	"paper-assistant-be/pkg/llm"
	"paper-assistant-be/pkg/rag/conversation"
	"paper-assistant-be/pkg/rag/grounding"
	"paper-assistant-be/pkg/rag/rerank"
	"paper-assistant-be/pkg/rag/retrieve"
	"paper-assistant-be/pkg/rag/rewrite"
	"paper-assistant-be/pkg/store"
	"paper-assistant-be/pkg/vectorindex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	chatReply    string
	chatErr      error
	streamChunks []llm.StreamChunk
	streamErr    error
	genReply     string
	genErr       error
}

func (p *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.chatReply, p.chatErr
}

func (p *stubProvider) ChatStream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan llm.StreamChunk, error) {
	if p.streamErr != nil {
		return nil, p.streamErr
	}
	out := make(chan llm.StreamChunk, len(p.streamChunks))
	for _, c := range p.streamChunks {
		out <- c
	}
	close(out)
	return out, nil
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.genReply, p.genErr
}

type stubIndex struct {
	candidates []store.Candidate
	err        error
	lastQuery  string
	lastK      int
}

func (x *stubIndex) Search(ctx context.Context, query string, k int, filter vectorindex.Filter) ([]store.Candidate, error) {
	x.lastQuery = query
	x.lastK = k
	return x.candidates, x.err
}

func (x *stubIndex) IndexPaper(ctx context.Context, paper *entity.Paper) error { return nil }
func (x *stubIndex) RemovePaper(ctx context.Context, paperId string) error     { return nil }
func (x *stubIndex) Count(ctx context.Context) (int64, error)                  { return 0, nil }

func newTestAnswerer(provider llm.LLMProvider, index vectorindex.Index) (*Answerer, *conversation.Store) {
	logger := log.New(io.Discard, "", 0)
	convStore := conversation.NewStore()
	answerer := NewAnswerer(
		provider,
		convStore,
		rewrite.NewRewriter(provider, convStore, logger),
		retrieve.NewRetriever(index, logger),
		rerank.NewReranker(provider, logger),
		grounding.NewAssembler(),
		logger,
	)
	return answerer, convStore
}

func poolOf(n int) []store.Candidate {
	pool := make([]store.Candidate, n)
	for i := range pool {
		pool[i] = store.Candidate{
			ID:          string(rune('a' + i)),
			Document:    "doc",
			Distance:    0.1,
			HasDistance: true,
			Metadata:    store.PaperMetadata{Title: "Paper"},
		}
	}
	return pool
}

func TestAnswerWithoutProvider(t *testing.T) {
	answerer, convStore := newTestAnswerer(nil, &stubIndex{})

	result := answerer.Answer(context.Background(), Request{Question: "q"})

	assert.Equal(t, constant.MsgLLMUnavailable, result.Answer)
	assert.Equal(t, "llm unavailable", result.Err)
	assert.NotEmpty(t, result.ConversationID)
	assert.True(t, convStore.Exists(result.ConversationID))
}

func TestAnswerNoResultsPersistsApology(t *testing.T) {
	provider := &stubProvider{chatReply: "never reached"}
	answerer, convStore := newTestAnswerer(provider, &stubIndex{})

	result := answerer.Answer(context.Background(), Request{Question: "q"})

	assert.Equal(t, constant.MsgNoPapersFound, result.Answer)
	assert.Equal(t, "no results", result.Err)
	assert.Empty(t, result.Sources)

	history := convStore.History(result.ConversationID, 0)
	require.Len(t, history, 2)
	assert.Equal(t, "q", history[0].Content)
	assert.Equal(t, constant.MsgNoPapersFound, history[1].Content)
}

func TestAnswerSuccess(t *testing.T) {
	provider := &stubProvider{chatReply: "grounded answer"}
	index := &stubIndex{candidates: poolOf(3)}
	answerer, convStore := newTestAnswerer(provider, index)

	result := answerer.Answer(context.Background(), Request{
		Question: "q",
		TopK:     2,
	})

	assert.Equal(t, "grounded answer", result.Answer)
	assert.Empty(t, result.Err)
	assert.Len(t, result.Sources, 2)
	// Over-fetch doubles topK for the reranker.
	assert.Equal(t, 4, index.lastK)

	history := convStore.History(result.ConversationID, 0)
	require.Len(t, history, 2)
	assert.Equal(t, "grounded answer", history[1].Content)
	assert.Len(t, history[1].Sources, 2)
}

func TestAnswerSurfacesRewrittenQuery(t *testing.T) {
	provider := &stubProvider{chatReply: "answer", genReply: "standalone query"}
	index := &stubIndex{candidates: poolOf(1)}
	answerer, _ := newTestAnswerer(provider, index)

	result := answerer.Answer(context.Background(), Request{
		Question:      "what about it?",
		EnableRewrite: true,
	})

	assert.Equal(t, "standalone query", result.RewrittenQuery)
	assert.Equal(t, "standalone query", index.lastQuery)
}

func TestAnswerGenerationFailureStillPersists(t *testing.T) {
	provider := &stubProvider{chatErr: errors.New("boom")}
	answerer, convStore := newTestAnswerer(provider, &stubIndex{candidates: poolOf(2)})

	result := answerer.Answer(context.Background(), Request{Question: "q"})

	assert.Equal(t, "generation failed", result.Err)
	assert.Contains(t, result.Answer, constant.MsgAnswerFailedPrefix)

	history := convStore.History(result.ConversationID, 0)
	require.Len(t, history, 2)
	assert.Contains(t, history[1].Content, constant.MsgAnswerFailedPrefix)
}

func TestAnswerStreamEventOrder(t *testing.T) {
	provider := &stubProvider{streamChunks: []llm.StreamChunk{
		{Content: "hello "},
		{Content: "world"},
	}}
	answerer, convStore := newTestAnswerer(provider, &stubIndex{candidates: poolOf(2)})

	var got []StreamEvent
	for ev := range answerer.AnswerStream(context.Background(), Request{Question: "q"}) {
		got = append(got, ev)
	}

	require.Len(t, got, 4)
	assert.Equal(t, EventSources, got[0].Type)
	assert.Len(t, got[0].Sources, 2)
	assert.Equal(t, EventAnswer, got[1].Type)
	assert.Equal(t, "hello ", got[1].Content)
	assert.Equal(t, EventAnswer, got[2].Type)
	assert.Equal(t, EventDone, got[3].Type)

	history := convStore.History(got[0].ConversationID, 0)
	require.Len(t, history, 2)
	assert.Equal(t, "hello world", history[1].Content)
}

func TestAnswerStreamMidStreamFailureNotPersisted(t *testing.T) {
	provider := &stubProvider{streamChunks: []llm.StreamChunk{
		{Content: "partial"},
		{Err: errors.New("connection reset")},
	}}
	answerer, convStore := newTestAnswerer(provider, &stubIndex{candidates: poolOf(1)})

	var got []StreamEvent
	for ev := range answerer.AnswerStream(context.Background(), Request{Question: "q"}) {
		got = append(got, ev)
	}

	last := got[len(got)-1]
	assert.Equal(t, EventError, last.Type)
	assert.Contains(t, last.Content, constant.MsgAnswerFailedPrefix)

	// A failed stream must not leave a half-exchange behind.
	assert.Empty(t, convStore.History(got[0].ConversationID, 0))
}

func TestAnswerStreamNoResults(t *testing.T) {
	provider := &stubProvider{}
	answerer, convStore := newTestAnswerer(provider, &stubIndex{})

	var got []StreamEvent
	for ev := range answerer.AnswerStream(context.Background(), Request{Question: "q"}) {
		got = append(got, ev)
	}

	require.Len(t, got, 1)
	assert.Equal(t, EventError, got[0].Type)
	assert.Equal(t, constant.MsgNoPapersFound, got[0].Content)

	// Unlike the synchronous path, a failed stream writes no transcript.
	assert.Empty(t, convStore.History(got[0].ConversationID, 0))
}
