package rewrite

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"paper-assistant-be/pkg/llm"
	"paper-assistant-be/pkg/rag/conversation"

	"github.com/stretchr/testify/assert"
)

type stubProvider struct {
	reply      string
	err        error
	lastPrompt string
}

func (p *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.reply, p.err
}

func (p *stubProvider) ChatStream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan llm.StreamChunk, error) {
	return nil, errors.New("not implemented")
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	p.lastPrompt = prompt
	return p.reply, p.err
}

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRewriteNilProvider(t *testing.T) {
	r := NewRewriter(nil, conversation.NewStore(), discard())
	assert.Equal(t, "original", r.Rewrite(context.Background(), "original", ""))
}

func TestRewriteFallsBackOnError(t *testing.T) {
	p := &stubProvider{err: errors.New("model down")}
	r := NewRewriter(p, conversation.NewStore(), discard())

	assert.Equal(t, "original", r.Rewrite(context.Background(), "original", ""))
}

func TestRewriteFallsBackOnEmptyReply(t *testing.T) {
	p := &stubProvider{reply: "  \n  "}
	r := NewRewriter(p, conversation.NewStore(), discard())

	assert.Equal(t, "original", r.Rewrite(context.Background(), "original", ""))
}

func TestRewriteUsesHistory(t *testing.T) {
	store := conversation.NewStore()
	id := store.Create()
	store.AppendExchange(id, "tell me about transformers", "they are...", nil)

	p := &stubProvider{reply: "transformer architecture attention"}
	r := NewRewriter(p, store, discard())

	got := r.Rewrite(context.Background(), "how do they scale?", id)
	assert.Equal(t, "transformer architecture attention", got)
	assert.Contains(t, p.lastPrompt, "tell me about transformers")
	assert.Contains(t, p.lastPrompt, "how do they scale?")
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{name: "plain", reply: "attention mechanisms", want: "attention mechanisms"},
		{name: "quoted", reply: `"attention mechanisms"`, want: "attention mechanisms"},
		{name: "labelled", reply: "Query: attention mechanisms", want: "attention mechanisms"},
		{name: "multi-line takes first non-empty", reply: "\nattention mechanisms\nbecause...", want: "attention mechanisms"},
		{name: "whitespace only", reply: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitize(tt.reply))
		})
	}
}
