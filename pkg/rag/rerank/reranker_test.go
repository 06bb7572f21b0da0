package rerank

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"unicode/utf8"

	"paper-assistant-be/internal/constant"
	"paper-assistant-be/pkg/llm"
	"paper-assistant-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

type stubProvider struct {
	reply string
	err   error
}

func (p *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.reply, p.err
}

func (p *stubProvider) ChatStream(ctx context.Context, history []llm.Message, options ...llm.Option) (<-chan llm.StreamChunk, error) {
	return nil, errors.New("not implemented")
}

func (p *stubProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.reply, p.err
}

func discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func candidatePool(n int) []store.Candidate {
	pool := make([]store.Candidate, n)
	for i := range pool {
		pool[i] = store.Candidate{ID: string(rune('a' + i)), Document: "doc"}
	}
	return pool
}

func ids(candidates []store.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.ID
	}
	return out
}

func TestRerankSkipsWhenPoolFits(t *testing.T) {
	// The reply would reorder, but with len <= topK no model call is made.
	p := &stubProvider{reply: "2, 1"}
	r := NewReranker(p, discard())

	out := r.Rerank(context.Background(), "q", candidatePool(3), 5)
	assert.Equal(t, []string{"a", "b", "c"}, ids(out))
}

func TestRerankAppliesModelOrder(t *testing.T) {
	p := &stubProvider{reply: "3, 1, 4"}
	r := NewReranker(p, discard())

	out := r.Rerank(context.Background(), "q", candidatePool(4), 3)
	assert.Equal(t, []string{"c", "a", "d"}, ids(out))
}

func TestRerankPartialOrderIsNotPadded(t *testing.T) {
	// Model only names one candidate; the result is just that candidate,
	// not topped up with unranked ones.
	p := &stubProvider{reply: "4"}
	r := NewReranker(p, discard())

	out := r.Rerank(context.Background(), "q", candidatePool(5), 3)
	assert.Equal(t, []string{"d"}, ids(out))
}

func TestRerankFallsBackOnGarbage(t *testing.T) {
	p := &stubProvider{reply: "the most relevant paper is clearly the second one"}
	r := NewReranker(p, discard())

	out := r.Rerank(context.Background(), "q", candidatePool(5), 2)
	assert.Equal(t, []string{"a", "b"}, ids(out))
}

func TestRerankFallsBackOnModelError(t *testing.T) {
	p := &stubProvider{err: errors.New("model down")}
	r := NewReranker(p, discard())

	out := r.Rerank(context.Background(), "q", candidatePool(4), 2)
	assert.Equal(t, []string{"a", "b"}, ids(out))
}

func TestFormatCandidatesSnippetIsRuneSafe(t *testing.T) {
	pool := []store.Candidate{{
		Document: strings.Repeat("é", constant.RerankSnippetLen+5),
		Metadata: store.PaperMetadata{Title: "Accents"},
	}}

	got := formatCandidates(pool)

	assert.True(t, utf8.ValidString(got))
	assert.Contains(t, got, strings.Repeat("é", constant.RerankSnippetLen)+"...")
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		n     int
		want  []int
	}{
		{name: "plain", reply: "2, 1, 3", n: 3, want: []int{1, 0, 2}},
		{name: "trailing dots", reply: "1., 2.", n: 2, want: []int{0, 1}},
		{name: "only first line", reply: "2, 1\nbecause the second paper...", n: 2, want: []int{1, 0}},
		{name: "out of range dropped", reply: "1, 9, 2", n: 3, want: []int{0, 1}},
		{name: "duplicates keep first", reply: "2, 2, 1", n: 2, want: []int{1, 0}},
		{name: "garbage", reply: "no idea", n: 3, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseOrder(tt.reply, tt.n)
			assert.Equal(t, tt.want, got)
		})
	}
}
