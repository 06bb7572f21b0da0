package rerank

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"paper-assistant-be/internal/constant"
	"paper-assistant-be/pkg/llm"
	"paper-assistant-be/pkg/store"
)

// Reranker asks the model to reorder retrieved candidates by relevance.
// The model's output is advisory only: anything unparsable falls back to
// the index order truncated to topK, so reranking can never return more
// than asked for or fail the pipeline.
type Reranker struct {
	provider llm.LLMProvider
	log      *log.Logger
	timeout  time.Duration
}

func NewReranker(provider llm.LLMProvider, logger *log.Logger) *Reranker {
	return &Reranker{
		provider: provider,
		log:      logger,
		timeout:  20 * time.Second,
	}
}

func (r *Reranker) Rerank(ctx context.Context, question string, candidates []store.Candidate, topK int) []store.Candidate {
	if topK <= 0 {
		return nil
	}
	// Nothing to reorder when the pool already fits.
	if len(candidates) <= topK {
		out := make([]store.Candidate, len(candidates))
		copy(out, candidates)
		return out
	}
	if r.provider == nil {
		return truncate(candidates, topK)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	prompt := fmt.Sprintf(constant.RerankPromptV1, question, formatCandidates(candidates))
	reply, err := r.provider.Generate(ctx, prompt,
		llm.WithTemperature(0.1),
		llm.WithMaxTokens(50),
	)
	if err != nil {
		r.log.Printf("[rerank] model call failed, keeping index order: %v", err)
		return truncate(candidates, topK)
	}

	order := parseOrder(reply, len(candidates))
	if len(order) == 0 {
		r.log.Printf("[rerank] unparsable reply %q, keeping index order", reply)
		return truncate(candidates, topK)
	}

	// The model's order is taken as-is: a partial permutation yields fewer
	// than topK results rather than padding with unranked candidates.
	reranked := make([]store.Candidate, 0, topK)
	for _, idx := range order {
		reranked = append(reranked, candidates[idx])
		if len(reranked) == topK {
			break
		}
	}

	r.log.Printf("[rerank] order %v for %d candidates", order, len(candidates))
	return reranked
}

func truncate(candidates []store.Candidate, topK int) []store.Candidate {
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	out := make([]store.Candidate, len(candidates))
	copy(out, candidates)
	return out
}

// formatCandidates renders the numbered list shown to the model: title
// plus a short snippet of the abstract.
func formatCandidates(candidates []store.Candidate) string {
	var b strings.Builder
	for i, c := range candidates {
		snippet := c.Document
		if runes := []rune(snippet); len(runes) > constant.RerankSnippetLen {
			snippet = string(runes[:constant.RerankSnippetLen]) + "..."
		}
		fmt.Fprintf(&b, "%d. %s\n%s\n\n", i+1, c.Metadata.Title, snippet)
	}
	return strings.TrimRight(b.String(), "\n")
}

// parseOrder extracts 0-based candidate indices from a comma-separated
// reply like "2, 1, 3". Out-of-range numbers and garbage tokens are
// dropped; duplicates keep their first occurrence.
func parseOrder(reply string, n int) []int {
	reply = strings.TrimSpace(reply)
	// Models sometimes prepend prose; only the first line is considered.
	if idx := strings.IndexByte(reply, '\n'); idx >= 0 {
		reply = reply[:idx]
	}

	seen := make(map[int]bool, n)
	order := make([]int, 0, n)
	for _, token := range strings.Split(reply, ",") {
		token = strings.TrimSpace(token)
		token = strings.TrimSuffix(token, ".")
		num, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		idx := num - 1
		if idx < 0 || idx >= n || seen[idx] {
			continue
		}
		seen[idx] = true
		order = append(order, idx)
	}
	return order
}
