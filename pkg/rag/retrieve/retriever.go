package retrieve

import (
	"context"
	"log"
	"time"

	"paper-assistant-be/pkg/store"
	"paper-assistant-be/pkg/vectorindex"
)

// Retriever wraps the vector index with the pipeline's best-effort
// semantics: retrieval failure is an empty result, never an error.
type Retriever struct {
	index   vectorindex.Index
	log     *log.Logger
	timeout time.Duration
}

func NewRetriever(index vectorindex.Index, logger *log.Logger) *Retriever {
	return &Retriever{
		index:   index,
		log:     logger,
		timeout: 30 * time.Second,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, query string, k int, filter vectorindex.Filter) []store.Candidate {
	if r.index == nil || k <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	candidates, err := r.index.Search(ctx, query, k, filter)
	if err != nil {
		r.log.Printf("[retrieve] search failed for %q: %v", query, err)
		return nil
	}

	r.log.Printf("[retrieve] %d candidates for %q", len(candidates), query)
	return candidates
}
