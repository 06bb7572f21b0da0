package vectorindex

import (
	"context"

	"paper-assistant-be/internal/entity"
	"paper-assistant-be/pkg/store"
)

// Filter narrows a search; currently only "categories" is understood by
// the pgvector backend.
type Filter map[string]string

// Index is the retrieval port of the question-answering pipeline.
type Index interface {
	// Search embeds the query and returns the k nearest paper chunks,
	// closest first.
	Search(ctx context.Context, query string, k int, filter Filter) ([]store.Candidate, error)

	// IndexPaper embeds the paper (title + abstract) and stores the chunk,
	// replacing any previous chunk for the same paper.
	IndexPaper(ctx context.Context, paper *entity.Paper) error

	// RemovePaper drops the paper's chunks from the index.
	RemovePaper(ctx context.Context, paperId string) error

	// Count returns the number of indexed chunks.
	Count(ctx context.Context) (int64, error)
}
