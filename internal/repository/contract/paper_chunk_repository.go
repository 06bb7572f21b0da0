package contract

import (
	"context"

	"paper-assistant-be/internal/entity"
)

// ScoredPaperChunk wraps a chunk with its cosine distance to the query
// vector and the joined paper fields needed to surface the hit.
type ScoredPaperChunk struct {
	Chunk    *entity.PaperChunk
	Paper    *entity.Paper
	Distance float64 // pgvector cosine distance, 0 = identical
}

type PaperChunkRepository interface {
	Create(ctx context.Context, chunk *entity.PaperChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.PaperChunk) error
	DeleteByPaperId(ctx context.Context, paperId string) error
	Count(ctx context.Context) (int64, error)

	// SearchNearest runs a cosine-distance scan over paper_embeddings joined
	// to papers. category filters on the paper's category list when set.
	SearchNearest(ctx context.Context, embedding []float32, limit int, category string) ([]*ScoredPaperChunk, error)
}
