package vectorindex

import (
	"context"
	"fmt"

	"paper-assistant-be/internal/entity"
	"paper-assistant-be/internal/repository/unitofwork"
	"paper-assistant-be/pkg/embedding"
	"paper-assistant-be/pkg/store"
	"paper-assistant-be/pkg/utils"
)

// Chunking bounds for long abstracts. Most arXiv abstracts fit one chunk.
const (
	chunkSize    = 1200
	chunkOverlap = 150
)

// PgvectorIndex implements Index on top of the paper_embeddings table.
type PgvectorIndex struct {
	embedder   embedding.EmbeddingProvider
	uowFactory unitofwork.RepositoryFactory
}

var _ Index = &PgvectorIndex{}

func NewPgvectorIndex(embedder embedding.EmbeddingProvider, uowFactory unitofwork.RepositoryFactory) *PgvectorIndex {
	return &PgvectorIndex{
		embedder:   embedder,
		uowFactory: uowFactory,
	}
}

func (x *PgvectorIndex) Search(ctx context.Context, query string, k int, filter Filter) ([]store.Candidate, error) {
	resp, err := x.embedder.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	uow := x.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.PaperChunkRepository().SearchNearest(ctx, resp.Embedding.Values, k, filter["categories"])
	if err != nil {
		return nil, fmt.Errorf("search embeddings: %w", err)
	}

	candidates := make([]store.Candidate, len(scored))
	for i, sc := range scored {
		candidates[i] = store.Candidate{
			ID:       sc.Chunk.PaperId,
			Document: sc.Chunk.Document,
			Metadata: store.PaperMetadata{
				Title:      sc.Paper.Title,
				Authors:    sc.Paper.Authors,
				Categories: sc.Paper.Categories,
				PDFURL:     sc.Paper.PdfUrl,
			},
			Distance:    sc.Distance,
			HasDistance: true,
		}
		if !sc.Paper.Published.IsZero() {
			candidates[i].Metadata.Published = sc.Paper.Published.Format("2006-01-02")
		}
	}
	return candidates, nil
}

func (x *PgvectorIndex) IndexPaper(ctx context.Context, paper *entity.Paper) error {
	document := paper.Title + "\n\n" + paper.Summary

	parts := utils.SplitText(document, chunkSize, chunkOverlap)
	chunks := make([]*entity.PaperChunk, 0, len(parts))
	for _, part := range parts {
		resp, err := x.embedder.Generate(part, embedding.TaskRetrievalDocument)
		if err != nil {
			return fmt.Errorf("embed paper %s: %w", paper.Id, err)
		}
		chunks = append(chunks, &entity.PaperChunk{
			PaperId:        paper.Id,
			Document:       part,
			EmbeddingValue: resp.Embedding.Values,
		})
	}

	uow := x.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	repo := uow.PaperChunkRepository()
	if err := repo.DeleteByPaperId(ctx, paper.Id); err != nil {
		return fmt.Errorf("drop stale chunks for %s: %w", paper.Id, err)
	}
	if err := repo.CreateBulk(ctx, chunks); err != nil {
		return fmt.Errorf("store chunks for %s: %w", paper.Id, err)
	}

	return uow.Commit()
}

func (x *PgvectorIndex) RemovePaper(ctx context.Context, paperId string) error {
	uow := x.uowFactory.NewUnitOfWork(ctx)
	return uow.PaperChunkRepository().DeleteByPaperId(ctx, paperId)
}

func (x *PgvectorIndex) Count(ctx context.Context) (int64, error) {
	uow := x.uowFactory.NewUnitOfWork(ctx)
	return uow.PaperChunkRepository().Count(ctx)
}
