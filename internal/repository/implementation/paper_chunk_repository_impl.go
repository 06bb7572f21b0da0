package implementation

import (
	"context"
	"time"

	"paper-assistant-be/internal/entity"
	"paper-assistant-be/internal/mapper"
	"paper-assistant-be/internal/model"
	"paper-assistant-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PaperChunkRepositoryImpl struct {
	db          *gorm.DB
	mapper      *mapper.PaperChunkMapper
	paperMapper *mapper.PaperMapper
}

func NewPaperChunkRepository(db *gorm.DB) contract.PaperChunkRepository {
	return &PaperChunkRepositoryImpl{
		db:          db,
		mapper:      mapper.NewPaperChunkMapper(),
		paperMapper: mapper.NewPaperMapper(),
	}
}

func (r *PaperChunkRepositoryImpl) Create(ctx context.Context, chunk *entity.PaperChunk) error {
	m := r.mapper.ToModel(chunk)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *PaperChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.PaperChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := r.mapper.ToModels(chunks)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *PaperChunkRepositoryImpl) DeleteByPaperId(ctx context.Context, paperId string) error {
	return r.db.WithContext(ctx).Where("paper_id = ?", paperId).Delete(&model.PaperChunk{}).Error
}

func (r *PaperChunkRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PaperChunk{}).Count(&count).Error
	return count, err
}

func (r *PaperChunkRepositoryImpl) SearchNearest(ctx context.Context, embedding []float32, limit int, category string) ([]*contract.ScoredPaperChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance scan; lower is closer. The paper row is joined so
	// callers get title/authors/pdf without a second query.
	type row struct {
		model.PaperChunk
		Distance        float64
		PaperTitle      string
		PaperAuthors    string
		PaperSummary    string
		PaperCategories string
		PaperPdfUrl     string
		PaperPublished  time.Time
	}
	var rows []row

	queryVector := pgvector.NewVector(embedding)

	q := r.db.WithContext(ctx).
		Table("paper_embeddings").
		Select(`paper_embeddings.*,
			(embedding_value <=> ?) as distance,
			papers.title as paper_title,
			papers.authors as paper_authors,
			papers.summary as paper_summary,
			papers.categories as paper_categories,
			papers.pdf_url as paper_pdf_url,
			papers.published as paper_published`, queryVector).
		Joins("JOIN papers ON papers.id = paper_embeddings.paper_id")

	if category != "" {
		q = q.Where("papers.categories LIKE ?", "%"+category+"%")
	}

	err := q.Order("distance ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredPaperChunk, len(rows))
	for i, res := range rows {
		scored[i] = &contract.ScoredPaperChunk{
			Chunk:    r.mapper.ToEntity(&res.PaperChunk),
			Distance: res.Distance,
			Paper: &entity.Paper{
				Id:         res.PaperChunk.PaperId,
				Title:      res.PaperTitle,
				Authors:    res.PaperAuthors,
				Summary:    res.PaperSummary,
				Categories: res.PaperCategories,
				PdfUrl:     res.PaperPdfUrl,
				Published:  res.PaperPublished,
			},
		}
	}
	return scored, nil
}
