package mapper

import (
	"paper-assistant-be/internal/entity"
	"paper-assistant-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type PaperChunkMapper struct{}

func NewPaperChunkMapper() *PaperChunkMapper {
	return &PaperChunkMapper{}
}

func (m *PaperChunkMapper) ToEntity(c *model.PaperChunk) *entity.PaperChunk {
	if c == nil {
		return nil
	}

	return &entity.PaperChunk{
		Id:             c.Id,
		PaperId:        c.PaperId,
		Document:       c.Document,
		EmbeddingValue: c.EmbeddingValue.Slice(),
		CreatedAt:      c.CreatedAt,
	}
}

func (m *PaperChunkMapper) ToModel(c *entity.PaperChunk) *model.PaperChunk {
	if c == nil {
		return nil
	}

	return &model.PaperChunk{
		Id:             c.Id,
		PaperId:        c.PaperId,
		Document:       c.Document,
		EmbeddingValue: pgvector.NewVector(c.EmbeddingValue),
		CreatedAt:      c.CreatedAt,
	}
}

func (m *PaperChunkMapper) ToEntities(chunks []*model.PaperChunk) []*entity.PaperChunk {
	entities := make([]*entity.PaperChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *PaperChunkMapper) ToModels(chunks []*entity.PaperChunk) []*model.PaperChunk {
	models := make([]*model.PaperChunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}
