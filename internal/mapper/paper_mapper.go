package mapper

import (
	"paper-assistant-be/internal/entity"
	"paper-assistant-be/internal/model"
)

type PaperMapper struct{}

func NewPaperMapper() *PaperMapper {
	return &PaperMapper{}
}

func (m *PaperMapper) ToEntity(p *model.Paper) *entity.Paper {
	if p == nil {
		return nil
	}

	return &entity.Paper{
		Id:         p.Id,
		Title:      p.Title,
		Authors:    p.Authors,
		Summary:    p.Summary,
		Categories: p.Categories,
		PdfUrl:     p.PdfUrl,
		Published:  p.Published,
		Indexed:    p.Indexed,
		CreatedAt:  p.CreatedAt,
	}
}

func (m *PaperMapper) ToModel(p *entity.Paper) *model.Paper {
	if p == nil {
		return nil
	}

	return &model.Paper{
		Id:         p.Id,
		Title:      p.Title,
		Authors:    p.Authors,
		Summary:    p.Summary,
		Categories: p.Categories,
		PdfUrl:     p.PdfUrl,
		Published:  p.Published,
		Indexed:    p.Indexed,
		CreatedAt:  p.CreatedAt,
	}
}

func (m *PaperMapper) ToEntities(papers []*model.Paper) []*entity.Paper {
	entities := make([]*entity.Paper, len(papers))
	for i, p := range papers {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *PaperMapper) ToModels(papers []*entity.Paper) []*model.Paper {
	models := make([]*model.Paper, len(papers))
	for i, p := range papers {
		models[i] = m.ToModel(p)
	}
	return models
}
