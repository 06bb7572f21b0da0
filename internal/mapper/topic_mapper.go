package mapper

import (
	"paper-assistant-be/internal/entity"
	"paper-assistant-be/internal/model"
)

type TopicMapper struct{}

func NewTopicMapper() *TopicMapper {
	return &TopicMapper{}
}

func (m *TopicMapper) ToEntity(t *model.Topic) *entity.Topic {
	if t == nil {
		return nil
	}

	return &entity.Topic{
		Id:          t.Id,
		Name:        t.Name,
		Query:       t.Query,
		LastFetched: t.LastFetched,
		CreatedAt:   t.CreatedAt,
	}
}

func (m *TopicMapper) ToModel(t *entity.Topic) *model.Topic {
	if t == nil {
		return nil
	}

	return &model.Topic{
		Id:          t.Id,
		Name:        t.Name,
		Query:       t.Query,
		LastFetched: t.LastFetched,
		CreatedAt:   t.CreatedAt,
	}
}

func (m *TopicMapper) ToEntities(topics []*model.Topic) []*entity.Topic {
	entities := make([]*entity.Topic, len(topics))
	for i, t := range topics {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
