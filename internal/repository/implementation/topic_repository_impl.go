package implementation

import (
	"context"
	"errors"
	"time"

	"paper-assistant-be/internal/entity"
	"paper-assistant-be/internal/mapper"
	"paper-assistant-be/internal/model"
	"paper-assistant-be/internal/repository/contract"
	"paper-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TopicRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TopicMapper
}

func NewTopicRepository(db *gorm.DB) contract.TopicRepository {
	return &TopicRepositoryImpl{
		db:     db,
		mapper: mapper.NewTopicMapper(),
	}
}

func (r *TopicRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TopicRepositoryImpl) Create(ctx context.Context, topic *entity.Topic) error {
	m := r.mapper.ToModel(topic)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*topic = *r.mapper.ToEntity(m)
	return nil
}

func (r *TopicRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&model.Topic{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *TopicRepositoryImpl) TouchLastFetched(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Topic{}).
		Where("id = ?", id).
		Update("last_fetched", at).Error
}

func (r *TopicRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Topic, error) {
	var m model.Topic
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TopicRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Topic, error) {
	var models []*model.Topic
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TopicRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Topic{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
