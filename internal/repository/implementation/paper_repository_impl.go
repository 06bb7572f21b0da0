package implementation

import (
	"context"
	"errors"

	"paper-assistant-be/internal/entity"
	"paper-assistant-be/internal/mapper"
	"paper-assistant-be/internal/model"
	"paper-assistant-be/internal/repository/contract"
	"paper-assistant-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaperRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PaperMapper
}

func NewPaperRepository(db *gorm.DB) contract.PaperRepository {
	return &PaperRepositoryImpl{
		db:     db,
		mapper: mapper.NewPaperMapper(),
	}
}

func (r *PaperRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PaperRepositoryImpl) Upsert(ctx context.Context, paper *entity.Paper) (bool, error) {
	m := r.mapper.ToModel(paper)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(m)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PaperRepositoryImpl) MarkIndexed(ctx context.Context, paperId string) error {
	return r.db.WithContext(ctx).
		Model(&model.Paper{}).
		Where("id = ?", paperId).
		Update("indexed", true).Error
}

func (r *PaperRepositoryImpl) Delete(ctx context.Context, paperId string) error {
	return r.db.WithContext(ctx).Where("id = ?", paperId).Delete(&model.Paper{}).Error
}

func (r *PaperRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Paper, error) {
	var m model.Paper
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PaperRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Paper, error) {
	var models []*model.Paper
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *PaperRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Paper{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PaperRepositoryImpl) AddFavorite(ctx context.Context, paperId string) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Favorite{PaperId: paperId})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PaperRepositoryImpl) RemoveFavorite(ctx context.Context, paperId string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("paper_id = ?", paperId).
		Delete(&model.Favorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PaperRepositoryImpl) IsFavorite(ctx context.Context, paperId string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Favorite{}).
		Where("paper_id = ?", paperId).
		Count(&count).Error
	return count > 0, err
}

func (r *PaperRepositoryImpl) FindFavorites(ctx context.Context, limit, offset int) ([]*entity.Paper, error) {
	var models []*model.Paper
	err := r.db.WithContext(ctx).
		Joins("JOIN favorites ON favorites.paper_id = papers.id").
		Order("favorites.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	papers := r.mapper.ToEntities(models)
	for _, p := range papers {
		p.IsFavorite = true
	}
	return papers, nil
}
