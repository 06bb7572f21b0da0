package specification

import (
	"time"

	"gorm.io/gorm"
)

// ByPaperID filters by the arXiv identifier primary key
type ByPaperID struct {
	PaperID string
}

func (s ByPaperID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.PaperID)
}

// Unindexed selects papers that have not been embedded yet
type Unindexed struct{}

func (s Unindexed) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("indexed = ?", false)
}

// PublishedSince selects papers published after the cutoff
type PublishedSince struct {
	Cutoff time.Time
}

func (s PublishedSince) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("published >= ?", s.Cutoff)
}

// ByCategory matches papers whose category list contains the given category
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("categories LIKE ?", "%"+s.Category+"%")
}

// TitleOrSummaryLike is the local keyword search over title and abstract
type TitleOrSummaryLike struct {
	Keyword string
}

func (s TitleOrSummaryLike) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Keyword + "%"
	return db.Where("title ILIKE ? OR summary ILIKE ?", pattern, pattern)
}

// ByTopicName filters topics by their unique name
type ByTopicName struct {
	Name string
}

func (s ByTopicName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}
