package model

import (
	"time"

	"github.com/google/uuid"
)

type Topic struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Query       string     `gorm:"type:varchar(512);not null"`
	LastFetched *time.Time `gorm:""`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
}

func (Topic) TableName() string {
	return "topics"
}
