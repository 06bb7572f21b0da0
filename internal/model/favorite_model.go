package model

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PaperId   string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	Paper     Paper     `gorm:"foreignKey:PaperId;references:Id;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Favorite) TableName() string {
	return "favorites"
}
