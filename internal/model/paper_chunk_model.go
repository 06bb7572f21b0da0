package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type PaperChunk struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PaperId        string          `gorm:"type:varchar(64);not null;index"`
	Paper          Paper           `gorm:"foreignKey:PaperId;references:Id;constraint:OnDelete:CASCADE"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text / text-embedding-004 dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (PaperChunk) TableName() string {
	return "paper_embeddings"
}
