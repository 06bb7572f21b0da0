package entity

import (
	"time"

	"github.com/google/uuid"
)

// PaperChunk is the indexed representation of a paper: the embedded text
// (title + abstract) plus its vector.
type PaperChunk struct {
	Id             uuid.UUID
	PaperId        string
	Document       string
	EmbeddingValue []float32
	CreatedAt      time.Time
}
