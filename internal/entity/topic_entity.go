package entity

import (
	"time"

	"github.com/google/uuid"
)

// Topic is a saved arXiv search the scheduler fetches periodically.
type Topic struct {
	Id          uuid.UUID
	Name        string
	Query       string
	LastFetched *time.Time
	CreatedAt   time.Time
}
