package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification stores the pipeline event history surfaced to the UI
// (papers fetched, index rebuilt, digest sent).
type Notification struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TypeCode  string         `gorm:"type:varchar(50);not null;index" json:"type_code"`
	Title     string         `gorm:"type:varchar(200);not null" json:"title"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	IsRead    bool           `gorm:"default:false" json:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
