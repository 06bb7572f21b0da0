package model

import (
	"time"
)

type Paper struct {
	Id         string    `gorm:"type:varchar(64);primaryKey"` // arXiv identifier
	Title      string    `gorm:"type:text;not null"`
	Authors    string    `gorm:"type:text"`
	Summary    string    `gorm:"type:text"`
	Categories string    `gorm:"type:varchar(255);index"`
	PdfUrl     string    `gorm:"type:varchar(512)"`
	Published  time.Time `gorm:"index"`
	Indexed    bool      `gorm:"default:false;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (Paper) TableName() string {
	return "papers"
}
