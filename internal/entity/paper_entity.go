package entity

import (
	"time"
)

// Paper is an arXiv paper as stored locally. Id is the arXiv identifier
// (e.g. "2405.12345v2"), not a surrogate key.
type Paper struct {
	Id         string
	Title      string
	Authors    string
	Summary    string
	Categories string
	PdfUrl     string
	Published  time.Time
	Indexed    bool
	IsFavorite bool
	CreatedAt  time.Time
}
