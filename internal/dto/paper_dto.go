package dto

import "time"

type PaperResponse struct {
	Id         string    `json:"id"`
	Title      string    `json:"title"`
	Authors    string    `json:"authors"`
	Summary    string    `json:"summary"`
	Categories string    `json:"categories"`
	PdfUrl     string    `json:"pdf_url"`
	Published  time.Time `json:"published"`
	Indexed    bool      `json:"indexed"`
	IsFavorite bool      `json:"is_favorite"`
}

type ListPapersRequest struct {
	Limit    int    `query:"limit"`
	Offset   int    `query:"offset"`
	Category string `query:"category"`
}

type SearchPapersRequest struct {
	Keyword string `json:"keyword" validate:"required,min=1"`
	Limit   int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

type ArxivSearchRequest struct {
	Query      string `json:"query" validate:"required,min=1"`
	MaxResults int    `json:"max_results" validate:"omitempty,min=1,max=100"`
}

type ArxivSearchResponse struct {
	Papers  []PaperResponse `json:"papers"`
	Fetched int             `json:"fetched"`
	Created int             `json:"created"`
}
