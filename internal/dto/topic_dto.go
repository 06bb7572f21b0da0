package dto

import "time"

type CreateTopicRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=255"`
	Query string `json:"query" validate:"required,min=1,max=512"`
}

type TopicResponse struct {
	Id          string     `json:"id"`
	Name        string     `json:"name"`
	Query       string     `json:"query"`
	LastFetched *time.Time `json:"last_fetched,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type FetchTopicResult struct {
	Topic   string `json:"topic"`
	Fetched int    `json:"fetched"`
	Created int    `json:"created"`
	Error   string `json:"error,omitempty"`
}
