package dto

import "time"

type IndexStatsResponse struct {
	IndexedChunks int64 `json:"indexed_chunks"`
	TotalPapers   int64 `json:"total_papers"`
	IndexedPapers int64 `json:"indexed_papers"`
	PendingPapers int64 `json:"pending_papers"`
}

type SystemStatusResponse struct {
	Papers        int64     `json:"papers"`
	Topics        int64     `json:"topics"`
	IndexedChunks int64     `json:"indexed_chunks"`
	Conversations int       `json:"conversations"`
	LLMEnabled    bool      `json:"llm_enabled"`
	SchedulerUp   bool      `json:"scheduler_up"`
	Time          time.Time `json:"time"`
}

type TaskStatusResponse struct {
	Name    string     `json:"name"`
	Kind    string     `json:"kind"` // "daily" | "interval"
	LastRun *time.Time `json:"last_run,omitempty"`
	NextRun time.Time  `json:"next_run"`
	Running bool       `json:"running"`
}
