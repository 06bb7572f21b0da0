package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "PAPERS_FETCHED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event codes published on the notification stream.
const (
	TypePapersFetched = "PAPERS_FETCHED"
	TypePapersIndexed = "PAPERS_INDEXED"
	TypeDigestSent    = "DIGEST_SENT"
)

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NewPapersFetched(topic string, created int) Event {
	return BaseEvent{
		Type: TypePapersFetched,
		Data: map[string]interface{}{
			"topic":   topic,
			"created": created,
		},
		OccurredAt: time.Now(),
	}
}

func NewPapersIndexed(indexed int) Event {
	return BaseEvent{
		Type: TypePapersIndexed,
		Data: map[string]interface{}{
			"indexed": indexed,
		},
		OccurredAt: time.Now(),
	}
}

func NewDigestSent(papers int, recipient string) Event {
	return BaseEvent{
		Type: TypeDigestSent,
		Data: map[string]interface{}{
			"papers":    papers,
			"recipient": recipient,
		},
		OccurredAt: time.Now(),
	}
}
