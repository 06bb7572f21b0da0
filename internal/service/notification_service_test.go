package service

import (
	"testing"

	"paper-assistant-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestDescribeEvent(t *testing.T) {
	tests := []struct {
		name        string
		event       events.Event
		wantTitle   string
		wantMessage string
	}{
		{
			name:        "papers fetched",
			event:       events.NewPapersFetched("llm agents", 7),
			wantTitle:   "New papers fetched",
			wantMessage: `7 new papers stored for topic "llm agents"`,
		},
		{
			name:        "papers indexed",
			event:       events.NewPapersIndexed(12),
			wantTitle:   "Papers indexed",
			wantMessage: "12 papers embedded into the search index",
		},
		{
			name:        "digest sent",
			event:       events.NewDigestSent(3, "me@example.com"),
			wantTitle:   "Daily digest sent",
			wantMessage: "Digest with 3 papers mailed to me@example.com",
		},
		{
			name:        "unknown event",
			event:       events.BaseEvent{Type: "SOMETHING_ELSE"},
			wantTitle:   "SOMETHING_ELSE",
			wantMessage: "Event received",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, message := describeEvent(tt.event)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

func TestAsInt(t *testing.T) {
	// json.Unmarshal turns numbers into float64; both forms must work.
	assert.Equal(t, 7, asInt(7))
	assert.Equal(t, 7, asInt(float64(7)))
	assert.Equal(t, 0, asInt("7"))
	assert.Equal(t, 0, asInt(nil))
}
