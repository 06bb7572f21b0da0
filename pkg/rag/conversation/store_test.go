package conversation

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"paper-assistant-be/internal/constant"
	"paper-assistant-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestEnsure(t *testing.T) {
	s := NewStore()

	id := s.Ensure("")
	assert.NotEmpty(t, id)
	assert.True(t, s.Exists(id))

	// Unknown ids are registered as-is.
	same := s.Ensure("my-conversation")
	assert.Equal(t, "my-conversation", same)
	assert.True(t, s.Exists("my-conversation"))

	// Known ids are kept.
	assert.Equal(t, id, s.Ensure(id))
	assert.Equal(t, 2, s.Count())
}

func TestAppendUnknownConversation(t *testing.T) {
	s := NewStore()

	assert.False(t, s.Append("nope", constant.ChatMessageRoleUser, "hello", nil))
	assert.False(t, s.AppendExchange("nope", "q", "a", nil))
	assert.Empty(t, s.History("nope", 0))
}

func TestAppendExchangeAndHistory(t *testing.T) {
	s := NewStore()
	id := s.Create()

	sources := []store.Source{{PaperID: "2405.00001", Title: "Paper"}}
	assert.True(t, s.AppendExchange(id, "what is attention?", "an answer", sources))

	history := s.History(id, 0)
	assert.Len(t, history, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, history[0].Role)
	assert.Equal(t, "what is attention?", history[0].Content)
	assert.Nil(t, history[0].Sources)
	assert.Equal(t, constant.ChatMessageRoleAssistant, history[1].Role)
	assert.Equal(t, sources, history[1].Sources)

	// limit returns the tail
	assert.Len(t, s.History(id, 1), 1)
	assert.Equal(t, constant.ChatMessageRoleAssistant, s.History(id, 1)[0].Role)
}

func TestHistoryTrimsOldestTurns(t *testing.T) {
	s := NewStore()
	id := s.Create()

	for i := 0; i < constant.MaxHistoryTurns+5; i++ {
		s.AppendExchange(id, fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i), nil)
	}

	history := s.History(id, 0)
	assert.Len(t, history, constant.MaxHistoryTurns*2)
	// The oldest surviving turn is the one 10 exchanges from the end.
	assert.Equal(t, "q5", history[0].Content)
	assert.Equal(t, "a14", history[len(history)-1].Content)
}

func TestContextWindowBudget(t *testing.T) {
	s := NewStore()
	id := s.Create()

	big := strings.Repeat("x", constant.ContextWindowBudget-10)
	s.AppendExchange(id, "old question", big, nil)
	s.AppendExchange(id, "new question", "short", nil)

	window := s.ContextWindow(id, "system prompt")

	// The oversized assistant turn and everything before it fall out.
	assert.Equal(t, constant.ChatMessageRoleSystem, window[0].Role)
	contents := make([]string, 0, len(window))
	for _, m := range window[1:] {
		contents = append(contents, m.Content)
	}
	assert.Equal(t, []string{"new question", "short"}, contents)
}

func TestContextWindowUnknownConversation(t *testing.T) {
	s := NewStore()

	window := s.ContextWindow("nope", "prompt")
	assert.Len(t, window, 1)
	assert.Equal(t, constant.ChatMessageRoleSystem, window[0].Role)
}

func TestStats(t *testing.T) {
	s := NewStore()
	id := s.Create()
	s.AppendExchange(id, "abcd", "efghij", nil)

	st, ok := s.Stats(id)
	assert.True(t, ok)
	assert.Equal(t, id, st.ConversationID)
	assert.Equal(t, 2, st.MessageCount)
	assert.Equal(t, 1, st.UserMessages)
	assert.Equal(t, 1, st.AssistantMessages)
	assert.Equal(t, 10, st.TotalChars)

	// Last activity is the final message's timestamp.
	history := s.History(id, 0)
	assert.Equal(t, history[len(history)-1].Timestamp, st.LastActivity)

	_, ok = s.Stats("nope")
	assert.False(t, ok)
}

func TestStatsEmptyConversationFallsBackToCreation(t *testing.T) {
	s := NewStore()
	id := s.Create()

	st, ok := s.Stats(id)
	assert.True(t, ok)
	assert.Equal(t, st.CreatedAt, st.LastActivity)
}

func TestClearKeepsConversation(t *testing.T) {
	s := NewStore()
	id := s.Create()
	s.AppendExchange(id, "q", "a", nil)

	assert.True(t, s.Clear(id))
	assert.True(t, s.Exists(id))
	assert.Empty(t, s.History(id, 0))

	assert.False(t, s.Clear("nope"))
}

func TestDelete(t *testing.T) {
	s := NewStore()
	id := s.Create()

	assert.True(t, s.Delete(id))
	assert.False(t, s.Exists(id))
	assert.False(t, s.Delete(id))
}

func TestEvictOlderThan(t *testing.T) {
	s := NewStore()
	old := s.Create()
	s.records[old].createdAt = time.Now().Add(-48 * time.Hour)
	fresh := s.Create()

	evicted := s.EvictOlderThan(24 * time.Hour)
	assert.Equal(t, 1, evicted)
	assert.False(t, s.Exists(old))
	assert.True(t, s.Exists(fresh))
}
