package conversation

import (
	"sync"
	"time"

	"paper-assistant-be/internal/constant"
	"paper-assistant-be/pkg/llm"
	"paper-assistant-be/pkg/store"

	"github.com/google/uuid"
)

// Message is one turn inside a conversation. Sources is only set on
// assistant turns that answered from retrieved papers.
type Message struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Sources   []store.Source `json:"sources,omitempty"`
}

// Stats is a point-in-time summary of one conversation.
type Stats struct {
	ConversationID    string    `json:"conversation_id"`
	CreatedAt         time.Time `json:"created_at"`
	LastActivity      time.Time `json:"last_activity"`
	MessageCount      int       `json:"message_count"`
	UserMessages      int       `json:"user_messages"`
	AssistantMessages int       `json:"assistant_messages"`
	TotalChars        int       `json:"total_chars"`
}

type record struct {
	mu        sync.Mutex
	createdAt time.Time
	messages  []Message
}

// Store keeps conversations in memory, keyed by id. All methods are safe
// for concurrent use; mutations on a single conversation are serialized by
// a per-record mutex so interleaved appends never corrupt message order.
//
// Unknown ids are not errors: reads come back empty and mutations report
// false, matching the forgiving semantics the HTTP surface exposes.
type Store struct {
	mu      sync.RWMutex
	records map[string]*record

	maxMessages   int // trim threshold, 2 messages per exchange
	contextBudget int // character budget for the model window
}

func NewStore() *Store {
	return &Store{
		records:       make(map[string]*record),
		maxMessages:   constant.MaxHistoryTurns * 2,
		contextBudget: constant.ContextWindowBudget,
	}
}

// Create registers a new empty conversation and returns its id.
func (s *Store) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.records[id] = &record{createdAt: time.Now()}
	s.mu.Unlock()
	return id
}

// Ensure returns a usable conversation id: empty input creates a fresh
// conversation, an unknown id is registered as-is, a known id is kept.
func (s *Store) Ensure(id string) string {
	if id == "" {
		return s.Create()
	}
	s.mu.Lock()
	if _, ok := s.records[id]; !ok {
		s.records[id] = &record{createdAt: time.Now()}
	}
	s.mu.Unlock()
	return id
}

// Exists reports whether the conversation is known.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	_, ok := s.records[id]
	s.mu.RUnlock()
	return ok
}

// Count returns the number of live conversations.
func (s *Store) Count() int {
	s.mu.RLock()
	n := len(s.records)
	s.mu.RUnlock()
	return n
}

func (s *Store) get(id string) *record {
	s.mu.RLock()
	r := s.records[id]
	s.mu.RUnlock()
	return r
}

// Append adds one message to the conversation. It reports false when the
// conversation does not exist.
func (s *Store) Append(id, role, content string, sources []store.Source) bool {
	r := s.get(id)
	if r == nil {
		return false
	}

	r.mu.Lock()
	r.append(Message{Role: role, Content: content, Timestamp: time.Now(), Sources: sources}, s.maxMessages)
	r.mu.Unlock()
	return true
}

// AppendExchange adds the user question and the assistant answer as one
// atomic unit, so concurrent pipelines can't interleave half-exchanges.
func (s *Store) AppendExchange(id, question, answer string, sources []store.Source) bool {
	r := s.get(id)
	if r == nil {
		return false
	}

	now := time.Now()
	r.mu.Lock()
	r.append(Message{Role: constant.ChatMessageRoleUser, Content: question, Timestamp: now}, s.maxMessages)
	r.append(Message{Role: constant.ChatMessageRoleAssistant, Content: answer, Timestamp: now, Sources: sources}, s.maxMessages)
	r.mu.Unlock()
	return true
}

// append must be called with r.mu held.
func (r *record) append(msg Message, maxMessages int) {
	r.messages = append(r.messages, msg)
	if len(r.messages) > maxMessages {
		// Drop the oldest turns; the slice is re-allocated so the trimmed
		// prefix does not pin the backing array.
		trimmed := make([]Message, maxMessages)
		copy(trimmed, r.messages[len(r.messages)-maxMessages:])
		r.messages = trimmed
	}
}

// History returns the last limit messages (all of them when limit <= 0).
// An unknown id yields an empty slice.
func (s *Store) History(id string, limit int) []Message {
	r := s.get(id)
	if r == nil {
		return []Message{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	msgs := r.messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// ContextWindow assembles the message window sent to the model: the system
// prompt followed by as many trailing messages as fit the character budget.
// The walk goes newest to oldest and stops at the first message that would
// overflow; the result is returned in chronological order.
func (s *Store) ContextWindow(id string, systemPrompt string) []llm.Message {
	window := []llm.Message{}
	if systemPrompt != "" {
		window = append(window, llm.Message{Role: constant.ChatMessageRoleSystem, Content: systemPrompt})
	}

	r := s.get(id)
	if r == nil {
		return window
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	used := 0
	included := make([]Message, 0, len(r.messages))
	for i := len(r.messages) - 1; i >= 0; i-- {
		msg := r.messages[i]
		if used+len(msg.Content) > s.contextBudget {
			break
		}
		used += len(msg.Content)
		included = append(included, msg)
	}

	// included is newest-first; reverse while converting.
	for i := len(included) - 1; i >= 0; i-- {
		window = append(window, llm.Message{Role: included[i].Role, Content: included[i].Content})
	}
	return window
}

// Stats returns summary counters; ok is false for unknown ids.
func (s *Store) Stats(id string) (Stats, bool) {
	r := s.get(id)
	if r == nil {
		return Stats{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	st := Stats{
		ConversationID: id,
		CreatedAt:      r.createdAt,
		LastActivity:   r.createdAt,
		MessageCount:   len(r.messages),
	}
	if n := len(r.messages); n > 0 {
		st.LastActivity = r.messages[n-1].Timestamp
	}
	for _, msg := range r.messages {
		st.TotalChars += len(msg.Content)
		switch msg.Role {
		case constant.ChatMessageRoleUser:
			st.UserMessages++
		case constant.ChatMessageRoleAssistant:
			st.AssistantMessages++
		}
	}
	return st, true
}

// Clear drops the messages but keeps the conversation (and its creation
// time). Reports false for unknown ids.
func (s *Store) Clear(id string) bool {
	r := s.get(id)
	if r == nil {
		return false
	}

	r.mu.Lock()
	r.messages = nil
	r.mu.Unlock()
	return true
}

// Delete removes the conversation entirely. Reports false for unknown ids.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return false
	}
	delete(s.records, id)
	return true
}

// EvictOlderThan removes conversations created more than maxAge ago and
// returns how many were dropped. Eviction is by creation time, not last
// activity.
func (s *Store) EvictOlderThan(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, r := range s.records {
		if r.createdAt.Before(cutoff) {
			delete(s.records, id)
			evicted++
		}
	}
	return evicted
}
