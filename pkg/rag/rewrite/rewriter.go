package rewrite

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"paper-assistant-be/internal/constant"
	"paper-assistant-be/pkg/llm"
	"paper-assistant-be/pkg/rag/conversation"
)

// Rewriter turns a (possibly context-dependent) question into a standalone
// search query. It is strictly best-effort: any failure falls back to the
// original question so the pipeline never stalls on this stage.
type Rewriter struct {
	provider llm.LLMProvider
	store    *conversation.Store
	log      *log.Logger
	timeout  time.Duration
}

func NewRewriter(provider llm.LLMProvider, store *conversation.Store, logger *log.Logger) *Rewriter {
	return &Rewriter{
		provider: provider,
		store:    store,
		log:      logger,
		timeout:  20 * time.Second,
	}
}

func (r *Rewriter) Rewrite(ctx context.Context, question, conversationID string) string {
	if r.provider == nil {
		return question
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	prompt := r.buildPrompt(question, conversationID)

	rewritten, err := r.provider.Generate(ctx, prompt,
		llm.WithTemperature(0.3),
		llm.WithMaxTokens(100),
	)
	if err != nil {
		r.log.Printf("[rewrite] falling back to original question: %v", err)
		return question
	}

	rewritten = sanitize(rewritten)
	if rewritten == "" {
		r.log.Printf("[rewrite] model returned empty rewrite, keeping original")
		return question
	}

	if rewritten != question {
		r.log.Printf("[rewrite] %q -> %q", question, rewritten)
	}
	return rewritten
}

func (r *Rewriter) buildPrompt(question, conversationID string) string {
	if conversationID != "" {
		history := r.store.History(conversationID, constant.RewriteHistoryMessages)
		if len(history) > 0 {
			var transcript strings.Builder
			for _, msg := range history {
				transcript.WriteString(msg.Role)
				transcript.WriteString(": ")
				transcript.WriteString(msg.Content)
				transcript.WriteString("\n")
			}
			return fmt.Sprintf(constant.QueryRewriteWithHistoryPromptV1, transcript.String(), question)
		}
	}
	return fmt.Sprintf(constant.QueryRewriteStandalonePromptV1, question)
}

// sanitize strips the quoting and labels chat models like to wrap short
// outputs in.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	for _, prefix := range []string{"Query:", "query:", "Rewritten query:", "Search query:"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
	}
	// A multi-line reply means the model ignored instructions; take the
	// first non-empty line.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		for _, line := range strings.Split(s, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				return strings.Trim(line, `"'`)
			}
		}
		return ""
	}
	return s
}
