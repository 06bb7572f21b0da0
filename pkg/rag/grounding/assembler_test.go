package grounding

import (
	"strings"
	"testing"
	"unicode/utf8"

	"paper-assistant-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestBuildContext(t *testing.T) {
	a := &Assembler{TruncateLen: 20}

	candidates := []store.Candidate{
		{
			ID:       "2405.00001",
			Document: "short document",
			Metadata: store.PaperMetadata{
				Title:      "First Paper",
				Authors:    "Ada Lovelace",
				Categories: "cs.CL",
			},
		},
		{
			ID:       "2405.00002",
			Document: strings.Repeat("x", 50),
			Metadata: store.PaperMetadata{Title: "Second Paper"},
		},
	}

	got := a.BuildContext(candidates)

	assert.Contains(t, got, "[Paper 1]\nTitle: First Paper\nAuthors: Ada Lovelace\nCategories: cs.CL\nContent: short document")
	assert.Contains(t, got, "[Paper 2]\nTitle: Second Paper\nContent: "+strings.Repeat("x", 20)+"...")
	// Second paper has no authors or categories, so those lines are absent.
	assert.Equal(t, 1, strings.Count(got, "Authors:"))
	assert.Equal(t, 1, strings.Count(got, "Categories:"))
}

func TestBuildContextEmpty(t *testing.T) {
	a := NewAssembler()
	assert.Equal(t, "", a.BuildContext(nil))
}

func TestBuildContextTruncatesOnRuneBoundary(t *testing.T) {
	a := &Assembler{TruncateLen: 10}

	candidates := []store.Candidate{{
		Document: strings.Repeat("é", 30),
		Metadata: store.PaperMetadata{Title: "Accents"},
	}}

	got := a.BuildContext(candidates)

	assert.Contains(t, got, "Content: "+strings.Repeat("é", 10)+"...")
	assert.True(t, utf8.ValidString(got))
}

func TestFormatSources(t *testing.T) {
	a := NewAssembler()

	candidates := []store.Candidate{
		{
			ID:          "2405.00001",
			Distance:    0.25,
			HasDistance: true,
			Metadata: store.PaperMetadata{
				Title:     "First Paper",
				Authors:   "Ada Lovelace",
				Published: "2024-05-01",
				PDFURL:    "https://arxiv.org/pdf/2405.00001",
			},
		},
		{
			ID:       "2405.00002",
			Metadata: store.PaperMetadata{Title: "Second Paper"},
		},
	}

	sources := a.FormatSources(candidates)

	assert.Len(t, sources, 2)
	assert.Equal(t, "2405.00001", sources[0].PaperID)
	assert.Equal(t, "75.0%", sources[0].Relevance)
	assert.Equal(t, "2024-05-01", sources[0].Published)
	assert.Equal(t, "N/A", sources[1].Relevance)
}
