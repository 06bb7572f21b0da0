package grounding

import (
	"fmt"
	"strings"

	"paper-assistant-be/internal/constant"
	"paper-assistant-be/pkg/store"
)

// Assembler turns ranked candidates into the grounding block handed to the
// model, and into the citation list handed to the user.
type Assembler struct {
	TruncateLen int
}

func NewAssembler() *Assembler {
	return &Assembler{
		TruncateLen: constant.DocumentTruncateLen,
	}
}

// BuildContext renders one "[Paper i]" section per candidate, 1-based, in
// rank order. Long documents are cut at TruncateLen with an ellipsis.
func (a *Assembler) BuildContext(candidates []store.Candidate) string {
	sections := make([]string, 0, len(candidates))
	for i, c := range candidates {
		document := c.Document
		// Truncation counts runes; abstracts carry non-ASCII math and names.
		if runes := []rune(document); len(runes) > a.TruncateLen {
			document = string(runes[:a.TruncateLen]) + "..."
		}

		var b strings.Builder
		fmt.Fprintf(&b, "[Paper %d]\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", c.Metadata.Title)
		if c.Metadata.Authors != "" {
			fmt.Fprintf(&b, "Authors: %s\n", c.Metadata.Authors)
		}
		if c.Metadata.Categories != "" {
			fmt.Fprintf(&b, "Categories: %s\n", c.Metadata.Categories)
		}
		fmt.Fprintf(&b, "Content: %s", document)
		sections = append(sections, b.String())
	}
	return strings.Join(sections, "\n\n")
}

// FormatSources maps candidates to user-facing citations in the same
// order. Relevance converts cosine distance to a percentage with one
// decimal; candidates without a distance get "N/A".
func (a *Assembler) FormatSources(candidates []store.Candidate) []store.Source {
	sources := make([]store.Source, len(candidates))
	for i, c := range candidates {
		relevance := "N/A"
		if c.HasDistance {
			relevance = fmt.Sprintf("%.1f%%", (1-c.Distance)*100)
		}
		sources[i] = store.Source{
			PaperID:   c.ID,
			Title:     c.Metadata.Title,
			Authors:   c.Metadata.Authors,
			Published: c.Metadata.Published,
			PdfUrl:    c.Metadata.PDFURL,
			Relevance: relevance,
		}
	}
	return sources
}
