package store

// PaperMetadata carries the indexed paper fields surfaced alongside a hit.
type PaperMetadata struct {
	Title      string `json:"title"`
	Authors    string `json:"authors"`
	Categories string `json:"categories"`
	Published  string `json:"published"`
	PDFURL     string `json:"pdf_url"`
}

// Candidate is a single hit returned by the vector index. It only lives for
// the duration of one pipeline invocation.
type Candidate struct {
	ID       string        `json:"id"`
	Document string        `json:"document"`
	Metadata PaperMetadata `json:"metadata"`

	// Distance is the cosine distance in [0, 2]; 0 means identical.
	// HasDistance is false when the backend did not report one.
	Distance    float64 `json:"distance"`
	HasDistance bool    `json:"has_distance"`
}

// Source is the citation surfaced to the user alongside an answer.
// Relevance is pre-formatted ("93.2%", or "N/A" when no distance was
// reported by the index).
type Source struct {
	PaperID   string `json:"paper_id"`
	Title     string `json:"title"`
	Authors   string `json:"authors"`
	Published string `json:"published"`
	PdfUrl    string `json:"pdf_url"`
	Relevance string `json:"relevance"`
}
