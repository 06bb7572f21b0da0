package dto

// PublishIndexPaperMessage is the payload of the PAPER_INGESTED topic:
// the paper that needs (re)embedding.
type PublishIndexPaperMessage struct {
	PaperId string `json:"paper_id"`
}
