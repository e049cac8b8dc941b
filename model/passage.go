package model

// Passage represents a contiguous span of source text, the unit of retrieval
// and a node in the knowledge graph. Passages are immutable once created by
// the graph builder.
type Passage struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
	StartPos   int    `json:"start_pos"`
	EndPos     int    `json:"end_pos"`
}

// ExtractedEntity is one extraction result for a passage: a raw surface form
// and the surface forms it was reported as related to within the same passage.
// Normalization of surface forms is the graph builder's responsibility.
type ExtractedEntity struct {
	Surface string   `json:"surface"`
	Related []string `json:"related,omitempty"`
}
