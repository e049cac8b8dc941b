package model

type RetrievalMethod string

const (
	RetrievalMethodVector RetrievalMethod = "vector"
	RetrievalMethodGraph  RetrievalMethod = "graph"
	RetrievalMethodEntity RetrievalMethod = "entity"
)

// RetrievalResult represents a passage retrieved by a query.
// Trail is the ordered path of node identifiers justifying the passage's
// inclusion: a single-element path for pure vector seeds, an alternating
// passage/entity path for graph-discovered passages.
type RetrievalResult struct {
	PassageID       string          `json:"passage_id"`
	Text            string          `json:"text"`
	Score           float64         `json:"score"`
	VectorScore     float64         `json:"vector_score"`
	GraphScore      float64         `json:"graph_score"`
	Trail           []string        `json:"trail"`
	RetrievalMethod RetrievalMethod `json:"retrieval_method"`
}
