package model

// Entity represents a deduplicated, normalized reference to a named concept
// mentioned across one or more passages (a node in the knowledge graph).
// ID is the normalized surface form; Display keeps the first raw surface
// form observed for the entity.
type Entity struct {
	ID       string   `json:"id"`
	Display  string   `json:"display"`
	Mentions []string `json:"mentions,omitempty"` // Passage IDs the entity was observed in
}
