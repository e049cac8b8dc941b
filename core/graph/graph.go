package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/siherrmann/trailrag/model"
)

// KnowledgeGraph is a heterogeneous in-memory graph of passage and entity
// nodes connected by weighted mentions and co-occurrence edges.
//
// Nodes and edges are created exclusively by the Builder during ingestion and
// the graph is append-only within a single build: weights only ever increase
// and nothing is removed except by a full rebuild. Once built, the graph is
// safe for concurrent readers; no mutation API is intended for post-build use.
//
// The store permits arbitrary cycles in the co-occurrence graph. Cycle
// handling during traversal is the retrieval engine's responsibility.
type KnowledgeGraph struct {
	passages map[string]*model.Passage
	entities map[string]*model.Entity

	// Type-segregated adjacency, both orientations kept for O(1) lookup.
	mentionsByPassage map[string]map[string]float64 // passage id -> entity id -> weight
	mentionsByEntity  map[string]map[string]float64 // entity id -> passage id -> weight
	cooccurs          map[string]map[string]float64 // entity id -> entity id -> weight

	cooccurEdges int
}

// NewKnowledgeGraph creates an empty knowledge graph
func NewKnowledgeGraph() *KnowledgeGraph {
	return &KnowledgeGraph{
		passages:          map[string]*model.Passage{},
		entities:          map[string]*model.Entity{},
		mentionsByPassage: map[string]map[string]float64{},
		mentionsByEntity:  map[string]map[string]float64{},
		cooccurs:          map[string]map[string]float64{},
	}
}

// NormalizeEntityID derives the entity node identifier from a raw surface
// form: case-folded with whitespace runs collapsed to single underscores.
func NormalizeEntityID(surface string) string {
	return strings.Join(strings.Fields(strings.ToLower(surface)), "_")
}

// AddPassage creates a passage node. It fails with ErrDuplicateNode if the id
// already exists as a passage or collides with an entity id; the graph is
// unchanged on error.
func (g *KnowledgeGraph) AddPassage(id, text, docID string, startPos, endPos int) (*model.Passage, error) {
	if _, ok := g.passages[id]; ok {
		return nil, fmt.Errorf("%w: passage %q already exists", ErrDuplicateNode, id)
	}
	if _, ok := g.entities[id]; ok {
		return nil, fmt.Errorf("%w: id %q already exists as an entity", ErrDuplicateNode, id)
	}

	passage := &model.Passage{
		ID:         id,
		DocumentID: docID,
		Text:       text,
		StartPos:   startPos,
		EndPos:     endPos,
	}
	g.passages[id] = passage
	g.mentionsByPassage[id] = map[string]float64{}

	return passage, nil
}

// AddEntity creates an entity node or returns the existing one (idempotent).
// It fails with ErrDuplicateNode only if the id collides with a passage id.
func (g *KnowledgeGraph) AddEntity(id, display string) (*model.Entity, error) {
	if _, ok := g.passages[id]; ok {
		return nil, fmt.Errorf("%w: id %q already exists as a passage", ErrDuplicateNode, id)
	}

	if entity, ok := g.entities[id]; ok {
		return entity, nil
	}

	entity := &model.Entity{
		ID:      id,
		Display: display,
	}
	g.entities[id] = entity
	g.mentionsByEntity[id] = map[string]float64{}
	g.cooccurs[id] = map[string]float64{}

	return entity, nil
}

// AddMention creates a mentions edge between a passage and an entity at
// weight 1, or increments the weight if the edge exists. It returns the new
// weight and fails with ErrUnknownNode if either endpoint is absent.
func (g *KnowledgeGraph) AddMention(passageID, entityID string) (float64, error) {
	if _, ok := g.passages[passageID]; !ok {
		return 0, fmt.Errorf("%w: passage %q", ErrUnknownNode, passageID)
	}
	entity, ok := g.entities[entityID]
	if !ok {
		return 0, fmt.Errorf("%w: entity %q", ErrUnknownNode, entityID)
	}

	weight, exists := g.mentionsByPassage[passageID][entityID]
	weight++
	g.mentionsByPassage[passageID][entityID] = weight
	g.mentionsByEntity[entityID][passageID] = weight

	// Extend the mention list once per distinct (passage, entity) pair
	if !exists {
		entity.Mentions = append(entity.Mentions, passageID)
	}

	return weight, nil
}

// AddCooccurrence creates a symmetric co-occurrence edge between two distinct
// entities at weight 1, or increments the weight if the edge exists. It
// returns the new weight, fails with ErrSelfLoop if a == b and with
// ErrUnknownNode if either entity is absent.
func (g *KnowledgeGraph) AddCooccurrence(a, b string) (float64, error) {
	if a == b {
		return 0, fmt.Errorf("%w: entity %q co-occurring with itself", ErrSelfLoop, a)
	}
	if _, ok := g.entities[a]; !ok {
		return 0, fmt.Errorf("%w: entity %q", ErrUnknownNode, a)
	}
	if _, ok := g.entities[b]; !ok {
		return 0, fmt.Errorf("%w: entity %q", ErrUnknownNode, b)
	}

	weight, exists := g.cooccurs[a][b]
	weight++
	g.cooccurs[a][b] = weight
	g.cooccurs[b][a] = weight

	if !exists {
		g.cooccurEdges++
	}

	return weight, nil
}

// Neighbors returns the ids of all nodes connected to nodeID, optionally
// filtered by edge type (empty edgeType means all types). The result is
// sorted ascending for deterministic traversal. It fails with ErrUnknownNode
// if the node does not exist.
func (g *KnowledgeGraph) Neighbors(nodeID string, edgeType model.EdgeType) ([]string, error) {
	var neighbors []string

	switch {
	case g.isPassage(nodeID):
		if edgeType == "" || edgeType == model.EdgeTypeMentions {
			for entityID := range g.mentionsByPassage[nodeID] {
				neighbors = append(neighbors, entityID)
			}
		}
	case g.isEntity(nodeID):
		if edgeType == "" || edgeType == model.EdgeTypeMentions {
			for passageID := range g.mentionsByEntity[nodeID] {
				neighbors = append(neighbors, passageID)
			}
		}
		if edgeType == "" || edgeType == model.EdgeTypeCoOccurs {
			for entityID := range g.cooccurs[nodeID] {
				neighbors = append(neighbors, entityID)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, nodeID)
	}

	sort.Strings(neighbors)
	return neighbors, nil
}

// EdgeWeight returns the weight of the edge between two nodes, or 0 if no
// edge exists. Edge direction does not matter.
func (g *KnowledgeGraph) EdgeWeight(a, b string) float64 {
	if weights, ok := g.mentionsByPassage[a]; ok {
		if w, ok := weights[b]; ok {
			return w
		}
	}
	if weights, ok := g.mentionsByEntity[a]; ok {
		if w, ok := weights[b]; ok {
			return w
		}
	}
	if weights, ok := g.cooccurs[a]; ok {
		if w, ok := weights[b]; ok {
			return w
		}
	}
	return 0
}

// Passage returns the passage node with the given id
func (g *KnowledgeGraph) Passage(id string) (*model.Passage, bool) {
	passage, ok := g.passages[id]
	return passage, ok
}

// Entity returns the entity node with the given id
func (g *KnowledgeGraph) Entity(id string) (*model.Entity, bool) {
	entity, ok := g.entities[id]
	return entity, ok
}

// NodeType returns the type of the node with the given id
func (g *KnowledgeGraph) NodeType(id string) (model.NodeType, bool) {
	if g.isPassage(id) {
		return model.NodeTypePassage, true
	}
	if g.isEntity(id) {
		return model.NodeTypeEntity, true
	}
	return "", false
}

// PassageIDs returns all passage node ids sorted ascending
func (g *KnowledgeGraph) PassageIDs() []string {
	ids := make([]string, 0, len(g.passages))
	for id := range g.passages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EntityIDs returns all entity node ids sorted ascending
func (g *KnowledgeGraph) EntityIDs() []string {
	ids := make([]string, 0, len(g.entities))
	for id := range g.entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NumPassages returns the number of passage nodes
func (g *KnowledgeGraph) NumPassages() int {
	return len(g.passages)
}

// NumEntities returns the number of entity nodes
func (g *KnowledgeGraph) NumEntities() int {
	return len(g.entities)
}

// NumEdges returns the number of distinct edges of both types
func (g *KnowledgeGraph) NumEdges() int {
	mentions := 0
	for _, weights := range g.mentionsByPassage {
		mentions += len(weights)
	}
	return mentions + g.cooccurEdges
}

func (g *KnowledgeGraph) isPassage(id string) bool {
	_, ok := g.passages[id]
	return ok
}

func (g *KnowledgeGraph) isEntity(id string) bool {
	_, ok := g.entities[id]
	return ok
}
