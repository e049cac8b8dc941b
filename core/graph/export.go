package graph

import (
	"encoding/json"
	"io"

	"github.com/siherrmann/trailrag/model"
)

// Export returns a read-only attributed-graph dump of all nodes, edges and
// weights. Nodes come passages first, then entities, both sorted by id; edges
// come mentions first (source = passage), then co-occurrences (source = the
// lexicographically smaller entity id, each undirected edge listed once).
func (g *KnowledgeGraph) Export() *model.GraphDump {
	dump := &model.GraphDump{}

	for _, id := range g.PassageIDs() {
		passage := g.passages[id]
		dump.Nodes = append(dump.Nodes, model.GraphNode{
			ID:       id,
			NodeType: model.NodeTypePassage,
			Attrs: model.Metadata{
				"document_id": passage.DocumentID,
				"text":        passage.Text,
				"start_pos":   passage.StartPos,
				"end_pos":     passage.EndPos,
			},
		})
	}

	for _, id := range g.EntityIDs() {
		entity := g.entities[id]
		dump.Nodes = append(dump.Nodes, model.GraphNode{
			ID:       id,
			NodeType: model.NodeTypeEntity,
			Attrs: model.Metadata{
				"display":       entity.Display,
				"mention_count": len(entity.Mentions),
			},
		})
	}

	for _, passageID := range g.PassageIDs() {
		neighbors, _ := g.Neighbors(passageID, model.EdgeTypeMentions)
		for _, entityID := range neighbors {
			dump.Edges = append(dump.Edges, model.Edge{
				Source:   passageID,
				Target:   entityID,
				EdgeType: model.EdgeTypeMentions,
				Weight:   g.mentionsByPassage[passageID][entityID],
			})
		}
	}

	for _, entityID := range g.EntityIDs() {
		neighbors, _ := g.Neighbors(entityID, model.EdgeTypeCoOccurs)
		for _, otherID := range neighbors {
			if entityID >= otherID {
				continue
			}
			dump.Edges = append(dump.Edges, model.Edge{
				Source:   entityID,
				Target:   otherID,
				EdgeType: model.EdgeTypeCoOccurs,
				Weight:   g.cooccurs[entityID][otherID],
			})
		}
	}

	return dump
}

// ExportJSON writes the graph dump as indented JSON
func (g *KnowledgeGraph) ExportJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(g.Export())
}
