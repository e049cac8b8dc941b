package model

// EdgeType represents the type of relationship between nodes
type EdgeType string

const (
	// EdgeTypeMentions connects exactly one passage node and one entity node,
	// weighted by the mention count within that passage.
	EdgeTypeMentions EdgeType = "mentions"
	// EdgeTypeCoOccurs connects two distinct entity nodes, weighted by the
	// co-occurrence count accumulated across passages.
	EdgeTypeCoOccurs EdgeType = "co_occurs"
)

// NodeType distinguishes the two node namespaces of the heterogeneous graph.
type NodeType string

const (
	NodeTypePassage NodeType = "passage"
	NodeTypeEntity  NodeType = "entity"
)

// Edge represents a weighted relationship between two graph nodes.
// Edges are undirected for traversal purposes; Source records the
// directional origin of creation for auditability.
type Edge struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	EdgeType EdgeType `json:"edge_type"`
	Weight   float64  `json:"weight"`
}

// GraphDump is a read-only attributed-graph snapshot of all nodes, edges and
// weights, the interchange form consumed by external visualization tools and
// the Postgres export.
type GraphDump struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []Edge      `json:"edges"`
}

// GraphNode is one node of a GraphDump with its type and attributes.
type GraphNode struct {
	ID       string   `json:"id"`
	NodeType NodeType `json:"node_type"`
	Attrs    Metadata `json:"attrs,omitempty"`
}
