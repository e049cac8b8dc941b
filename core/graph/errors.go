package graph

import "errors"

var (
	// ErrDuplicateNode is returned when a passage id is inserted twice, or a
	// node id would collide across the passage and entity namespaces.
	ErrDuplicateNode = errors.New("duplicate node")
	// ErrUnknownNode is returned when an edge references a node that does not
	// exist. This indicates an extraction or build ordering bug upstream.
	ErrUnknownNode = errors.New("unknown node")
	// ErrSelfLoop is returned when a co-occurrence edge would connect an
	// entity to itself.
	ErrSelfLoop = errors.New("self loop")
)
