package model

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by QueryConfig.Validate for out-of-range
// retrieval parameters. Match with errors.Is.
var ErrInvalidConfig = errors.New("invalid query config")

// QueryConfig represents configuration for a retrieval query
type QueryConfig struct {
	// TopK is the number of passages returned and the size of the vector seed set.
	TopK int `json:"top_k"`
	// MaxGraphHops bounds graph expansion in edge traversals from each seed.
	// 0 degrades to pure vector retrieval.
	MaxGraphHops int `json:"max_graph_hops"`
	// GraphWeight in [0, 1] blends graph and vector signals:
	// score = (1-GraphWeight)*vector + GraphWeight*graph.
	GraphWeight float64 `json:"graph_weight"`
}

// DefaultQueryConfig returns a sensible default configuration
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		TopK:         5,
		MaxGraphHops: 2,
		GraphWeight:  0.3,
	}
}

// Validate fails fast on invalid retrieval parameters, before any computation.
func (c *QueryConfig) Validate() error {
	if c.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", ErrInvalidConfig, c.TopK)
	}
	if c.MaxGraphHops < 0 {
		return fmt.Errorf("%w: max_graph_hops must be non-negative, got %d", ErrInvalidConfig, c.MaxGraphHops)
	}
	if c.GraphWeight < 0 || c.GraphWeight > 1 {
		return fmt.Errorf("%w: graph_weight must be in [0, 1], got %f", ErrInvalidConfig, c.GraphWeight)
	}
	return nil
}
