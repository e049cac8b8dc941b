package retrieval

import (
	"context"

	"github.com/siherrmann/trailrag/helper"
	"github.com/siherrmann/trailrag/model"
)

// Strategy defines a retrieval strategy over the engine
type Strategy interface {
	Retrieve(ctx context.Context, queryText string, config *model.QueryConfig) ([]*model.RetrievalResult, error)
}

// VectorOnlyStrategy performs pure vector similarity search
type VectorOnlyStrategy struct {
	engine *Engine
}

// NewVectorOnlyStrategy creates a new vector-only strategy
func NewVectorOnlyStrategy(engine *Engine) *VectorOnlyStrategy {
	return &VectorOnlyStrategy{engine: engine}
}

// Retrieve performs vector-only retrieval
func (s *VectorOnlyStrategy) Retrieve(ctx context.Context, queryText string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	return s.engine.VectorRetrieve(ctx, queryText, config)
}

// BlendedStrategy combines vector similarity and graph expansion with the
// configured hop budget and graph weight
type BlendedStrategy struct {
	engine *Engine
}

// NewBlendedStrategy creates a new blended strategy
func NewBlendedStrategy(engine *Engine) *BlendedStrategy {
	return &BlendedStrategy{engine: engine}
}

// Retrieve performs blended retrieval
func (s *BlendedStrategy) Retrieve(ctx context.Context, queryText string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	return s.engine.Retrieve(ctx, queryText, config)
}

// EntityCentricStrategy retrieves the passages mentioning a specific entity,
// ranked by mention weight
type EntityCentricStrategy struct {
	engine *Engine
}

// NewEntityCentricStrategy creates a new entity-centric strategy
func NewEntityCentricStrategy(engine *Engine) *EntityCentricStrategy {
	return &EntityCentricStrategy{engine: engine}
}

// Retrieve returns all passages mentioning the entity, ordered by mention
// edge weight descending with ties broken by passage id ascending, truncated
// to TopK. Each trail is the two-element path entity, passage.
func (s *EntityCentricStrategy) Retrieve(ctx context.Context, entityID string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	if config == nil {
		defaults := model.DefaultQueryConfig()
		config = &defaults
	}
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("validate query config", err)
	}

	passageIDs, err := s.engine.graph.Neighbors(entityID, model.EdgeTypeMentions)
	if err != nil {
		return nil, helper.NewError("entity neighbors", err)
	}

	var maxWeight float64
	for _, passageID := range passageIDs {
		if weight := s.engine.graph.EdgeWeight(entityID, passageID); weight > maxWeight {
			maxWeight = weight
		}
	}

	results := make([]*model.RetrievalResult, 0, len(passageIDs))
	for _, passageID := range passageIDs {
		weight := s.engine.graph.EdgeWeight(entityID, passageID)
		score := 0.0
		if maxWeight > 0 {
			score = weight / maxWeight
		}
		results = append(results, &model.RetrievalResult{
			PassageID:       passageID,
			Text:            s.engine.passageText(passageID),
			Score:           score,
			GraphScore:      score,
			Trail:           []string{entityID, passageID},
			RetrievalMethod: model.RetrievalMethodEntity,
		})
	}

	sortResults(results)

	if len(results) > config.TopK {
		results = results[:config.TopK]
	}

	return results, nil
}
