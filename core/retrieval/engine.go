package retrieval

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/siherrmann/trailrag/core/graph"
	"github.com/siherrmann/trailrag/core/index"
	"github.com/siherrmann/trailrag/helper"
	"github.com/siherrmann/trailrag/model"
)

// Engine ranks passages by blending vector similarity with graph walks,
// recording the provenance trail for every result.
//
// The engine only reads from the graph and index. Every call allocates its
// own score accumulators and visited sets, so parallel calls against the
// same snapshot require no locking.
type Engine struct {
	graph *graph.KnowledgeGraph
	index *index.Index
}

// NewEngine creates a new retrieval engine over a built graph and index
func NewEngine(kg *graph.KnowledgeGraph, idx *index.Index) *Engine {
	return &Engine{
		graph: kg,
		index: idx,
	}
}

// walk is one traversal path from a seed passage to its current node
type walk struct {
	nodeID  string
	product float64  // Product of traversed edge weights
	trail   []string // Node ids from seed to nodeID
}

// Retrieve returns the TopK passages for the query text, each with a blended
// score and a provenance trail.
//
// Seeds are the TopK passages by cosine similarity (ties broken by passage id
// ascending); from each seed the graph is expanded breadth-first up to
// MaxGraphHops edge traversals, alternating passage, entity and optional
// entity-to-entity co-occurrence hops. A discovered passage's graph score is
// the product of traversed edge weights along its shortest discovered path,
// normalized by the maximum product observed in this query. The final score
// blends both signals: (1-GraphWeight)*vector + GraphWeight*graph.
//
// An empty corpus or blank query yields an empty list, not an error.
// MaxGraphHops = 0 degrades to pure vector retrieval.
func (e *Engine) Retrieve(ctx context.Context, queryText string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	if config == nil {
		defaults := model.DefaultQueryConfig()
		config = &defaults
	}
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("validate query config", err)
	}

	if e.index.Len() == 0 || strings.TrimSpace(queryText) == "" {
		return []*model.RetrievalResult{}, nil
	}

	queryVector, err := e.index.Embed(queryText)
	if err != nil {
		return nil, helper.NewError("embed query", err)
	}

	scored := e.index.Scores(queryVector)
	vectorScores := make(map[string]float64, len(scored))
	for _, s := range scored {
		vectorScores[s.PassageID] = s.Score
	}

	seedCount := min(config.TopK, len(scored))
	seeds := scored[:seedCount]

	seedSet := make(map[string]bool, len(seeds))
	for _, seed := range seeds {
		seedSet[seed.PassageID] = true
	}

	discovered := e.expand(seeds, seedSet, config.MaxGraphHops)

	var maxProduct float64
	for _, w := range discovered {
		if w.product > maxProduct {
			maxProduct = w.product
		}
	}

	results := make([]*model.RetrievalResult, 0, len(seeds)+len(discovered))

	for _, seed := range seeds {
		results = append(results, &model.RetrievalResult{
			PassageID:       seed.PassageID,
			Text:            e.passageText(seed.PassageID),
			Score:           (1 - config.GraphWeight) * seed.Score,
			VectorScore:     seed.Score,
			GraphScore:      0,
			Trail:           []string{seed.PassageID},
			RetrievalMethod: model.RetrievalMethodVector,
		})
	}

	for passageID, w := range discovered {
		graphScore := w.product / maxProduct
		vectorScore := vectorScores[passageID]
		results = append(results, &model.RetrievalResult{
			PassageID:       passageID,
			Text:            e.passageText(passageID),
			Score:           (1-config.GraphWeight)*vectorScore + config.GraphWeight*graphScore,
			VectorScore:     vectorScore,
			GraphScore:      graphScore,
			Trail:           w.trail,
			RetrievalMethod: model.RetrievalMethodGraph,
		})
	}

	sortResults(results)

	if len(results) > config.TopK {
		results = results[:config.TopK]
	}

	return results, nil
}

// VectorRetrieve performs pure vector similarity search with singleton trails
func (e *Engine) VectorRetrieve(ctx context.Context, queryText string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	pure := model.DefaultQueryConfig()
	if config != nil {
		pure = *config
	}
	pure.MaxGraphHops = 0
	pure.GraphWeight = 0
	return e.Retrieve(ctx, queryText, &pure)
}

// expand walks outward from every seed breadth-first, one edge traversal per
// level, up to maxHops levels. A walk never revisits a node already on its
// own trail, which bounds each walk and guarantees termination on cyclic
// graphs. Per node the first level reached wins; among walks arriving at the
// same level the highest weight product wins, ties broken by the
// lexicographically smaller trail. Seed passages are never re-discovered.
//
// Returns the best walk per discovered passage, keyed by passage id.
func (e *Engine) expand(seeds []index.Scored, seedSet map[string]bool, maxHops int) map[string]walk {
	discovered := map[string]walk{}
	if maxHops <= 0 {
		return discovered
	}

	// Level at which a node was first settled
	reached := make(map[string]int, len(seeds))
	frontier := make([]walk, 0, len(seeds))
	for _, seed := range seeds {
		reached[seed.PassageID] = 0
		frontier = append(frontier, walk{
			nodeID:  seed.PassageID,
			product: 1.0,
			trail:   []string{seed.PassageID},
		})
	}

	for depth := 1; depth <= maxHops && len(frontier) > 0; depth++ {
		candidates := map[string]walk{}

		for _, current := range frontier {
			neighbors, err := e.graph.Neighbors(current.nodeID, "")
			if err != nil {
				continue
			}

			for _, neighborID := range neighbors {
				if slices.Contains(current.trail, neighborID) {
					continue // Cycle avoidance
				}
				if level, ok := reached[neighborID]; ok && level < depth {
					continue // A shorter path already exists
				}

				next := walk{
					nodeID:  neighborID,
					product: current.product * e.graph.EdgeWeight(current.nodeID, neighborID),
					trail:   append(slices.Clone(current.trail), neighborID),
				}

				best, ok := candidates[neighborID]
				if !ok || next.product > best.product ||
					(next.product == best.product && slices.Compare(next.trail, best.trail) < 0) {
					candidates[neighborID] = next
				}
			}
		}

		// Settle this level in deterministic order
		settled := make([]string, 0, len(candidates))
		for nodeID := range candidates {
			settled = append(settled, nodeID)
		}
		sort.Strings(settled)

		frontier = frontier[:0]
		for _, nodeID := range settled {
			candidate := candidates[nodeID]
			reached[nodeID] = depth
			frontier = append(frontier, candidate)

			if nodeType, ok := e.graph.NodeType(nodeID); ok && nodeType == model.NodeTypePassage && !seedSet[nodeID] {
				discovered[nodeID] = candidate
			}
		}
	}

	return discovered
}

func (e *Engine) passageText(passageID string) string {
	if passage, ok := e.graph.Passage(passageID); ok {
		return passage.Text
	}
	return ""
}

// sortResults orders by score descending, ties broken by passage id ascending
func sortResults(results []*model.RetrievalResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].PassageID < results[j].PassageID
	})
}
