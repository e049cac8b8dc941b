package graph

import (
	"log/slog"

	"github.com/siherrmann/trailrag/helper"
	"github.com/siherrmann/trailrag/model"
)

// Builder populates a KnowledgeGraph from passages and their extraction
// results. It is a pure transform over already-extracted structures and
// performs no network or disk I/O.
type Builder struct {
	log *slog.Logger
}

// NewBuilder creates a new graph builder logging to the given logger
func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{log: logger}
}

// Build constructs a fresh KnowledgeGraph from an ordered sequence of
// passages and a mapping from passage id to extraction results.
//
// For each passage it adds the passage node, then per extracted surface form
// normalizes it, adds or reuses the entity node and adds a mentions edge
// (repeated surface forms within a passage increment the edge weight). Pairs
// of entities reported as related within the same passage get a co-occurrence
// edge; repeated co-occurrence across passages increments the weight.
//
// An entity reported as related to itself (after normalization) is skipped
// with a warning rather than failing the build; a degenerate extraction must
// not poison the rest of the graph. All other errors are propagated.
//
// Building twice on identical input yields identical node sets and edge
// weights, and adding more passages never decreases an existing weight.
func (b *Builder) Build(passages []*model.Passage, extractions map[string][]model.ExtractedEntity) (*KnowledgeGraph, error) {
	kg := NewKnowledgeGraph()

	for _, passage := range passages {
		if _, err := kg.AddPassage(passage.ID, passage.Text, passage.DocumentID, passage.StartPos, passage.EndPos); err != nil {
			return nil, helper.NewError("add passage", err)
		}

		for _, extracted := range extractions[passage.ID] {
			entityID := NormalizeEntityID(extracted.Surface)
			if entityID == "" {
				continue
			}

			if _, err := kg.AddEntity(entityID, extracted.Surface); err != nil {
				return nil, helper.NewError("add entity", err)
			}
			if _, err := kg.AddMention(passage.ID, entityID); err != nil {
				return nil, helper.NewError("add mention", err)
			}
		}

		// Co-occurrences after all mentions of the passage, in reported order
		for _, extracted := range extractions[passage.ID] {
			entityID := NormalizeEntityID(extracted.Surface)
			if entityID == "" {
				continue
			}

			for _, related := range extracted.Related {
				relatedID := NormalizeEntityID(related)
				if relatedID == "" {
					continue
				}
				if relatedID == entityID {
					b.log.Warn("Skipping entity self co-occurrence",
						slog.String("surface", extracted.Surface),
						slog.String("passage_id", passage.ID),
					)
					continue
				}

				if _, err := kg.AddEntity(relatedID, related); err != nil {
					return nil, helper.NewError("add related entity", err)
				}
				if _, err := kg.AddCooccurrence(entityID, relatedID); err != nil {
					return nil, helper.NewError("add co-occurrence", err)
				}
			}
		}
	}

	b.log.Info("Built knowledge graph",
		slog.Int("passages", kg.NumPassages()),
		slog.Int("entities", kg.NumEntities()),
		slog.Int("edges", kg.NumEdges()),
	)

	return kg, nil
}
