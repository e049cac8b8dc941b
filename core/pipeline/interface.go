package pipeline

import (
	"fmt"

	"github.com/siherrmann/trailrag/core/index"
	"github.com/siherrmann/trailrag/model"
)

// ChunkFunc is a function that splits a document's text into passages.
// Passage ids must be unique and stable across repeated runs on the same
// input; overlapping spans are permitted and treated as independent passages.
type ChunkFunc func(text string, docID string) ([]*model.Passage, error)

// ExtractFunc extracts entity surface forms and their related surface forms
// from a passage's text. Surface forms are free-form strings; normalization
// is the graph builder's responsibility, not the extractor's.
type ExtractFunc func(text string) ([]model.ExtractedEntity, error)

// EmbedFunc is a function that generates a sparse weighted term vector for a
// text. The same encoder is used for corpus passages and live queries.
type EmbedFunc = index.EmbedFunc

// Pipeline combines chunking and entity extraction, with an optional custom
// embedder replacing the corpus TF-IDF encoder.
type Pipeline struct {
	Chunker   ChunkFunc
	Extractor ExtractFunc
	Embedder  EmbedFunc // Optional
}

// NewPipeline creates a new processing pipeline
func NewPipeline(chunker ChunkFunc, extractor ExtractFunc) *Pipeline {
	return &Pipeline{
		Chunker:   chunker,
		Extractor: extractor,
	}
}

// SetEmbedder sets a custom embedding function. When set, it replaces the
// default TF-IDF encoder for both passages and queries.
func (p *Pipeline) SetEmbedder(embedder EmbedFunc) {
	p.Embedder = embedder
}

// ProcessingResult contains the passages and per-passage extraction results
// for an ordered document sequence.
type ProcessingResult struct {
	Passages    []*model.Passage
	Extractions map[string][]model.ExtractedEntity
}

// Process chunks and extracts every document in order. Passage order follows
// document order, extraction order follows what the extractor reported.
func (p *Pipeline) Process(docs []*model.Document) (*ProcessingResult, error) {
	if p.Chunker == nil {
		return nil, fmt.Errorf("pipeline chunker not set")
	}

	result := &ProcessingResult{
		Extractions: map[string][]model.ExtractedEntity{},
	}

	for _, doc := range docs {
		docID := doc.Source
		if docID == "" {
			docID = doc.Title
		}

		passages, err := p.Chunker(doc.Content, docID)
		if err != nil {
			return nil, fmt.Errorf("chunk document %q: %w", docID, err)
		}

		for _, passage := range passages {
			result.Passages = append(result.Passages, passage)

			if p.Extractor == nil {
				continue
			}
			extracted, err := p.Extractor(passage.Text)
			if err != nil {
				return nil, fmt.Errorf("extract entities from %q: %w", passage.ID, err)
			}
			if len(extracted) > 0 {
				result.Extractions[passage.ID] = extracted
			}
		}
	}

	return result, nil
}
