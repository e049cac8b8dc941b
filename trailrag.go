package trailrag

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/siherrmann/trailrag/core/graph"
	"github.com/siherrmann/trailrag/core/index"
	"github.com/siherrmann/trailrag/core/pipeline"
	"github.com/siherrmann/trailrag/core/retrieval"
	"github.com/siherrmann/trailrag/database"
	"github.com/siherrmann/trailrag/helper"
	"github.com/siherrmann/trailrag/model"
)

// Snapshot is one immutable built state: a knowledge graph and the matching
// passage index. Queries always run against a single snapshot, so they never
// observe a half-built corpus.
type Snapshot struct {
	Graph *graph.KnowledgeGraph
	Index *index.Index
}

// Summary reports the size of the current snapshot
type Summary struct {
	Passages   int `json:"passages"`
	Entities   int `json:"entities"`
	Edges      int `json:"edges"`
	Vocabulary int `json:"vocabulary"`
}

// TrailRAG provides a unified interface to ingestion, retrieval and export.
// Ingest builds a fresh snapshot off to the side and swaps it in atomically;
// concurrent readers keep the snapshot they started with.
type TrailRAG struct {
	Pipeline *pipeline.Pipeline // Optional chunking pipeline
	snapshot atomic.Pointer[Snapshot]
	// Logging
	log *slog.Logger
}

// NewTrailRAG creates a new TrailRAG instance with an empty snapshot
func NewTrailRAG() *TrailRAG {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	t := &TrailRAG{
		log: logger,
	}
	t.snapshot.Store(&Snapshot{
		Graph: graph.NewKnowledgeGraph(),
		Index: index.Build(nil),
	})
	return t
}

// SetPipeline sets the chunking pipeline for document processing
func (t *TrailRAG) SetPipeline(pipeline *pipeline.Pipeline) {
	t.Pipeline = pipeline
}

// UseDefaultPipeline sets up the default pipeline: sentence chunking with 3
// sentences per passage, capitalized-phrase entity extraction and the corpus
// TF-IDF encoder.
func (t *TrailRAG) UseDefaultPipeline() {
	t.Pipeline = pipeline.NewPipeline(
		pipeline.SentenceChunker(3),
		pipeline.CapitalizedEntityExtractor(),
	)
}

// UseTransformerPipeline sets up a pipeline backed by ONNX transformer models:
// sentence chunking, NER-based entity extraction and dense semantic
// embeddings with the all-MiniLM-L6-v2 model. Downloads models on first use.
func (t *TrailRAG) UseTransformerPipeline() error {
	extractor, err := pipeline.TransformerEntityExtractor()
	if err != nil {
		return helper.NewError("create transformer extractor", err)
	}
	embedder, err := pipeline.TransformerEmbedder()
	if err != nil {
		return helper.NewError("create transformer embedder", err)
	}

	p := pipeline.NewPipeline(pipeline.SentenceChunker(3), extractor)
	p.SetEmbedder(embedder)
	t.Pipeline = p
	return nil
}

// Ingest processes the documents into passages, builds the knowledge graph
// and index and atomically replaces the current snapshot. On any error the
// previous snapshot stays active.
func (t *TrailRAG) Ingest(docs []*model.Document) error {
	if t.Pipeline == nil {
		return helper.NewError("ingest", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	processed, err := t.Pipeline.Process(docs)
	if err != nil {
		return helper.NewError("process documents", err)
	}

	kg, err := graph.NewBuilder(t.log).Build(processed.Passages, processed.Extractions)
	if err != nil {
		return helper.NewError("build graph", err)
	}

	var idx *index.Index
	if t.Pipeline.Embedder != nil {
		idx, err = index.BuildWithEmbedder(processed.Passages, t.Pipeline.Embedder)
		if err != nil {
			return helper.NewError("build index", err)
		}
	} else {
		idx = index.Build(processed.Passages)
	}

	t.snapshot.Store(&Snapshot{Graph: kg, Index: idx})

	t.log.Info("Ingested documents",
		slog.Int("documents", len(docs)),
		slog.Int("passages", kg.NumPassages()),
		slog.Int("entities", kg.NumEntities()),
	)

	return nil
}

// Snapshot returns the currently active snapshot
func (t *TrailRAG) Snapshot() *Snapshot {
	return t.snapshot.Load()
}

// Retrieve performs blended vector and graph retrieval against the current
// snapshot, returning passages with provenance trails
func (t *TrailRAG) Retrieve(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	snap := t.snapshot.Load()
	strategy := retrieval.NewBlendedStrategy(retrieval.NewEngine(snap.Graph, snap.Index))
	return strategy.Retrieve(ctx, query, config)
}

// VectorSearch performs pure vector similarity search against the current
// snapshot
func (t *TrailRAG) VectorSearch(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	snap := t.snapshot.Load()
	strategy := retrieval.NewVectorOnlyStrategy(retrieval.NewEngine(snap.Graph, snap.Index))
	return strategy.Retrieve(ctx, query, config)
}

// EntitySearch returns the passages mentioning an entity, ranked by mention
// weight
func (t *TrailRAG) EntitySearch(ctx context.Context, entityID string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	snap := t.snapshot.Load()
	strategy := retrieval.NewEntityCentricStrategy(retrieval.NewEngine(snap.Graph, snap.Index))
	return strategy.Retrieve(ctx, entityID, config)
}

// Neighbors returns the ids adjacent to a node in the current snapshot,
// optionally filtered by edge type. Pass an empty edge type for all edges.
func (t *TrailRAG) Neighbors(nodeID string, edgeType model.EdgeType) ([]string, error) {
	return t.snapshot.Load().Graph.Neighbors(nodeID, edgeType)
}

// Summary returns the node, edge and vocabulary counts of the current snapshot
func (t *TrailRAG) Summary() Summary {
	snap := t.snapshot.Load()
	return Summary{
		Passages:   snap.Graph.NumPassages(),
		Entities:   snap.Graph.NumEntities(),
		Edges:      snap.Graph.NumEdges(),
		Vocabulary: snap.Index.Dimension(),
	}
}

// ExportJSON writes the current snapshot's graph as indented JSON
func (t *TrailRAG) ExportJSON(w io.Writer) error {
	return t.snapshot.Load().Graph.ExportJSON(w)
}

// ExportToPostgres writes the current snapshot's graph as one export batch,
// passage embeddings included, and returns the batch id
func (t *TrailRAG) ExportToPostgres(handler *database.ExportDBHandler) (uuid.UUID, error) {
	if handler == nil {
		return uuid.Nil, helper.NewError("export to postgres", fmt.Errorf("export handler is nil"))
	}

	snap := t.snapshot.Load()
	return handler.InsertSnapshot(snap.Graph.Export(), snap.Index.Dense)
}

// FormatResults renders retrieval results as a human readable listing with
// scores and provenance trails
func FormatResults(results []*model.RetrievalResult) string {
	if len(results) == 0 {
		return "no results\n"
	}

	var b strings.Builder
	for i, result := range results {
		fmt.Fprintf(&b, "%d. %s (score %.4f, vector %.4f, graph %.4f, %s)\n",
			i+1, result.PassageID, result.Score, result.VectorScore, result.GraphScore, result.RetrievalMethod)
		fmt.Fprintf(&b, "   trail: %s\n", strings.Join(result.Trail, " -> "))

		text := result.Text
		if len(text) > 120 {
			text = text[:120] + "..."
		}
		fmt.Fprintf(&b, "   %s\n", text)
	}
	return b.String()
}
