package pipeline

import (
	"fmt"
	"strconv"

	"github.com/knights-analytics/hugot"
	"github.com/siherrmann/trailrag/helper"
	"github.com/siherrmann/trailrag/model"
)

// TransformerEmbedder creates an embedder backed by a sentence transformer
// model (all-MiniLM-L6-v2, 384 dimensions). The dense model output is mapped
// into a sparse vector keyed by dimension index so it runs through the same
// index and similarity machinery as the TF-IDF encoder.
func TransformerEmbedder() (EmbedFunc, error) {
	// Prepare model (download if needed)
	modelName := "sentence-transformers/all-MiniLM-L6-v2"
	modelPath, err := helper.PrepareModel(modelName, "onnx/model.onnx")
	if err != nil {
		return nil, err
	}

	// Initialize hugot session with Go backend
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "embedder-pipeline",
	}
	sentencePipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create sentence pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create sentence pipeline: %w", err)
	}

	return func(text string) (model.Vector, error) {
		result, err := sentencePipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, fmt.Errorf("failed to generate embedding: %w", err)
		}

		if len(result.Embeddings) == 0 {
			return nil, fmt.Errorf("no embedding generated")
		}

		dense := result.Embeddings[0]
		vector := make(model.Vector, len(dense))
		for i, weight := range dense {
			vector[strconv.Itoa(i)] = float64(weight)
		}
		return vector, nil
	}, nil
}
