package pipeline

import (
	"fmt"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/siherrmann/trailrag/helper"
	"github.com/siherrmann/trailrag/model"
)

// cooccurrenceWindow is the character distance within which two detected
// entities are reported as related.
const cooccurrenceWindow = 100

// TransformerEntityExtractor creates an entity extractor using a NER model
// (distilbert-NER). Detected entities within cooccurrenceWindow characters of
// each other are reported as related, each pair once.
func TransformerEntityExtractor() (ExtractFunc, error) {
	// Prepare model (download if needed)
	modelName := "KnightsAnalytics/distilbert-NER"
	modelPath, err := helper.PrepareModel(modelName, "model.onnx")
	if err != nil {
		return nil, err
	}

	// Initialize hugot session with Go backend
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.TokenClassificationConfig{
		ModelPath: modelPath,
		Name:      "ner-pipeline",
		Options: []hugot.TokenClassificationOption{
			pipelines.WithSimpleAggregation(),
			pipelines.WithIgnoreLabels([]string{"O"}), // Ignore non-entity tokens
		},
	}
	nerPipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create NER pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create NER pipeline: %w", err)
	}

	return func(text string) ([]model.ExtractedEntity, error) {
		result, err := nerPipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, fmt.Errorf("failed to run NER: %w", err)
		}

		if len(result.Entities) == 0 {
			return nil, nil
		}

		type detection struct {
			surface string
			start   int
		}

		var detections []detection
		seen := map[string]struct{}{}
		for _, entity := range result.Entities[0] {
			surface := strings.TrimSpace(entity.Word)
			if surface == "" {
				continue
			}
			if _, ok := seen[surface]; ok {
				continue
			}
			seen[surface] = struct{}{}
			detections = append(detections, detection{
				surface: surface,
				start:   int(entity.Start),
			})
		}

		extracted := make([]model.ExtractedEntity, 0, len(detections))
		for i, d := range detections {
			entity := model.ExtractedEntity{Surface: d.surface}
			for _, other := range detections[i+1:] {
				distance := other.start - d.start
				if distance < 0 {
					distance = -distance
				}
				if distance < cooccurrenceWindow {
					entity.Related = append(entity.Related, other.surface)
				}
			}
			extracted = append(extracted, entity)
		}

		return extracted, nil
	}, nil
}
