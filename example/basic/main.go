package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/trailrag"
	"github.com/siherrmann/trailrag/model"
)

const sampleContent = `Marie Curie pioneered research on radioactivity in Paris.
Her work with Pierre Curie led to the discovery of polonium and radium.
Marie Curie received the Nobel Prize in Physics together with Pierre Curie and Henri Becquerel.

Henri Becquerel discovered spontaneous radioactivity in uranium salts.
His findings opened the field that Marie Curie would later name radioactivity.

The Nobel Prize is awarded annually in Stockholm.
Pierre Curie shared his award for joint research on radiation phenomena.`

func main() {
	t := trailrag.NewTrailRAG()
	t.UseDefaultPipeline()

	doc := &model.Document{
		Title:   "Radioactivity Pioneers",
		Source:  "basic_example",
		Content: sampleContent,
		Metadata: model.Metadata{
			"topic": "history of science",
		},
	}

	fmt.Println("Ingesting document...")
	if err := t.Ingest([]*model.Document{doc}); err != nil {
		log.Fatalf("Failed to ingest document: %v", err)
	}

	summary := t.Summary()
	fmt.Printf("Built graph with %d passages, %d entities, %d edges\n",
		summary.Passages, summary.Entities, summary.Edges)

	queryText := "Who discovered radioactivity?"
	fmt.Printf("\nQuerying: %s\n", queryText)

	config := model.DefaultQueryConfig()
	config.TopK = 3

	results, err := t.Retrieve(context.Background(), queryText, &config)
	if err != nil {
		log.Fatalf("Failed to retrieve: %v", err)
	}

	fmt.Printf("\nFound %d results:\n%s", len(results), trailrag.FormatResults(results))

	// Passages mentioning one specific entity
	entityResults, err := t.EntitySearch(context.Background(), "marie_curie", &config)
	if err != nil {
		log.Fatalf("Failed to search by entity: %v", err)
	}

	fmt.Printf("\nPassages mentioning marie_curie:\n%s", trailrag.FormatResults(entityResults))

	fmt.Println("\nBasic example completed successfully!")
}
