package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/siherrmann/trailrag"
	"github.com/siherrmann/trailrag/database"
	"github.com/siherrmann/trailrag/helper"
	"github.com/siherrmann/trailrag/model"
	loadSql "github.com/siherrmann/trailrag/sql"
)

const sampleContent = `Alan Turing worked at Bletchley Park during the war.
His theoretical machine laid the foundation of computer science.

Bletchley Park housed the codebreakers who worked on the Enigma cipher.
Alan Turing and Gordon Welchman designed the Bombe machine there.`

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	logger := helper.NewLogger(os.Stdout, slog.LevelInfo)
	db := helper.NewDatabase("trailrag", dbConfig, logger)
	defer db.Instance.Close()

	if err := loadSql.Init(db.Instance); err != nil {
		log.Fatalf("Failed to initialize database extensions: %v", err)
	}

	handler, err := database.NewExportDBHandler(db, false)
	if err != nil {
		log.Fatalf("Failed to create export handler: %v", err)
	}

	t := trailrag.NewTrailRAG()
	t.UseDefaultPipeline()

	doc := &model.Document{
		Title:   "Codebreakers",
		Source:  "export_example",
		Content: sampleContent,
	}

	fmt.Println("Ingesting document...")
	if err := t.Ingest([]*model.Document{doc}); err != nil {
		log.Fatalf("Failed to ingest document: %v", err)
	}

	fmt.Println("Exporting graph snapshot to Postgres...")
	exportRID, err := t.ExportToPostgres(handler)
	if err != nil {
		log.Fatalf("Failed to export snapshot: %v", err)
	}
	fmt.Printf("Exported batch %s\n", exportRID)

	nodes, err := handler.SelectNodes(exportRID)
	if err != nil {
		log.Fatalf("Failed to read back nodes: %v", err)
	}
	edges, err := handler.SelectEdges(exportRID)
	if err != nil {
		log.Fatalf("Failed to read back edges: %v", err)
	}

	fmt.Printf("Read back %d nodes and %d edges:\n", len(nodes), len(edges))
	for _, node := range nodes {
		fmt.Printf("  node %-12s %s\n", node.NodeType, node.NodeID)
	}
	for _, edge := range edges {
		fmt.Printf("  edge %s -[%s %.1f]-> %s\n", edge.SourceID, edge.EdgeType, edge.Weight, edge.TargetID)
	}

	fmt.Println("\nExport example completed successfully!")
}
