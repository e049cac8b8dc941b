package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/trailrag/helper"
	"github.com/siherrmann/trailrag/model"
	loadSql "github.com/siherrmann/trailrag/sql"
)

// ExportedNode is one graph node row read back from the database
type ExportedNode struct {
	NodeID    string
	NodeType  model.NodeType
	Attrs     model.Metadata
	Embedding []float32
}

// ExportedEdge is one graph edge row read back from the database
type ExportedEdge struct {
	SourceID string
	TargetID string
	EdgeType model.EdgeType
	Weight   float64
}

// ExportDBHandlerFunctions defines the interface for graph export database operations.
type ExportDBHandlerFunctions interface {
	InsertSnapshot(dump *model.GraphDump, dense func(passageID string) ([]float32, bool)) (uuid.UUID, error)
	SelectNodes(exportRID uuid.UUID) ([]*ExportedNode, error)
	SelectEdges(exportRID uuid.UUID) ([]*ExportedEdge, error)
	DeleteExport(exportRID uuid.UUID) error
}

// ExportDBHandler persists graph snapshots to Postgres
type ExportDBHandler struct {
	db *helper.Database
}

// NewExportDBHandler creates a new export database handler.
// It initializes the database connection and loads export-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewExportDBHandler(db *helper.Database, force bool) (*ExportDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	exportDbHandler := &ExportDBHandler{
		db: db,
	}

	err := loadSql.LoadExportSql(exportDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load export sql", err)
	}

	err = exportDbHandler.CreateTables()
	if err != nil {
		return nil, helper.NewError("create tables", err)
	}

	db.Logger.Info("Initialized ExportDBHandler")

	return exportDbHandler, nil
}

// CreateTables creates the 'graph_nodes' and 'graph_edges' tables in the
// database. If the tables already exist, it does not create them again.
func (h *ExportDBHandler) CreateTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Use the SQL init() function to create all tables and indexes
	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_graph_export();`)
	if err != nil {
		log.Panicf("error initializing graph export tables: %#v", err)
	}

	h.db.Logger.Info("Checked/created tables graph_nodes and graph_edges")

	return nil
}

// InsertSnapshot writes a full graph dump as one export batch and returns the
// batch id. Passage node embeddings are looked up through dense; entity nodes
// are stored without an embedding. Everything is written in one transaction,
// so a failed export leaves no partial batch behind.
func (h *ExportDBHandler) InsertSnapshot(dump *model.GraphDump, dense func(passageID string) ([]float32, bool)) (uuid.UUID, error) {
	if dump == nil {
		return uuid.Nil, helper.NewError("dump validation", fmt.Errorf("graph dump is nil"))
	}

	exportRID := uuid.New()

	tx, err := h.db.Instance.Begin()
	if err != nil {
		return uuid.Nil, helper.NewError("begin transaction", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, node := range dump.Nodes {
		var embedding interface{}
		if node.NodeType == model.NodeTypePassage && dense != nil {
			if values, ok := dense(node.ID); ok {
				embedding = pgvector.NewVector(values)
			}
		}

		var id int64
		err := tx.QueryRow(
			`SELECT * FROM insert_graph_node($1, $2, $3, $4, $5)`,
			exportRID,
			node.ID,
			node.NodeType,
			node.Attrs,
			embedding,
		).Scan(&id)
		if err != nil {
			return uuid.Nil, helper.NewError(fmt.Sprintf("insert node %s", node.ID), err)
		}
	}

	for _, edge := range dump.Edges {
		var id int64
		err := tx.QueryRow(
			`SELECT * FROM insert_graph_edge($1, $2, $3, $4, $5)`,
			exportRID,
			edge.Source,
			edge.Target,
			edge.EdgeType,
			edge.Weight,
		).Scan(&id)
		if err != nil {
			return uuid.Nil, helper.NewError(fmt.Sprintf("insert edge %s->%s", edge.Source, edge.Target), err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return uuid.Nil, helper.NewError("commit transaction", err)
	}

	h.db.Logger.Info("Exported graph snapshot", "exportRid", exportRID, "nodes", len(dump.Nodes), "edges", len(dump.Edges))

	return exportRID, nil
}

// SelectNodes retrieves all nodes of an export batch
func (h *ExportDBHandler) SelectNodes(exportRID uuid.UUID) ([]*ExportedNode, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_graph_nodes($1)`,
		exportRID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var nodes []*ExportedNode
	for rows.Next() {
		node := &ExportedNode{}
		var embedding []byte

		err := rows.Scan(
			&node.NodeID,
			&node.NodeType,
			&node.Attrs,
			&embedding,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		// NULL embedding stays nil
		if embedding != nil {
			var vector pgvector.Vector
			if err := vector.Scan(embedding); err != nil {
				return nil, helper.NewError("parsing embedding", err)
			}
			node.Embedding = vector.Slice()
		}

		nodes = append(nodes, node)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return nodes, nil
}

// SelectEdges retrieves all edges of an export batch
func (h *ExportDBHandler) SelectEdges(exportRID uuid.UUID) ([]*ExportedEdge, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_graph_edges($1)`,
		exportRID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var edges []*ExportedEdge
	for rows.Next() {
		edge := &ExportedEdge{}

		err := rows.Scan(
			&edge.SourceID,
			&edge.TargetID,
			&edge.EdgeType,
			&edge.Weight,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		edges = append(edges, edge)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return edges, nil
}

// DeleteExport deletes all nodes and edges of an export batch
func (h *ExportDBHandler) DeleteExport(exportRID uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_graph_export($1)`,
		exportRID,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
