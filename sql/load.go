package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed export.sql
var exportSQL string

// Function list for verification
var ExportFunctions = []string{
	"init_graph_export",
	"insert_graph_node",
	"insert_graph_edge",
	"select_graph_nodes",
	"select_graph_edges",
	"delete_graph_export",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadExportSql loads graph-export SQL functions
func LoadExportSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, ExportFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing export functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(exportSQL)
	if err != nil {
		return fmt.Errorf("error executing export SQL: %w", err)
	}

	exist, err := checkFunctions(db, ExportFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL export functions loaded successfully")
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
