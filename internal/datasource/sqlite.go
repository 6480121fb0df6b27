package datasource

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/regulomics/grnscope/pkg/loader"
	"github.com/regulomics/grnscope/pkg/model"
)

// SQLiteReader provides read access to a network SQLite database.
// The expected schema is an edges table with regulator, target and
// confidence columns; common-name columns are optional.
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	return &SQLiteReader{
		db:   db,
		path: source.Path,
	}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadEdges reads all edge records from the database.
func (r *SQLiteReader) LoadEdges() (loader.Result, error) {
	query := `
		SELECT regulator, target, regulator_name, target_name, confidence
		FROM edges
		ORDER BY regulator, target
	`

	rows, err := r.db.Query(query)
	if err != nil {
		// Older databases lack the name columns.
		return r.loadEdgesSimple()
	}
	defer rows.Close()

	var result loader.Result
	for rows.Next() {
		var edge model.EdgeRecord
		var regName, tgtName sql.NullString
		var conf sql.NullFloat64

		if err := rows.Scan(&edge.Regulator, &edge.Target, &regName, &tgtName, &conf); err != nil {
			result.Skipped++
			continue
		}
		if edge.Regulator == "" || edge.Target == "" || !conf.Valid {
			result.Skipped++
			continue
		}
		edge.Confidence = conf.Float64
		if regName.Valid {
			edge.RegulatorName = regName.String
		}
		if tgtName.Valid {
			edge.TargetName = tgtName.String
		}

		result.Edges = append(result.Edges, edge)
	}
	if err := rows.Err(); err != nil {
		return loader.Result{}, fmt.Errorf("iterate edges: %w", err)
	}

	return result, nil
}

// loadEdgesSimple is a fallback for databases without name columns
func (r *SQLiteReader) loadEdgesSimple() (loader.Result, error) {
	query := `
		SELECT regulator, target, confidence
		FROM edges
		ORDER BY regulator, target
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return loader.Result{}, fmt.Errorf("query edges: %w", err)
	}
	defer rows.Close()

	var result loader.Result
	for rows.Next() {
		var edge model.EdgeRecord
		var conf sql.NullFloat64

		if err := rows.Scan(&edge.Regulator, &edge.Target, &conf); err != nil {
			result.Skipped++
			continue
		}
		if edge.Regulator == "" || edge.Target == "" || !conf.Valid {
			result.Skipped++
			continue
		}
		edge.Confidence = conf.Float64

		result.Edges = append(result.Edges, edge)
	}
	if err := rows.Err(); err != nil {
		return loader.Result{}, fmt.Errorf("iterate edges: %w", err)
	}

	return result, nil
}

// CountEdges returns the number of edge rows
func (r *SQLiteReader) CountEdges() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM edges").Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
