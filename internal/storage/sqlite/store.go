// Package sqlite persists the reminder document in a SQLite database, one
// row per series with the record stored as JSON. Load and save still treat
// the document as a whole: Save replaces every row inside one transaction,
// keeping the whole-document write semantics of the other stores.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"remindkit/internal/remind"
)

const schema = `
CREATE TABLE IF NOT EXISTS series (
	id   TEXT PRIMARY KEY,
	data BLOB NOT NULL
);
`

// Store implements storage.Store over a SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store: empty path")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Load(ctx context.Context) (remind.Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, data FROM series`)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: query: %w", err)
	}
	defer rows.Close()

	doc := make(remind.Document)
	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("sqlite store: scan: %w", err)
		}
		var series remind.Series
		if err := json.Unmarshal(data, &series); err != nil {
			return nil, fmt.Errorf("sqlite store: parse series %s: %w", id, err)
		}
		doc[id] = &series
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite store: rows: %w", err)
	}
	return doc, nil
}

func (s *Store) Save(ctx context.Context, doc remind.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite store: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM series`); err != nil {
		return fmt.Errorf("sqlite store: clear: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO series (id, data) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite store: prepare: %w", err)
	}
	defer stmt.Close()

	for id, series := range doc {
		data, err := json.Marshal(series)
		if err != nil {
			return fmt.Errorf("sqlite store: marshal series %s: %w", id, err)
		}
		if _, err := stmt.ExecContext(ctx, id, data); err != nil {
			return fmt.Errorf("sqlite store: insert series %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite store: commit: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
