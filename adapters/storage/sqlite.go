// Package storage persists drawing documents.
//
// Drawings are single-user local documents, so the store is one sqlite
// table with the document serialized as a JSON column. All failures
// surface as PERSISTENCE_ERROR; the caller decides whether to retry.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"floorplan-markup/core/types"
	"floorplan-markup/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS drawings (
    id         TEXT PRIMARY KEY,
    document   TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

// DrawingInfo describes one stored drawing
type DrawingInfo struct {
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SQLiteRepository stores drawing documents in a sqlite database
type SQLiteRepository struct {
	db *sql.DB
}

// Open opens (creating if needed) the drawings database at the given path
func Open(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, errors.Persistence("create database directory", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Persistence("open drawings database", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Persistence("apply drawings schema", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenMemory opens an in-memory database, used by tests
func OpenMemory() (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", "file:drawings?mode=memory&cache=shared")
	if err != nil {
		return nil, errors.Persistence("open in-memory database", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Persistence("apply drawings schema", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Close closes the underlying database
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Save upserts a drawing document
func (r *SQLiteRepository) Save(ctx context.Context, id string, doc types.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return errors.Persistence("encode drawing document", err)
	}
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO drawings (id, document, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            document = excluded.document,
            updated_at = excluded.updated_at
    `, id, string(payload), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return errors.Persistence("write drawing document", err)
	}
	return nil
}

// Load reads a drawing document
func (r *SQLiteRepository) Load(ctx context.Context, id string) (types.Document, error) {
	row := r.db.QueryRowContext(ctx, `SELECT document FROM drawings WHERE id = ?`, id)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return types.Document{}, errors.NotFound("drawing", id)
		}
		return types.Document{}, errors.Persistence("read drawing document", err)
	}

	var doc types.Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return types.Document{}, errors.Persistence("decode drawing document", err)
	}
	return doc, nil
}

// List returns metadata for every stored drawing, newest first
func (r *SQLiteRepository) List(ctx context.Context) ([]DrawingInfo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, updated_at FROM drawings ORDER BY updated_at DESC`)
	if err != nil {
		return nil, errors.Persistence("list drawings", err)
	}
	defer rows.Close()

	var out []DrawingInfo
	for rows.Next() {
		var info DrawingInfo
		var updated string
		if err := rows.Scan(&info.ID, &updated); err != nil {
			return nil, errors.Persistence("scan drawing row", err)
		}
		info.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Persistence("iterate drawing rows", err)
	}
	return out, nil
}

// Delete removes a stored drawing
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drawings WHERE id = ?`, id)
	if err != nil {
		return errors.Persistence("delete drawing", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NotFound("drawing", id)
	}
	return nil
}
