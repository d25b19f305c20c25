package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists user documents to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS user_documents (
        user_id TEXT NOT NULL,
        kind TEXT NOT NULL,
        updated_at INTEGER,
        doc TEXT NOT NULL,
        PRIMARY KEY (user_id, kind)
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Save upserts the document for (userID, kind).
func (s *SQLiteStore) Save(ctx context.Context, userID, kind string, doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO user_documents (user_id, kind, updated_at, doc) VALUES (?, ?, ?, ?)
         ON CONFLICT(user_id, kind) DO UPDATE SET updated_at = excluded.updated_at, doc = excluded.doc`,
		userID, kind, time.Now().Unix(), string(b))
	return err
}

// Load unmarshals the stored document into out.
func (s *SQLiteStore) Load(ctx context.Context, userID, kind string, out any) error {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM user_documents WHERE user_id = ? AND kind = ?`,
		userID, kind).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return fmt.Errorf("unmarshal %s document: %w", kind, err)
	}
	return nil
}

// Delete removes the document for (userID, kind) if present.
func (s *SQLiteStore) Delete(ctx context.Context, userID, kind string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_documents WHERE user_id = ? AND kind = ?`, userID, kind)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
