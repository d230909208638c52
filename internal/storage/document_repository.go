package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DocumentRepository is the SQLite Store. Each document is one row; a save
// moves the previous content into document_history in the same transaction.
type DocumentRepository struct {
	db *DB
	// historyLimit bounds the revisions kept per document. Zero keeps none.
	historyLimit int
}

// NewDocumentRepository creates a repository on an already migrated database.
func NewDocumentRepository(db *DB, historyLimit int) *DocumentRepository {
	if historyLimit < 0 {
		historyLimit = 0
	}
	return &DocumentRepository{db: db, historyLimit: historyLimit}
}

// Load returns the stored content of doc.
func (r *DocumentRepository) Load(ctx context.Context, doc Document) ([]byte, error) {
	if err := checkDocument(doc); err != nil {
		return nil, err
	}
	var content string
	err := r.db.QueryRowContext(ctx, `SELECT content FROM documents WHERE name = ?`, string(doc)).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", doc, err)
	}
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("loading %s: %w", doc, ErrCorruptDocument)
	}
	return []byte(content), nil
}

// Save replaces the content of doc.
func (r *DocumentRepository) Save(ctx context.Context, doc Document, data []byte) error {
	if err := checkDocument(doc); err != nil {
		return err
	}
	pretty, err := prettyJSON(data)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	return r.db.Transaction(func(tx *sql.Tx) error {
		if r.historyLimit > 0 {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO document_history (name, content, replaced_at)
				SELECT name, content, ? FROM documents WHERE name = ?`,
				now, string(doc)); err != nil {
				return fmt.Errorf("archiving %s: %w", doc, err)
			}
			if _, err := tx.ExecContext(ctx, `
				DELETE FROM document_history
				WHERE name = ? AND id NOT IN (
					SELECT id FROM document_history WHERE name = ?
					ORDER BY id DESC LIMIT ?
				)`, string(doc), string(doc), r.historyLimit); err != nil {
				return fmt.Errorf("pruning %s history: %w", doc, err)
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO documents (name, content, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
			string(doc), string(pretty), now)
		if err != nil {
			return fmt.Errorf("saving %s: %w", doc, err)
		}
		return nil
	})
}

// Revision is one archived version of a document.
type Revision struct {
	ID         int64
	ReplacedAt time.Time
	Size       int
}

// History lists archived revisions of doc, newest first.
func (r *DocumentRepository) History(ctx context.Context, doc Document) ([]Revision, error) {
	if err := checkDocument(doc); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, replaced_at, length(content) FROM document_history
		WHERE name = ? ORDER BY id DESC`, string(doc))
	if err != nil {
		return nil, fmt.Errorf("listing %s history: %w", doc, err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var rev Revision
		if err := rows.Scan(&rev.ID, &rev.ReplacedAt, &rev.Size); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

// Close closes the database.
func (r *DocumentRepository) Close() error {
	return r.db.Close()
}
