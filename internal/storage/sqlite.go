package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/kensho/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY,
		commitment TEXT NOT NULL,
		owner TEXT NOT NULL,
		registered_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_commitment ON documents(commitment);

	CREATE TABLE IF NOT EXISTS models (
		id INTEGER PRIMARY KEY,
		model_hash TEXT NOT NULL,
		model_name TEXT NOT NULL,
		approved INTEGER NOT NULL,
		registered_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_models_hash ON models(model_hash);

	CREATE TABLE IF NOT EXISTS queries (
		id INTEGER PRIMARY KEY,
		document_id INTEGER NOT NULL,
		model_id INTEGER NOT NULL,
		proof TEXT NOT NULL,
		commitment TEXT NOT NULL,
		model_hash TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		verified_at TIMESTAMP NOT NULL,
		status TEXT NOT NULL,
		FOREIGN KEY (document_id) REFERENCES documents(id),
		FOREIGN KEY (model_id) REFERENCES models(id)
	);
	`
	_, err := db.Exec(schema)
	return err
}

// AppendDocument inserts a document entry.
func (s *SQLiteStorage) AppendDocument(ctx context.Context, doc *models.DocumentEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, commitment, owner, registered_at)
		 VALUES (?, ?, ?, ?)`,
		doc.ID, doc.Commitment, doc.Owner, doc.RegisteredAt,
	)
	return err
}

// AppendModel inserts a model entry.
func (s *SQLiteStorage) AppendModel(ctx context.Context, m *models.ModelEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO models (id, model_hash, model_name, approved, registered_at)
		 VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.ModelHash, m.ModelName, m.Approved, m.RegisteredAt,
	)
	return err
}

// AppendQuery inserts a query entry with its terminal status.
func (s *SQLiteStorage) AppendQuery(ctx context.Context, q *models.QueryEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO queries (id, document_id, model_id, proof, commitment, model_hash, timestamp, verified_at, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.DocumentID, q.ModelID, q.Proof, q.Commitment, q.ModelHash, q.Timestamp, q.VerifiedAt, string(q.Status),
	)
	return err
}

// LoadDocuments returns all document entries in ascending id order.
func (s *SQLiteStorage) LoadDocuments(ctx context.Context) ([]*models.DocumentEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, commitment, owner, registered_at FROM documents ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.DocumentEntry
	for rows.Next() {
		var doc models.DocumentEntry
		if err := rows.Scan(&doc.ID, &doc.Commitment, &doc.Owner, &doc.RegisteredAt); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// LoadModels returns all model entries in ascending id order.
func (s *SQLiteStorage) LoadModels(ctx context.Context) ([]*models.ModelEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, model_hash, model_name, approved, registered_at FROM models ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.ModelEntry
	for rows.Next() {
		var m models.ModelEntry
		if err := rows.Scan(&m.ID, &m.ModelHash, &m.ModelName, &m.Approved, &m.RegisteredAt); err != nil {
			return nil, err
		}
		entries = append(entries, &m)
	}
	return entries, rows.Err()
}

// LoadQueries returns all query entries in ascending id order.
func (s *SQLiteStorage) LoadQueries(ctx context.Context) ([]*models.QueryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document_id, model_id, proof, commitment, model_hash, timestamp, verified_at, status
		 FROM queries ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.QueryEntry
	for rows.Next() {
		var q models.QueryEntry
		var status string
		if err := rows.Scan(&q.ID, &q.DocumentID, &q.ModelID, &q.Proof, &q.Commitment, &q.ModelHash, &q.Timestamp, &q.VerifiedAt, &status); err != nil {
			return nil, err
		}
		q.Status = models.QueryStatus(status)
		entries = append(entries, &q)
	}
	return entries, rows.Err()
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
