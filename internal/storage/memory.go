package storage

import (
	"context"
	"sync"

	"github.com/hyperjump/kensho/internal/models"
)

// MemoryStorage implements Storage in memory. Used for ephemeral runs
// (database_path set to "memory") and tests; nothing survives a restart.
type MemoryStorage struct {
	mu        sync.Mutex
	documents []*models.DocumentEntry
	models    []*models.ModelEntry
	queries   []*models.QueryEntry
}

// NewMemoryStorage returns an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// AppendDocument records a document entry.
func (s *MemoryStorage) AppendDocument(ctx context.Context, doc *models.DocumentEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = append(s.documents, doc)
	return nil
}

// AppendModel records a model entry.
func (s *MemoryStorage) AppendModel(ctx context.Context, m *models.ModelEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models = append(s.models, m)
	return nil
}

// AppendQuery records a query entry.
func (s *MemoryStorage) AppendQuery(ctx context.Context, q *models.QueryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	return nil
}

// LoadDocuments returns the recorded document entries.
func (s *MemoryStorage) LoadDocuments(ctx context.Context) ([]*models.DocumentEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.DocumentEntry(nil), s.documents...), nil
}

// LoadModels returns the recorded model entries.
func (s *MemoryStorage) LoadModels(ctx context.Context) ([]*models.ModelEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.ModelEntry(nil), s.models...), nil
}

// LoadQueries returns the recorded query entries.
func (s *MemoryStorage) LoadQueries(ctx context.Context) ([]*models.QueryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.QueryEntry(nil), s.queries...), nil
}

// Close is a no-op for MemoryStorage.
func (s *MemoryStorage) Close() error {
	return nil
}
