// Package registry holds the in-memory registry store: three append-only,
// id-indexed registries (documents, models, queries) plus the derived
// reference index mapping content fingerprints to entry ids.
//
// The store itself is not goroutine safe; the command processor serializes
// all access. Ids are unique, strictly increasing, and start at 1 within
// each registry. Entries are never deleted.
package registry

import (
	"fmt"

	"github.com/hyperjump/kensho/internal/models"
)

// Store is the registry state: all three registries, their id counters, and
// the reference index. The index is updated inside the same Put that lands
// an entry, so it can never drift from the registries.
type Store struct {
	documents     []*models.DocumentEntry
	documentsByID map[uint64]*models.DocumentEntry
	models        []*models.ModelEntry
	modelsByID    map[uint64]*models.ModelEntry
	queries       []*models.QueryEntry
	queriesByID   map[uint64]*models.QueryEntry

	nextDocumentID uint64
	nextModelID    uint64
	nextQueryID    uint64

	// Reference index. Duplicate commitments and hashes are recorded as new
	// entries but do not displace the mapping: the first registration wins.
	documentByCommitment map[string]uint64
	modelByHash          map[string]uint64
}

// NewStore returns an empty store with all counters at 1.
func NewStore() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset returns the store to its initial empty state.
func (s *Store) Reset() {
	s.documents = nil
	s.documentsByID = make(map[uint64]*models.DocumentEntry)
	s.models = nil
	s.modelsByID = make(map[uint64]*models.ModelEntry)
	s.queries = nil
	s.queriesByID = make(map[uint64]*models.QueryEntry)
	s.nextDocumentID = 1
	s.nextModelID = 1
	s.nextQueryID = 1
	s.documentByCommitment = make(map[string]uint64)
	s.modelByHash = make(map[string]uint64)
}

// AllocateDocumentID returns the current document counter value and advances it.
func (s *Store) AllocateDocumentID() uint64 {
	id := s.nextDocumentID
	s.nextDocumentID++
	return id
}

// AllocateModelID returns the current model counter value and advances it.
func (s *Store) AllocateModelID() uint64 {
	id := s.nextModelID
	s.nextModelID++
	return id
}

// AllocateQueryID returns the current query counter value and advances it.
func (s *Store) AllocateQueryID() uint64 {
	id := s.nextQueryID
	s.nextQueryID++
	return id
}

// PutDocument inserts a document entry and indexes its commitment. It never
// overwrites: inserting an id that already exists is an error.
func (s *Store) PutDocument(doc *models.DocumentEntry) error {
	if _, exists := s.documentsByID[doc.ID]; exists {
		return fmt.Errorf("document id %d already exists", doc.ID)
	}
	s.documents = append(s.documents, doc)
	s.documentsByID[doc.ID] = doc
	if _, exists := s.documentByCommitment[doc.Commitment]; !exists {
		s.documentByCommitment[doc.Commitment] = doc.ID
	}
	if doc.ID >= s.nextDocumentID {
		s.nextDocumentID = doc.ID + 1
	}
	return nil
}

// PutModel inserts a model entry and indexes its hash.
func (s *Store) PutModel(m *models.ModelEntry) error {
	if _, exists := s.modelsByID[m.ID]; exists {
		return fmt.Errorf("model id %d already exists", m.ID)
	}
	s.models = append(s.models, m)
	s.modelsByID[m.ID] = m
	if _, exists := s.modelByHash[m.ModelHash]; !exists {
		s.modelByHash[m.ModelHash] = m.ID
	}
	if m.ID >= s.nextModelID {
		s.nextModelID = m.ID + 1
	}
	return nil
}

// PutQuery inserts a query entry.
func (s *Store) PutQuery(q *models.QueryEntry) error {
	if _, exists := s.queriesByID[q.ID]; exists {
		return fmt.Errorf("query id %d already exists", q.ID)
	}
	s.queries = append(s.queries, q)
	s.queriesByID[q.ID] = q
	if q.ID >= s.nextQueryID {
		s.nextQueryID = q.ID + 1
	}
	return nil
}

// GetDocument returns the document with the given id, if present.
func (s *Store) GetDocument(id uint64) (*models.DocumentEntry, bool) {
	doc, ok := s.documentsByID[id]
	return doc, ok
}

// GetModel returns the model with the given id, if present.
func (s *Store) GetModel(id uint64) (*models.ModelEntry, bool) {
	m, ok := s.modelsByID[id]
	return m, ok
}

// GetQuery returns the query with the given id, if present.
func (s *Store) GetQuery(id uint64) (*models.QueryEntry, bool) {
	q, ok := s.queriesByID[id]
	return q, ok
}

// ListDocuments returns all documents in ascending id order. The slice is
// never nil, so an empty registry serializes as an empty JSON array.
func (s *Store) ListDocuments() []*models.DocumentEntry {
	return append(make([]*models.DocumentEntry, 0, len(s.documents)), s.documents...)
}

// ListModels returns all models in ascending id order.
func (s *Store) ListModels() []*models.ModelEntry {
	return append(make([]*models.ModelEntry, 0, len(s.models)), s.models...)
}

// ListQueries returns all queries in ascending id order.
func (s *Store) ListQueries() []*models.QueryEntry {
	return append(make([]*models.QueryEntry, 0, len(s.queries)), s.queries...)
}

// ResolveCommitment returns the document id registered under the commitment.
func (s *Store) ResolveCommitment(commitment string) (uint64, bool) {
	id, ok := s.documentByCommitment[commitment]
	return id, ok
}

// ResolveModelHash returns the model id registered under the hash.
func (s *Store) ResolveModelHash(hash string) (uint64, bool) {
	id, ok := s.modelByHash[hash]
	return id, ok
}

// Counts returns the number of entries in each registry.
func (s *Store) Counts() (documents, models, queries int) {
	return len(s.documents), len(s.models), len(s.queries)
}
