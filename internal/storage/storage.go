// Package storage defines the persistence interface for the registries.
//
// The registries are append-only audit logs, so the interface is insert-only:
// entries are appended with their final status and never updated or deleted.
// On boot the loaded entries are replayed into the in-memory registry store
// in ascending id order.
package storage

import (
	"context"

	"github.com/hyperjump/kensho/internal/models"
)

// Storage persists registry entries.
type Storage interface {
	AppendDocument(ctx context.Context, doc *models.DocumentEntry) error
	AppendModel(ctx context.Context, m *models.ModelEntry) error
	AppendQuery(ctx context.Context, q *models.QueryEntry) error

	LoadDocuments(ctx context.Context) ([]*models.DocumentEntry, error)
	LoadModels(ctx context.Context) ([]*models.ModelEntry, error)
	LoadQueries(ctx context.Context) ([]*models.QueryEntry, error)

	Close() error
}
