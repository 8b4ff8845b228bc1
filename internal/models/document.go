// Package models defines core data structures for registry entries and API payloads.
package models

import (
	"fmt"
	"time"
)

// DocumentEntry is a registered document commitment. Entries are immutable
// once created; the registry they live in is an append-only audit log.
type DocumentEntry struct {
	ID           uint64    `json:"id" db:"id"`
	Commitment   string    `json:"commitment" db:"commitment"`
	Owner        string    `json:"owner" db:"owner"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

// RegisterDocumentRequest is the input for registering a document commitment.
type RegisterDocumentRequest struct {
	Commitment string `json:"commitment"`
	Owner      string `json:"owner"`
}

// Validate ensures the request carries a commitment and normalizes the owner.
// An empty owner defaults to "local", matching the reference client.
func (r *RegisterDocumentRequest) Validate() error {
	if r.Commitment == "" {
		return fmt.Errorf("commitment cannot be empty")
	}
	if r.Owner == "" {
		r.Owner = "local"
	}
	return nil
}
