package models

import (
	"fmt"
	"time"
)

// ModelEntry is a registered model hash. Approved defaults to true on
// registration; there is no separate approval workflow, but verification
// still refuses queries against an unapproved model.
type ModelEntry struct {
	ID           uint64    `json:"id" db:"id"`
	ModelHash    string    `json:"model_hash" db:"model_hash"`
	ModelName    string    `json:"model_name" db:"model_name"`
	Approved     bool      `json:"approved" db:"approved"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

// RegisterModelRequest is the input for registering a model.
type RegisterModelRequest struct {
	ModelHash string `json:"model_hash"`
	ModelName string `json:"model_name"`
}

// Validate ensures the request carries a model hash and a display name.
func (r *RegisterModelRequest) Validate() error {
	if r.ModelHash == "" {
		return fmt.Errorf("model_hash cannot be empty")
	}
	if r.ModelName == "" {
		return fmt.Errorf("model_name cannot be empty")
	}
	return nil
}
