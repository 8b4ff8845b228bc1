package models

import (
	"fmt"
	"time"
)

// QueryStatus is the verification state of a recorded query.
type QueryStatus string

const (
	// StatusPending is the nominal initial state of a query. Creation and the
	// oracle decision happen within one command, so a persisted entry is
	// always already terminal; pending never appears in a registry.
	StatusPending QueryStatus = "pending"
	// StatusVerified means the oracle judged the proof valid.
	StatusVerified QueryStatus = "verified"
	// StatusRejected means the oracle judged the proof invalid. The entry is
	// still recorded: a disproven claim is useful audit output.
	StatusRejected QueryStatus = "rejected"
)

// QueryEntry is a recorded verification attempt. DocumentID and ModelID are
// always resolved from the submitted commitment and model hash at creation
// time; an entry never carries a placeholder reference. Status transitions
// exactly once, from pending to verified or rejected.
type QueryEntry struct {
	ID         uint64      `json:"id" db:"id"`
	DocumentID uint64      `json:"document_id" db:"document_id"`
	ModelID    uint64      `json:"model_id" db:"model_id"`
	Proof      string      `json:"proof" db:"proof"`
	Commitment string      `json:"commitment" db:"commitment"`
	ModelHash  string      `json:"model_hash" db:"model_hash"`
	Timestamp  uint64      `json:"timestamp" db:"timestamp"` // claimed time of the original query
	VerifiedAt time.Time   `json:"verified_at" db:"verified_at"`
	Status     QueryStatus `json:"status" db:"status"`
}

// VerifyQueryRequest is the input for verifying a query proof. Commitment and
// ModelHash identify the document and model by content, not by id; resolution
// happens inside the command processor.
type VerifyQueryRequest struct {
	Proof      string `json:"proof"`
	Commitment string `json:"commitment"`
	ModelHash  string `json:"model_hash"`
	Timestamp  uint64 `json:"timestamp"`
}

// Validate ensures all public inputs are present. A zero timestamp means the
// caller never set the field, so it is rejected rather than recorded as a
// claim about the epoch.
func (r *VerifyQueryRequest) Validate() error {
	if r.Proof == "" {
		return fmt.Errorf("proof cannot be empty")
	}
	if r.Commitment == "" {
		return fmt.Errorf("commitment cannot be empty")
	}
	if r.ModelHash == "" {
		return fmt.Errorf("model_hash cannot be empty")
	}
	if r.Timestamp == 0 {
		return fmt.Errorf("timestamp must be set")
	}
	return nil
}

// VerificationResponse is the body returned for a completed verify-query
// command. Valid reports the oracle's judgement; the command succeeded either
// way, since creating the audit record is the success condition.
type VerificationResponse struct {
	Valid   bool        `json:"valid"`
	QueryID uint64      `json:"query_id"`
	Message string      `json:"message"`
	Query   *QueryEntry `json:"query"`
}

// RegistrationResponse is the body returned for a successful registration.
type RegistrationResponse struct {
	ID       uint64         `json:"id"`
	Document *DocumentEntry `json:"document,omitempty"`
	Model    *ModelEntry    `json:"model,omitempty"`
}
