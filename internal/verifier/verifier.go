// Package verifier provides the proof verification oracle boundary and a
// factory for creating implementations.
package verifier

import (
	"context"
	"fmt"

	"github.com/hyperjump/kensho/internal/models"
)

// Result is the oracle's judgement of a proof.
type Result string

const (
	// ResultValid means the proof verified against the public inputs.
	ResultValid Result = "valid"
	// ResultInvalid means the oracle definitively rejected the proof.
	ResultInvalid Result = "invalid"
	// ResultIndeterminate means the oracle could not produce a definitive
	// answer (unreachable, timed out, malformed response). It must never be
	// treated as either valid or invalid.
	ResultIndeterminate Result = "indeterminate"
)

// PublicInputs are the public inputs the proof is checked against.
type PublicInputs struct {
	DocumentCommitment string `json:"document_commitment"`
	ModelHash          string `json:"model_hash"`
	Timestamp          uint64 `json:"timestamp"`
}

// Request carries one verification job: the submitted proof, its public
// inputs, and the registry entries the inputs resolved to.
type Request struct {
	Proof    string
	Inputs   PublicInputs
	Document *models.DocumentEntry
	Model    *models.ModelEntry
}

// Verifier evaluates proof validity.
type Verifier interface {
	// Verify returns the oracle's judgement. A non-nil error always pairs
	// with ResultIndeterminate; callers must not persist anything on error.
	Verify(ctx context.Context, req *Request) (Result, error)
	Close() error
}

// Mode selects a verifier implementation.
type Mode string

const (
	// ModeHTTP delegates to a remote Groth16 verifier service.
	ModeHTTP Mode = "http"
	// ModeStatic returns a fixed configured result. Development and tests only.
	ModeStatic Mode = "static"
)

// New creates a verifier of the given mode.
// Supported modes: "http" (default), "static".
func New(mode string, opts Options) (Verifier, error) {
	switch Mode(mode) {
	case ModeHTTP, "":
		return NewHTTPVerifier(opts.Endpoint, opts.Timeout), nil
	case ModeStatic:
		return NewStaticVerifier(Result(opts.StaticResult))
	default:
		return nil, fmt.Errorf("unknown verifier mode: %s (supported: http, static)", mode)
	}
}

// Options holds factory settings for the concrete implementations.
type Options struct {
	Endpoint     string
	Timeout      int // seconds; 0 means the http default
	StaticResult string
}
