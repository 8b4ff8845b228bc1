package processor

import "github.com/hyperjump/kensho/internal/models"

// Command is one externally submitted instruction to the state machine.
// The set of commands is closed; each carries exactly its listed fields.
type Command interface {
	// Kind is the command's tag, used in logs and metrics.
	Kind() string
	// Validate rejects malformed fields before any registry mutation.
	Validate() error
}

// Init produces an empty registry store with all counters at 1. Issued by
// the host process at startup, before any persisted entries are replayed;
// it is not routed over HTTP.
type Init struct{}

func (Init) Kind() string    { return "init" }
func (Init) Validate() error { return nil }

// RegisterDocument registers a document commitment.
type RegisterDocument struct {
	*models.RegisterDocumentRequest
}

func (RegisterDocument) Kind() string { return "register-document" }

// RegisterModel registers a model hash.
type RegisterModel struct {
	*models.RegisterModelRequest
}

func (RegisterModel) Kind() string { return "register-model" }

// VerifyQuery resolves a proof's public inputs against the registries and
// submits it to the verification oracle.
type VerifyQuery struct {
	*models.VerifyQueryRequest
}

func (VerifyQuery) Kind() string { return "verify-query" }

// GetDocument reads one document entry.
type GetDocument struct {
	ID uint64
}

func (GetDocument) Kind() string    { return "get-document" }
func (GetDocument) Validate() error { return nil }

// GetModel reads one model entry.
type GetModel struct {
	ID uint64
}

func (GetModel) Kind() string    { return "get-model" }
func (GetModel) Validate() error { return nil }

// GetQuery reads one query entry.
type GetQuery struct {
	ID uint64
}

func (GetQuery) Kind() string    { return "get-query" }
func (GetQuery) Validate() error { return nil }

// ListDocuments lists all document entries in ascending id order.
type ListDocuments struct{}

func (ListDocuments) Kind() string    { return "list-documents" }
func (ListDocuments) Validate() error { return nil }

// ListModels lists all model entries in ascending id order.
type ListModels struct{}

func (ListModels) Kind() string    { return "list-models" }
func (ListModels) Validate() error { return nil }

// ListQueries lists all query entries in ascending id order.
type ListQueries struct{}

func (ListQueries) Kind() string    { return "list-queries" }
func (ListQueries) Validate() error { return nil }
