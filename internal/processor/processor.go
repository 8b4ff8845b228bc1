// Package processor applies commands to the registry store and produces
// ordered effects. It is the single writer: one mutex serializes every
// command application, including the oracle call inside verify-query, so
// no command ever observes a partially applied one.
package processor

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kensho/internal/metrics"
	"github.com/hyperjump/kensho/internal/models"
	"github.com/hyperjump/kensho/internal/registry"
	"github.com/hyperjump/kensho/internal/storage"
	"github.com/hyperjump/kensho/internal/verifier"
)

// Processor owns the registry store and applies commands to it.
type Processor struct {
	mu       sync.Mutex
	store    *registry.Store
	verifier verifier.Verifier
	storage  storage.Storage
	now      func() time.Time
}

// New creates a processor over an empty registry store.
func New(v verifier.Verifier, s storage.Storage) *Processor {
	return &Processor{
		store:    registry.NewStore(),
		verifier: v,
		storage:  s,
		now:      time.Now,
	}
}

// Load replays persisted entries into the registry store, rebuilding the
// reference index and advancing the counters past the highest persisted ids.
// Called once at startup, before the processor accepts commands.
func (p *Processor) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	docs, err := p.storage.LoadDocuments(ctx)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	for _, doc := range docs {
		if err := p.store.PutDocument(doc); err != nil {
			return fmt.Errorf("replay document %d: %w", doc.ID, err)
		}
	}

	mods, err := p.storage.LoadModels(ctx)
	if err != nil {
		return fmt.Errorf("load models: %w", err)
	}
	for _, m := range mods {
		if err := p.store.PutModel(m); err != nil {
			return fmt.Errorf("replay model %d: %w", m.ID, err)
		}
	}

	queries, err := p.storage.LoadQueries(ctx)
	if err != nil {
		return fmt.Errorf("load queries: %w", err)
	}
	for _, q := range queries {
		if err := p.store.PutQuery(q); err != nil {
			return fmt.Errorf("replay query %d: %w", q.ID, err)
		}
	}
	return nil
}

// Counts returns the current registry sizes.
func (p *Processor) Counts() (documents, models, queries int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Counts()
}

// Apply processes one command and returns its ordered effects. Exactly one
// Respond effect is always present. Commands are applied strictly
// sequentially in arrival order.
func (p *Processor) Apply(ctx context.Context, cmd Command) []Effect {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := cmd.Validate(); err != nil {
		return p.fail(cmd, malformed(err))
	}

	var effects []Effect
	var cmdErr *Error
	switch c := cmd.(type) {
	case Init:
		effects = p.applyInit()
	case RegisterDocument:
		effects, cmdErr = p.applyRegisterDocument(ctx, c)
	case RegisterModel:
		effects, cmdErr = p.applyRegisterModel(ctx, c)
	case VerifyQuery:
		effects, cmdErr = p.applyVerifyQuery(ctx, c)
	case GetDocument:
		effects, cmdErr = p.applyGetDocument(c)
	case GetModel:
		effects, cmdErr = p.applyGetModel(c)
	case GetQuery:
		effects, cmdErr = p.applyGetQuery(c)
	case ListDocuments:
		effects = []Effect{respond(http.StatusOK, p.store.ListDocuments())}
	case ListModels:
		effects = []Effect{respond(http.StatusOK, p.store.ListModels())}
	case ListQueries:
		effects = []Effect{respond(http.StatusOK, p.store.ListQueries())}
	default:
		cmdErr = malformed(fmt.Errorf("unknown command kind %q", cmd.Kind()))
	}
	if cmdErr != nil {
		return p.fail(cmd, cmdErr)
	}
	metrics.CommandApplied(cmd.Kind(), "ok")
	return effects
}

// fail renders a command failure as effects. No entry has landed in the
// registries by the time fail is reached; at most an id was allocated for a
// persist attempt that failed, which leaves a gap but keeps ids strictly
// increasing.
func (p *Processor) fail(cmd Command, err *Error) []Effect {
	metrics.CommandApplied(cmd.Kind(), string(err.Kind))
	return []Effect{
		logf("command rejected",
			zap.String("kind", cmd.Kind()),
			zap.String("error_kind", string(err.Kind)),
			zap.String("error", err.Message),
		),
		respond(statusFor(err.Kind), ErrorBody{Error: err.Message, Kind: string(err.Kind)}),
	}
}

func (p *Processor) applyInit() []Effect {
	p.store.Reset()
	return []Effect{
		logf("registry store initialized"),
		respond(http.StatusOK, map[string]string{"status": "initialized"}),
	}
}

func (p *Processor) applyRegisterDocument(ctx context.Context, cmd RegisterDocument) ([]Effect, *Error) {
	doc := &models.DocumentEntry{
		ID:           p.store.AllocateDocumentID(),
		Commitment:   cmd.Commitment,
		Owner:        cmd.Owner,
		RegisteredAt: p.now(),
	}
	if err := p.storage.AppendDocument(ctx, doc); err != nil {
		return nil, internal("persist document", err)
	}
	if err := p.store.PutDocument(doc); err != nil {
		return nil, internal("store document", err)
	}
	return []Effect{
		logf("document registered",
			zap.Uint64("id", doc.ID),
			zap.String("owner", doc.Owner),
		),
		respond(http.StatusCreated, models.RegistrationResponse{ID: doc.ID, Document: doc}),
	}, nil
}

func (p *Processor) applyRegisterModel(ctx context.Context, cmd RegisterModel) ([]Effect, *Error) {
	m := &models.ModelEntry{
		ID:           p.store.AllocateModelID(),
		ModelHash:    cmd.ModelHash,
		ModelName:    cmd.ModelName,
		Approved:     true, // no approval workflow exists
		RegisteredAt: p.now(),
	}
	if err := p.storage.AppendModel(ctx, m); err != nil {
		return nil, internal("persist model", err)
	}
	if err := p.store.PutModel(m); err != nil {
		return nil, internal("store model", err)
	}
	return []Effect{
		logf("model registered",
			zap.Uint64("id", m.ID),
			zap.String("model_name", m.ModelName),
		),
		respond(http.StatusCreated, models.RegistrationResponse{ID: m.ID, Model: m}),
	}, nil
}

func (p *Processor) applyVerifyQuery(ctx context.Context, cmd VerifyQuery) ([]Effect, *Error) {
	docID, ok := p.store.ResolveCommitment(cmd.Commitment)
	if !ok {
		return nil, unresolvable("no document registered for commitment %q", cmd.Commitment)
	}
	doc, _ := p.store.GetDocument(docID)

	modelID, ok := p.store.ResolveModelHash(cmd.ModelHash)
	if !ok {
		return nil, unresolvable("no model registered for hash %q", cmd.ModelHash)
	}
	model, _ := p.store.GetModel(modelID)
	if !model.Approved {
		return nil, unresolvable("model %d is not approved", modelID)
	}

	result, err := p.verifier.Verify(ctx, &verifier.Request{
		Proof: cmd.Proof,
		Inputs: verifier.PublicInputs{
			DocumentCommitment: cmd.Commitment,
			ModelHash:          cmd.ModelHash,
			Timestamp:          cmd.Timestamp,
		},
		Document: doc,
		Model:    model,
	})
	metrics.VerificationResult(string(result))
	if err != nil || result == verifier.ResultIndeterminate {
		return nil, indeterminate("oracle could not verify the proof", err)
	}

	// The oracle answered definitively; the entry is recorded either way,
	// since a disproven claim is itself useful audit output.
	status := models.StatusVerified
	if result == verifier.ResultInvalid {
		status = models.StatusRejected
	}
	q := &models.QueryEntry{
		ID:         p.store.AllocateQueryID(),
		DocumentID: docID,
		ModelID:    modelID,
		Proof:      cmd.Proof,
		Commitment: cmd.Commitment,
		ModelHash:  cmd.ModelHash,
		Timestamp:  cmd.Timestamp,
		VerifiedAt: p.now(),
		Status:     status,
	}
	if err := p.storage.AppendQuery(ctx, q); err != nil {
		return nil, internal("persist query", err)
	}
	if err := p.store.PutQuery(q); err != nil {
		return nil, internal("store query", err)
	}

	valid := status == models.StatusVerified
	message := "proof verified"
	if !valid {
		message = "proof rejected"
	}
	return []Effect{
		logf("query verified",
			zap.Uint64("id", q.ID),
			zap.Uint64("document_id", docID),
			zap.Uint64("model_id", modelID),
			zap.String("status", string(status)),
		),
		respond(http.StatusCreated, models.VerificationResponse{
			Valid:   valid,
			QueryID: q.ID,
			Message: message,
			Query:   q,
		}),
	}, nil
}

func (p *Processor) applyGetDocument(cmd GetDocument) ([]Effect, *Error) {
	doc, ok := p.store.GetDocument(cmd.ID)
	if !ok {
		return nil, notFound("document %d not found", cmd.ID)
	}
	return []Effect{respond(http.StatusOK, doc)}, nil
}

func (p *Processor) applyGetModel(cmd GetModel) ([]Effect, *Error) {
	m, ok := p.store.GetModel(cmd.ID)
	if !ok {
		return nil, notFound("model %d not found", cmd.ID)
	}
	return []Effect{respond(http.StatusOK, m)}, nil
}

func (p *Processor) applyGetQuery(cmd GetQuery) ([]Effect, *Error) {
	q, ok := p.store.GetQuery(cmd.ID)
	if !ok {
		return nil, notFound("query %d not found", cmd.ID)
	}
	return []Effect{respond(http.StatusOK, q)}, nil
}
