package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hyperjump/kensho/internal/config"
	"github.com/hyperjump/kensho/internal/models"
	"github.com/hyperjump/kensho/internal/processor"
	"github.com/hyperjump/kensho/internal/storage"
	"github.com/hyperjump/kensho/internal/verifier"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, result verifier.Result) *Server {
	t.Helper()
	v, err := verifier.NewStaticVerifier(result)
	if err != nil {
		t.Fatal(err)
	}
	p := processor.New(v, storage.NewMemoryStorage())
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Storage.DatabasePath = "memory"
	return NewServer(p, cfg, zap.NewNop())
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRegisterAndGetDocument(t *testing.T) {
	srv := newTestServer(t, verifier.ResultValid)
	router := srv.Router()

	w := doJSON(t, router, http.MethodPost, "/api/v1/documents",
		models.RegisterDocumentRequest{Commitment: "c1", Owner: "alice"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created models.RegistrationResponse
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.ID != 1 || created.Document == nil || created.Document.Commitment != "c1" {
		t.Errorf("got %+v", created)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/documents/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var doc models.DocumentEntry
	if err := json.NewDecoder(w.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if doc.ID != 1 || doc.Owner != "alice" {
		t.Errorf("got %+v", doc)
	}
}

func TestRegisterDocument_MissingCommitment(t *testing.T) {
	srv := newTestServer(t, verifier.ResultValid)
	w := doJSON(t, srv.Router(), http.MethodPost, "/api/v1/documents",
		models.RegisterDocumentRequest{Owner: "alice"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	srv := newTestServer(t, verifier.ResultValid)
	w := doJSON(t, srv.Router(), http.MethodGet, "/api/v1/documents/42", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetDocument_BadID(t *testing.T) {
	srv := newTestServer(t, verifier.ResultValid)
	w := doJSON(t, srv.Router(), http.MethodGet, "/api/v1/documents/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestVerifyQueryFlow(t *testing.T) {
	srv := newTestServer(t, verifier.ResultValid)
	router := srv.Router()

	doJSON(t, router, http.MethodPost, "/api/v1/documents",
		models.RegisterDocumentRequest{Commitment: "c1", Owner: "alice"})
	doJSON(t, router, http.MethodPost, "/api/v1/models",
		models.RegisterModelRequest{ModelHash: "m1", ModelName: "demo-model"})

	w := doJSON(t, router, http.MethodPost, "/api/v1/queries/verify",
		models.VerifyQueryRequest{Proof: "p", Commitment: "c1", ModelHash: "m1", Timestamp: 100})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.VerificationResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Valid || resp.QueryID != 1 {
		t.Errorf("got %+v", resp)
	}
	if resp.Query == nil || resp.Query.DocumentID != 1 || resp.Query.ModelID != 1 {
		t.Errorf("references not resolved: %+v", resp.Query)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/queries/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var q models.QueryEntry
	if err := json.NewDecoder(w.Body).Decode(&q); err != nil {
		t.Fatal(err)
	}
	if q.Status != models.StatusVerified {
		t.Errorf("expected verified, got %s", q.Status)
	}
}

func TestVerifyQuery_RejectedStill201(t *testing.T) {
	srv := newTestServer(t, verifier.ResultInvalid)
	router := srv.Router()

	doJSON(t, router, http.MethodPost, "/api/v1/documents",
		models.RegisterDocumentRequest{Commitment: "c1", Owner: "alice"})
	doJSON(t, router, http.MethodPost, "/api/v1/models",
		models.RegisterModelRequest{ModelHash: "m1", ModelName: "demo-model"})

	w := doJSON(t, router, http.MethodPost, "/api/v1/queries/verify",
		models.VerifyQueryRequest{Proof: "p", Commitment: "c1", ModelHash: "m1", Timestamp: 100})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var resp models.VerificationResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Valid {
		t.Error("expected valid=false")
	}
	if resp.Query.Status != models.StatusRejected {
		t.Errorf("expected rejected, got %s", resp.Query.Status)
	}
}

func TestVerifyQuery_UnknownCommitment422(t *testing.T) {
	srv := newTestServer(t, verifier.ResultValid)
	router := srv.Router()

	doJSON(t, router, http.MethodPost, "/api/v1/models",
		models.RegisterModelRequest{ModelHash: "m1", ModelName: "demo-model"})

	w := doJSON(t, router, http.MethodPost, "/api/v1/queries/verify",
		models.VerifyQueryRequest{Proof: "p", Commitment: "unknown", ModelHash: "m1", Timestamp: 100})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/queries", nil)
	var list []*models.QueryEntry
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("expected no queries, got %d", len(list))
	}
}

func TestVerifyQuery_IndeterminateOracle502(t *testing.T) {
	srv := newTestServer(t, verifier.ResultIndeterminate)
	router := srv.Router()

	doJSON(t, router, http.MethodPost, "/api/v1/documents",
		models.RegisterDocumentRequest{Commitment: "c1", Owner: "alice"})
	doJSON(t, router, http.MethodPost, "/api/v1/models",
		models.RegisterModelRequest{ModelHash: "m1", ModelName: "demo-model"})

	w := doJSON(t, router, http.MethodPost, "/api/v1/queries/verify",
		models.VerifyQueryRequest{Proof: "p", Commitment: "c1", ModelHash: "m1", Timestamp: 100})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestListDocuments(t *testing.T) {
	srv := newTestServer(t, verifier.ResultValid)
	router := srv.Router()

	w := doJSON(t, router, http.MethodGet, "/api/v1/documents", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Body.String(); got != "[]\n" {
		t.Errorf("empty registry should serialize as [], got %q", got)
	}

	doJSON(t, router, http.MethodPost, "/api/v1/documents",
		models.RegisterDocumentRequest{Commitment: "c1", Owner: "alice"})
	doJSON(t, router, http.MethodPost, "/api/v1/documents",
		models.RegisterDocumentRequest{Commitment: "c2", Owner: "bob"})

	w = doJSON(t, router, http.MethodGet, "/api/v1/documents", nil)
	var list []*models.DocumentEntry
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != 1 || list[1].ID != 2 {
		t.Errorf("got %+v", list)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, verifier.ResultValid)
	w := doJSON(t, srv.Router(), http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestStatus(t *testing.T) {
	srv := newTestServer(t, verifier.ResultValid)
	router := srv.Router()
	doJSON(t, router, http.MethodPost, "/api/v1/documents",
		models.RegisterDocumentRequest{Commitment: "c1", Owner: "alice"})

	w := doJSON(t, router, http.MethodGet, "/api/v1/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var status map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if status["documents"].(float64) != 1 {
		t.Errorf("got %+v", status)
	}
}
