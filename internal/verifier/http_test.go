package verifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPVerifier_Valid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/verify" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req verifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Proof != "p" || req.PublicInputs.DocumentCommitment != "c1" || req.PublicInputs.Timestamp != 100 {
			t.Errorf("unexpected request %+v", req)
		}
		_ = json.NewEncoder(w).Encode(verifyResponse{IsValid: true})
	}))
	defer srv.Close()

	v := NewHTTPVerifier(srv.URL, 5)
	result, err := v.Verify(context.Background(), &Request{
		Proof:  "p",
		Inputs: PublicInputs{DocumentCommitment: "c1", ModelHash: "m1", Timestamp: 100},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result != ResultValid {
		t.Errorf("expected valid, got %s", result)
	}
}

func TestHTTPVerifier_Invalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(verifyResponse{IsValid: false})
	}))
	defer srv.Close()

	v := NewHTTPVerifier(srv.URL, 5)
	result, err := v.Verify(context.Background(), &Request{Proof: "p"})
	if err != nil {
		t.Fatal(err)
	}
	if result != ResultInvalid {
		t.Errorf("expected invalid, got %s", result)
	}
}

func TestHTTPVerifier_ServerErrorIsIndeterminate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "proving key not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := NewHTTPVerifier(srv.URL, 5)
	result, err := v.Verify(context.Background(), &Request{Proof: "p"})
	if err == nil {
		t.Fatal("expected error from 500 response")
	}
	if result != ResultIndeterminate {
		t.Errorf("expected indeterminate, got %s", result)
	}
}

func TestHTTPVerifier_UnreachableIsIndeterminate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // unreachable on purpose

	v := NewHTTPVerifier(srv.URL, 1)
	result, err := v.Verify(context.Background(), &Request{Proof: "p"})
	if err == nil {
		t.Fatal("expected transport error")
	}
	if result != ResultIndeterminate {
		t.Errorf("expected indeterminate, got %s", result)
	}
}

func TestNewVerifierFactory(t *testing.T) {
	v, err := New("static", Options{StaticResult: "invalid"})
	if err != nil {
		t.Fatal(err)
	}
	result, err := v.Verify(context.Background(), &Request{})
	if err != nil {
		t.Fatal(err)
	}
	if result != ResultInvalid {
		t.Errorf("expected invalid, got %s", result)
	}

	if _, err := New("http", Options{Endpoint: "http://localhost:9090"}); err != nil {
		t.Fatal(err)
	}
	if _, err := New("bogus", Options{}); err == nil {
		t.Error("expected error for unknown mode")
	}
	if _, err := NewStaticVerifier("sometimes"); err == nil {
		t.Error("expected error for unknown static result")
	}
}
