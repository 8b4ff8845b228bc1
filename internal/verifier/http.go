package verifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// defaultTimeout bounds a single verification call. Proof verification can
// take a while on large circuits, so this is deliberately generous.
const defaultTimeout = 30 * time.Second

// HTTPVerifier delegates proof verification to a remote verifier service
// (the Groth16 verifier sidecar). Transport failures, timeouts, and
// non-200 responses are indeterminate, never invalid.
type HTTPVerifier struct {
	endpoint string
	client   *http.Client
}

// verifyRequest is the wire request to the verifier service.
type verifyRequest struct {
	Proof        string       `json:"proof"`
	PublicInputs PublicInputs `json:"public_inputs"`
}

// verifyResponse is the wire response from the verifier service.
type verifyResponse struct {
	IsValid    bool   `json:"is_valid"`
	VerifiedAt uint64 `json:"verified_at,omitempty"`
}

// NewHTTPVerifier returns a verifier calling the service at endpoint.
// timeoutSeconds bounds each call; 0 uses the default.
func NewHTTPVerifier(endpoint string, timeoutSeconds int) *HTTPVerifier {
	timeout := defaultTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return &HTTPVerifier{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

// Verify posts the proof and public inputs to the verifier service.
func (v *HTTPVerifier) Verify(ctx context.Context, req *Request) (Result, error) {
	body, err := json.Marshal(verifyRequest{Proof: req.Proof, PublicInputs: req.Inputs})
	if err != nil {
		return ResultIndeterminate, fmt.Errorf("marshal verify request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint+"/verify", bytes.NewReader(body))
	if err != nil {
		return ResultIndeterminate, fmt.Errorf("build verify request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(httpReq)
	if err != nil {
		return ResultIndeterminate, fmt.Errorf("verifier unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return ResultIndeterminate, fmt.Errorf("verifier returned %d: %s", resp.StatusCode, string(b))
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return ResultIndeterminate, fmt.Errorf("decode verifier response: %w", err)
	}
	if result.IsValid {
		return ResultValid, nil
	}
	return ResultInvalid, nil
}

// Close is a no-op for HTTPVerifier.
func (v *HTTPVerifier) Close() error {
	return nil
}
