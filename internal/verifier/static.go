package verifier

import (
	"context"
	"fmt"
)

// StaticVerifier returns a fixed result for every proof. It exists for
// development setups without a verifier sidecar and for tests; it is never
// a substitute for real verification.
type StaticVerifier struct {
	result Result
	err    error
}

// NewStaticVerifier returns a verifier that always answers with result.
// An empty result defaults to valid.
func NewStaticVerifier(result Result) (*StaticVerifier, error) {
	switch result {
	case "":
		result = ResultValid
	case ResultValid, ResultInvalid, ResultIndeterminate:
	default:
		return nil, fmt.Errorf("unknown static result: %s (supported: valid, invalid, indeterminate)", result)
	}
	v := &StaticVerifier{result: result}
	if result == ResultIndeterminate {
		v.err = fmt.Errorf("static verifier configured as indeterminate")
	}
	return v, nil
}

// Verify returns the configured result.
func (v *StaticVerifier) Verify(ctx context.Context, req *Request) (Result, error) {
	return v.result, v.err
}

// Close is a no-op for StaticVerifier.
func (v *StaticVerifier) Close() error {
	return nil
}
