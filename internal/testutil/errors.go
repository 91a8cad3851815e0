// Package testutil provides sentinel errors shared by adpilot tests.
//
// It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors simulate collaborator failures in tests.
var (
	// ErrMockOverloaded simulates a text or media model rejecting a request.
	ErrMockOverloaded = errors.New("model overloaded")

	// ErrMockQuota simulates a provider quota being exhausted.
	ErrMockQuota = errors.New("quota exceeded")

	// ErrMockNetwork simulates a transport failure.
	ErrMockNetwork = errors.New("network error")
)
