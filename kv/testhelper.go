// ABOUTME: Test utilities for creating isolated kv stores
// ABOUTME: Uses in-memory BadgerDB so tests leave no files behind
package kv

import "testing"

// NewTestStore creates an in-memory store for tests. The store is closed
// automatically when the test finishes.
func NewTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Logf("Warning: failed to close test store: %v", err)
		}
	})
	return s
}
