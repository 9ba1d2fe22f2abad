package store

import "testing"

// NewTestStore opens an in-memory store that is closed when the test ends.
// This is only intended for use in tests.
func NewTestStore(t testing.TB) *Store {
	t.Helper()

	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}
