package store

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stanza-lrs/stanza/internal/statement"
)

// createTestStore creates a fresh file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestEnvelope builds a minimal envelope with a distinct verb per n.
func createTestEnvelope(id string, n int) *Envelope {
	return &Envelope{
		StatementID: id,
		UserID:      "tester",
		Stored:      fmt.Sprintf("2024-05-01T12:00:%02d.000Z", n),
		StoredAt:    int64(n) * 1_000_000_000,
		Statement: statement.Document{
			"id":    id,
			"actor": map[string]any{"mbox": "mailto:alice@example.com"},
			"verb":  map[string]any{"id": fmt.Sprintf("http://example.com/verbs/v%d", n)},
			"object": map[string]any{
				"id": "http://example.com/activity",
			},
		},
	}
}
