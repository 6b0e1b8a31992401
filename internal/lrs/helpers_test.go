package lrs

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stanza-lrs/stanza/internal/statement"
	"github.com/stanza-lrs/stanza/internal/store"
)

var testEpoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// newTestStore opens a fresh file-backed store for one test.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// newTestService binds a service to a fresh store with a deterministic
// clock. The page limit is kept small so pagination is easy to exercise.
func newTestService(t *testing.T, auth Auth) *Service {
	t.Helper()
	return newTestServiceOn(t, newTestStore(t), auth)
}

func newTestServiceOn(t *testing.T, st *store.Store, auth Auth) *Service {
	t.Helper()
	return NewService(st, auth, Config{
		GetLimit: 10,
		Clock:    &FixedClock{T: testEpoch, Step: time.Second},
	})
}

// fullAuth grants every capability except super, so authority is always
// derived from the principal.
func fullAuth(user string) *StaticAuth {
	return &StaticAuth{
		User: user,
		Permissions: []string{
			CapRead, CapReadMine, CapWrite, CapDefine,
		},
	}
}

// basicStatement builds a minimal valid payload. An empty id means the
// pipeline assigns one.
func basicStatement(id, verb string) statement.Document {
	doc := statement.Document{
		"actor": map[string]any{
			"objectType": "Agent",
			"mbox":       "mailto:alice@example.com",
		},
		"verb": map[string]any{"id": verb},
		"object": map[string]any{
			"id": "http://example.com/activity",
		},
	}
	if id != "" {
		doc["id"] = id
	}
	return doc
}

// referencingStatement builds a StatementRef payload pointing at targetID.
func referencingStatement(verb, targetID string) statement.Document {
	return statement.Document{
		"actor": map[string]any{"mbox": "mailto:bob@example.com"},
		"verb":  map[string]any{"id": verb},
		"object": map[string]any{
			"objectType": "StatementRef",
			"id":         targetID,
		},
	}
}

// insertN inserts n distinct statements and returns their assigned ids in
// insertion order.
func insertN(t *testing.T, svc *Service, n int) []string {
	t.Helper()
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		verb := fmt.Sprintf("http://example.com/verbs/v%d", i)
		res, err := svc.InsertOne(context.Background(), basicStatement("", verb))
		require.NoError(t, err)
		ids[i] = res.Statements[0].StatementID
	}
	return ids
}
