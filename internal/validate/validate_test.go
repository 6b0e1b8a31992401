package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator()
	require.NoError(t, err)
	return v
}

func validStatement() map[string]any {
	return map[string]any{
		"actor": map[string]any{
			"objectType": "Agent",
			"mbox":       "mailto:alice@example.com",
		},
		"verb": map[string]any{
			"id":      "http://example.com/verbs/tested",
			"display": map[string]any{"en-US": "tested"},
		},
		"object": map[string]any{
			"id": "http://example.com/activity",
		},
	}
}

func TestValidateStatement_Accepts(t *testing.T) {
	v := newValidator(t)

	testCases := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"minimal", func(map[string]any) {}},
		{"with id", func(s map[string]any) {
			s["id"] = "11111111-1111-1111-1111-111111111111"
		}},
		{"account actor", func(s map[string]any) {
			s["actor"] = map[string]any{
				"account": map[string]any{"homePage": "http://example.com", "name": "alice"},
			}
		}},
		{"group with members", func(s map[string]any) {
			s["actor"] = map[string]any{
				"objectType": "Group",
				"mbox":       "mailto:team@example.com",
				"member": []any{
					map[string]any{"mbox": "mailto:alice@example.com"},
				},
			}
		}},
		{"statement ref object", func(s map[string]any) {
			s["object"] = map[string]any{
				"objectType": "StatementRef",
				"id":         "11111111-1111-1111-1111-111111111111",
			}
		}},
		{"with result and context", func(s map[string]any) {
			s["result"] = map[string]any{"success": true}
			s["context"] = map[string]any{
				"registration": "11111111-1111-1111-1111-111111111111",
			}
		}},
		{"with attachment", func(s map[string]any) {
			s["attachments"] = []any{
				map[string]any{
					"usageType":   "http://example.com/usage",
					"contentType": "application/pdf",
					"sha2":        "abc123",
				},
			}
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := validStatement()
			tc.mutate(s)
			assert.NoError(t, v.ValidateStatement(s))
		})
	}
}

func TestValidateStatement_Rejects(t *testing.T) {
	v := newValidator(t)

	testCases := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"missing actor", func(s map[string]any) {
			delete(s, "actor")
		}},
		{"missing verb", func(s map[string]any) {
			delete(s, "verb")
		}},
		{"missing object", func(s map[string]any) {
			delete(s, "object")
		}},
		{"verb without id", func(s map[string]any) {
			s["verb"] = map[string]any{"display": map[string]any{"en-US": "tested"}}
		}},
		{"mbox without mailto scheme", func(s map[string]any) {
			s["actor"] = map[string]any{"mbox": "alice@example.com"}
		}},
		{"account without name", func(s map[string]any) {
			s["actor"] = map[string]any{
				"account": map[string]any{"homePage": "http://example.com"},
			}
		}},
		{"bad actor objectType", func(s map[string]any) {
			s["actor"] = map[string]any{
				"objectType": "Robot",
				"mbox":       "mailto:alice@example.com",
			}
		}},
		{"bad object objectType", func(s map[string]any) {
			s["object"] = map[string]any{
				"objectType": "Widget",
				"id":         "http://example.com/activity",
			}
		}},
		{"unknown top-level attribute", func(s map[string]any) {
			s["favourite"] = "blue"
		}},
		{"attachment without usageType", func(s map[string]any) {
			s["attachments"] = []any{
				map[string]any{"contentType": "application/pdf"},
			}
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := validStatement()
			tc.mutate(s)
			assert.Error(t, v.ValidateStatement(s))
		})
	}
}
