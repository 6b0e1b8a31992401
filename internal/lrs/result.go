package lrs

import "github.com/stanza-lrs/stanza/internal/store"

// Result bundles a result cursor with count and pagination metadata for
// the presentation layer. Built once per request and not mutated after.
type Result struct {
	// Statements is the result cursor, possibly of length 1.
	Statements []*store.Envelope

	// TotalCount counts matches before cursor bounds were applied.
	TotalCount int64

	// RemainingCount counts matches after cursor bounds but before the
	// page limit; it includes the current page.
	RemainingCount int64

	// HasMore is true when RemainingCount exceeds the applied limit.
	HasMore bool

	// Ascending records the sort direction applied to the cursor key.
	Ascending bool

	// Format is the requested output format.
	Format string

	// SingleStatement marks a targeted statementId/voidedStatementId
	// lookup.
	SingleStatement bool
}
