// Package lrs implements the statement query/transformation engine: the
// predicate assembly that turns filter parameters into a store query, the
// insert-time transformation pipeline that normalizes, authorizes and
// denormalizes statements, and the pagination/count/cursor algorithm.
//
// The package depends on two collaborators it does not implement: the
// document store (internal/store) and the acting principal (Auth). HTTP
// routing, sessions and permission decision logic live outside.
package lrs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stanza-lrs/stanza/internal/store"
)

// DefaultGetLimit caps page sizes when no maximum is configured.
const DefaultGetLimit = 100

// DefaultFormat is the statement output format used when the client
// requests none.
const DefaultFormat = "exact"

// Config carries the recognized configuration options of the engine.
type Config struct {
	// GetLimit is the maximum page size (statement_get_limit).
	GetLimit int

	// DefaultFormat is the default statement output format.
	DefaultFormat string

	// AttachmentBase is the base URL attachment references are rewritten
	// against at insert time.
	AttachmentBase string

	// Clock supplies the stored timestamp. Defaults to the system clock.
	Clock Clock
}

// Service is the statement engine bound to a store and an acting principal.
// Each inbound request constructs or reuses one; Service itself holds no
// mutable state beyond the shared store connection.
type Service struct {
	store *store.Store
	auth  Auth

	getLimit       int
	defaultFormat  string
	attachmentBase string
	clock          Clock
}

// NewService binds the engine to a store and principal, applying defaults
// for unset configuration.
func NewService(st *store.Store, auth Auth, cfg Config) *Service {
	if cfg.GetLimit <= 0 {
		cfg.GetLimit = DefaultGetLimit
	}
	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = DefaultFormat
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	return &Service{
		store:          st,
		auth:           auth,
		getLimit:       cfg.GetLimit,
		defaultFormat:  cfg.DefaultFormat,
		attachmentBase: cfg.AttachmentBase,
		clock:          cfg.Clock,
	}
}

// GetByID fetches a statement envelope by canonical id, independent of the
// voided flag. Used by reference-chain flattening and voiding; a miss is a
// not-found error, propagated unchanged.
func (s *Service) GetByID(ctx context.Context, statementID string) (*store.Envelope, error) {
	env, err := s.store.FindByID(ctx, statementID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFoundf(statementID, "referenced statement does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("fetch statement %s: %w", statementID, err)
	}
	return env, nil
}

// Delete always fails: statements are never physically removable, voiding
// is the only deletion semantic.
func (s *Service) Delete(ctx context.Context, p Params) (*Result, error) {
	return nil, internalf("statements cannot be deleted, only voided")
}
