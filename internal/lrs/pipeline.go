package lrs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stanza-lrs/stanza/internal/statement"
	"github.com/stanza-lrs/stanza/internal/store"
)

// transformForInsert runs the insert-time pipeline on one raw payload and
// returns the envelope ready for persistence. skip reports the idempotent
// resubmission case: the id already exists with equivalent content, so the
// envelope is returned for the result listing but must not be inserted.
//
// Side-effect ordering is validate, then void the target / upsert
// activities, then (in the caller) insert the new statement. A target
// update already applied during voiding is not rolled back if the
// subsequent insert fails; that consistency gap is accepted, since the
// voided flag only ever transitions false to true.
func (s *Service) transformForInsert(ctx context.Context, payload statement.Document) (env *store.Envelope, skip bool, err error) {
	// Explicit id: normalize, then run the immutability check against any
	// existing statement under that id.
	if payload.ID() != "" {
		id, err := statement.NormalizeUUID(payload.ID())
		if err != nil {
			return nil, false, badRequestf("the provided statement ID is invalid: %q", payload.ID())
		}
		payload.SetID(id)

		existing, err := s.store.FindByID(ctx, id)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, false, fmt.Errorf("immutability check for %s: %w", id, err)
		}
		if existing != nil {
			if !payload.EquivalentTo(existing.Statement) {
				return nil, false, conflictf(id,
					"an existing statement already exists with the same ID and is different from the one provided")
			}
			skip = true
		}
	}

	// Authority is overwritten from the caller's credential unless an
	// elevated caller supplied its own.
	if !(s.auth.HasPermission(CapSuper) && payload.HasAuthority()) {
		payload.SetAuthority(s.auth.GenerateAuthority())
	}

	now := s.clock.Now()
	stored := statement.FormatTimestamp(now)

	if err := payload.NormalizeExistingIDs(); err != nil {
		return nil, false, badRequestf("malformed identifier in statement: %v", err)
	}
	payload.SetStored(stored)
	payload.SetDefaultTimestamp()
	payload.FixAttachmentLinks(s.attachmentBase)
	payload.NormalizeExtensionKeys()
	payload.SetDefaultID()
	payload.MigrateLegacyContextActivities()

	env = &store.Envelope{
		StatementID: payload.ID(),
		Voided:      false,
		UserID:      s.auth.UserID(),
		Stored:      stored,
		StoredAt:    now.UnixNano(),
		Statement:   payload,
	}

	// Reference detection: flatten the target's chain into this statement.
	// Space-for-time tradeoff at insert; the chain is not updated
	// retroactively.
	if payload.IsReferencing() {
		target, err := s.GetByID(ctx, payload.ReferencedStatementID())
		if err != nil {
			return nil, false, err
		}
		references := append([]any{}, target.References...)
		references = append(references, map[string]any(target.Statement.Clone()))
		env.References = references
	}

	// Voiding detection: mark the target voided before the new statement
	// is persisted. Voiding a voiding statement is rejected.
	if payload.IsVoiding() {
		targetID := payload.ReferencedStatementID()
		target, err := s.GetByID(ctx, targetID)
		if err != nil {
			return nil, false, err
		}
		if target.Statement.IsVoiding() {
			return nil, false, conflictf(targetID, "voiding statements cannot be voided")
		}
		if err := s.store.SetVoided(ctx, targetID); err != nil {
			return nil, false, fmt.Errorf("void statement %s: %w", targetID, err)
		}
	}

	// Embedded activity definitions are upserted by IRI for callers
	// holding the define capability, independent of statement lifecycle.
	if s.auth.HasPermission(CapDefine) {
		for _, activity := range payload.ExtractActivities() {
			id, _ := activity["id"].(string)
			if err := s.store.UpsertActivity(ctx, id, activity); err != nil {
				return nil, false, fmt.Errorf("upsert activity %s: %w", id, err)
			}
		}
	}

	return env, skip, nil
}

// InsertOne runs the pipeline on one payload and persists the result,
// unless the idempotent-resubmission sentinel says to skip the insert.
func (s *Service) InsertOne(ctx context.Context, payload statement.Document) (*Result, error) {
	env, skip, err := s.transformForInsert(ctx, payload)
	if err != nil {
		return nil, err
	}

	if !skip {
		if err := s.submit(ctx, []*store.Envelope{env}); err != nil {
			return nil, err
		}
	}

	return &Result{
		Statements:     []*store.Envelope{env},
		TotalCount:     1,
		RemainingCount: 1,
		HasMore:        false,
		Format:         s.defaultFormat,
	}, nil
}

// InsertMultiple processes each payload through the pipeline, preserving
// input order in the result listing, and submits all non-skipped
// statements as one batch write. Ordering across the batch is insertion
// order; the batch is not atomic as a whole.
func (s *Service) InsertMultiple(ctx context.Context, payloads []statement.Document) (*Result, error) {
	var toInsert []*store.Envelope
	var view []*store.Envelope

	for _, payload := range payloads {
		env, skip, err := s.transformForInsert(ctx, payload)
		if err != nil {
			return nil, err
		}
		if !skip {
			toInsert = append(toInsert, env)
		}
		view = append(view, env)
	}

	if err := s.submit(ctx, toInsert); err != nil {
		return nil, err
	}

	return &Result{
		Statements:     view,
		TotalCount:     int64(len(view)),
		RemainingCount: int64(len(view)),
		HasMore:        false,
		Format:         s.defaultFormat,
	}, nil
}

// Put is the targeted update: the statementId parameter is required and,
// when the payload carries its own id, the two must agree.
func (s *Service) Put(ctx context.Context, p Params, payload statement.Document) (*Result, error) {
	if p.StatementID == "" {
		return nil, badRequestf("the statementId parameter is missing")
	}

	paramID, err := statement.NormalizeUUID(p.StatementID)
	if err != nil {
		return nil, badRequestf("the provided statement ID is invalid: %q", p.StatementID)
	}

	if payload.ID() != "" {
		payloadID, err := statement.NormalizeUUID(payload.ID())
		if err != nil {
			return nil, badRequestf("the provided statement ID is invalid: %q", payload.ID())
		}
		if payloadID != paramID {
			return nil, badRequestf("statement ID query parameter doesn't match the given statement property")
		}
	} else {
		payload.SetID(paramID)
	}

	return s.InsertOne(ctx, payload)
}

// submit performs the batch write. A uniqueness-constraint rejection means
// a concurrent request won the race to insert the same id after our
// immutability check passed; the check is re-run against the now-current
// stored documents and the loser surfaces a conflict only on real
// divergence.
func (s *Service) submit(ctx context.Context, envelopes []*store.Envelope) error {
	if len(envelopes) == 0 {
		return nil
	}

	err := s.store.InsertMany(ctx, envelopes)
	if err == nil {
		return nil
	}
	if !store.IsUniqueViolation(err) {
		return err
	}

	var missing []*store.Envelope
	for _, env := range envelopes {
		existing, ferr := s.store.FindByID(ctx, env.StatementID)
		if errors.Is(ferr, sql.ErrNoRows) {
			missing = append(missing, env)
			continue
		}
		if ferr != nil {
			return fmt.Errorf("recheck statement %s: %w", env.StatementID, ferr)
		}
		if !env.Statement.EquivalentTo(existing.Statement) {
			return conflictf(env.StatementID,
				"an existing statement already exists with the same ID and is different from the one provided")
		}
		env.Seq = existing.Seq
	}

	if len(missing) > 0 {
		if rerr := s.store.InsertMany(ctx, missing); rerr != nil {
			return rerr
		}
	}
	return nil
}
