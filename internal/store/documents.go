package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/stanza-lrs/stanza/internal/expr"
	"github.com/stanza-lrs/stanza/internal/exprsql"
	"github.com/stanza-lrs/stanza/internal/statement"
)

// Envelope is a stored statement row: the statement document, the
// materialized reference chain, and the store-assigned metadata.
type Envelope struct {
	// Seq is the monotonic insertion-order key, assigned on insert. It is
	// the cursor for pagination and default sort, distinct from the
	// statement's own id.
	Seq int64

	// StatementID is the canonical statement id, unique among accepted rows.
	StatementID string

	// Voided flips false -> true once, when a valid voiding statement
	// targets this id. Rows are never otherwise mutated.
	Voided bool

	// UserID is the owning principal, used for "mine"-only visibility.
	UserID string

	// Stored is the server-assigned ingestion time (ISO-8601).
	Stored string

	// StoredAt is Stored as Unix nanoseconds, the store-native time
	// representation the since/until bounds compare against.
	StoredAt int64

	Statement  statement.Document
	References []any
}

// envelopeDoc is the JSON shape of the doc column.
type envelopeDoc struct {
	Statement  statement.Document `json:"statement"`
	References []any              `json:"references,omitempty"`
}

// FindOptions control sorting and page size for Find.
type FindOptions struct {
	Ascending bool
	Limit     int // 0 = no limit
}

const envelopeColumns = "d.seq, d.statement_id, d.voided, d.user_id, d.stored, d.stored_at, d.doc"

// Find returns the envelopes matching pred, sorted by seq (descending by
// default) and capped at opts.Limit. A nil predicate matches everything.
func (s *Store) Find(ctx context.Context, pred expr.Predicate, opts FindOptions) ([]*Envelope, error) {
	where, params, err := exprsql.Compile(pred)
	if err != nil {
		return nil, fmt.Errorf("find statements: compile predicate: %w", err)
	}

	direction := "DESC"
	if opts.Ascending {
		direction = "ASC"
	}

	query := fmt.Sprintf(
		"SELECT %s FROM statements AS d WHERE %s ORDER BY d.seq %s",
		envelopeColumns, where, direction)
	if opts.Limit > 0 {
		query += " LIMIT ?"
		params = append(params, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}
	defer rows.Close()

	var envelopes []*Envelope
	for rows.Next() {
		env, err := scanEnvelope(rows)
		if err != nil {
			return nil, err
		}
		envelopes = append(envelopes, env)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate statements: %w", err)
	}

	// Return empty slice instead of nil
	if envelopes == nil {
		envelopes = []*Envelope{}
	}

	return envelopes, nil
}

// Count returns the number of rows matching pred, ignoring sort and limit.
func (s *Store) Count(ctx context.Context, pred expr.Predicate) (int64, error) {
	where, params, err := exprsql.Compile(pred)
	if err != nil {
		return 0, fmt.Errorf("count statements: compile predicate: %w", err)
	}

	var count int64
	query := "SELECT COUNT(*) FROM statements AS d WHERE " + where
	if err := s.db.QueryRowContext(ctx, query, params...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count statements: %w", err)
	}
	return count, nil
}

// FindByID retrieves a single envelope by canonical statement id,
// independent of the voided flag. Returns sql.ErrNoRows if not found.
func (s *Store) FindByID(ctx context.Context, statementID string) (*Envelope, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+envelopeColumns+" FROM statements AS d WHERE d.statement_id = ?",
		statementID)
	return scanEnvelope(row)
}

// InsertMany appends envelopes in order within one transaction, assigning
// each its Seq. Ordering across the batch is insertion order; the batch is
// not guaranteed atomic with respect to side effects applied earlier in the
// pipeline. A duplicate statement id fails the whole batch with a
// uniqueness violation (see IsUniqueViolation).
func (s *Store) InsertMany(ctx context.Context, envelopes []*Envelope) error {
	if len(envelopes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert statements: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, env := range envelopes {
		doc, err := json.Marshal(envelopeDoc{Statement: env.Statement, References: env.References})
		if err != nil {
			return fmt.Errorf("insert statement %s: marshal doc: %w", env.StatementID, err)
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO statements
			(statement_id, voided, user_id, stored, stored_at, doc)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			env.StatementID,
			env.Voided,
			env.UserID,
			env.Stored,
			env.StoredAt,
			string(doc),
		)
		if err != nil {
			return fmt.Errorf("insert statement %s: %w", env.StatementID, err)
		}

		seq, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert statement %s: last insert id: %w", env.StatementID, err)
		}
		env.Seq = seq
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert statements: commit: %w", err)
	}

	return nil
}

// SetVoided applies the single permitted mutation: voided false -> true.
// Idempotent; voiding an already-voided row is a no-op, which makes the
// read-then-write race between concurrent voiders last-writer-wins safe.
// Returns sql.ErrNoRows when no row carries the id.
func (s *Store) SetVoided(ctx context.Context, statementID string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE statements SET voided = 1 WHERE statement_id = ?",
		statementID)
	if err != nil {
		return fmt.Errorf("void statement %s: %w", statementID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("void statement %s: rows affected: %w", statementID, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpsertActivity creates or replaces an activity document by IRI.
func (s *Store) UpsertActivity(ctx context.Context, activityID string, doc map[string]any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("upsert activity %s: marshal: %w", activityID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO activities (activity_id, doc)
		VALUES (?, ?)
		ON CONFLICT(activity_id) DO UPDATE SET doc = excluded.doc
	`, activityID, string(data))
	if err != nil {
		return fmt.Errorf("upsert activity %s: %w", activityID, err)
	}
	return nil
}

// FindActivity retrieves an activity document by IRI.
// Returns sql.ErrNoRows if not found.
func (s *Store) FindActivity(ctx context.Context, activityID string) (map[string]any, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM activities WHERE activity_id = ?",
		activityID).Scan(&data)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal activity %s: %w", activityID, err)
	}
	return doc, nil
}

// scanner abstracts sql.Row and sql.Rows for envelope scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanEnvelope(row scanner) (*Envelope, error) {
	var env Envelope
	var doc string

	if err := row.Scan(
		&env.Seq, &env.StatementID, &env.Voided, &env.UserID,
		&env.Stored, &env.StoredAt, &doc,
	); err != nil {
		return nil, err
	}

	var parsed envelopeDoc
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal statement %s: %w", env.StatementID, err)
	}
	env.Statement = parsed.Statement
	env.References = parsed.References

	return &env, nil
}
