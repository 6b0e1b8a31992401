package lrs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stanza-lrs/stanza/internal/expr"
	"github.com/stanza-lrs/stanza/internal/statement"
	"github.com/stanza-lrs/stanza/internal/store"
)

// Get builds a filtered, sorted, paginated result set. A statementId or
// voidedStatementId parameter short-circuits every other filter and returns
// a single-statement result.
func (s *Service) Get(ctx context.Context, p Params) (*Result, error) {
	if p.StatementID != "" {
		return s.getSingle(ctx, p, p.StatementID, false)
	}
	if p.VoidedStatementID != "" {
		return s.getSingle(ctx, p, p.VoidedStatementID, true)
	}
	return s.getFiltered(ctx, p)
}

// getSingle retrieves exactly one statement by id. Zero matches is a
// not-found error; the voided flag must match the parameter used.
func (s *Service) getSingle(ctx context.Context, p Params, rawID string, voided bool) (*Result, error) {
	id, err := statement.NormalizeUUID(rawID)
	if err != nil {
		return nil, badRequestf("the provided statement ID is invalid: %q", rawID)
	}

	pred := expr.AndOf(
		expr.Where("statement_id", id),
		expr.Where("voided", voided),
	)
	envelopes, err := s.store.Find(ctx, pred, store.FindOptions{})
	if err != nil {
		return nil, fmt.Errorf("single statement lookup: %w", err)
	}
	if len(envelopes) == 0 {
		return nil, notFoundf(id, "statement does not exist")
	}

	return &Result{
		Statements:      envelopes,
		TotalCount:      1,
		RemainingCount:  1,
		HasMore:         false,
		Format:          s.requestedFormat(p),
		SingleStatement: true,
	}, nil
}

// getFiltered assembles the multi-statement predicate, one AND group per
// supplied filter, then applies the counting and pagination algorithm:
// totalCount before cursor bounds, remainingCount after bounds but before
// the limit (inclusive of the current page), hasMore when the remainder
// exceeds the applied limit.
func (s *Service) getFiltered(ctx context.Context, p Params) (*Result, error) {
	b := &expr.Builder{}
	b.Where("voided", false)

	if p.Agent != "" {
		pred, err := agentPredicate(p.Agent, p.RelatedAgents)
		if err != nil {
			return nil, err
		}
		b.Append(pred)
	}

	if p.Verb != "" {
		b.Append(expr.OrOf(
			expr.Where("statement.verb.id", p.Verb),
			expr.Where("references[].verb.id", p.Verb),
		))
	}

	if p.Activity != "" {
		b.Append(activityPredicate(p.Activity, p.RelatedActivities))
	}

	if p.Registration != "" {
		registration, err := statement.NormalizeUUID(p.Registration)
		if err != nil {
			return nil, badRequestf("invalid registration %q", p.Registration)
		}
		b.Append(expr.OrOf(
			expr.Where("statement.context.registration", registration),
			expr.Where("references[].context.registration", registration),
		))
	}

	if p.Since != "" {
		since, err := statement.ParseTimestamp(p.Since)
		if err != nil {
			return nil, badRequestf("invalid since %q", p.Since)
		}
		b.WhereGreaterOrEqual("stored_at", since.UnixNano())
	}

	if p.Until != "" {
		until, err := statement.ParseTimestamp(p.Until)
		if err != nil {
			return nil, badRequestf("invalid until %q", p.Until)
		}
		b.WhereLessOrEqual("stored_at", until.UnixNano())
	}

	// Callers holding only the "mine" read capability see their own
	// statements only.
	if s.auth.HasPermission(CapReadMine) && !s.auth.HasPermission(CapRead) {
		b.Where("user_id", s.auth.UserID())
	}

	totalCount, err := s.store.Count(ctx, b.Predicate())
	if err != nil {
		return nil, fmt.Errorf("count statements: %w", err)
	}

	// Cursor bounds are strict and independent of since/until.
	if p.SinceID > 0 {
		b.WhereGreater("seq", p.SinceID)
	}
	if p.UntilID > 0 {
		b.WhereLess("seq", p.UntilID)
	}

	limit := s.getLimit
	if p.Limit > 0 && p.Limit < s.getLimit {
		limit = p.Limit
	}

	// Remaining includes the current page.
	remainingCount, err := s.store.Count(ctx, b.Predicate())
	if err != nil {
		return nil, fmt.Errorf("count remaining statements: %w", err)
	}

	envelopes, err := s.store.Find(ctx, b.Predicate(), store.FindOptions{
		Ascending: p.Ascending,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("query statements: %w", err)
	}

	return &Result{
		Statements:     envelopes,
		TotalCount:     totalCount,
		RemainingCount: remainingCount,
		HasMore:        remainingCount > int64(limit),
		Ascending:      p.Ascending,
		Format:         s.requestedFormat(p),
	}, nil
}

func (s *Service) requestedFormat(p Params) string {
	if p.Format != "" {
		return p.Format
	}
	return s.defaultFormat
}

// agentPaths are the document paths an agent filter matches against. The
// related expansion widens the set to authority, context team/instructor
// and sub-statement actors, on both the statement and its materialized
// reference chain.
func agentPaths(related bool) (plain []string, subStatement []string) {
	plain = []string{
		"statement.actor",
		"statement.object",
		"references[].actor",
		"references[].object",
	}
	if related {
		plain = append(plain,
			"statement.authority",
			"statement.context.team",
			"statement.context.instructor",
			"references[].authority",
			"references[].context.team",
			"references[].context.instructor",
		)
		subStatement = []string{
			"statement.object",
			"references[].object",
		}
	}
	return plain, subStatement
}

// agentPredicate decodes the JSON agent filter value and builds the OR
// across every agent path. Account identifiers compare homePage and name
// conjunctively at each path; the other kinds are single-field equalities.
func agentPredicate(rawAgent string, related bool) (expr.Predicate, error) {
	var agent map[string]any
	if err := json.Unmarshal([]byte(rawAgent), &agent); err != nil {
		return nil, badRequestf("invalid agent filter: %v", err)
	}

	kind := statement.ExtractIFIKind(agent)
	objectType := statement.ExtractObjectType(agent)

	if kind == statement.KindNone && objectType == "Group" {
		return nil, badRequestf("no support for querying anonymous groups")
	}
	if kind == statement.KindNone {
		return nil, badRequestf("unknown or invalid agent type")
	}

	ifi := func(base string) expr.Predicate {
		if kind == statement.KindAccount {
			account, _ := agent["account"].(map[string]any)
			return expr.AndOf(
				expr.Where(base+".account.homePage", account["homePage"]),
				expr.Where(base+".account.name", account["name"]),
			)
		}
		return expr.Where(base+"."+string(kind), agent[string(kind)])
	}

	plain, subStatement := agentPaths(related)

	var alternatives []expr.Predicate
	for _, path := range plain {
		alternatives = append(alternatives, ifi(path))
	}
	for _, path := range subStatement {
		alternatives = append(alternatives, expr.AndOf(
			expr.Where(path+".objectType", "SubStatement"),
			ifi(path+".object"),
		))
	}

	return expr.OrOf(alternatives...), nil
}

// activityPredicate matches the activity IRI against the direct object and
// the reference chain; the related expansion adds the contextActivities
// buckets and sub-statement objects on both.
func activityPredicate(activity string, related bool) expr.Predicate {
	alternatives := []expr.Predicate{
		expr.Where("statement.object.id", activity),
		expr.Where("references[].object.id", activity),
	}
	if !related {
		return expr.OrOf(alternatives...)
	}

	for _, root := range []string{"statement", "references[]"} {
		for _, bucket := range []string{"parent", "category", "grouping", "other"} {
			alternatives = append(alternatives, expr.Where(
				root+".context.contextActivities."+bucket+"[].id", activity))
		}
		alternatives = append(alternatives, expr.AndOf(
			expr.Where(root+".object.objectType", "SubStatement"),
			expr.Where(root+".object.object.id", activity),
		))
	}

	return expr.OrOf(alternatives...)
}
