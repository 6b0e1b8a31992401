package lrs

import (
	"net/url"
	"strconv"
	"strings"
)

// Params is the typed filter bag for statement retrieval. Each field is
// independently optional; zero values mean "not supplied". Unrecognized
// parameter names are rejected at the boundary rather than silently
// ignored.
type Params struct {
	// StatementID targets a single non-voided statement and short-circuits
	// every other filter. VoidedStatementID is its voided counterpart.
	StatementID       string
	VoidedStatementID string

	// Agent is the raw JSON-encoded actor/group filter value.
	Agent string

	Verb         string
	Activity     string
	Registration string

	// RelatedActivities / RelatedAgents broaden the activity and agent
	// filters across context paths and the materialized reference chain.
	RelatedActivities bool
	RelatedAgents     bool

	// Since / Until are inclusive ISO-8601 bounds on stored time.
	Since string
	Until string

	// SinceID / UntilID are strict bounds on the store-native cursor key.
	// Zero means unset (the cursor key starts at 1).
	SinceID int64
	UntilID int64

	// Limit is the client-requested page size; clamped to the configured
	// maximum by the query engine. Zero means "use the maximum".
	Limit int

	Format      string
	Ascending   bool
	Attachments bool
}

// ParseParams converts raw query parameters into a Params, rejecting
// unrecognized names and malformed scalar values with a bad-request error.
func ParseParams(values url.Values) (Params, error) {
	var p Params

	for name := range values {
		v := values.Get(name)
		switch name {
		case "statementId":
			p.StatementID = v
		case "voidedStatementId":
			p.VoidedStatementID = v
		case "agent":
			p.Agent = v
		case "verb":
			p.Verb = v
		case "activity":
			p.Activity = v
		case "registration":
			p.Registration = v
		case "related_activities":
			p.RelatedActivities = v == "true"
		case "related_agents":
			p.RelatedAgents = v == "true"
		case "since":
			p.Since = v
		case "until":
			p.Until = v
		case "since_id":
			id, err := parseCursor(v)
			if err != nil {
				return Params{}, badRequestf("invalid since_id %q", v)
			}
			p.SinceID = id
		case "until_id":
			id, err := parseCursor(v)
			if err != nil {
				return Params{}, badRequestf("invalid until_id %q", v)
			}
			p.UntilID = id
		case "limit":
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return Params{}, badRequestf("invalid limit %q", v)
			}
			p.Limit = n
		case "format":
			p.Format = v
		case "ascending":
			lv := strings.ToLower(v)
			p.Ascending = lv == "true" || lv == "1"
		case "attachments":
			p.Attachments = v == "true"
		default:
			return Params{}, badRequestf("unrecognized parameter %q", name)
		}
	}

	return p, nil
}

func parseCursor(v string) (int64, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id < 0 {
		return 0, badRequestf("invalid cursor %q", v)
	}
	return id, nil
}
