// Package statement provides the statement document model and the
// identity/normalization utilities shared by the query engine and the
// insert-time transformation pipeline.
//
// Statements are schemaless JSON documents. Document wraps the decoded
// payload and exposes the accessors and mutators the pipeline needs;
// it never copies unless asked to (Clone), so pipeline steps mutate the
// payload in place the way the store expects.
package statement

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// VoidingVerb is the verb IRI that marks a statement as a voiding statement.
const VoidingVerb = "http://adlnet.gov/expapi/verbs/voided"

var (
	// ErrInvalidIdentifier reports a syntactically invalid statement UUID.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrInvalidTimestamp reports an unparsable ISO-8601 timestamp.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// IFIKind names the inverse functional identifier carried by an agent or
// identified group.
type IFIKind string

const (
	KindMbox        IFIKind = "mbox"
	KindMboxSHA1Sum IFIKind = "mbox_sha1sum"
	KindOpenID      IFIKind = "openid"
	KindAccount     IFIKind = "account"
	KindNone        IFIKind = "none"
)

// ifiProperties lists the identifying properties in their canonical order.
var ifiProperties = []IFIKind{KindMbox, KindMboxSHA1Sum, KindOpenID, KindAccount}

// ExtractIFIKind inspects which identifying property an agent or group
// carries. Exactly one must be present; absent or ambiguous identification
// yields KindNone.
func ExtractIFIKind(agent map[string]any) IFIKind {
	found := KindNone
	for _, prop := range ifiProperties {
		if _, ok := agent[string(prop)]; !ok {
			continue
		}
		if found != KindNone {
			return KindNone
		}
		found = prop
	}
	return found
}

// ExtractObjectType returns "Agent" or "Group" for an actor-like document,
// defaulting to "Agent" when unspecified.
func ExtractObjectType(agent map[string]any) string {
	if ot, ok := agent["objectType"].(string); ok && ot == "Group" {
		return "Group"
	}
	return "Agent"
}

// NormalizeUUID canonicalizes a statement identifier to the lowercase
// hyphenated form. Returns ErrInvalidIdentifier when raw is not a
// syntactically valid UUID.
func NormalizeUUID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
	}
	return id.String(), nil
}

// NewID returns a fresh canonical statement identifier.
func NewID() string {
	return uuid.NewString()
}

// timestampLayouts covers the ISO-8601 shapes clients actually send.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02",
}

// ParseTimestamp converts an ISO-8601 string to the store's native time
// representation. Returns ErrInvalidTimestamp on unparsable input.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// FormatTimestamp renders a time as the ISO-8601 form used for the
// server-assigned stored attribute.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
