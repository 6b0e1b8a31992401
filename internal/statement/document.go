package statement

import (
	"reflect"
)

// Document is a decoded statement payload. The underlying map is shared,
// not copied: mutators change the payload in place.
type Document map[string]any

// immutabilityExempt lists the attributes stripped before the deep
// comparison behind the immutability rule. A resubmission may differ in
// these without being a conflict.
var immutabilityExempt = []string{"authority", "stored", "timestamp", "version"}

// ID returns the statement identifier, or "" when unset.
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// SetID sets the statement identifier.
func (d Document) SetID(id string) {
	d["id"] = id
}

// SetDefaultID assigns a fresh identifier when none is present.
func (d Document) SetDefaultID() {
	if d.ID() == "" {
		d.SetID(NewID())
	}
}

// VerbID returns the verb IRI, or "" when unset.
func (d Document) VerbID() string {
	verb, _ := d["verb"].(map[string]any)
	id, _ := verb["id"].(string)
	return id
}

// Object returns the object sub-document, or nil.
func (d Document) Object() map[string]any {
	obj, _ := d["object"].(map[string]any)
	return obj
}

// Context returns the context sub-document, or nil.
func (d Document) Context() map[string]any {
	ctx, _ := d["context"].(map[string]any)
	return ctx
}

// IsReferencing reports whether the object is a StatementRef, i.e. this
// statement points to another statement by id.
func (d Document) IsReferencing() bool {
	obj := d.Object()
	if obj == nil {
		return false
	}
	ot, _ := obj["objectType"].(string)
	return ot == "StatementRef"
}

// IsVoiding reports whether this statement voids another: the verb denotes
// "void" and the object is a StatementRef.
func (d Document) IsVoiding() bool {
	return d.VerbID() == VoidingVerb && d.IsReferencing()
}

// ReferencedStatementID returns the canonical id of the referenced
// statement. Empty when the object is not a StatementRef or carries no id.
func (d Document) ReferencedStatementID() string {
	if !d.IsReferencing() {
		return ""
	}
	raw, _ := d.Object()["id"].(string)
	if raw == "" {
		return ""
	}
	id, err := NormalizeUUID(raw)
	if err != nil {
		return raw
	}
	return id
}

// Authority returns the authority sub-document, or nil when unset.
func (d Document) Authority() any {
	return d["authority"]
}

// HasAuthority reports whether the payload supplied an authority.
func (d Document) HasAuthority() bool {
	_, ok := d["authority"]
	return ok
}

// SetAuthority overwrites the authority.
func (d Document) SetAuthority(authority any) {
	d["authority"] = authority
}

// SetStored records the server-assigned ingestion time.
func (d Document) SetStored(stored string) {
	d["stored"] = stored
}

// Stored returns the ingestion time, or "" when unset.
func (d Document) Stored() string {
	s, _ := d["stored"].(string)
	return s
}

// SetDefaultTimestamp defaults the occurrence time to the stored time when
// the client supplied none.
func (d Document) SetDefaultTimestamp() {
	if _, ok := d["timestamp"]; !ok {
		d["timestamp"] = d["stored"]
	}
}

// NormalizeExistingIDs canonicalizes the identifiers the payload already
// carries: the statement id, a StatementRef object id, and the context
// registration. Returns ErrInvalidIdentifier when one is malformed.
func (d Document) NormalizeExistingIDs() error {
	if raw := d.ID(); raw != "" {
		id, err := NormalizeUUID(raw)
		if err != nil {
			return err
		}
		d.SetID(id)
	}

	if d.IsReferencing() {
		obj := d.Object()
		if raw, _ := obj["id"].(string); raw != "" {
			id, err := NormalizeUUID(raw)
			if err != nil {
				return err
			}
			obj["id"] = id
		}
	}

	if ctx := d.Context(); ctx != nil {
		if raw, _ := ctx["registration"].(string); raw != "" {
			id, err := NormalizeUUID(raw)
			if err != nil {
				return err
			}
			ctx["registration"] = id
		}
	}

	return nil
}

// contextActivityBuckets are the grouping keys of contextActivities.
var contextActivityBuckets = []string{"parent", "grouping", "category", "other"}

// MigrateLegacyContextActivities rewrites the pre-1.0.1 contextActivities
// shape, where each bucket held a single object, into the current shape
// where each bucket is an ordered list.
func (d Document) MigrateLegacyContextActivities() {
	for _, ca := range d.contextActivityMaps() {
		for _, bucket := range contextActivityBuckets {
			if single, ok := ca[bucket].(map[string]any); ok {
				ca[bucket] = []any{single}
			}
		}
	}
}

// contextActivityMaps returns every contextActivities map in the document:
// the statement's own and, for a SubStatement object, the nested one.
func (d Document) contextActivityMaps() []map[string]any {
	var out []map[string]any
	if ctx := d.Context(); ctx != nil {
		if ca, ok := ctx["contextActivities"].(map[string]any); ok {
			out = append(out, ca)
		}
	}
	if sub := d.subStatement(); sub != nil {
		if ctx, ok := sub["context"].(map[string]any); ok {
			if ca, ok := ctx["contextActivities"].(map[string]any); ok {
				out = append(out, ca)
			}
		}
	}
	return out
}

// subStatement returns the object when it is a SubStatement, else nil.
func (d Document) subStatement() map[string]any {
	obj := d.Object()
	if obj == nil {
		return nil
	}
	if ot, _ := obj["objectType"].(string); ot != "SubStatement" {
		return nil
	}
	return obj
}

// ExtractActivities collects every embedded Activity definition: the object
// (or SubStatement object) when it is an Activity carrying a definition,
// and each contextActivities entry carrying one. These are upserted into
// the activities collection independent of statement lifecycle.
func (d Document) ExtractActivities() []map[string]any {
	var out []map[string]any

	collect := func(candidate any) {
		m, ok := candidate.(map[string]any)
		if !ok {
			return
		}
		if ot, _ := m["objectType"].(string); ot != "" && ot != "Activity" {
			return
		}
		id, _ := m["id"].(string)
		if id == "" {
			return
		}
		if _, ok := m["definition"]; !ok {
			return
		}
		out = append(out, m)
	}

	collect(d["object"])
	if sub := d.subStatement(); sub != nil {
		collect(sub["object"])
	}
	for _, ca := range d.contextActivityMaps() {
		for _, bucket := range contextActivityBuckets {
			if list, ok := ca[bucket].([]any); ok {
				for _, entry := range list {
					collect(entry)
				}
			}
		}
	}

	return out
}

// EquivalentTo implements the immutability rule: both statements are
// deep-compared with authority, stored, timestamp and version stripped.
func (d Document) EquivalentTo(other Document) bool {
	a := d.Clone()
	b := other.Clone()
	for _, attr := range immutabilityExempt {
		delete(a, attr)
		delete(b, attr)
	}
	return reflect.DeepEqual(map[string]any(a), map[string]any(b))
}

// Clone deep-copies the document so callers can mutate without aliasing.
func (d Document) Clone() Document {
	return Document(deepCopyMap(d))
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return val
	}
}
