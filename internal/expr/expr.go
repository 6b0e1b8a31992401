// Package expr provides the predicate tree used to query the statement
// store. Predicates are pure data: they carry no connection state and have
// no side effects. A backend (internal/exprsql) compiles a tree once to the
// store's native query form, which keeps the predicate-building logic
// testable without a database.
//
// Paths address either a native column of the statements collection
// ("seq", "stored_at", "voided", "user_id", "statement_id") or a JSON path
// into the stored document ("statement.verb.id"). A "[]" segment means
// "any element of this array": "references[].verb.id" matches when any
// materialized reference carries the verb.
//
// Predicate is a sealed interface. The marker method pattern prevents
// external implementations and enables exhaustive type switches in
// backend compilers.
package expr

// Predicate is a node in the predicate tree.
//
// Predicate types:
//   - Equals, GreaterThan, GreaterOrEqual, LessThan, LessOrEqual:
//     comparisons of a path against a literal value
//   - And, Or: combinators over sub-predicates
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Equals represents <path> = <value>.
type Equals struct {
	Path  string
	Value any
}

func (Equals) predicateNode() {}

// GreaterThan represents <path> > <value>.
type GreaterThan struct {
	Path  string
	Value any
}

func (GreaterThan) predicateNode() {}

// GreaterOrEqual represents <path> >= <value>.
type GreaterOrEqual struct {
	Path  string
	Value any
}

func (GreaterOrEqual) predicateNode() {}

// LessThan represents <path> < <value>.
type LessThan struct {
	Path  string
	Value any
}

func (LessThan) predicateNode() {}

// LessOrEqual represents <path> <= <value>.
type LessOrEqual struct {
	Path  string
	Value any
}

func (LessOrEqual) predicateNode() {}

// And represents a conjunction. An empty Predicates slice is vacuously true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Or represents a disjunction. An empty Predicates slice is vacuously false.
type Or struct {
	Predicates []Predicate
}

func (Or) predicateNode() {}

// Where builds an equality predicate.
func Where(path string, value any) Predicate {
	return Equals{Path: path, Value: value}
}

// WhereGreater builds a strict lower-bound predicate.
func WhereGreater(path string, value any) Predicate {
	return GreaterThan{Path: path, Value: value}
}

// WhereGreaterOrEqual builds an inclusive lower-bound predicate.
func WhereGreaterOrEqual(path string, value any) Predicate {
	return GreaterOrEqual{Path: path, Value: value}
}

// WhereLess builds a strict upper-bound predicate.
func WhereLess(path string, value any) Predicate {
	return LessThan{Path: path, Value: value}
}

// WhereLessOrEqual builds an inclusive upper-bound predicate.
func WhereLessOrEqual(path string, value any) Predicate {
	return LessOrEqual{Path: path, Value: value}
}

// AndOf combines predicates into a conjunction.
func AndOf(predicates ...Predicate) Predicate {
	return And{Predicates: predicates}
}

// OrOf combines predicates into a disjunction.
func OrOf(predicates ...Predicate) Predicate {
	return Or{Predicates: predicates}
}
