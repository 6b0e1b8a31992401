package expr

// Builder accumulates filter groups that are ANDed together, mirroring how
// the query engine assembles one group per recognized filter parameter.
//
// The zero value is ready to use. Builder is not safe for concurrent use;
// each request builds its own.
type Builder struct {
	predicates []Predicate
}

// Where appends an equality group.
func (b *Builder) Where(path string, value any) *Builder {
	return b.Append(Equals{Path: path, Value: value})
}

// WhereGreater appends a strict lower-bound group.
func (b *Builder) WhereGreater(path string, value any) *Builder {
	return b.Append(GreaterThan{Path: path, Value: value})
}

// WhereGreaterOrEqual appends an inclusive lower-bound group.
func (b *Builder) WhereGreaterOrEqual(path string, value any) *Builder {
	return b.Append(GreaterOrEqual{Path: path, Value: value})
}

// WhereLess appends a strict upper-bound group.
func (b *Builder) WhereLess(path string, value any) *Builder {
	return b.Append(LessThan{Path: path, Value: value})
}

// WhereLessOrEqual appends an inclusive upper-bound group.
func (b *Builder) WhereLessOrEqual(path string, value any) *Builder {
	return b.Append(LessOrEqual{Path: path, Value: value})
}

// Append adds an arbitrary predicate as its own AND group.
func (b *Builder) Append(p Predicate) *Builder {
	b.predicates = append(b.predicates, p)
	return b
}

// Predicate returns the conjunction of all appended groups, or nil when
// nothing was appended (match everything).
func (b *Builder) Predicate() Predicate {
	if len(b.predicates) == 0 {
		return nil
	}
	if len(b.predicates) == 1 {
		return b.predicates[0]
	}
	return And{Predicates: b.predicates}
}
