package zecs

// Query selects groups by archetype. The zero value is the neutral query: it matches every
// group that is not disabled.
//
// Queries are values. Each builder method returns a modified copy, and a traversal never
// changes the query it was given.
type Query struct {
	required        Archetype
	excluded        Archetype
	anyOf           Archetype
	includeDisabled bool
}

// NewQuery returns the neutral query.
func NewQuery() Query {
	return Query{}
}

// With requires every given type.
func (q Query) With(ids ...ComponentID) Query {
	q.required = q.required.With(ids...)
	return q
}

// Without rejects groups holding any of the given types.
func (q Query) Without(ids ...ComponentID) Query {
	q.excluded = q.excluded.With(ids...)
	return q
}

// Any requires at least one of the given types. Calling Any again widens the set.
func (q Query) Any(ids ...ComponentID) Query {
	q.anyOf = q.anyOf.With(ids...)
	return q
}

// IncludeDisabled lets the query match disabled entities. An explicit Without(DisabledID)
// still excludes them.
func (q Query) IncludeDisabled() Query {
	q.includeDisabled = true
	return q
}

// Matches reports whether a group with archetype a is selected.
func (q Query) Matches(a Archetype) bool {
	if !q.includeDisabled && a.IsDisabled() {
		return false
	}
	if !q.anyOf.IsEmpty() && !a.ContainsAny(q.anyOf) {
		return false
	}
	return !a.ContainsAny(q.excluded) && a.ContainsAll(q.required)
}
