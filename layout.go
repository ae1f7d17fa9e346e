package zecs

import (
	"slices"

	"github.com/rotisserie/eris"
)

// Layout batches component additions, with their values, and removals so they can be applied
// to an entity in a single relocation.
//
//	l := zecs.NewLayout()
//	zecs.DefineAdd(l, Position{X: 1})
//	zecs.DefineRemove[Velocity](l)
//	err := store.ApplyLayout(e, l)
type Layout struct {
	add    Archetype
	remove Archetype
	values []layoutValue // sorted by id
	err    error
}

type layoutValue struct {
	id   ComponentID
	data []byte // nil for tags
}

// NewLayout returns an empty layout.
func NewLayout() *Layout {
	return &Layout{}
}

// DefineAdd makes the layout add T with the given value. It cancels an earlier DefineRemove
// of T and replaces an earlier value.
func DefineAdd[T any](l *Layout, value T) *Layout {
	if l.err != nil {
		return l
	}
	id, info, err := componentType[T]()
	if err != nil {
		l.err = err
		return l
	}

	l.remove = l.remove.Without(id)
	l.add = l.add.With(id)
	v := layoutValue{id: id, data: valueBytes(&value, info.size)}
	i, found := slices.BinarySearchFunc(l.values, id, compareLayoutValue)
	if found {
		l.values[i] = v
	} else {
		l.values = slices.Insert(l.values, i, v)
	}
	return l
}

// DefineRemove makes the layout remove T. It cancels an earlier DefineAdd of T.
func DefineRemove[T any](l *Layout) *Layout {
	if l.err != nil {
		return l
	}
	id, _, err := componentType[T]()
	if err != nil {
		l.err = err
		return l
	}

	l.add = l.add.Without(id)
	l.remove = l.remove.With(id)
	if i, found := slices.BinarySearchFunc(l.values, id, compareLayoutValue); found {
		l.values = slices.Delete(l.values, i, i+1)
	}
	return l
}

// Adds returns the types the layout adds.
func (l *Layout) Adds() Archetype {
	return l.add
}

// Removes returns the types the layout removes.
func (l *Layout) Removes() Archetype {
	return l.remove
}

// Err returns the first error recorded while defining the layout.
func (l *Layout) Err() error {
	return l.err
}

func (l *Layout) validate() error {
	if l == nil {
		return eris.Wrap(ErrNilLayout, "cannot apply layout")
	}
	if l.err != nil {
		return eris.Wrap(l.err, "layout definition failed")
	}
	return nil
}

func compareLayoutValue(v layoutValue, id ComponentID) int {
	switch {
	case v.id < id:
		return -1
	case v.id > id:
		return 1
	}
	return 0
}
