package zecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// Resources holds at most one value per type, shared by the whole store rather than attached
// to an entity. Unlike components, resources may hold pointers, so caches, lookup tables and
// handles to outside systems live here.
//
// Slots freed by RemoveResource are reused. Resources are not safe for concurrent mutation;
// traversal bodies may read them.
type Resources struct {
	items   []any
	types   map[reflect.Type]int
	freeIDs []int
}

// Resources returns the store's resource table.
func (s *Store) Resources() *Resources {
	return &s.resources
}

// AddResource stores value as the resource of type T and returns its slot. It fails with
// ErrResourceExists if a T is already present.
func AddResource[T any](r *Resources, value *T) (int, error) {
	if value == nil {
		return -1, eris.Wrapf(ErrNilResource, "%s", reflect.TypeFor[T]())
	}
	t := reflect.TypeFor[T]()
	if r.types == nil {
		r.types = make(map[reflect.Type]int)
	}
	if _, ok := r.types[t]; ok {
		return -1, eris.Wrapf(ErrResourceExists, "%s", t)
	}

	var id int
	if n := len(r.freeIDs); n > 0 {
		id = r.freeIDs[n-1]
		r.freeIDs = r.freeIDs[:n-1]
		r.items[id] = value
	} else {
		r.items = append(r.items, value)
		id = len(r.items) - 1
	}
	r.types[t] = id
	return id, nil
}

// GetResource returns the resource of type T.
func GetResource[T any](r *Resources) (*T, bool) {
	id, ok := r.types[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	return r.items[id].(*T), true
}

// RemoveResource drops the resource of type T and reports whether one was present.
func RemoveResource[T any](r *Resources) bool {
	t := reflect.TypeFor[T]()
	id, ok := r.types[t]
	if !ok {
		return false
	}
	delete(r.types, t)
	r.items[id] = nil
	r.freeIDs = append(r.freeIDs, id)
	return true
}

// Len returns the number of resources held.
func (r *Resources) Len() int {
	return len(r.types)
}

// Clear removes every resource.
func (r *Resources) Clear() {
	clear(r.items)
	r.items = r.items[:0]
	clear(r.types)
	r.freeIDs = r.freeIDs[:0]
}
