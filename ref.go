package zecs

import "github.com/edwinsyarief/zecs/internal/assert"

// Ref is a short-lived lease on one component value. It aliases chunk memory and is valid
// only until the next structural change on the store that issued it; after that the value
// may have moved or been freed. Get checks the lease in debug builds.
type Ref[T any] struct {
	store   *Store
	ptr     *T
	version uint64
}

func newRef[T any](s *Store, ptr *T) Ref[T] {
	return Ref[T]{store: s, ptr: ptr, version: s.version}
}

// Valid reports whether the lease is still current.
func (r Ref[T]) Valid() bool {
	return r.store != nil && r.store.version == r.version
}

// Get returns the component. The pointer must not be kept past the next structural change.
func (r Ref[T]) Get() *T {
	assert.That(r.Valid(), "component %T read through a stale reference", r.ptr)
	return r.ptr
}

// Set overwrites the component.
func (r Ref[T]) Set(value T) {
	*r.Get() = value
}
