package zecs

import (
	"unsafe"

	"github.com/edwinsyarief/zecs/internal/assert"
)

// Components is a lease on every component of one entity, resolved once. Like Ref it is valid
// only until the next structural change on the store.
type Components struct {
	store   *Store
	id      EntityID
	loc     location
	version uint64
}

// GetComponents returns an accessor for all components of the entity.
func (s *Store) GetComponents(id EntityID) (Components, error) {
	loc, err := s.lookup(id)
	if err != nil {
		return Components{}, err
	}
	return Components{store: s, id: id, loc: loc, version: s.version}, nil
}

// Entity returns the entity the accessor reads.
func (c Components) Entity() EntityID {
	return c.id
}

// Valid reports whether the accessor is still current.
func (c Components) Valid() bool {
	return c.store != nil && c.store.version == c.version
}

// Archetype returns the entity's component set.
func (c Components) Archetype() Archetype {
	return c.loc.archetype()
}

// Has reports whether the entity owns the component with the given id.
func (c Components) Has(id ComponentID) bool {
	return c.loc.archetype().Contains(id)
}

// Bytes returns the raw storage of one component. Tags yield an empty slice.
func (c Components) Bytes(id ComponentID) ([]byte, bool) {
	assert.That(c.Valid(), "components of entity %d read through a stale accessor", c.id)
	if !c.Has(id) {
		return nil, false
	}
	g := c.loc.group
	col := g.columnIndex(id)
	if col < 0 {
		return []byte{}, true
	}
	ptr, size := g.component(int(c.loc.chunk), col, int(c.loc.row))
	return unsafe.Slice((*byte)(ptr), size), true
}

// Field returns the entity's T through the accessor.
func Field[T any](c Components) (*T, bool) {
	assert.That(c.Valid(), "components of entity %d read through a stale accessor", c.id)
	tid, info, err := componentType[T]()
	if err != nil || !c.Has(tid) {
		return nil, false
	}
	return componentPtr[T](c.loc, tid, info), true
}
