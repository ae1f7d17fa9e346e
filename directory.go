package zecs

import "github.com/kamstrup/intmap"

// EntityID identifies an entity. Zero is never a valid id.
type EntityID uint32

// location is where an entity's row lives. A nil group means the entity has no components.
type location struct {
	group *Group
	chunk int32
	row   int32
}

// directory tracks the location of every live entity.
type directory struct {
	m *intmap.Map[EntityID, location]
}

func newDirectory(capacity int) directory {
	return directory{m: intmap.New[EntityID, location](capacity)}
}

func (d directory) get(id EntityID) (location, bool) {
	return d.m.Get(id)
}

func (d directory) has(id EntityID) bool {
	return d.m.Has(id)
}

func (d directory) put(id EntityID, loc location) {
	d.m.Put(id, loc)
}

func (d directory) del(id EntityID) {
	d.m.Del(id)
}

func (d directory) len() int {
	return d.m.Len()
}

func (d directory) clear() {
	d.m.Clear()
}

// each calls fn for every live entity in unspecified order.
func (d directory) each(fn func(EntityID, location)) {
	d.m.ForEach(func(id EntityID, loc location) bool {
		fn(id, loc)
		return true
	})
}
