package zecs

import (
	"unsafe"

	"github.com/rotisserie/eris"
)

// AddComponent attaches value to the entity and returns a lease on the stored copy.
//
// If the entity already owns T the value is overwritten in place and nothing moves.
// Otherwise the entity is relocated to the group of its archetype plus T.
//
// Parameters:
//   - s: The store owning the entity.
//   - id: The entity to modify.
//   - value: The component value to store.
//
// Returns:
//   - A Ref to the stored component, valid until the next structural change.
//   - ErrInvalidEntity, ErrIterationViolation, or a registration error.
func AddComponent[T any](s *Store, id EntityID, value T) (Ref[T], error) {
	if err := s.checkMutable("add component"); err != nil {
		return Ref[T]{}, err
	}
	tid, info, err := componentType[T]()
	if err != nil {
		return Ref[T]{}, err
	}
	loc, err := s.lookup(id)
	if err != nil {
		return Ref[T]{}, err
	}

	cur := loc.archetype()
	if !cur.Contains(tid) {
		loc = s.relocate(id, loc, cur.With(tid))
	}
	ptr := componentPtr[T](loc, tid, info)
	*ptr = value
	return newRef(s, ptr), nil
}

// RemoveComponent detaches T from the entity. Removing a type the entity does not own is a
// no-op.
func RemoveComponent[T any](s *Store, id EntityID) error {
	if err := s.checkMutable("remove component"); err != nil {
		return err
	}
	tid, _, err := componentType[T]()
	if err != nil {
		return err
	}
	loc, err := s.lookup(id)
	if err != nil {
		return err
	}

	cur := loc.archetype()
	if cur.Contains(tid) {
		s.relocate(id, loc, cur.Without(tid))
	}
	return nil
}

// HasComponent reports whether the entity owns T. Unknown entities report false.
func HasComponent[T any](s *Store, id EntityID) bool {
	tid, err := IDOf[T]()
	if err != nil {
		return false
	}
	loc, ok := s.dir.get(id)
	return ok && loc.archetype().Contains(tid)
}

// GetComponent returns a lease on the entity's T. It fails with ErrComponentNotFound if the
// entity does not own T.
func GetComponent[T any](s *Store, id EntityID) (Ref[T], error) {
	tid, info, err := componentType[T]()
	if err != nil {
		return Ref[T]{}, err
	}
	loc, err := s.lookup(id)
	if err != nil {
		return Ref[T]{}, err
	}
	if !loc.archetype().Contains(tid) {
		return Ref[T]{}, eris.Wrapf(ErrComponentNotFound, "entity %d has no %s", id, info.typ)
	}
	return newRef(s, componentPtr[T](loc, tid, info)), nil
}

// TryGetComponent is like GetComponent but reports absence, including unknown entities, with
// false instead of an error.
func TryGetComponent[T any](s *Store, id EntityID) (Ref[T], bool) {
	tid, info, err := componentType[T]()
	if err != nil {
		return Ref[T]{}, false
	}
	loc, ok := s.dir.get(id)
	if !ok || !loc.archetype().Contains(tid) {
		return Ref[T]{}, false
	}
	return newRef(s, componentPtr[T](loc, tid, info)), true
}

// componentPtr returns the address of T at loc. The group must contain tid.
func componentPtr[T any](loc location, tid ComponentID, info componentInfo) *T {
	if info.zeroSize {
		return new(T)
	}
	g := loc.group
	ptr, _ := g.component(int(loc.chunk), g.columnIndex(tid), int(loc.row))
	return (*T)(ptr)
}

// valueBytes copies the memory of a pointer-free value.
func valueBytes[T any](value *T, size uintptr) []byte {
	if size == 0 {
		return nil
	}
	b := make([]byte, size)
	copy(b, unsafe.Slice((*byte)(unsafe.Pointer(value)), size))
	return b
}
