package zecs

import (
	"reflect"
	"sync"

	"github.com/rotisserie/eris"
)

// ComponentID is a unique identifier for a component type.
type ComponentID uint32

const (
	// MaxComponentTypes is the number of distinct component types a process can register,
	// including the reserved Disabled tag.
	MaxComponentTypes = 1<<16 - 1
	// MaxComponentSize is the widest component, in bytes, that fits in a column.
	MaxComponentSize = 1<<16 - 1
)

// Disabled is the reserved tag marking an entity as disabled. Queries skip disabled entities
// unless they opt in with Query.IncludeDisabled.
type Disabled struct{}

// DisabledID is the component id of the Disabled tag.
const DisabledID ComponentID = 0

// componentInfo is what the registry knows about a type.
type componentInfo struct {
	typ      reflect.Type
	size     uintptr
	align    uintptr
	zeroSize bool
}

// typeRegistry assigns permanent ids to component types on first use.
type typeRegistry struct {
	mu    sync.RWMutex
	ids   map[reflect.Type]ComponentID
	infos []componentInfo
	max   int
}

// registry is the process-wide component registry. Ids are never recycled.
var registry = newTypeRegistry(MaxComponentTypes)

func newTypeRegistry(max int) *typeRegistry {
	r := &typeRegistry{
		ids:   make(map[reflect.Type]ComponentID, 64),
		infos: make([]componentInfo, 0, 64),
		max:   max,
	}
	// Disabled always takes id 0.
	if _, err := r.register(reflect.TypeFor[Disabled]()); err != nil {
		panic(err)
	}
	return r
}

// register returns the id of t, assigning a new one if t has not been seen before.
func (r *typeRegistry) register(t reflect.Type) (ComponentID, error) {
	r.mu.RLock()
	id, ok := r.ids[t]
	r.mu.RUnlock()
	if ok {
		return id, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.ids[t]; ok {
		return id, nil
	}
	if len(r.infos) >= r.max {
		return 0, eris.Wrapf(ErrTypeLimitExceeded, "cannot register %s: limit is %d", t, r.max)
	}
	if t.Size() > MaxComponentSize {
		return 0, eris.Wrapf(ErrComponentTooLarge, "%s is %d bytes, limit is %d", t, t.Size(), MaxComponentSize)
	}
	if hasPointers(t) {
		return 0, eris.Wrapf(ErrUnsupportedComponent, "%s", t)
	}

	id = ComponentID(len(r.infos))
	r.infos = append(r.infos, componentInfo{
		typ:      t,
		size:     t.Size(),
		align:    uintptr(t.Align()),
		zeroSize: t.Size() == 0,
	})
	r.ids[t] = id
	return id, nil
}

// info returns the registered metadata for id. The id must have been issued by this registry.
func (r *typeRegistry) info(id ComponentID) componentInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.infos[id]
}

// count returns the number of registered types.
func (r *typeRegistry) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.infos)
}

// hasPointers reports whether values of t hold anything the garbage collector must trace.
func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Slice, reflect.String,
		reflect.Interface, reflect.Chan, reflect.Func:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

// IDOf returns the component id of T, registering T on first use.
func IDOf[T any]() (ComponentID, error) {
	return registry.register(reflect.TypeFor[T]())
}

// MustID is like IDOf but panics if T cannot be registered. It is meant for building queries
// from types known to be valid.
func MustID[T any]() ComponentID {
	id, err := IDOf[T]()
	if err != nil {
		panic(err)
	}
	return id
}

// componentType returns the id and metadata for T.
func componentType[T any]() (ComponentID, componentInfo, error) {
	id, err := IDOf[T]()
	if err != nil {
		return 0, componentInfo{}, err
	}
	return id, registry.info(id), nil
}
