package zecs

import "github.com/rotisserie/eris"

var (
	// ErrInvalidEntity is returned when an id does not name a live entity.
	ErrInvalidEntity = eris.New("entity does not exist")

	// ErrIterationViolation is returned when a structural change is attempted while a traversal
	// is running. Defer the change until the traversal returns.
	ErrIterationViolation = eris.New("structural change is not allowed while iterating")

	// ErrTypeLimitExceeded is returned when the component type registry is full.
	ErrTypeLimitExceeded = eris.New("maximum number of component types reached")

	// ErrComponentTooLarge is returned when a component type is wider than MaxComponentSize.
	ErrComponentTooLarge = eris.New("component exceeds the maximum component size")

	// ErrComponentNotFound is returned by GetComponent when the entity does not own the type.
	// Use TryGetComponent to avoid it.
	ErrComponentNotFound = eris.New("component not found")

	// ErrUnsupportedComponent is returned for component types holding Go pointers, which cannot
	// live in chunk memory.
	ErrUnsupportedComponent = eris.New("component type contains pointers")

	// ErrNilLayout is returned when a nil layout is applied.
	ErrNilLayout = eris.New("layout is nil")

	// ErrResourceExists is returned when a resource of the same type is already stored.
	ErrResourceExists = eris.New("resource of the same type already exists")

	// ErrNilResource is returned when a nil resource is added.
	ErrNilResource = eris.New("resource is nil")
)
