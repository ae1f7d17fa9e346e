package zecs

import "sync"

// Stack is a mutex-guarded LIFO used to collect results from concurrent traversal bodies.
// The zero value is an empty stack ready to use.
type Stack[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewStack returns a stack with room for capacity items.
func NewStack[T any](capacity int) *Stack[T] {
	return &Stack[T]{items: make([]T, 0, capacity)}
}

// Push appends values to the top of the stack.
func (s *Stack[T]) Push(values ...T) {
	s.mu.Lock()
	s.items = append(s.items, values...)
	s.mu.Unlock()
}

// Pop removes and returns the top value.
func (s *Stack[T]) Pop() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	n := len(s.items)
	if n == 0 {
		return zero, false
	}
	v := s.items[n-1]
	s.items[n-1] = zero
	s.items = s.items[:n-1]
	return v, true
}

// Len returns the number of values on the stack.
func (s *Stack[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Drain empties the stack and returns its values, bottom first.
func (s *Stack[T]) Drain() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.items
	s.items = nil
	return items
}
