package zecs

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// go test -run ^TestStack$ . -count 1
func TestStack(t *testing.T) {
	t.Parallel()

	var s Stack[int]
	_, ok := s.Pop()
	assert.False(t, ok)

	s.Push(1, 2)
	s.Push(3)
	assert.Equal(t, 3, s.Len())
	v, ok := s.Pop()
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, []int{1, 2}, s.Drain())
	assert.Zero(t, s.Len())
}

// go test -run ^TestStackConcurrentPush$ . -count 1
func TestStackConcurrentPush(t *testing.T) {
	t.Parallel()

	s := NewStack[int](0)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				s.Push(g*100 + i)
			}
		}()
	}
	wg.Wait()

	got := s.Drain()
	slices.Sort(got)
	want := make([]int, 800)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, got)
}
