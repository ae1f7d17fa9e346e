package zecs

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -run ^TestEachHelpers$ . -count 1
func TestEachHelpers(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ids := populate(t, s, 90)
	for _, id := range ids[:10] {
		mustAdd(t, s, id, Health{Current: 1})
	}

	n := 0
	require.NoError(t, Each1(s, NewQuery(), func(_ EntityID, p *Position) {
		p.Y = 7
		n++
	}))
	assert.Equal(t, 90, n)

	n = 0
	require.NoError(t, Each2(s, NewQuery(), func(_ EntityID, p *Position, v *Velocity) {
		p.X += v.X
		n++
	}))
	assert.Equal(t, 30, n)

	var visited []EntityID
	require.NoError(t, Each3(s, NewQuery(), func(id EntityID, _ *Position, _ *Velocity, h *Health) {
		h.Max = 5
		visited = append(visited, id)
	}))
	assert.ElementsMatch(t, []EntityID{ids[0], ids[3], ids[6], ids[9]}, visited)

	for i, id := range ids {
		p := mustGet[Position](t, s, id)
		assert.Equal(t, float32(7), p.Y)
		if i%3 == 0 {
			assert.Equal(t, float32(i+1), p.X)
		}
	}
	assert.Equal(t, Health{Current: 1, Max: 5}, mustGet[Health](t, s, ids[3]))
}

// go test -run ^TestParallelEachHelpers$ . -count 1
func TestParallelEachHelpers(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ids := populate(t, s, 300)
	ctx := context.Background()

	var n atomic.Int32
	require.NoError(t, ParallelEach1(ctx, s, NewQuery(), func(_ EntityID, p *Position) {
		p.Y++
		n.Add(1)
	}))
	assert.Equal(t, int32(300), n.Load())

	n.Store(0)
	require.NoError(t, ParallelEach2(ctx, s, NewQuery(), func(_ EntityID, p *Position, v *Velocity) {
		p.Y += v.Y
		n.Add(1)
	}))
	assert.Equal(t, int32(100), n.Load())

	n.Store(0)
	require.NoError(t, ParallelEach3(ctx, s, NewQuery().IncludeDisabled(),
		func(EntityID, *Position, *Velocity, *Health) { n.Add(1) }))
	assert.Zero(t, n.Load())

	for i, id := range ids {
		want := float32(1)
		if i%3 == 0 {
			want = 3
		}
		assert.Equal(t, want, mustGet[Position](t, s, id).Y)
	}
}

// go test -run ^TestEachRejectsUnsupportedTypes$ . -count 1
func TestEachRejectsUnsupportedTypes(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	err := Each2(s, NewQuery(), func(EntityID, *Position, *withString) {})
	assert.True(t, eris.Is(err, ErrUnsupportedComponent))
	err = ParallelEach1(context.Background(), s, NewQuery(), func(EntityID, *withString) {})
	assert.True(t, eris.Is(err, ErrUnsupportedComponent))
}
