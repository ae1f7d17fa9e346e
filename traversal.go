package zecs

import (
	"context"
	"runtime"
	"unsafe"

	"github.com/edwinsyarief/zecs/internal/assert"
	"golang.org/x/sync/errgroup"
)

// ChunkFunc is called once per non-empty chunk of every matching group.
type ChunkFunc func(ChunkView) error

// ChunkView is one chunk seen by a traversal body. Its slices alias chunk memory and must not
// be retained after the body returns.
type ChunkView struct {
	group   *Group
	chunk   int
	indices []int // column per requested type, -1 for tags
	n       int
}

// Len returns the number of entities in the chunk.
func (v ChunkView) Len() int {
	return v.n
}

// Entities returns the ids of the chunk's entities, in row order.
func (v ChunkView) Entities() []EntityID {
	return v.group.entities(v.chunk)
}

// Archetype returns the archetype of the group the chunk belongs to.
func (v ChunkView) Archetype() Archetype {
	return v.group.archetype
}

// Column returns the values of the requested type at position slot of the traversal's type
// list, one per entity in row order. Tags yield a zero-valued scratch slice.
func Column[T any](v ChunkView, slot int) []T {
	col := v.indices[slot]
	if col < 0 {
		return make([]T, v.n)
	}
	assert.That(unsafe.Sizeof(*new(T)) == v.group.sizes[col],
		"column %d holds %d byte values, not %T", col, v.group.sizes[col], *new(T))
	return unsafe.Slice((*T)(v.group.columnBase(v.chunk, col)), v.n)
}

type workItem struct {
	group   *Group
	indices []int
	chunk   int
}

// indicesPool recycles column index buffers across parallel traversals. Only the goroutine
// that starts a traversal touches it.
type indicesPool struct {
	bufs [][]int
	used int
}

func newIndicesPool(size int) indicesPool {
	p := indicesPool{bufs: make([][]int, size)}
	for i := range p.bufs {
		p.bufs[i] = make([]int, 0, 8)
	}
	return p
}

func (p *indicesPool) get(n int) []int {
	if p.used == len(p.bufs) {
		p.bufs = append(p.bufs, make([]int, 0, max(n, 8)))
	}
	b := p.bufs[p.used]
	if cap(b) < n {
		b = make([]int, n)
	}
	b = b[:n]
	p.bufs[p.used] = b
	p.used++
	return b
}

// reset returns every buffer handed out since the last reset.
func (p *indicesPool) reset() {
	p.used = 0
}

// resolveColumns fills indices with the column of each requested type in g.
func resolveColumns(g *Group, types []ComponentID, indices []int) {
	for i, id := range types {
		indices[i] = g.columnIndex(id)
	}
}

// ForEach calls body for every non-empty chunk of every group matching q, on the calling
// goroutine, in group creation order. The types are added to the query's required set and
// their columns are available through Column in the same order.
//
// Structural changes fail with ErrIterationViolation until ForEach returns. The first error
// returned by body stops the traversal and is returned.
func (s *Store) ForEach(q Query, types []ComponentID, body ChunkFunc) error {
	s.iterating.Add(1)
	defer s.iterating.Add(-1)

	q = q.With(types...)
	var scratch [8]int
	indices := scratch[:0]
	if len(types) > len(scratch) {
		indices = make([]int, 0, len(types))
	}
	indices = indices[:len(types)]

	for _, g := range s.groups {
		if g.count == 0 || !q.Matches(g.archetype) {
			continue
		}
		resolveColumns(g, types, indices)
		for ci, c := range g.chunks {
			if c.count == 0 {
				continue
			}
			if err := body(ChunkView{group: g, chunk: ci, indices: indices, n: c.count}); err != nil {
				s.log.Debug().Err(err).Int("group", g.index).Int("chunk", ci).Msg("traversal aborted")
				return err
			}
		}
	}
	return nil
}

// ParallelForEach is like ForEach but runs body for each chunk as its own task, at most
// Config.Workers at a time. Tasks run in no particular order and must not share mutable state
// beyond the chunk they are given.
//
// The first error returned by a body, or the cancellation of ctx, cancels the remaining tasks
// and is returned. Called from inside another parallel traversal it runs sequentially.
func (s *Store) ParallelForEach(ctx context.Context, q Query, types []ComponentID, body ChunkFunc) error {
	if !s.parallel.CompareAndSwap(false, true) {
		return s.ForEach(q, types, body)
	}
	defer s.parallel.Store(false)
	s.iterating.Add(1)
	defer s.iterating.Add(-1)

	q = q.With(types...)
	work := s.work[:0]
	for _, g := range s.groups {
		if g.count == 0 || !q.Matches(g.archetype) {
			continue
		}
		indices := s.pool.get(len(types))
		resolveColumns(g, types, indices)
		for ci, c := range g.chunks {
			if c.count > 0 {
				work = append(work, workItem{group: g, indices: indices, chunk: ci})
			}
		}
	}
	defer func() {
		clear(work)
		s.work = work[:0]
		s.pool.reset()
	}()

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, w := range work {
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return body(ChunkView{
				group:   w.group,
				chunk:   w.chunk,
				indices: w.indices,
				n:       w.group.chunks[w.chunk].count,
			})
		})
	}
	if err := eg.Wait(); err != nil {
		s.log.Debug().Err(err).Int("chunks", len(work)).Msg("parallel traversal aborted")
		return err
	}
	return ctx.Err()
}

// MatchingEntities returns the ids of every entity matching q, collected in parallel. The
// order is unspecified.
func (s *Store) MatchingEntities(ctx context.Context, q Query) ([]EntityID, error) {
	found := NewStack[EntityID](64)
	err := s.ParallelForEach(ctx, q, nil, func(v ChunkView) error {
		found.Push(v.Entities()...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found.Drain(), nil
}
