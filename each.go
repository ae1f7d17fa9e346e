package zecs

import "context"

// Each1 calls fn for every entity matching q that owns A, on the calling goroutine.
//
// Example:
//
//	err := zecs.Each1(store, zecs.NewQuery(), func(e zecs.EntityID, p *Position) {
//	    p.X++
//	})
func Each1[A any](s *Store, q Query, fn func(EntityID, *A)) error {
	ida, err := IDOf[A]()
	if err != nil {
		return err
	}
	return s.ForEach(q, []ComponentID{ida}, each1Body(fn))
}

// ParallelEach1 is Each1 with one task per chunk. fn must be safe to call concurrently for
// different entities.
func ParallelEach1[A any](ctx context.Context, s *Store, q Query, fn func(EntityID, *A)) error {
	ida, err := IDOf[A]()
	if err != nil {
		return err
	}
	return s.ParallelForEach(ctx, q, []ComponentID{ida}, each1Body(fn))
}

func each1Body[A any](fn func(EntityID, *A)) ChunkFunc {
	return func(v ChunkView) error {
		ids := v.Entities()
		as := Column[A](v, 0)
		for i, id := range ids {
			fn(id, &as[i])
		}
		return nil
	}
}

// Each2 calls fn for every entity matching q that owns A and B.
func Each2[A, B any](s *Store, q Query, fn func(EntityID, *A, *B)) error {
	types, err := typeIDs2[A, B]()
	if err != nil {
		return err
	}
	return s.ForEach(q, types, each2Body(fn))
}

// ParallelEach2 is Each2 with one task per chunk.
func ParallelEach2[A, B any](ctx context.Context, s *Store, q Query, fn func(EntityID, *A, *B)) error {
	types, err := typeIDs2[A, B]()
	if err != nil {
		return err
	}
	return s.ParallelForEach(ctx, q, types, each2Body(fn))
}

func each2Body[A, B any](fn func(EntityID, *A, *B)) ChunkFunc {
	return func(v ChunkView) error {
		ids := v.Entities()
		as, bs := Column[A](v, 0), Column[B](v, 1)
		for i, id := range ids {
			fn(id, &as[i], &bs[i])
		}
		return nil
	}
}

// Each3 calls fn for every entity matching q that owns A, B and C.
func Each3[A, B, C any](s *Store, q Query, fn func(EntityID, *A, *B, *C)) error {
	types, err := typeIDs3[A, B, C]()
	if err != nil {
		return err
	}
	return s.ForEach(q, types, each3Body(fn))
}

// ParallelEach3 is Each3 with one task per chunk.
func ParallelEach3[A, B, C any](ctx context.Context, s *Store, q Query, fn func(EntityID, *A, *B, *C)) error {
	types, err := typeIDs3[A, B, C]()
	if err != nil {
		return err
	}
	return s.ParallelForEach(ctx, q, types, each3Body(fn))
}

func each3Body[A, B, C any](fn func(EntityID, *A, *B, *C)) ChunkFunc {
	return func(v ChunkView) error {
		ids := v.Entities()
		as, bs, cs := Column[A](v, 0), Column[B](v, 1), Column[C](v, 2)
		for i, id := range ids {
			fn(id, &as[i], &bs[i], &cs[i])
		}
		return nil
	}
}

func typeIDs2[A, B any]() ([]ComponentID, error) {
	ida, err := IDOf[A]()
	if err != nil {
		return nil, err
	}
	idb, err := IDOf[B]()
	if err != nil {
		return nil, err
	}
	return []ComponentID{ida, idb}, nil
}

func typeIDs3[A, B, C any]() ([]ComponentID, error) {
	types, err := typeIDs2[A, B]()
	if err != nil {
		return nil, err
	}
	idc, err := IDOf[C]()
	if err != nil {
		return nil, err
	}
	return append(types, idc), nil
}
