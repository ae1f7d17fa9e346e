package zecs

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type Position struct{ X, Y float32 }
type Velocity struct{ X, Y float32 }
type Health struct{ Current, Max int32 }
type A struct{ V int64 }
type Wide struct{ Data [64]int64 }
type Marker struct{}

// newTestStore returns a store with small chunks so tests cross chunk boundaries quickly.
func newTestStore(t testing.TB) *Store {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ChunkBytes = 256
	cfg.Workers = 4
	s, err := NewStore(WithConfig(cfg), WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	return s
}

func mustCreate(t testing.TB, s *Store) EntityID {
	t.Helper()
	id, err := s.CreateEntity()
	require.NoError(t, err)
	return id
}

func mustAdd[T any](t testing.TB, s *Store, id EntityID, value T) {
	t.Helper()
	_, err := AddComponent(s, id, value)
	require.NoError(t, err)
}

func mustGet[T any](t testing.TB, s *Store, id EntityID) T {
	t.Helper()
	ref, err := GetComponent[T](s, id)
	require.NoError(t, err)
	return *ref.Get()
}
