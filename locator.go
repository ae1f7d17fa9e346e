package zecs

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// groupLocator maps canonical archetypes to their groups. Buckets are keyed by a hash of the
// word sequence and resolved by exact comparison, so hash collisions never merge groups.
type groupLocator struct {
	buckets map[uint64][]*Group
	scratch []byte
}

func newGroupLocator() *groupLocator {
	return &groupLocator{
		buckets: make(map[uint64][]*Group, 32),
	}
}

func (l *groupLocator) hash(a Archetype) uint64 {
	words := a.Words()
	l.scratch = l.scratch[:0]
	for _, w := range words {
		l.scratch = binary.LittleEndian.AppendUint64(l.scratch, w)
	}
	return xxhash.Sum64(l.scratch)
}

// find returns the group of a, or nil if none exists yet.
func (l *groupLocator) find(a Archetype) *Group {
	for _, g := range l.buckets[l.hash(a)] {
		if g.archetype.Equal(a) {
			return g
		}
	}
	return nil
}

// insert records g under its archetype. The caller must have checked find first.
func (l *groupLocator) insert(g *Group) {
	h := l.hash(g.archetype)
	l.buckets[h] = append(l.buckets[h], g)
}

func (l *groupLocator) len() int {
	n := 0
	for _, b := range l.buckets {
		n += len(b)
	}
	return n
}
