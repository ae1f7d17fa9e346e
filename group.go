package zecs

import (
	"slices"
	"unsafe"

	"github.com/edwinsyarief/zecs/internal/assert"
)

// entityIDSize is the per-row cost of the entity id column.
const entityIDSize = unsafe.Sizeof(EntityID(0))

// chunk holds a fixed number of rows for one group. Column data lives in a single arena laid
// out by the group's offset table; rows [0, count) are occupied with no gaps.
type chunk struct {
	data  []byte     // backed by []uint64 so every column starts 8-byte aligned
	ids   []EntityID // entity owning each row, len == group capacity
	count int        // occupied rows
}

// Group stores every entity of one archetype in fixed-capacity chunks, one column per
// non-zero-size component type. Tag types occupy no column and exist only in the archetype.
//
// Rows are packed across the whole group: every chunk before the tail chunk is full. Empty
// chunks are kept for reuse and never freed.
type Group struct {
	archetype Archetype
	types     []ComponentID // non-zero-size types, ascending
	sizes     []uintptr     // column element size, parallel to types
	offsets   []uintptr     // column byte offset inside a chunk, parallel to types
	chunks    []*chunk
	capacity  int // rows per chunk
	arena     int // bytes per chunk
	count     int // occupied rows across all chunks
	index     int // position in the store's group list
}

// newGroup lays out the columns of arch for chunks of roughly chunkBytes bytes.
func newGroup(arch Archetype, index, chunkBytes int) *Group {
	g := &Group{
		archetype: arch,
		index:     index,
		chunks:    make([]*chunk, 0, 4),
	}

	var aligns []uintptr
	rowSize := entityIDSize
	for _, id := range arch.Types() {
		info := registry.info(id)
		if info.zeroSize {
			continue
		}
		g.types = append(g.types, id)
		g.sizes = append(g.sizes, info.size)
		aligns = append(aligns, info.align)
		rowSize += info.size
	}
	g.offsets = make([]uintptr, len(g.types))

	capacity := max(chunkBytes/int(rowSize), 1)
	for {
		end := g.layout(capacity, aligns)
		if end <= uintptr(chunkBytes) || capacity == 1 {
			g.arena = int(end)
			break
		}
		capacity--
	}
	g.capacity = capacity
	return g
}

// layout fills the offset table for the given row capacity and returns the arena size.
func (g *Group) layout(capacity int, aligns []uintptr) uintptr {
	var end uintptr
	for i, size := range g.sizes {
		align := aligns[i]
		end = (end + align - 1) &^ (align - 1)
		g.offsets[i] = end
		end += size * uintptr(capacity)
	}
	return end
}

func (g *Group) newChunk() *chunk {
	words := (g.arena + 7) / 8
	backing := make([]uint64, words)
	var data []byte
	if words > 0 {
		data = unsafe.Slice((*byte)(unsafe.Pointer(&backing[0])), words*8)
	}
	return &chunk{
		data: data,
		ids:  make([]EntityID, g.capacity),
	}
}

// Archetype returns the component set stored in the group.
func (g *Group) Archetype() Archetype {
	return g.archetype
}

// Len returns the number of entities in the group.
func (g *Group) Len() int {
	return g.count
}

// ChunkCount returns the number of allocated chunks, including empty ones.
func (g *Group) ChunkCount() int {
	return len(g.chunks)
}

// RowCount returns the number of occupied rows in chunk ci.
func (g *Group) RowCount(ci int) int {
	return g.chunks[ci].count
}

// Capacity returns the number of rows a chunk holds.
func (g *Group) Capacity() int {
	return g.capacity
}

// nextSlot reserves the next free row for id, allocating a chunk when every chunk is full.
// Nothing but the entity id is written.
func (g *Group) nextSlot(id EntityID) location {
	ci, row := g.count/g.capacity, g.count%g.capacity
	if ci == len(g.chunks) {
		g.chunks = append(g.chunks, g.newChunk())
	}
	c := g.chunks[ci]
	assert.That(c.count == row, "chunk %d has %d rows, expected %d", ci, c.count, row)
	c.ids[row] = id
	c.count++
	g.count++
	return location{group: g, chunk: int32(ci), row: int32(row)}
}

// remove frees the row at (ci, row) by moving the group's last occupied row into it. It
// returns the id of the entity that was moved, or 0 when the freed row was the last one.
func (g *Group) remove(ci, row int) EntityID {
	assert.That(g.count > 0, "remove from empty group %s", g.archetype)
	last := g.count - 1
	lci, lrow := last/g.capacity, last%g.capacity
	assert.That(ci*g.capacity+row <= last, "row %d:%d is not occupied", ci, row)

	src := g.chunks[lci]
	src.count--
	g.count--
	var moved EntityID
	if ci != lci || row != lrow {
		dst := g.chunks[ci]
		for i, size := range g.sizes {
			off := g.offsets[i]
			copy(dst.data[off+uintptr(row)*size:off+uintptr(row+1)*size],
				src.data[off+uintptr(lrow)*size:off+uintptr(lrow+1)*size])
		}
		moved = src.ids[lrow]
		dst.ids[row] = moved
	}
	g.clearRow(src, lrow)
	return moved
}

// clearRow zeroes a vacated row so the next entity to take it starts from zero values.
func (g *Group) clearRow(c *chunk, row int) {
	for i, size := range g.sizes {
		off := g.offsets[i] + uintptr(row)*size
		clear(c.data[off : off+size])
	}
	c.ids[row] = 0
}

// component returns the address and size of one value. column indexes g.types.
func (g *Group) component(ci, column, row int) (unsafe.Pointer, uintptr) {
	assert.That(ci < len(g.chunks), "chunk %d out of range", ci)
	assert.That(column >= 0 && column < len(g.types), "column %d out of range", column)
	assert.That(row < g.chunks[ci].count, "row %d out of range", row)
	size := g.sizes[column]
	off := g.offsets[column] + uintptr(row)*size
	return unsafe.Pointer(&g.chunks[ci].data[off]), size
}

// columnBase returns the address of the first value of a column in chunk ci.
func (g *Group) columnBase(ci, column int) unsafe.Pointer {
	return unsafe.Pointer(&g.chunks[ci].data[g.offsets[column]])
}

// columnIndex returns the column holding id, or -1 when id has no column in this group.
func (g *Group) columnIndex(id ComponentID) int {
	i, ok := slices.BinarySearch(g.types, id)
	if !ok {
		return -1
	}
	return i
}

// lastEntityID returns the entity in the last occupied row, or 0 if the group is empty.
func (g *Group) lastEntityID() EntityID {
	if g.count == 0 {
		return 0
	}
	last := g.count - 1
	return g.chunks[last/g.capacity].ids[last%g.capacity]
}

// entities returns the occupied slice of the entity id column of chunk ci.
func (g *Group) entities(ci int) []EntityID {
	c := g.chunks[ci]
	return c.ids[:c.count]
}
