package zecs

import (
	"strconv"
	"strings"

	"github.com/kelindar/bitmap"
)

// Archetype is the set of component types an entity owns, stored as a growable bitset where
// bit (word*64 + offset) is set when the type with that id is present. Archetypes are values:
// every operation returns a new Archetype and leaves the receiver untouched.
//
// The word sequence is always canonical, with no trailing zero word, so two archetypes holding
// the same types compare and hash equal regardless of how they were built.
type Archetype struct {
	bits bitmap.Bitmap
}

// NewArchetype returns the archetype holding exactly the given types.
func NewArchetype(ids ...ComponentID) Archetype {
	var b bitmap.Bitmap
	for _, id := range ids {
		b.Set(uint32(id))
	}
	return Archetype{bits: trim(b)}
}

// Contains reports whether id is in the archetype.
func (a Archetype) Contains(id ComponentID) bool {
	return a.bits.Contains(uint32(id))
}

// ContainsAll reports whether every type of other is in a. The shorter operand is treated as
// zero padded.
func (a Archetype) ContainsAll(other Archetype) bool {
	for i, w := range other.bits {
		var have uint64
		if i < len(a.bits) {
			have = a.bits[i]
		}
		if have&w != w {
			return false
		}
	}
	return true
}

// ContainsAny reports whether a and other share at least one type.
func (a Archetype) ContainsAny(other Archetype) bool {
	n := min(len(a.bits), len(other.bits))
	for i := range n {
		if a.bits[i]&other.bits[i] != 0 {
			return true
		}
	}
	return false
}

// With returns a copy of a with the given types added.
func (a Archetype) With(ids ...ComponentID) Archetype {
	b := a.clone()
	for _, id := range ids {
		b.Set(uint32(id))
	}
	return Archetype{bits: trim(b)}
}

// Without returns a copy of a with the given types removed.
func (a Archetype) Without(ids ...ComponentID) Archetype {
	b := a.clone()
	for _, id := range ids {
		b.Remove(uint32(id))
	}
	return Archetype{bits: trim(b)}
}

// Union returns the types present in a or other.
func (a Archetype) Union(other Archetype) Archetype {
	b := a.clone()
	b.Or(other.bits)
	return Archetype{bits: trim(b)}
}

// Difference returns the types of a that are not in other.
func (a Archetype) Difference(other Archetype) Archetype {
	b := a.clone()
	n := min(len(b), len(other.bits))
	for i := range n {
		b[i] &^= other.bits[i]
	}
	return Archetype{bits: trim(b)}
}

// Apply returns add ∪ (a \ remove), the archetype reached by applying a layout's add and
// remove masks in one step.
func (a Archetype) Apply(add, remove Archetype) Archetype {
	return a.Difference(remove).Union(add)
}

// Equal reports whether a and other hold the same types.
func (a Archetype) Equal(other Archetype) bool {
	if len(a.bits) != len(other.bits) {
		return false
	}
	for i, w := range a.bits {
		if other.bits[i] != w {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the archetype holds no types.
func (a Archetype) IsEmpty() bool {
	return len(a.bits) == 0
}

// IsDisabled reports whether the Disabled tag is present.
func (a Archetype) IsDisabled() bool {
	return a.Contains(DisabledID)
}

// Len returns the number of types in the archetype.
func (a Archetype) Len() int {
	return a.bits.Count()
}

// Words returns the canonical word sequence. The slice must not be modified.
func (a Archetype) Words() []uint64 {
	return a.bits
}

// Types returns the ids of the archetype in ascending order.
func (a Archetype) Types() []ComponentID {
	ids := make([]ComponentID, 0, a.Len())
	a.bits.Range(func(x uint32) {
		ids = append(ids, ComponentID(x))
	})
	return ids
}

func (a Archetype) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, id := range a.Types() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	sb.WriteByte('}')
	return sb.String()
}

func (a Archetype) clone() bitmap.Bitmap {
	if len(a.bits) == 0 {
		return nil
	}
	b := make(bitmap.Bitmap, len(a.bits))
	copy(b, a.bits)
	return b
}

// trim drops every trailing zero word. Removing the highest types can zero several words at
// once, and all of them must go for the sequence to stay canonical.
func trim(b bitmap.Bitmap) bitmap.Bitmap {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	if n == 0 {
		return nil
	}
	return b[:n:n]
}
