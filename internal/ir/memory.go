// Package ir lowers a parsed clause list into a flat, backend-agnostic
// instruction stream: allocations, loops and per-cell mutations keyed by
// MemoryId rather than by variable name.
package ir

import "fmt"

// MemoryId uniquely identifies one allocation for the lifetime of a
// compilation. IDs are pool-global across nested scopes.
type MemoryId int

// Memory describes what a variable name is bound to: either memory the
// current scope owns, or a mapped view onto memory a caller scope owns
// (used for call-argument passing, which never copies).
type Memory interface {
	isMemory()
	fmt.Stringer
}

// Cell is a single owned cell.
type Cell struct{ ID MemoryId }

func (Cell) isMemory()        {}
func (c Cell) String() string { return fmt.Sprintf("cell(%d)", c.ID) }

// Cells is an owned contiguous run of Len cells.
type Cells struct {
	ID  MemoryId
	Len int
}

func (Cells) isMemory()        {}
func (c Cells) String() string { return fmt.Sprintf("cells(%d,%d)", c.ID, c.Len) }

// MappedCell is a single-cell view onto index Index of a caller's
// backing memory ID.
type MappedCell struct {
	ID    MemoryId
	Index int
}

func (MappedCell) isMemory()        {}
func (m MappedCell) String() string { return fmt.Sprintf("mapped_cell(%d,%d)", m.ID, m.Index) }

// MappedCells is a contiguous view of Len cells starting at Start of a
// caller's backing memory ID.
type MappedCells struct {
	ID         MemoryId
	Start, Len int
}

func (MappedCells) isMemory() {}
func (m MappedCells) String() string {
	return fmt.Sprintf("mapped_cells(%d,%d,%d)", m.ID, m.Start, m.Len)
}

// backingRef resolves a Memory value to the (MemoryId, base index, size)
// it physically occupies, collapsing the Mapped* indirection into a
// plain offset within the referenced ID.
func backingRef(m Memory) (id MemoryId, base, size int) {
	switch v := m.(type) {
	case Cell:
		return v.ID, 0, 1
	case Cells:
		return v.ID, 0, v.Len
	case MappedCell:
		return v.ID, v.Index, 1
	case MappedCells:
		return v.ID, v.Start, v.Len
	default:
		panic(fmt.Sprintf("ir: unknown memory kind %T", m))
	}
}

// CellReference is a (memory_id, index) pair, resolved to a physical
// cell at backend time.
type CellReference struct {
	MemoryID MemoryId
	Index    int
}

func (r CellReference) String() string { return fmt.Sprintf("%d[%d]", r.MemoryID, r.Index) }
