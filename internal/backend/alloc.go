// Package backend walks a flat ir.Instruction stream and emits BF opcodes,
// owning physical tape allocation, known-value constant folding, and loop
// balance checking. It is generic over the tape coordinate type so the
// same walker serves both the 1-D and 2-D pipelines.
package backend

import "mastermindc/internal/tape"

// tapeAllocator is the subset of tape.Allocator1D/Allocator2D's method set
// the backend needs, expressed generically over the coordinate type so
// both can be driven by the same walker.
type tapeAllocator[C comparable] interface {
	Allocate(size int, preferred C) C
	AllocateAt(base C, size int) error
	AllocateTempCell(requested C) C
	Free(base C, size int) error
}

// allocator1D adapts tape.Allocator1D (which speaks in plain ints) to the
// tapeAllocator[tape.Coord1D] shape the backend walker expects.
type allocator1D struct{ a *tape.Allocator1D }

func newAllocator1D() *allocator1D { return &allocator1D{a: tape.NewAllocator1D()} }

func (w *allocator1D) Allocate(size int, preferred tape.Coord1D) tape.Coord1D {
	return w.a.Allocate(size, preferred.X)
}

func (w *allocator1D) AllocateAt(base tape.Coord1D, size int) error {
	return w.a.AllocateAt(base, size)
}

func (w *allocator1D) AllocateTempCell(requested tape.Coord1D) tape.Coord1D {
	return w.a.AllocateTempCell(requested.X)
}

func (w *allocator1D) Free(base tape.Coord1D, size int) error {
	return w.a.Free(base, size)
}

// tape.Allocator2D already speaks in Coord2D and satisfies
// tapeAllocator[tape.Coord2D] directly, no adapter needed.
