package ir

import "mastermindc/internal/tape"

// Instruction is the IR alphabet the backend walks.
type Instruction interface{ isInstruction() }

// CellLocation pins an InsertBrainfuck splice (or, via Fixed on
// Allocate, a declaration) to a specific tape position.
type CellLocation interface{ isCellLocation() }

// Unspecified leaves the head wherever it currently is.
type Unspecified struct{}

func (Unspecified) isCellLocation() {}

// FixedCell pins to an absolute coordinate. C is Coord1D or Coord2D
// depending on which tape dimensionality the compilation targets.
type FixedCell[C comparable] struct{ Coord C }

func (FixedCell[C]) isCellLocation() {}

// MemoryCellLoc pins to wherever a resolved CellReference currently
// lives.
type MemoryCellLoc struct{ Ref CellReference }

func (MemoryCellLoc) isCellLocation() {}

// Allocate places a new Memory on the tape, optionally at a fixed
// coordinate.
type Allocate[C comparable] struct {
	Mem   Memory
	Fixed *C
}

func (Allocate[C]) isInstruction() {}

// Free releases an allocation. Legal only once every cell it owns is
// known (or assertable) to be zero.
type Free struct{ ID MemoryId }

func (Free) isInstruction() {}

type OpenLoop struct{ Ref CellReference }

func (OpenLoop) isInstruction() {}

type CloseLoop struct{ Ref CellReference }

func (CloseLoop) isInstruction() {}

// AddToCell adds Imm (mod 256) to the referenced cell.
type AddToCell struct {
	Ref CellReference
	Imm int8
}

func (AddToCell) isInstruction() {}

type InputToCell struct{ Ref CellReference }

func (InputToCell) isInstruction() {}

type OutputCell struct{ Ref CellReference }

func (OutputCell) isInstruction() {}

type ClearCell struct{ Ref CellReference }

func (ClearCell) isInstruction() {}

// AssertCellValue manually (re)writes the backend's known-value
// tracking for a cell, without emitting any opcode. Value nil means
// "unknown".
type AssertCellValue struct {
	Ref   CellReference
	Value *int8
}

func (AssertCellValue) isInstruction() {}

// InsertBrainfuckAtCell splices raw opcodes (already compiled, e.g.
// from an inline-bf block or a nested embedded scope) at Location.
type InsertBrainfuckAtCell struct {
	Ops      []tape.Opcode
	Location CellLocation
}

func (InsertBrainfuckAtCell) isInstruction() {}
