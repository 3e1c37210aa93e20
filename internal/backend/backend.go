package backend

import (
	"fmt"

	"mastermindc/internal/constopt"
	"mastermindc/internal/ir"
	"mastermindc/internal/tape"
)

// Config mirrors the pipeline's optimisation switches that bear on the
// IR-to-BF walk, including whether AddToCell goes through the constants
// optimiser; the peephole pass runs on this package's output and is not
// configured here.
type Config struct {
	OptimiseConstants        bool
	OptimiseCellClearing     bool
	OptimiseUnreachableLoops bool
}

// allocRecord is one live allocation's bookkeeping: its physical base
// cell, size, the loop depth it was allocated at, and a per-cell known
// value (nil meaning unknown).
type allocRecord[C comparable] struct {
	base      C
	size      int
	loopDepth int
	known     []*int8
}

// Backend compiles an ir.Instruction stream into BF opcodes for one tape
// coordinate type C. Every Run call starts from a fresh allocator, since
// the same Backend is reused to compile independently-addressed embedded
// blocks as well as the top-level program.
type Backend[C comparable] struct {
	newAllocator func() tapeAllocator[C]
	origin       C
	offset       func(c C, n int) C
	move         func(from, to C) []tape.Opcode
	distance     func(a, b C) int
	cfg          Config
}

// New1D builds a backend targeting the 1-D tape.
func New1D(cfg Config) *Backend[tape.Coord1D] {
	return &Backend[tape.Coord1D]{
		newAllocator: func() tapeAllocator[tape.Coord1D] { return newAllocator1D() },
		origin:       tape.Coord1D{},
		offset:       func(c tape.Coord1D, n int) tape.Coord1D { return c.Offset(n) },
		move:         tape.Move1D,
		distance:     func(a, b tape.Coord1D) int { return absInt(a.X - b.X) },
		cfg:          cfg,
	}
}

// New2D builds a backend targeting the 2-D tape, searching new allocations
// in the given placement order.
func New2D(cfg Config, policy tape.AllocPolicy) *Backend[tape.Coord2D] {
	return &Backend[tape.Coord2D]{
		newAllocator: func() tapeAllocator[tape.Coord2D] { return tape.NewAllocator2D(policy) },
		origin:       tape.Coord2D{},
		offset:       func(c tape.Coord2D, n int) tape.Coord2D { return c.Offset(n) },
		move:         tape.Move2D,
		distance:     func(a, b tape.Coord2D) int { return absInt(a.X-b.X) + absInt(a.Y-b.Y) },
		cfg:          cfg,
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func absInt8(n int8) int {
	if n < 0 {
		return -int(n)
	}
	return int(n)
}

// Run walks instrs to completion and returns the emitted opcodes. When
// returnTo is non-nil the head is moved there as a final step, which
// embedded inline-bf compilations use to restore the splice point.
func (bk *Backend[C]) Run(instrs []ir.Instruction, returnTo *C) ([]tape.Opcode, error) {
	alloc := bk.newAllocator()
	allocs := make(map[ir.MemoryId]*allocRecord[C])
	var loopStack []C
	depth := 0
	var skippedDepth *int
	b := tape.NewBFBuilder(bk.origin, bk.move)

	for _, instr := range instrs {
		if skippedDepth != nil {
			switch instr.(type) {
			case ir.OpenLoop:
				depth++
			case ir.CloseLoop:
				depth--
				if depth == *skippedDepth {
					skippedDepth = nil
				}
			}
			continue
		}

		switch v := instr.(type) {
		case ir.Allocate[C]:
			if err := bk.runAllocate(alloc, allocs, depth, v); err != nil {
				return nil, err
			}

		case ir.Free:
			rec, ok := allocs[v.ID]
			if !ok {
				return nil, fmt.Errorf("backend: free of unknown memory id %d", v.ID)
			}
			for _, kv := range rec.known {
				if kv == nil || *kv != 0 {
					return nil, fmt.Errorf("backend: free of memory id %d with unknown or non-zero value", v.ID)
				}
			}
			if err := alloc.Free(rec.base, rec.size); err != nil {
				return nil, err
			}
			delete(allocs, v.ID)

		case ir.OpenLoop:
			cell, rec, idx, err := bk.cellAt(allocs, v.Ref)
			if err != nil {
				return nil, err
			}
			kv := rec.known[idx]
			open := true
			if kv != nil && *kv == 0 && rec.loopDepth == depth && bk.cfg.OptimiseUnreachableLoops {
				open = false
				d := depth
				skippedDepth = &d
				depth++
			}
			if open {
				b.MoveToCell(cell)
				b.Push(tape.OpenLoop)
				loopStack = append(loopStack, cell)
				depth++
			}

		case ir.CloseLoop:
			cell, rec, idx, err := bk.cellAt(allocs, v.Ref)
			if err != nil {
				return nil, err
			}
			if len(loopStack) == 0 {
				return nil, fmt.Errorf("backend: close of an unopened loop")
			}
			top := loopStack[len(loopStack)-1]
			loopStack = loopStack[:len(loopStack)-1]
			if top != cell {
				return nil, fmt.Errorf("backend: unbalanced loop close")
			}
			depth--
			b.MoveToCell(cell)
			b.Push(tape.CloseLoop)
			if depth == rec.loopDepth {
				zero := int8(0)
				rec.known[idx] = &zero
			}

		case ir.AddToCell:
			cell, rec, idx, err := bk.cellAt(allocs, v.Ref)
			if err != nil {
				return nil, err
			}
			if bk.cfg.OptimiseConstants {
				temp := alloc.AllocateTempCell(cell)
				if err := constopt.CalculateOptimalAddition(b, v.Imm, cell, temp, bk.distance(cell, temp)); err != nil {
					return nil, err
				}
				if err := alloc.Free(temp, 1); err != nil {
					return nil, err
				}
			} else {
				b.MoveToCell(cell)
				b.AddToCurrentCell(int(v.Imm))
			}
			if v.Imm != 0 {
				if depth != rec.loopDepth {
					rec.known[idx] = nil
				} else if rec.known[idx] != nil {
					nv := *rec.known[idx] + v.Imm
					rec.known[idx] = &nv
				}
			}

		case ir.InputToCell:
			cell, rec, idx, err := bk.cellAt(allocs, v.Ref)
			if err != nil {
				return nil, err
			}
			b.MoveToCell(cell)
			b.Push(tape.Input)
			rec.known[idx] = nil

		case ir.OutputCell:
			cell, _, _, err := bk.cellAt(allocs, v.Ref)
			if err != nil {
				return nil, err
			}
			b.MoveToCell(cell)
			b.Push(tape.Output)

		case ir.ClearCell:
			cell, rec, idx, err := bk.cellAt(allocs, v.Ref)
			if err != nil {
				return nil, err
			}
			b.MoveToCell(cell)
			clear := true
			if kv := rec.known[idx]; kv != nil && bk.cfg.OptimiseCellClearing && rec.loopDepth == depth && absInt8(*kv) < 4 {
				b.AddToCurrentCell(-int(*kv))
				clear = false
			}
			if clear {
				b.Push(tape.Clear)
			}
			if rec.loopDepth == depth {
				zero := int8(0)
				rec.known[idx] = &zero
			} else {
				rec.known[idx] = nil
			}

		case ir.AssertCellValue:
			_, rec, idx, err := bk.cellAt(allocs, v.Ref)
			if err != nil {
				return nil, err
			}
			if rec.loopDepth == depth || v.Value == nil {
				rec.known[idx] = v.Value
			} else {
				return nil, fmt.Errorf("backend: cannot assert cell value outside the loop depth it was allocated at")
			}

		case ir.InsertBrainfuckAtCell:
			switch loc := v.Location.(type) {
			case ir.Unspecified:
			case ir.FixedCell[C]:
				b.MoveToCell(loc.Coord)
			case ir.MemoryCellLoc:
				cell, _, _, err := bk.cellAt(allocs, loc.Ref)
				if err != nil {
					return nil, err
				}
				b.MoveToCell(cell)
			default:
				return nil, fmt.Errorf("backend: unsupported cell location %T", loc)
			}
			b.Extend(v.Ops)

		default:
			return nil, fmt.Errorf("backend: unsupported instruction %T", instr)
		}
	}

	if returnTo != nil {
		b.MoveToCell(*returnTo)
	}
	return b.Ops, nil
}

func (bk *Backend[C]) runAllocate(alloc tapeAllocator[C], allocs map[ir.MemoryId]*allocRecord[C], depth int, v ir.Allocate[C]) error {
	id, size, err := memSize(v.Mem)
	if err != nil {
		return err
	}
	if _, exists := allocs[id]; exists {
		return fmt.Errorf("backend: attempted to reallocate memory id %d", id)
	}

	var base C
	if v.Fixed != nil {
		if err := alloc.AllocateAt(*v.Fixed, size); err != nil {
			return err
		}
		base = *v.Fixed
	} else {
		base = alloc.Allocate(size, bk.origin)
	}

	known := make([]*int8, size)
	for i := range known {
		zero := int8(0)
		known[i] = &zero
	}
	allocs[id] = &allocRecord[C]{base: base, size: size, loopDepth: depth, known: known}
	return nil
}

// memSize returns the backing memory id and cell count of a freshly
// allocated Memory. Mapped* variants never appear here: call-argument
// frames install them directly on the callee scope without an
// Allocate instruction.
func memSize(m ir.Memory) (ir.MemoryId, int, error) {
	switch v := m.(type) {
	case ir.Cell:
		return v.ID, 1, nil
	case ir.Cells:
		return v.ID, v.Len, nil
	default:
		return 0, 0, fmt.Errorf("backend: allocate instruction carries unexpected memory kind %T", m)
	}
}

// cellAt resolves a CellReference to its physical coordinate and a
// pointer into its allocation's bookkeeping.
func (bk *Backend[C]) cellAt(allocs map[ir.MemoryId]*allocRecord[C], ref ir.CellReference) (C, *allocRecord[C], int, error) {
	rec, ok := allocs[ref.MemoryID]
	if !ok {
		var zero C
		return zero, nil, 0, fmt.Errorf("backend: reference to unknown memory id %d", ref.MemoryID)
	}
	if ref.Index < 0 || ref.Index >= rec.size {
		var zero C
		return zero, nil, 0, fmt.Errorf("backend: index %d out of bounds for memory id %d (size %d)", ref.Index, ref.MemoryID, rec.size)
	}
	return bk.offset(rec.base, ref.Index), rec, ref.Index, nil
}
