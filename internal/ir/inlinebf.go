package ir

import (
	"fmt"

	"mastermindc/internal/ast"
	"mastermindc/internal/tape"
)

// lowerInlineBF parses each raw segment's opcodes directly and compiles
// each embedded block segment in its own types-only nested scope
// (visible to outer functions/structs, blind to outer variables,
// exactly like a function body), concatenating everything into one
// InsertBrainfuckAtCell splice. Clobbered variables lose their known
// value afterwards since raw BF can leave them at anything.
func (b *Builder[C]) lowerInlineBF(s *Scope, c *ast.InlineBF) error {
	var ops []tape.Opcode
	for _, seg := range c.Segments {
		switch sv := seg.(type) {
		case ast.RawBFSegment:
			parsed, err := tape.Parse(sv.Ops)
			if err != nil {
				return err
			}
			ops = append(ops, parsed...)
		case ast.EmbeddedBlockSegment:
			inner, err := b.build(s, true, nil, sv.Body, true)
			if err != nil {
				return err
			}
			compiled, err := b.compileEmbedded(inner)
			if err != nil {
				return err
			}
			ops = append(ops, compiled...)
		default:
			return fmt.Errorf("unsupported inline-bf segment %T", seg)
		}
	}

	var location CellLocation = Unspecified{}
	if c.Location != nil {
		lookupFixed := func(n string) (C, bool) {
			vb, _, ok := s.lookupVar(n)
			if !ok || !vb.hasFixed {
				var zero C
				return zero, false
			}
			coord, ok2 := vb.fixedKey.(C)
			return coord, ok2
		}
		coord, err := b.locate(c.Location, lookupFixed)
		if err != nil {
			return err
		}
		location = FixedCell[C]{Coord: coord}
	}

	s.emit(InsertBrainfuckAtCell{Ops: ops, Location: location})

	for _, name := range c.Clobbers {
		vb, _, ok := s.lookupVar(name)
		if !ok {
			return fmt.Errorf("clobbers unknown variable %q", name)
		}
		id, base, _ := backingRef(vb.Mem)
		for _, leaf := range flattenLeaves(vb.Type, CellReference{MemoryID: id, Index: base}) {
			s.emit(AssertCellValue{Ref: leaf})
		}
	}
	return nil
}
