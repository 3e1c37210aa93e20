package ir

import (
	"fmt"

	"mastermindc/internal/ast"
	"mastermindc/internal/types"
)

// lowerCall resolves a function call to its matching overload, maps
// each argument's memory into the callee's frame (argument passing is
// a memory view, not a copy), and splices the lowered body. Call
// frames always clean up: teardown already skips mapped memories, so
// this is safe even for arguments passed by reference.
func (b *Builder[C]) lowerCall(s *Scope, call *ast.CallExpr) error {
	argRefs := make([]CellReference, len(call.Args))
	argTypes := make([]types.ValueType, len(call.Args))
	for i, a := range call.Args {
		ref, vt, err := resolveTarget(s, a)
		if err != nil {
			return err
		}
		argRefs[i] = ref
		argTypes[i] = vt
	}

	fb, ok := s.lookupFunc(call.Name, argTypes)
	if !ok {
		return fmt.Errorf("no function %q matches the given argument types", call.Name)
	}

	preBind := func(callee *Scope) error {
		// The callee scope hangs off the definition scope, so start its
		// IDs past every allocation live at the call site.
		callee.allocCount = int(s.nextMemoryId() - fb.DefScope.nextMemoryId())
		for i, p := range fb.Def.Params {
			size := argTypes[i].Size()
			var mem Memory
			if size == 1 {
				mem = MappedCell{ID: argRefs[i].MemoryID, Index: argRefs[i].Index}
			} else {
				mem = MappedCells{ID: argRefs[i].MemoryID, Start: argRefs[i].Index, Len: size}
			}
			if err := callee.defineVar(p.Name, argTypes[i], mem); err != nil {
				return err
			}
		}
		return nil
	}

	inner, err := b.build(fb.DefScope, true, preBind, fb.Def.Body, true)
	if err != nil {
		return err
	}
	s.Instructions = append(s.Instructions, inner.Instructions...)
	return nil
}
