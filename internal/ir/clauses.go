package ir

import (
	"fmt"

	"mastermindc/internal/ast"
	"mastermindc/internal/types"
)

func (b *Builder[C]) lowerDeclare(s *Scope, name string, typeExpr ast.TypeExpr, location ast.LocationSpecifier, value ast.Expression) error {
	vt, err := resolveType(s, typeExpr)
	if err != nil {
		return err
	}
	size := vt.Size()
	id := s.nextMemoryId()

	var mem Memory
	if size == 1 {
		mem = Cell{ID: id}
	} else {
		mem = Cells{ID: id, Len: size}
	}

	var fixed *C
	if location != nil {
		lookupFixed := func(n string) (C, bool) {
			vb, _, ok := s.lookupVar(n)
			if !ok || !vb.hasFixed {
				var zero C
				return zero, false
			}
			c, ok2 := vb.fixedKey.(C)
			return c, ok2
		}
		coord, err := b.locate(location, lookupFixed)
		if err != nil {
			return err
		}
		fixed = &coord
	}

	s.emit(Allocate[C]{Mem: mem, Fixed: fixed})
	s.countAllocation()
	if err := s.defineVar(name, vt, mem); err != nil {
		return err
	}
	if fixed != nil {
		vb := s.vars[name]
		vb.hasFixed = true
		vb.fixedKey = *fixed
		s.vars[name] = vb
	}

	if value == nil {
		return nil
	}
	root := CellReference{MemoryID: id, Index: 0}
	return b.lowerFlattenInto(s, root, value, vt)
}

// lowerFlattenInto writes expr's value into the cell(s) rooted at ref,
// whose type is elemType: a scalar SumExpression for a cell, or an
// array/string literal for an array type (recursing element-wise).
func (b *Builder[C]) lowerFlattenInto(s *Scope, ref CellReference, expr ast.Expression, elemType types.ValueType) error {
	switch v := expr.(type) {
	case *ast.ArrayLiteralExpression:
		at, ok := elemType.(types.ArrayType)
		if !ok {
			return fmt.Errorf("array literal used where a scalar value is expected")
		}
		if len(v.Elements) != at.Len {
			return fmt.Errorf("array literal has %d elements, expected %d", len(v.Elements), at.Len)
		}
		for i, e := range v.Elements {
			leaf := CellReference{MemoryID: ref.MemoryID, Index: ref.Index + i*at.Elem.Size()}
			if err := b.lowerFlattenInto(s, leaf, e, at.Elem); err != nil {
				return err
			}
		}
		return nil
	case *ast.StringLiteralExpression:
		at, ok := elemType.(types.ArrayType)
		if !ok {
			return fmt.Errorf("string literal used where a scalar value is expected")
		}
		bytes := []byte(v.Value)
		if len(bytes) != at.Len {
			return fmt.Errorf("string literal has %d bytes, expected %d", len(bytes), at.Len)
		}
		for i, ch := range bytes {
			s.emit(AddToCell{Ref: CellReference{MemoryID: ref.MemoryID, Index: ref.Index + i}, Imm: int8(ch)})
		}
		return nil
	default:
		if _, ok := elemType.(types.CellType); !ok {
			return fmt.Errorf("scalar expression assigned to a non-cell value")
		}
		imm, coeffs, err := flatten(s, expr)
		if err != nil {
			return err
		}
		s.emit(AddToCell{Ref: ref, Imm: imm})
		for srcRef, k := range coeffs {
			if err := b.copyWithCoefficient(s, srcRef, ref, k); err != nil {
				return err
			}
		}
		return nil
	}
}

func (b *Builder[C]) lowerAssign(s *Scope, c *ast.AssignVariable) error {
	if c.Target.Spread {
		return fmt.Errorf("spread assignment is not supported")
	}
	ref, vt, err := resolveTarget(s, c.Target)
	if err != nil {
		return err
	}
	if _, ok := vt.(types.CellType); !ok {
		return fmt.Errorf("assignment target must be a single cell")
	}

	imm, coeffs, err := flatten(s, c.Value)
	if err != nil {
		return err
	}

	selfCoeff, hasSelf := coeffs[ref]
	if hasSelf {
		delete(coeffs, ref)
	}

	var selfTempID MemoryId
	var selfTemp CellReference
	if hasSelf {
		selfTempID, selfTemp = b.allocTempCell(s)
		if err := b.copyWithCoefficient(s, ref, selfTemp, 1); err != nil {
			return err
		}
	}

	if !c.AddOnly {
		s.emit(ClearCell{Ref: ref})
	}
	s.emit(AddToCell{Ref: ref, Imm: imm})
	for srcRef, k := range coeffs {
		if err := b.copyWithCoefficient(s, srcRef, ref, k); err != nil {
			return err
		}
	}
	if hasSelf {
		if err := b.copyWithCoefficient(s, selfTemp, ref, selfCoeff); err != nil {
			return err
		}
		s.emit(ClearCell{Ref: selfTemp})
		s.emit(Free{ID: selfTempID})
	}
	return nil
}

func (b *Builder[C]) lowerAssert(s *Scope, c *ast.AssertVariable) error {
	if c.Target.Spread {
		return fmt.Errorf("spread assertion is not supported")
	}
	ref, vt, err := resolveTarget(s, c.Target)
	if err != nil {
		return err
	}
	if _, ok := vt.(types.CellType); !ok {
		return fmt.Errorf("assertion target must be a single cell")
	}
	if c.ExpectUnknown {
		s.emit(AssertCellValue{Ref: ref})
		return nil
	}
	v := int8(*c.Expected)
	s.emit(AssertCellValue{Ref: ref, Value: &v})
	return nil
}

func (b *Builder[C]) lowerInput(s *Scope, c *ast.InputVariable) error {
	refs, err := resolveCells(s, c.Target)
	if err != nil {
		return err
	}
	for _, r := range refs {
		s.emit(InputToCell{Ref: r})
	}
	return nil
}

func (b *Builder[C]) lowerOutputVariable(s *Scope, c *ast.OutputVariable) error {
	refs, err := resolveCells(s, c.Target)
	if err != nil {
		return err
	}
	for _, r := range refs {
		s.emit(OutputCell{Ref: r})
	}
	return nil
}

// lowerOutputValue outputs a non-variable expression. A string literal
// is delta-encoded byte to byte and cleared once at the end; a general
// sum outputs each signed term as its own byte, clearing between each.
func (b *Builder[C]) lowerOutputValue(s *Scope, c *ast.OutputValue) error {
	tempID, temp := b.allocTempCell(s)

	switch v := c.Value.(type) {
	case *ast.StringLiteralExpression:
		prev := byte(0)
		for _, ch := range []byte(v.Value) {
			s.emit(AddToCell{Ref: temp, Imm: int8(ch - prev)})
			s.emit(OutputCell{Ref: temp})
			prev = ch
		}
		s.emit(ClearCell{Ref: temp})
	case *ast.SumExpression:
		for _, term := range v.Terms {
			var imm int8
			coeffs := make(map[CellReference]int)
			if err := accumulateSummand(s, term, &imm, coeffs); err != nil {
				return err
			}
			s.emit(AddToCell{Ref: temp, Imm: imm})
			for srcRef, k := range coeffs {
				if err := b.copyWithCoefficient(s, srcRef, temp, k); err != nil {
					return err
				}
			}
			s.emit(OutputCell{Ref: temp})
			s.emit(ClearCell{Ref: temp})
		}
	default:
		return fmt.Errorf("unsupported output expression %T", c.Value)
	}

	s.emit(Free{ID: tempID})
	return nil
}

func (b *Builder[C]) lowerWhile(s *Scope, c *ast.WhileLoop) error {
	ref, vt, err := resolveTarget(s, c.Cond)
	if err != nil {
		return err
	}
	if _, ok := vt.(types.CellType); !ok {
		return fmt.Errorf("while condition must be a single cell")
	}
	s.emit(OpenLoop{Ref: ref})
	if err := b.lowerNestedBlock(s, c.Body); err != nil {
		return err
	}
	s.emit(CloseLoop{Ref: ref})
	return nil
}

func (b *Builder[C]) lowerDrain(s *Scope, c *ast.DrainLoop) error {
	var sourceRef CellReference
	var tempSourceID *MemoryId

	if c.SourceVar != nil {
		ref, vt, err := resolveTarget(s, c.SourceVar)
		if err != nil {
			return err
		}
		if _, ok := vt.(types.CellType); !ok {
			return fmt.Errorf("drain source must be a single cell")
		}
		sourceRef = ref
		if c.Copy {
			id, copyRef := b.allocTempCell(s)
			if err := b.copyWithCoefficient(s, ref, copyRef, 1); err != nil {
				return err
			}
			sourceRef = copyRef
			tempSourceID = &id
		}
	} else {
		id, ref := b.allocTempCell(s)
		if err := b.lowerFlattenInto(s, ref, c.SourceExpr, types.CellType{}); err != nil {
			return err
		}
		sourceRef = ref
		tempSourceID = &id
	}

	targetRefs := make([][]CellReference, len(c.Targets))
	for i, tgt := range c.Targets {
		refs, err := resolveCells(s, tgt)
		if err != nil {
			return err
		}
		targetRefs[i] = refs
	}

	s.emit(OpenLoop{Ref: sourceRef})
	if err := b.lowerNestedBlock(s, c.Body); err != nil {
		return err
	}
	for _, refs := range targetRefs {
		for _, r := range refs {
			s.emit(AddToCell{Ref: r, Imm: 1})
		}
	}
	s.emit(AddToCell{Ref: sourceRef, Imm: -1})
	s.emit(CloseLoop{Ref: sourceRef})

	if tempSourceID != nil {
		s.emit(Free{ID: *tempSourceID})
	}
	return nil
}

// lowerIf realises if/not/else with a single code path: a negated
// condition is implemented by swapping the then/else bodies, which
// makes the "else" machinery (always needed to run a body on the
// zero-case) unconditionally active for "if not" regardless of
// whether the source had an explicit else.
func (b *Builder[C]) lowerIf(s *Scope, c *ast.IfStatement) error {
	condRef, vt, err := resolveTarget(s, c.Cond)
	if err != nil {
		return err
	}
	if _, ok := vt.(types.CellType); !ok {
		return fmt.Errorf("if condition must be a single cell")
	}

	thenBody, elseBody := c.Then, c.Else
	if c.Negate {
		thenBody, elseBody = c.Else, c.Then
	}
	hasElse := elseBody != nil

	tID, t := b.allocTempCell(s)
	if err := b.copyWithCoefficient(s, condRef, t, 1); err != nil {
		return err
	}

	var elseID MemoryId
	var elseFlag CellReference
	if hasElse {
		elseID, elseFlag = b.allocTempCell(s)
		s.emit(AddToCell{Ref: elseFlag, Imm: 1})
	}

	s.emit(OpenLoop{Ref: t})
	s.emit(ClearCell{Ref: t})
	if hasElse {
		s.emit(ClearCell{Ref: elseFlag})
	}
	if thenBody != nil {
		if err := b.lowerNestedBlock(s, thenBody); err != nil {
			return err
		}
	}
	s.emit(CloseLoop{Ref: t})
	s.emit(Free{ID: tID})

	if hasElse {
		s.emit(OpenLoop{Ref: elseFlag})
		s.emit(ClearCell{Ref: elseFlag})
		if err := b.lowerNestedBlock(s, elseBody); err != nil {
			return err
		}
		s.emit(CloseLoop{Ref: elseFlag})
		s.emit(Free{ID: elseID})
	}
	return nil
}
