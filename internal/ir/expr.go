package ir

import (
	"fmt"

	"mastermindc/internal/ast"
	"mastermindc/internal/types"
)

// resolveTarget resolves a variable target's base identifier plus its
// field/index subscript chain to a single CellReference and the
// ValueType of whatever it ends up pointing at.
func resolveTarget(s *Scope, t *ast.VariableTarget) (CellReference, types.ValueType, error) {
	vb, _, ok := s.lookupVar(t.Name)
	if !ok {
		return CellReference{}, nil, fmt.Errorf("undefined variable %q", t.Name)
	}
	id, base, _ := backingRef(vb.Mem)
	offset := base
	cur := vb.Type

	for _, sub := range t.Subscripts {
		switch sv := sub.(type) {
		case ast.FieldSubscript:
			st, ok := cur.(types.StructType)
			if !ok {
				return CellReference{}, nil, fmt.Errorf("%q is not a struct", t.Name)
			}
			f, ok := st.Field(sv.Name)
			if !ok {
				return CellReference{}, nil, fmt.Errorf("struct %q has no field %q", st.Name, sv.Name)
			}
			offset += f.Offset
			cur = f.Type
		case ast.IndexSubscript:
			at, ok := cur.(types.ArrayType)
			if !ok {
				return CellReference{}, nil, fmt.Errorf("%q is not an array", t.Name)
			}
			if sv.Index < 0 || int(sv.Index) >= at.Len {
				return CellReference{}, nil, fmt.Errorf("index %d out of bounds for %q (length %d)", sv.Index, t.Name, at.Len)
			}
			offset += int(sv.Index) * at.Elem.Size()
			cur = at.Elem
		default:
			return CellReference{}, nil, fmt.Errorf("unsupported subscript %T", sub)
		}
	}

	return CellReference{MemoryID: id, Index: offset}, cur, nil
}

// flattenLeaves expands a (possibly composite) type rooted at base
// into the list of single-cell references it occupies, in ascending
// offset order.
func flattenLeaves(vt types.ValueType, base CellReference) []CellReference {
	switch v := vt.(type) {
	case types.CellType:
		return []CellReference{base}
	case types.ArrayType:
		out := make([]CellReference, 0, v.Len)
		for i := 0; i < v.Len; i++ {
			out = append(out, flattenLeaves(v.Elem, CellReference{MemoryID: base.MemoryID, Index: base.Index + i*v.Elem.Size()})...)
		}
		return out
	case types.StructType:
		var out []CellReference
		for _, f := range v.Fields {
			out = append(out, flattenLeaves(f.Type, CellReference{MemoryID: base.MemoryID, Index: base.Index + f.Offset})...)
		}
		return out
	default:
		return nil
	}
}

// resolveCells resolves a target to the list of cells it addresses: a
// single cell normally, or every leaf cell of a composite type when
// the target is spread with a leading "*".
func resolveCells(s *Scope, t *ast.VariableTarget) ([]CellReference, error) {
	ref, vt, err := resolveTarget(s, t)
	if err != nil {
		return nil, err
	}
	if t.Spread {
		return flattenLeaves(vt, ref), nil
	}
	if _, ok := vt.(types.CellType); !ok {
		return nil, fmt.Errorf("%q is not a single cell (spread it with a leading '*' to use every element)", t.Name)
	}
	return []CellReference{ref}, nil
}

// flatten reduces a scalar expression to an immediate plus a map of
// net per-source-cell coefficients, per the "flatten expression into a
// cell" rule.
func flatten(s *Scope, expr ast.Expression) (int8, map[CellReference]int, error) {
	se, ok := expr.(*ast.SumExpression)
	if !ok {
		return 0, nil, fmt.Errorf("expression cannot be reduced to a single cell value")
	}
	var imm int8
	coeffs := make(map[CellReference]int)
	for _, term := range se.Terms {
		if err := accumulateSummand(s, term, &imm, coeffs); err != nil {
			return 0, nil, err
		}
	}
	return imm, coeffs, nil
}

func accumulateSummand(s *Scope, sm ast.Summand, imm *int8, coeffs map[CellReference]int) error {
	sign := 1
	if sm.Negative {
		sign = -1
	}
	switch t := sm.Term.(type) {
	case *ast.NumberLiteral:
		*imm += int8(sign * int(t.Value))
	case *ast.CharLiteral:
		*imm += int8(sign * int(t.Value))
	case *ast.BoolLiteral:
		v := 0
		if t.Value {
			v = 1
		}
		*imm += int8(sign * v)
	case *ast.ParenTerm:
		innerSum, ok := t.Inner.(*ast.SumExpression)
		if !ok {
			return fmt.Errorf("parenthesised array/string literals cannot appear inside a sum")
		}
		for _, inner := range innerSum.Terms {
			flipped := inner
			if sign < 0 {
				flipped.Negative = !inner.Negative
			}
			if err := accumulateSummand(s, flipped, imm, coeffs); err != nil {
				return err
			}
		}
	case *ast.TargetTerm:
		ref, vt, err := resolveTarget(s, t.Target)
		if err != nil {
			return err
		}
		if _, ok := vt.(types.CellType); !ok {
			return fmt.Errorf("%q is not a single cell and cannot be used in an expression", t.Target.Name)
		}
		coeffs[ref] += sign
	default:
		return fmt.Errorf("unsupported summand %T", t)
	}
	return nil
}

// copyWithCoefficient emits the classic two-loop, one-temp-cell
// pattern that adds k*value(source) to target without consuming
// source. k == 0 is a no-op; source and target must be distinct cells.
func (b *Builder[C]) copyWithCoefficient(s *Scope, source, target CellReference, k int) error {
	if k == 0 {
		return nil
	}
	if source == target {
		return fmt.Errorf("internal error: copy-with-coefficient source and target must differ")
	}
	uID, u := b.allocTempCell(s)

	s.emit(OpenLoop{Ref: source})
	s.emit(AddToCell{Ref: target, Imm: int8(k)})
	s.emit(AddToCell{Ref: u, Imm: 1})
	s.emit(AddToCell{Ref: source, Imm: -1})
	s.emit(CloseLoop{Ref: source})

	s.emit(OpenLoop{Ref: u})
	s.emit(AddToCell{Ref: source, Imm: 1})
	s.emit(AddToCell{Ref: u, Imm: -1})
	s.emit(CloseLoop{Ref: u})

	s.emit(Free{ID: uID})
	return nil
}
