package ir

import (
	"fmt"

	"mastermindc/internal/ast"
	"mastermindc/internal/tape"
	"mastermindc/internal/types"
)

// LocateFunc converts a parsed location specifier into a concrete
// coordinate. lookupFixed resolves a variable name to the fixed
// coordinate it was itself declared at, for "@othervar" specifiers;
// it reports false if that variable was never given a fixed location.
type LocateFunc[C comparable] func(loc ast.LocationSpecifier, lookupFixed func(name string) (C, bool)) (C, error)

// Builder lowers AST clauses into IR for one tape dimensionality C.
// compileEmbedded runs the full IR+backend pipeline over a nested
// types-only scope (used for inline-bf embedded blocks, which must be
// spliced in as already-concrete opcodes); it is supplied by the
// top-level compiler package, which is the only place both this
// package and internal/backend are imported together.
type Builder[C comparable] struct {
	locate          LocateFunc[C]
	compileEmbedded func(*Scope) ([]tape.Opcode, error)
}

func NewBuilder[C comparable](locate LocateFunc[C], compileEmbedded func(*Scope) ([]tape.Opcode, error)) *Builder[C] {
	return &Builder[C]{locate: locate, compileEmbedded: compileEmbedded}
}

// Build lowers clauses into a fresh child scope of outer (nil for a
// compilation root), appending teardown (ClearCell+Free for every
// owned cell) when cleanUp is set.
func (b *Builder[C]) Build(clauses []ast.Clause, outer *Scope, cleanUp bool) (*Scope, error) {
	return b.build(outer, false, nil, clauses, cleanUp)
}

func (b *Builder[C]) build(outer *Scope, typesOnly bool, preBind func(*Scope) error, clauses []ast.Clause, cleanUp bool) (*Scope, error) {
	scope := newScope(outer, typesOnly)
	if preBind != nil {
		if err := preBind(scope); err != nil {
			return nil, err
		}
	}
	if err := b.hoistStructs(scope, clauses); err != nil {
		return nil, err
	}
	if err := b.hoistFunctions(scope, clauses); err != nil {
		return nil, err
	}
	for _, c := range clauses {
		switch c.(type) {
		case *ast.StructDefClause, *ast.FunctionDefClause:
			continue
		}
		if err := b.lowerClause(scope, c); err != nil {
			return nil, err
		}
	}
	if cleanUp {
		b.teardown(scope)
	}
	return scope, nil
}

func (b *Builder[C]) hoistStructs(s *Scope, clauses []ast.Clause) error {
	for _, c := range clauses {
		def, ok := c.(*ast.StructDefClause)
		if !ok {
			continue
		}
		if _, exists := s.structs[def.Def.Name]; exists {
			return fmt.Errorf("struct %q already defined in this scope", def.Def.Name)
		}
		fields := make([]types.FieldSpec, len(def.Def.Fields))
		for i, f := range def.Def.Fields {
			ft, err := resolveType(s, f.Type)
			if err != nil {
				return err
			}
			var offset *int
			if f.Offset != nil {
				o := int(*f.Offset)
				offset = &o
			}
			fields[i] = types.FieldSpec{Name: f.Name, Type: ft, Offset: offset}
		}
		layout, err := types.BuildStructLayout(def.Def.Name, fields)
		if err != nil {
			return fmt.Errorf("struct %q: %w", def.Def.Name, err)
		}
		s.structs[def.Def.Name] = layout
	}
	return nil
}

func (b *Builder[C]) hoistFunctions(s *Scope, clauses []ast.Clause) error {
	for _, c := range clauses {
		def, ok := c.(*ast.FunctionDefClause)
		if !ok {
			continue
		}
		paramTypes := make([]types.ValueType, len(def.Def.Params))
		for i, p := range def.Def.Params {
			pt, err := resolveType(s, p.Type)
			if err != nil {
				return err
			}
			paramTypes[i] = pt
		}
		for _, existing := range s.funcs {
			if existing.Def.Name == def.Def.Name && sameTypes(existing.ParamTypes, paramTypes) {
				return fmt.Errorf("function %q redefined with the same signature", def.Def.Name)
			}
		}
		s.funcs = append(s.funcs, funcBinding{Def: def.Def, ParamTypes: paramTypes, DefScope: s})
	}
	return nil
}

func resolveType(s *Scope, t ast.TypeExpr) (types.ValueType, error) {
	switch v := t.(type) {
	case *ast.CellType:
		return types.CellType{}, nil
	case *ast.ArrayType:
		elem, err := resolveType(s, v.Elem)
		if err != nil {
			return nil, err
		}
		return types.ArrayType{Len: int(v.Len), Elem: elem}, nil
	case *ast.StructType:
		st, ok := s.lookupStruct(v.Name)
		if !ok {
			return nil, fmt.Errorf("undefined struct %q", v.Name)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unsupported type expression %T", t)
	}
}

// teardown frees every cell the scope owns (mapped memories belong to
// a caller and are left alone).
func (b *Builder[C]) teardown(s *Scope) {
	for _, name := range s.declOrder {
		vb := s.vars[name]
		if isMapped(vb.Mem) {
			continue
		}
		id, base, _ := backingRef(vb.Mem)
		for _, leaf := range flattenLeaves(vb.Type, CellReference{MemoryID: id, Index: base}) {
			s.emit(ClearCell{Ref: leaf})
		}
		s.emit(Free{ID: id})
	}
}

func isMapped(m Memory) bool {
	switch m.(type) {
	case MappedCell, MappedCells:
		return true
	default:
		return false
	}
}

func (b *Builder[C]) lowerClause(s *Scope, c ast.Clause) error {
	switch v := c.(type) {
	case *ast.DeclareVariable:
		return b.lowerDeclare(s, v.Name, v.Type, v.Location, nil)
	case *ast.DefineVariable:
		return b.lowerDeclare(s, v.Name, v.Type, v.Location, v.Value)
	case *ast.AssignVariable:
		return b.lowerAssign(s, v)
	case *ast.AssertVariable:
		return b.lowerAssert(s, v)
	case *ast.InputVariable:
		return b.lowerInput(s, v)
	case *ast.OutputVariable:
		return b.lowerOutputVariable(s, v)
	case *ast.OutputValue:
		return b.lowerOutputValue(s, v)
	case *ast.WhileLoop:
		return b.lowerWhile(s, v)
	case *ast.DrainLoop:
		return b.lowerDrain(s, v)
	case *ast.IfStatement:
		return b.lowerIf(s, v)
	case *ast.Block:
		return b.lowerNestedBlock(s, v.Body)
	case *ast.InlineBF:
		return b.lowerInlineBF(s, v)
	case *ast.CallClause:
		return b.lowerCall(s, v.Call)
	default:
		return fmt.Errorf("unsupported clause %T", c)
	}
}

// lowerNestedBlock compiles body in a fresh child scope and splices
// its instructions (including its own teardown) at the current point.
func (b *Builder[C]) lowerNestedBlock(s *Scope, body []ast.Clause) error {
	inner, err := b.build(s, false, nil, body, true)
	if err != nil {
		return err
	}
	s.Instructions = append(s.Instructions, inner.Instructions...)
	return nil
}

func (b *Builder[C]) allocTempCell(s *Scope) (MemoryId, CellReference) {
	id := s.nextMemoryId()
	s.countAllocation()
	s.emit(Allocate[C]{Mem: Cell{ID: id}})
	return id, CellReference{MemoryID: id, Index: 0}
}
