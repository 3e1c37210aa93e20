package ir

import (
	"fmt"

	"mastermindc/internal/ast"
	"mastermindc/internal/types"
)

// varBinding is what a variable name resolves to within a scope: its
// absolute type, its backing memory, and (when it was declared with a
// location specifier) the fixed coordinate it was pinned to, so a
// later `@othervar` location can reuse it.
type varBinding struct {
	Type     types.ValueType
	Mem      Memory
	hasFixed bool
	fixedKey any // the concrete C value, boxed; compared by the caller's own C
}

// funcBinding is one overload of a user-defined function.
type funcBinding struct {
	Def        *ast.FunctionDef
	ParamTypes []types.ValueType
	DefScope   *Scope
}

// Scope owns one lexical block's variable/function/struct namespaces
// and the instruction stream it has emitted so far.
type Scope struct {
	Outer     *Scope
	TypesOnly bool

	allocCount int
	vars       map[string]varBinding
	declOrder  []string
	funcs      []funcBinding
	structs    map[string]types.StructType

	Instructions []Instruction
}

func newScope(outer *Scope, typesOnly bool) *Scope {
	return &Scope{
		Outer:     outer,
		TypesOnly: typesOnly,
		vars:      make(map[string]varBinding),
		structs:   make(map[string]types.StructType),
	}
}

// nextMemoryId returns a fresh, pool-global allocation ID by summing
// this scope's and every ancestor's allocation counters.
func (s *Scope) nextMemoryId() MemoryId {
	sum := 0
	for cur := s; cur != nil; cur = cur.Outer {
		sum += cur.allocCount
	}
	return MemoryId(sum)
}

func (s *Scope) countAllocation() { s.allocCount++ }

func (s *Scope) defineVar(name string, t types.ValueType, mem Memory) error {
	if _, ok := s.vars[name]; ok {
		return fmt.Errorf("variable %q already declared in this scope", name)
	}
	s.vars[name] = varBinding{Type: t, Mem: mem}
	s.declOrder = append(s.declOrder, name)
	return nil
}

// lookupVar searches this scope, then (unless TypesOnly blocks it)
// outer scopes, for name. Crossing a TypesOnly boundary hides outer
// variables but not outer functions/structs.
func (s *Scope) lookupVar(name string) (varBinding, *Scope, bool) {
	for cur := s; cur != nil; cur = cur.Outer {
		if v, ok := cur.vars[name]; ok {
			return v, cur, true
		}
		if cur.TypesOnly {
			break
		}
	}
	return varBinding{}, nil, false
}

func (s *Scope) lookupStruct(name string) (types.StructType, bool) {
	for cur := s; cur != nil; cur = cur.Outer {
		if v, ok := cur.structs[name]; ok {
			return v, true
		}
	}
	return types.StructType{}, false
}

// lookupFunc resolves a call by (name, positional argument types).
func (s *Scope) lookupFunc(name string, argTypes []types.ValueType) (funcBinding, bool) {
	for cur := s; cur != nil; cur = cur.Outer {
		for _, f := range cur.funcs {
			if f.Def.Name != name || len(f.ParamTypes) != len(argTypes) {
				continue
			}
			if sameTypes(f.ParamTypes, argTypes) {
				return f, true
			}
		}
	}
	return funcBinding{}, false
}

func sameTypes(a, b []types.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameType(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameType(a, b types.ValueType) bool {
	switch av := a.(type) {
	case types.CellType:
		_, ok := b.(types.CellType)
		return ok
	case types.ArrayType:
		bv, ok := b.(types.ArrayType)
		return ok && av.Len == bv.Len && sameType(av.Elem, bv.Elem)
	case types.StructType:
		bv, ok := b.(types.StructType)
		return ok && av.Name == bv.Name
	default:
		return false
	}
}

func (s *Scope) emit(i Instruction) { s.Instructions = append(s.Instructions, i) }
