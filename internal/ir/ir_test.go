package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mastermindc/internal/ast"
	"mastermindc/internal/parser"
	"mastermindc/internal/tape"
)

func noLocate(loc ast.LocationSpecifier, lookupFixed func(string) (tape.Coord1D, bool)) (tape.Coord1D, error) {
	panic("no location specifiers used in these tests")
}

func noEmbed(*Scope) ([]tape.Opcode, error) {
	panic("no inline-bf embedded blocks used in these tests")
}

func build(t *testing.T, source string) (*Scope, error) {
	t.Helper()
	clauses, scanErrs, parseErrs := parser.ParseSource("t.mm", source)
	require.Empty(t, scanErrs)
	require.Empty(t, parseErrs)

	b := NewBuilder[tape.Coord1D](noLocate, noEmbed)
	return b.Build(clauses, nil, true)
}

func TestDeclareAndAssignEmitsAllocateThenAdd(t *testing.T) {
	scope, err := build(t, `cell a = 5;`)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(scope.Instructions), 2)
	_, ok := scope.Instructions[0].(Allocate[tape.Coord1D])
	assert.True(t, ok, "first instruction should allocate")
	add, ok := scope.Instructions[1].(AddToCell)
	require.True(t, ok, "second instruction should add")
	assert.EqualValues(t, 5, add.Imm)
}

func TestDuplicateDeclarationInSameScopeErrors(t *testing.T) {
	_, err := build(t, `cell a = 1; cell a = 2;`)
	assert.Error(t, err)
}

func TestOutputVariableEmitsOutputCell(t *testing.T) {
	scope, err := build(t, `cell a = 65; output a;`)
	require.NoError(t, err)

	var sawOutput bool
	for _, instr := range scope.Instructions {
		if _, ok := instr.(OutputCell); ok {
			sawOutput = true
		}
	}
	assert.True(t, sawOutput)
}

func TestWhileLoopEmitsBalancedOpenClose(t *testing.T) {
	scope, err := build(t, `cell a = 1; while a { a -= 1; }`)
	require.NoError(t, err)

	opens, closes := 0, 0
	for _, instr := range scope.Instructions {
		switch instr.(type) {
		case OpenLoop:
			opens++
		case CloseLoop:
			closes++
		}
	}
	assert.Equal(t, opens, closes)
	assert.Equal(t, 1, opens)
}

func TestIfStatementLowersBothBranches(t *testing.T) {
	scope, err := build(t, `cell a = 1; if a { output 'A'; } else { output 'B'; }`)
	require.NoError(t, err)

	outputs := 0
	for _, instr := range scope.Instructions {
		if _, ok := instr.(OutputCell); ok {
			outputs++
		}
	}
	assert.Equal(t, 2, outputs)
}

func TestUnknownVariableReferenceErrors(t *testing.T) {
	_, err := build(t, `output b;`)
	assert.Error(t, err)
}

func TestFunctionCallSplicesCalleeInstructions(t *testing.T) {
	scope, err := build(t, `
fn inc(cell x) {
    x += 1;
}
cell a = 1;
inc(a);
output a;
`)
	require.NoError(t, err)

	var sawOutput bool
	incA := 0
	for _, instr := range scope.Instructions {
		if _, ok := instr.(OutputCell); ok {
			sawOutput = true
		}
		if add, ok := instr.(AddToCell); ok && add == (AddToCell{Ref: CellReference{MemoryID: 0, Index: 0}, Imm: 1}) {
			incA++
		}
	}
	assert.True(t, sawOutput)
	// One +1 on a from `cell a = 1;` and one from the spliced `x += 1;`.
	assert.Equal(t, 2, incA)
}

func TestArrayLiteralInitialisationMismatchedLengthErrors(t *testing.T) {
	_, err := build(t, `cell[3] a = [1, 2];`)
	assert.Error(t, err)
}
