package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mastermindc/internal/ast"
)

func parseOK(t *testing.T, source string) []ast.Clause {
	t.Helper()
	clauses, scanErrs, parseErrs := ParseSource("t.mm", source)
	require.Empty(t, scanErrs)
	require.Empty(t, parseErrs)
	return clauses
}

func TestParseDefineVariable(t *testing.T) {
	clauses := parseOK(t, `cell a = 5;`)
	require.Len(t, clauses, 1)
	def, ok := clauses[0].(*ast.DefineVariable)
	require.True(t, ok)
	assert.Equal(t, "a", def.Name)
}

func TestParseDeclareVariableWithLocation(t *testing.T) {
	clauses := parseOK(t, `cell a @3;`)
	require.Len(t, clauses, 1)
	decl, ok := clauses[0].(*ast.DeclareVariable)
	require.True(t, ok)
	loc, ok := decl.Location.(ast.LiteralLocation)
	require.True(t, ok)
	assert.EqualValues(t, 3, loc.Value)
}

func TestParseArrayTypeDeclaration(t *testing.T) {
	clauses := parseOK(t, `cell[3] a = [1, 2, 3];`)
	require.Len(t, clauses, 1)
	def, ok := clauses[0].(*ast.DefineVariable)
	require.True(t, ok)
	arrType, ok := def.Type.(*ast.ArrayType)
	require.True(t, ok)
	assert.EqualValues(t, 3, arrType.Len)
}

func TestParseIncrementDecrement(t *testing.T) {
	clauses := parseOK(t, `a++; a--;`)
	require.Len(t, clauses, 2)
	for _, c := range clauses {
		assign, ok := c.(*ast.AssignVariable)
		require.True(t, ok)
		assert.True(t, assign.AddOnly)
	}
}

func TestParsePlusAssignAndMinusAssign(t *testing.T) {
	clauses := parseOK(t, `a += 2; a -= 3;`)
	require.Len(t, clauses, 2)
	plus := clauses[0].(*ast.AssignVariable)
	assert.True(t, plus.AddOnly)
	minus := clauses[1].(*ast.AssignVariable)
	assert.True(t, minus.AddOnly)
	require.Len(t, minus.Value.(*ast.SumExpression).Terms, 1)
	assert.True(t, minus.Value.(*ast.SumExpression).Terms[0].Negative)
}

func TestParsePlainAssignIsNotAddOnly(t *testing.T) {
	clauses := parseOK(t, `a = 5;`)
	assign := clauses[0].(*ast.AssignVariable)
	assert.False(t, assign.AddOnly)
}

func TestParseFunctionCallAsStatement(t *testing.T) {
	clauses := parseOK(t, `inc(a, b);`)
	require.Len(t, clauses, 1)
	call, ok := clauses[0].(*ast.CallClause)
	require.True(t, ok)
	assert.Equal(t, "inc", call.Call.Name)
	require.Len(t, call.Call.Args, 2)
}

func TestParseVariableTargetSubscripts(t *testing.T) {
	clauses := parseOK(t, `a.field[2] = 1;`)
	assign := clauses[0].(*ast.AssignVariable)
	require.Len(t, assign.Target.Subscripts, 2)
	_, isField := assign.Target.Subscripts[0].(ast.FieldSubscript)
	assert.True(t, isField)
	_, isIndex := assign.Target.Subscripts[1].(ast.IndexSubscript)
	assert.True(t, isIndex)
}

func TestParseWhileLoopConditionAndBody(t *testing.T) {
	clauses := parseOK(t, `while a { a -= 1; }`)
	require.Len(t, clauses, 1)
	loop, ok := clauses[0].(*ast.WhileLoop)
	require.True(t, ok)
	assert.Equal(t, "a", loop.Cond.Name)
	require.Len(t, loop.Body, 1)
}

func TestParseIfElse(t *testing.T) {
	clauses := parseOK(t, `if z { output 'A'; } else { output 'B'; }`)
	require.Len(t, clauses, 1)
	ifStmt, ok := clauses[0].(*ast.IfStatement)
	require.True(t, ok)
	assert.False(t, ifStmt.Negate)
	require.Len(t, ifStmt.Then, 1)
	require.Len(t, ifStmt.Else, 1)
}

func TestParseIfNot(t *testing.T) {
	clauses := parseOK(t, `if not z { output 'A'; }`)
	ifStmt := clauses[0].(*ast.IfStatement)
	assert.True(t, ifStmt.Negate)
	assert.Nil(t, ifStmt.Else)
}

func TestParseDrainWithIntoAndCopy(t *testing.T) {
	clauses := parseOK(t, `copy drain a into b, c { output b; }`)
	drain, ok := clauses[0].(*ast.DrainLoop)
	require.True(t, ok)
	assert.True(t, drain.Copy)
	require.NotNil(t, drain.SourceVar)
	assert.Equal(t, "a", drain.SourceVar.Name)
	require.Len(t, drain.Targets, 2)
}

func TestParseOutputVariableVsOutputValue(t *testing.T) {
	clauses := parseOK(t, `output a; output 'x';`)
	_, isVar := clauses[0].(*ast.OutputVariable)
	assert.True(t, isVar)
	_, isVal := clauses[1].(*ast.OutputValue)
	assert.True(t, isVal)
}

func TestParseAssertEqualsKnownValue(t *testing.T) {
	clauses := parseOK(t, `assert a equals 5;`)
	a, ok := clauses[0].(*ast.AssertVariable)
	require.True(t, ok)
	require.NotNil(t, a.Expected)
	assert.EqualValues(t, 5, *a.Expected)
	assert.False(t, a.ExpectUnknown)
}

func TestParseAssertEqualsUnknown(t *testing.T) {
	clauses := parseOK(t, `assert a equals unknown;`)
	a := clauses[0].(*ast.AssertVariable)
	assert.True(t, a.ExpectUnknown)
}

func TestParseFunctionDefinition(t *testing.T) {
	clauses := parseOK(t, `
fn inc(cell x) {
    x += 1;
}
`)
	require.Len(t, clauses, 1)
	fd, ok := clauses[0].(*ast.FunctionDefClause)
	require.True(t, ok)
	assert.Equal(t, "inc", fd.Def.Name)
	require.Len(t, fd.Def.Params, 1)
	assert.Equal(t, "x", fd.Def.Params[0].Name)
}

func TestParseStructDefinition(t *testing.T) {
	clauses := parseOK(t, `
struct Pair {
    cell a,
    cell b
}
`)
	sd, ok := clauses[0].(*ast.StructDefClause)
	require.True(t, ok)
	assert.Equal(t, "Pair", sd.Def.Name)
	require.Len(t, sd.Def.Fields, 2)
}

func TestParseSumExpressionWithParensAndMixedSigns(t *testing.T) {
	clauses := parseOK(t, `cell a = 1 + (2 - 3) - 'x';`)
	def := clauses[0].(*ast.DefineVariable)
	sum, ok := def.Value.(*ast.SumExpression)
	require.True(t, ok)
	require.Len(t, sum.Terms, 3)
	assert.False(t, sum.Terms[0].Negative)
	assert.False(t, sum.Terms[1].Negative)
	assert.True(t, sum.Terms[2].Negative)
}

func TestParseErrorRecordsPositionAndResynchronises(t *testing.T) {
	clauses, _, parseErrs := ParseSource("t.mm", `cell a = ; cell b = 2;`)
	require.Len(t, parseErrs, 1)
	assert.Equal(t, 1, parseErrs[0].Line)
	assert.Equal(t, 10, parseErrs[0].Column)
	assert.Len(t, clauses, 1)
}

func TestParseRejectsUnexpectedTokenAtClauseStart(t *testing.T) {
	_, _, parseErrs := ParseSource("t.mm", `;`)
	assert.NotEmpty(t, parseErrs)
}
