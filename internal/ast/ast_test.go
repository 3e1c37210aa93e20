package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionString(t *testing.T) {
	p := Position{Filename: "t.mm", Line: 3, Column: 5}
	assert.Equal(t, "t.mm:3:5", p.String())
}

func TestClausePosDelegatesToUnderlyingNode(t *testing.T) {
	pos := Position{Filename: "t.mm", Line: 1, Column: 1}

	def := &FunctionDef{Pos_: pos, Name: "f"}
	clause := &FunctionDefClause{Def: def}
	assert.Equal(t, pos, clause.Pos())

	sdef := &StructDef{Pos_: pos, Name: "s"}
	sclause := &StructDefClause{Def: sdef}
	assert.Equal(t, pos, sclause.Pos())

	call := &CallExpr{Pos_: pos, Name: "g"}
	cclause := &CallClause{Call: call}
	assert.Equal(t, pos, cclause.Pos())
}

func TestVariableTargetSubscriptChain(t *testing.T) {
	target := &VariableTarget{
		Name: "foo",
		Subscripts: []Subscript{
			FieldSubscript{Name: "bar"},
			IndexSubscript{Index: 2},
		},
	}
	require := assert.New(t)
	require.Len(target.Subscripts, 2)
	require.Equal("bar", target.Subscripts[0].(FieldSubscript).Name)
	require.EqualValues(2, target.Subscripts[1].(IndexSubscript).Index)
}
