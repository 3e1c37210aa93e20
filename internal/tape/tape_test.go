package tape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderParseRoundTrip(t *testing.T) {
	ops := []Opcode{Add, Add, Right, OpenLoop, Clear, CloseLoop, Left, Output, Input}
	rendered := Render(ops)
	assert.Equal(t, "++>[[-]]<.,", rendered)

	parsed, err := Parse(rendered)
	require.NoError(t, err)
	assert.Equal(t, ops, parsed)
}

func TestParseRejectsUnknownCharacters(t *testing.T) {
	_, err := Parse("++x--")
	assert.Error(t, err)
}

func TestParseCanonicalisesClear(t *testing.T) {
	ops, err := Parse("[-]")
	require.NoError(t, err)
	assert.Equal(t, []Opcode{Clear}, ops)
}

func TestCoordOffset(t *testing.T) {
	assert.Equal(t, Coord1D{X: 5}, Coord1D{X: 2}.Offset(3))
	assert.Equal(t, Coord2D{X: 5, Y: 7}, Coord2D{X: 2, Y: 7}.Offset(3))
}

func TestBFBuilderMoveToCell1D(t *testing.T) {
	b := NewBFBuilder(Coord1D{}, Move1D)
	b.MoveToCell(Coord1D{X: 3})
	b.AddToCurrentCell(2)
	b.MoveToCell(Coord1D{X: 1})
	assert.Equal(t, ">>>++<<", Render(b.Ops))
	assert.Equal(t, Coord1D{X: 1}, b.Head)
}

func TestBFBuilderMoveToCellIsANoOpAtCurrentHead(t *testing.T) {
	b := NewBFBuilder(Coord1D{X: 4}, Move1D)
	b.MoveToCell(Coord1D{X: 4})
	assert.Empty(t, b.Ops)
}

func TestBFBuilderMoveToCell2DMovesXThenY(t *testing.T) {
	b := NewBFBuilder(Coord2D{}, Move2D)
	b.MoveToCell(Coord2D{X: 2, Y: -1})
	assert.Equal(t, ">>v", Render(b.Ops))
}

func TestAllocator1DFindsNextFreeRun(t *testing.T) {
	a := NewAllocator1D()
	c1 := a.Allocate(2, 0)
	c2 := a.Allocate(1, 0)
	assert.Equal(t, Coord1D{X: 0}, c1)
	assert.Equal(t, Coord1D{X: 2}, c2)
}

func TestAllocator1DAllocateAtRejectsOverlap(t *testing.T) {
	a := NewAllocator1D()
	require.NoError(t, a.AllocateAt(Coord1D{X: 5}, 3))
	assert.Error(t, a.AllocateAt(Coord1D{X: 6}, 1))
}

func TestAllocator1DFreeThenReallocate(t *testing.T) {
	a := NewAllocator1D()
	base := a.Allocate(2, 0)
	require.NoError(t, a.Free(base, 2))
	again := a.Allocate(2, 0)
	assert.Equal(t, base, again)
}

func TestAllocator1DFreeOfUnallocatedCellErrors(t *testing.T) {
	a := NewAllocator1D()
	assert.Error(t, a.Free(Coord1D{X: 0}, 1))
}

func TestAllocator1DTempCellPrefersNearestFree(t *testing.T) {
	a := NewAllocator1D()
	require.NoError(t, a.AllocateAt(Coord1D{X: 0}, 1))
	temp := a.AllocateTempCell(0)
	assert.Equal(t, Coord1D{X: 1}, temp)
}

func TestAllocator2DLinearPolicyFindsFreeCell(t *testing.T) {
	a := NewAllocator2D(PolicyLinear)
	c1 := a.Allocate(1, Coord2D{})
	c2 := a.Allocate(1, Coord2D{})
	assert.NotEqual(t, c1, c2)
}

func TestAllocator2DFreeThenReallocate(t *testing.T) {
	a := NewAllocator2D(PolicyLinear)
	base := a.Allocate(1, Coord2D{})
	require.NoError(t, a.Free(base, 1))
	again := a.Allocate(1, Coord2D{})
	assert.Equal(t, base, again)
}

func TestAllocator2DAllocateAtRejectsOverlap(t *testing.T) {
	a := NewAllocator2D(PolicyLinear)
	require.NoError(t, a.AllocateAt(Coord2D{X: 1, Y: 1}, 1))
	assert.Error(t, a.AllocateAt(Coord2D{X: 1, Y: 1}, 1))
}
