package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellTypeSize(t *testing.T) {
	assert.Equal(t, 1, CellType{}.Size())
}

func TestArrayTypeSizeMultipliesElemByLen(t *testing.T) {
	arr := ArrayType{Len: 4, Elem: CellType{}}
	assert.Equal(t, 4, arr.Size())
}

func TestArrayOfArraySize(t *testing.T) {
	arr := ArrayType{Len: 3, Elem: ArrayType{Len: 2, Elem: CellType{}}}
	assert.Equal(t, 6, arr.Size())
}

func TestStructTypeFieldLookup(t *testing.T) {
	s := StructType{Name: "pair", Fields: []StructField{
		{Name: "a", Type: CellType{}, Offset: 0},
		{Name: "b", Type: CellType{}, Offset: 1},
	}}
	f, ok := s.Field("b")
	require.True(t, ok)
	assert.Equal(t, 1, f.Offset)

	_, ok = s.Field("missing")
	assert.False(t, ok)
}

func TestStructTypeSizeIsHighestFieldEnd(t *testing.T) {
	s := StructType{Fields: []StructField{
		{Name: "a", Type: CellType{}, Offset: 0},
		{Name: "b", Type: ArrayType{Len: 3, Elem: CellType{}}, Offset: 1},
	}}
	assert.Equal(t, 4, s.Size())
}

func TestBuildStructLayoutPacksFieldsInOrder(t *testing.T) {
	layout, err := BuildStructLayout("pair", []FieldSpec{
		{Name: "a", Type: CellType{}},
		{Name: "b", Type: CellType{}},
	})
	require.NoError(t, err)
	require.Len(t, layout.Fields, 2)
	assert.Equal(t, 0, layout.Fields[0].Offset)
	assert.Equal(t, 1, layout.Fields[1].Offset)
}

func TestBuildStructLayoutHonoursFixedOffsets(t *testing.T) {
	fixed := 5
	layout, err := BuildStructLayout("s", []FieldSpec{
		{Name: "a", Type: CellType{}, Offset: &fixed},
		{Name: "b", Type: CellType{}},
	})
	require.NoError(t, err)

	a, ok := layout.Field("a")
	require.True(t, ok)
	assert.Equal(t, 5, a.Offset)

	b, ok := layout.Field("b")
	require.True(t, ok)
	assert.Equal(t, 0, b.Offset)
}

func TestBuildStructLayoutRejectsOverlappingFixedOffsets(t *testing.T) {
	first, second := 0, 0
	_, err := BuildStructLayout("s", []FieldSpec{
		{Name: "a", Type: CellType{}, Offset: &first},
		{Name: "b", Type: CellType{}, Offset: &second},
	})
	assert.Error(t, err)
}

func TestBuildStructLayoutFillsGapBetweenFixedFields(t *testing.T) {
	zero, three := 0, 3
	layout, err := BuildStructLayout("s", []FieldSpec{
		{Name: "a", Type: CellType{}, Offset: &zero},
		{Name: "c", Type: CellType{}, Offset: &three},
		{Name: "b", Type: ArrayType{Len: 2, Elem: CellType{}}},
	})
	require.NoError(t, err)

	b, ok := layout.Field("b")
	require.True(t, ok)
	assert.Equal(t, 1, b.Offset)
}
