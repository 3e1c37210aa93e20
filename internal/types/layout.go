package types

import (
	"fmt"
	"sort"
)

// FieldSpec is one struct field as given by the parser, before layout: a
// name, a type, and an optional fixed cell offset.
type FieldSpec struct {
	Name   string
	Type   ValueType
	Offset *int
}

type interval struct{ start, end int }

// BuildStructLayout computes a struct's deterministic cell layout: fields
// with an explicit fixed offset are placed first (overlap is rejected),
// then the remaining fields are packed, in declaration order, into the
// smallest gap that fits each one; ties break to the leftmost gap.
func BuildStructLayout(name string, fields []FieldSpec) (StructType, error) {
	var occupied []interval
	result := make([]StructField, len(fields))
	placed := make([]bool, len(fields))

	for i, f := range fields {
		if f.Offset == nil {
			continue
		}
		iv := interval{start: *f.Offset, end: *f.Offset + f.Type.Size()}
		for _, o := range occupied {
			if iv.start < o.end && o.start < iv.end {
				return StructType{}, fmt.Errorf("struct %s: field %q at offset %d overlaps another field", name, f.Name, *f.Offset)
			}
		}
		occupied = append(occupied, iv)
		sort.Slice(occupied, func(a, b int) bool { return occupied[a].start < occupied[b].start })
		result[i] = StructField{Name: f.Name, Type: f.Type, Offset: iv.start}
		placed[i] = true
	}

	for i, f := range fields {
		if placed[i] {
			continue
		}
		start := findSmallestGap(occupied, f.Type.Size())
		iv := interval{start: start, end: start + f.Type.Size()}
		occupied = append(occupied, iv)
		sort.Slice(occupied, func(a, b int) bool { return occupied[a].start < occupied[b].start })
		result[i] = StructField{Name: f.Name, Type: f.Type, Offset: start}
	}

	return StructType{Name: name, Fields: result}, nil
}

// findSmallestGap returns the start of the smallest gap (among the spaces
// before, between, and after the occupied intervals) that can fit size
// cells, preferring the leftmost gap on ties.
func findSmallestGap(occupied []interval, size int) int {
	bestStart := -1
	bestLen := -1

	consider := func(start, length int) {
		if length < size {
			return
		}
		if bestLen == -1 || length < bestLen || (length == bestLen && start < bestStart) {
			bestStart, bestLen = start, length
		}
	}

	cursor := 0
	for _, o := range occupied {
		if o.start > cursor {
			consider(cursor, o.start-cursor)
		}
		if o.end > cursor {
			cursor = o.end
		}
	}
	if bestStart == -1 {
		return cursor
	}
	return bestStart
}
