package tape

import "fmt"

// AllocPolicy selects the search order a 2-D Allocator uses to place a new
// allocation, per the four placement policies in the spec.
type AllocPolicy int

const (
	PolicyLinear AllocPolicy = iota
	PolicyZigZag
	PolicySpiral
	PolicyTiles
)

// Allocator2D is the set of currently-allocated 2-D tape cells.
type Allocator2D struct {
	occupied map[Coord2D]bool
	policy   AllocPolicy
}

func NewAllocator2D(policy AllocPolicy) *Allocator2D {
	return &Allocator2D{occupied: make(map[Coord2D]bool), policy: policy}
}

func (a *Allocator2D) free1(c Coord2D) bool { return !a.occupied[c] }

// runFree reports whether the size contiguous cells starting at base
// (growing along the x-axis) are all free.
func (a *Allocator2D) runFree(base Coord2D, size int) bool {
	for i := 0; i < size; i++ {
		if !a.free1(Coord2D{X: base.X + i, Y: base.Y}) {
			return false
		}
	}
	return true
}

func (a *Allocator2D) mark(base Coord2D, size int, v bool) {
	for i := 0; i < size; i++ {
		c := Coord2D{X: base.X + i, Y: base.Y}
		if v {
			a.occupied[c] = true
		} else {
			delete(a.occupied, c)
		}
	}
}

// Allocate finds a base coordinate for size contiguous cells (along the
// x-axis) per the allocator's configured policy, searching outward from
// origin, marks it occupied, and returns it.
func (a *Allocator2D) Allocate(size int, origin Coord2D) Coord2D {
	candidates := a.candidateSequence(origin)
	for {
		c := candidates()
		if a.runFree(c, size) {
			a.mark(c, size, true)
			return c
		}
	}
}

// AllocateAt places an allocation at an explicit caller-chosen coordinate;
// it fails if any cell in the run is already occupied.
func (a *Allocator2D) AllocateAt(base Coord2D, size int) error {
	if !a.runFree(base, size) {
		return fmt.Errorf("location (%d,%d) overlaps an existing allocation", base.X, base.Y)
	}
	a.mark(base, size, true)
	return nil
}

// AllocateTempCell finds the single free cell nearest requested by
// alternating scans outward along x, marks it occupied, and returns it.
func (a *Allocator2D) AllocateTempCell(requested Coord2D) Coord2D {
	if a.free1(requested) {
		a.mark(requested, 1, true)
		return requested
	}
	for d := 1; ; d++ {
		right := Coord2D{X: requested.X + d, Y: requested.Y}
		left := Coord2D{X: requested.X - d, Y: requested.Y}
		if a.free1(right) {
			a.mark(right, 1, true)
			return right
		}
		if a.free1(left) {
			a.mark(left, 1, true)
			return left
		}
	}
}

// Free releases a previously allocated run.
func (a *Allocator2D) Free(base Coord2D, size int) error {
	for i := 0; i < size; i++ {
		c := Coord2D{X: base.X + i, Y: base.Y}
		if !a.occupied[c] {
			return fmt.Errorf("free of an unallocated cell at (%d,%d)", c.X, c.Y)
		}
	}
	a.mark(base, size, false)
	return nil
}

// candidateSequence returns a closure that yields an unbounded sequence of
// candidate base coordinates in the allocator's policy order, centred on
// origin. Each call advances the sequence.
func (a *Allocator2D) candidateSequence(origin Coord2D) func() Coord2D {
	switch a.policy {
	case PolicyZigZag:
		return zigZagSequence(origin)
	case PolicySpiral:
		return spiralSequence(origin)
	case PolicyTiles:
		return tilesSequence(origin)
	default:
		return linearSequence(origin)
	}
}

// linearSequence walks rightward along the x-axis at a fixed y, matching
// the 1-D allocator's search order.
func linearSequence(origin Coord2D) func() Coord2D {
	x := origin.X
	return func() Coord2D {
		c := Coord2D{X: x, Y: origin.Y}
		x++
		return c
	}
}

// zigZagSequence expands outward in anti-diagonal rings: ring r yields the
// points with x+y == r, x ascending from 0 to r.
func zigZagSequence(origin Coord2D) func() Coord2D {
	ring, i := 0, 0
	return func() Coord2D {
		for i > ring {
			ring++
			i = 0
		}
		x, y := i, ring-i
		i++
		return Coord2D{X: origin.X + x, Y: origin.Y + y}
	}
}

// spiralSequence walks a clockwise spiral: N, E, S, W, with the step
// length growing by one after each pair of turns.
func spiralSequence(origin Coord2D) func() Coord2D {
	x, y := 0, 0
	dirX, dirY := 0, 1 // start heading north (+y)
	stepLen := 1
	stepsTakenInLeg := 0
	legsAtThisLength := 0
	first := true
	return func() Coord2D {
		if first {
			first = false
			return origin
		}
		x += dirX
		y += dirY
		stepsTakenInLeg++
		if stepsTakenInLeg == stepLen {
			stepsTakenInLeg = 0
			dirX, dirY = rotateClockwise(dirX, dirY)
			legsAtThisLength++
			if legsAtThisLength == 2 {
				legsAtThisLength = 0
				stepLen++
			}
		}
		return Coord2D{X: origin.X + x, Y: origin.Y + y}
	}
}

func rotateClockwise(dx, dy int) (int, int) {
	// N(0,1) -> E(1,0) -> S(0,-1) -> W(-1,0) -> N
	switch {
	case dx == 0 && dy == 1:
		return 1, 0
	case dx == 1 && dy == 0:
		return 0, -1
	case dx == 0 && dy == -1:
		return -1, 0
	default:
		return 0, 1
	}
}

// tilesSequence expands outward in square rings (Chebyshev distance from
// origin), visiting each ring's perimeter clockwise from its top-left
// corner.
func tilesSequence(origin Coord2D) func() Coord2D {
	ring := 0
	var perimeter []Coord2D
	idx := 0
	fill := func(r int) {
		perimeter = perimeter[:0]
		if r == 0 {
			perimeter = append(perimeter, Coord2D{})
			return
		}
		for x := -r; x <= r; x++ {
			perimeter = append(perimeter, Coord2D{X: x, Y: r})
		}
		for y := r - 1; y >= -r; y-- {
			perimeter = append(perimeter, Coord2D{X: r, Y: y})
		}
		for x := r - 1; x >= -r; x-- {
			perimeter = append(perimeter, Coord2D{X: x, Y: -r})
		}
		for y := -r + 1; y <= r-1; y++ {
			perimeter = append(perimeter, Coord2D{X: -r, Y: y})
		}
	}
	fill(ring)
	return func() Coord2D {
		if idx >= len(perimeter) {
			ring++
			fill(ring)
			idx = 0
		}
		c := perimeter[idx]
		idx++
		return Coord2D{X: origin.X + c.X, Y: origin.Y + c.Y}
	}
}
