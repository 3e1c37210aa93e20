package peephole

import (
	"sort"

	"mastermindc/internal/tape"
)

// Optimise2D runs the run-length peephole optimiser over a 2-D opcode
// stream. Runs of {Add,Subtract,Right,Left,Up,Down,Clear} bounded by
// loop/IO opcodes are simulated down to a sparse per-cell delta map,
// then re-ordered into a single walk that visits every touched cell
// and ends back on the cell the run actually finished on.
//
// exhaustive selects the ordering search: false picks the nearest
// untouched cell at each step (fast, usually good); true tries every
// permutation of the touched cells and keeps the shortest walk. The
// exhaustive search is combinatorial and is only reasonable for runs
// touching a handful of cells.
func Optimise2D(ops []tape.Opcode, exhaustive bool) []tape.Opcode {
	var output []tape.Opcode
	var subset []tape.Opcode

	flush := func() {
		optimised := optimiseSubset2D(subset, exhaustive)
		subset = nil
		for _, op := range optimised {
			if len(output) == 0 && (op == tape.Left || op == tape.Right || op == tape.Up || op == tape.Down) {
				continue
			}
			output = append(output, op)
		}
	}

	for _, op := range ops {
		switch op {
		case tape.Add, tape.Subtract, tape.Right, tape.Left, tape.Up, tape.Down, tape.Clear:
			subset = append(subset, op)
		default:
			flush()
			output = append(output, op)
		}
	}
	flush()
	return output
}

type cellChange struct {
	cell tape.Coord2D
	val  change
}

func optimiseSubset2D(run []tape.Opcode, exhaustive bool) []tape.Opcode {
	cellTape := make(map[tape.Coord2D]change)
	head := tape.Coord2D{}
	for _, op := range run {
		switch op {
		case tape.Right:
			head.X++
		case tape.Left:
			head.X--
		case tape.Up:
			head.Y++
		case tape.Down:
			head.Y--
		default:
			c := cellTape[head]
			switch op {
			case tape.Clear:
				c = change{isSet: true, val: 0}
			case tape.Add:
				c.val++
			case tape.Subtract:
				c.val--
			}
			if c.isSet || c.val != 0 {
				cellTape[head] = c
			} else {
				delete(cellTape, head)
			}
		}
	}

	entries := make([]cellChange, 0, len(cellTape))
	for cell, v := range cellTape {
		entries = append(entries, cellChange{cell: cell, val: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].cell, entries[j].cell
		return a.X < b.X || (a.X == b.X && a.Y < b.Y)
	})

	start := tape.Coord2D{}
	var order []cellChange
	if exhaustive {
		order = bestPermutation(entries, start, head)
	} else {
		order = greedyOrder(entries, start)
	}

	var out []tape.Opcode
	position := start
	for _, e := range order {
		out = move2D(out, position, e.cell)
		position = e.cell
		out = emitValue(out, e.val)
	}
	out = move2D(out, position, head)
	return out
}

func greedyOrder(entries []cellChange, start tape.Coord2D) []cellChange {
	remaining := append([]cellChange(nil), entries...)
	order := make([]cellChange, 0, len(entries))
	position := start
	for len(remaining) > 0 {
		best := 0
		bestDist := manhattan(position, remaining[0].cell)
		for i := 1; i < len(remaining); i++ {
			d := manhattan(position, remaining[i].cell)
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
		order = append(order, remaining[best])
		position = remaining[best].cell
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return order
}

// bestPermutation tries every ordering of entries and keeps the one
// with the shortest total walk (including the return to head).
func bestPermutation(entries []cellChange, start, head tape.Coord2D) []cellChange {
	if len(entries) == 0 {
		return nil
	}
	best := append([]cellChange(nil), entries...)
	bestCost := walkCost(best, start, head)

	perm := append([]cellChange(nil), entries...)
	permute(perm, 0, func(candidate []cellChange) {
		cost := walkCost(candidate, start, head)
		if cost < bestCost {
			bestCost = cost
			best = append([]cellChange(nil), candidate...)
		}
	})
	return best
}

func walkCost(order []cellChange, start, head tape.Coord2D) int {
	position := start
	total := 0
	for _, e := range order {
		total += manhattan(position, e.cell)
		position = e.cell
	}
	total += manhattan(position, head)
	return total
}

func permute(items []cellChange, k int, visit func([]cellChange)) {
	if k == len(items) {
		visit(items)
		return
	}
	for i := k; i < len(items); i++ {
		items[k], items[i] = items[i], items[k]
		permute(items, k+1, visit)
		items[k], items[i] = items[i], items[k]
	}
}

func manhattan(a, b tape.Coord2D) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

func move2D(out []tape.Opcode, from, to tape.Coord2D) []tape.Opcode {
	if from == to {
		return out
	}
	if from.X < to.X {
		for i := 0; i < to.X-from.X; i++ {
			out = append(out, tape.Right)
		}
	} else {
		for i := 0; i < from.X-to.X; i++ {
			out = append(out, tape.Left)
		}
	}
	if from.Y < to.Y {
		for i := 0; i < to.Y-from.Y; i++ {
			out = append(out, tape.Up)
		}
	} else {
		for i := 0; i < from.Y-to.Y; i++ {
			out = append(out, tape.Down)
		}
	}
	return out
}
