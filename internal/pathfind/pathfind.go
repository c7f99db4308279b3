// Package pathfind finds shortest 4-connected routes across a wall grid.
package pathfind

import "github.com/MartinDeV1991/Doom/internal/data"

// Walkable is the grid surface the search needs. *data.GridMap satisfies it.
type Walkable interface {
	Width() int
	Height() int
	IsWall(col, row int) bool
}

// neighborOffsets fixes the expansion order (N, S, E, W) so equal-length
// routes always resolve the same way.
var neighborOffsets = [...]data.Cell{
	{Col: 0, Row: -1},
	{Col: 0, Row: 1},
	{Col: 1, Row: 0},
	{Col: -1, Row: 0},
}

// FindPath runs a breadth-first search from start to goal. Wall cells and
// cells in blocked are not entered, except that goal itself may be blocked.
// The returned path excludes start and ends at goal. It is nil when start
// equals goal or when no route exists.
func FindPath(grid Walkable, start, goal data.Cell, blocked map[data.Cell]struct{}) []data.Cell {
	if start == goal || grid == nil {
		return nil
	}
	w, h := grid.Width(), grid.Height()
	inBounds := func(c data.Cell) bool {
		return c.Col >= 0 && c.Row >= 0 && c.Col < w && c.Row < h
	}
	if !inBounds(start) || !inBounds(goal) || grid.IsWall(goal.Col, goal.Row) {
		return nil
	}
	index := func(c data.Cell) int { return c.Row*w + c.Col }

	// parent[i] is index+1 of the cell we came from; 0 means unvisited.
	parent := make([]int, w*h)
	startIdx := index(start)
	parent[startIdx] = startIdx + 1

	queue := []data.Cell{start}
	for head := 0; head < len(queue); head++ {
		current := queue[head]
		for _, d := range neighborOffsets {
			next := data.Cell{Col: current.Col + d.Col, Row: current.Row + d.Row}
			if !inBounds(next) {
				continue
			}
			idx := index(next)
			if parent[idx] != 0 || grid.IsWall(next.Col, next.Row) {
				continue
			}
			if next != goal {
				if _, taken := blocked[next]; taken {
					continue
				}
			}
			parent[idx] = index(current) + 1
			if next == goal {
				return rebuild(parent, w, startIdx, idx)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func rebuild(parent []int, w, startIdx, goalIdx int) []data.Cell {
	var rev []data.Cell
	for idx := goalIdx; idx != startIdx; idx = parent[idx] - 1 {
		rev = append(rev, data.Cell{Col: idx % w, Row: idx / w})
	}
	path := make([]data.Cell, len(rev))
	for i, c := range rev {
		path[len(rev)-1-i] = c
	}
	return path
}

// NextStep returns the first cell of path.
func NextStep(path []data.Cell) (data.Cell, bool) {
	if len(path) == 0 {
		return data.Cell{}, false
	}
	return path[0], true
}
