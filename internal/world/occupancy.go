package world

import "github.com/MartinDeV1991/Doom/internal/data"

// PlayerID is the occupant ID of the player. NPC IDs start at 1.
const PlayerID = 0

// EntityGrid is a cell occupancy map for O(1) collision checks.
// Supports multiple occupants per cell so a transient overlap can be detected.
type EntityGrid struct {
	cells map[data.Cell]map[int]struct{}
}

func newEntityGrid() *EntityGrid {
	return &EntityGrid{cells: make(map[data.Cell]map[int]struct{})}
}

// Occupy marks an entity as occupying a cell.
func (g *EntityGrid) Occupy(c data.Cell, id int) {
	cell := g.cells[c]
	if cell == nil {
		cell = make(map[int]struct{}, 1)
		g.cells[c] = cell
	}
	cell[id] = struct{}{}
}

// Vacate removes an entity from a cell.
func (g *EntityGrid) Vacate(c data.Cell, id int) {
	cell := g.cells[c]
	if cell != nil {
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, c)
		}
	}
}

// Move vacates the old cell and occupies the new one.
func (g *EntityGrid) Move(from, to data.Cell, id int) {
	if from == to {
		return
	}
	g.Vacate(from, id)
	g.Occupy(to, id)
}

// IsOccupied returns true if any entity other than excludeID is in the cell.
func (g *EntityGrid) IsOccupied(c data.Cell, excludeID int) bool {
	for id := range g.cells[c] {
		if id != excludeID {
			return true
		}
	}
	return false
}

// Occupants returns the number of entities in the cell.
func (g *EntityGrid) Occupants(c data.Cell) int { return len(g.cells[c]) }

func (g *EntityGrid) reset() {
	clear(g.cells)
}

// Snapshot is a frozen view of occupied cells taken once per tick before any
// NPC path query. It is never written after creation.
type Snapshot struct {
	occupied   map[data.Cell]struct{}
	PlayerCell data.Cell
}

// Blocked returns the occupied cell set for path queries. A query's own
// start cell is never re-entered by the search, so the set does not need to
// exclude the querying NPC. Callers must not modify it.
func (s Snapshot) Blocked() map[data.Cell]struct{} { return s.occupied }

// IsOccupied reports whether c held an NPC or the player when the snapshot
// was taken.
func (s Snapshot) IsOccupied(c data.Cell) bool {
	_, ok := s.occupied[c]
	return ok
}

// Len returns the number of occupied cells.
func (s Snapshot) Len() int { return len(s.occupied) }
