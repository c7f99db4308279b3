package data

import (
	"fmt"
	"math"
)

// Cell is an integer grid coordinate. World positions are float64 in cell
// units; the integer part of a position is its cell.
type Cell struct {
	Col int
	Row int
}

// CellOf returns the cell containing world position (x, y).
func CellOf(x, y float64) Cell {
	return Cell{Col: int(math.Floor(x)), Row: int(math.Floor(y))}
}

// Center returns the world position of the cell's centre.
func (c Cell) Center() (float64, float64) {
	return float64(c.Col) + 0.5, float64(c.Row) + 0.5
}

// Wall type markers used in level rows.
const (
	TileEmpty    uint8 = 0
	maxWallType  uint8 = 9
	markerEmpty        = '.'
	markerSpace        = ' '
)

// GridMap is the static occupancy grid of one level. It is immutable once
// built; every level reload builds a new one.
type GridMap struct {
	width  int
	height int
	tiles  []uint8 // row-major: tiles[row*width+col], 0 = empty
}

// NewGridMap decodes level rows. '.' or ' ' is empty, '1'..'9' is a wall of
// that type. Rows must be non-empty and all the same length.
func NewGridMap(rows []string) (*GridMap, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("grid has no rows")
	}
	width := len(rows[0])
	if width == 0 {
		return nil, fmt.Errorf("grid row 0 is empty")
	}
	g := &GridMap{
		width:  width,
		height: len(rows),
		tiles:  make([]uint8, width*len(rows)),
	}
	for row, line := range rows {
		if len(line) != width {
			return nil, fmt.Errorf("grid row %d has %d cells, want %d", row, len(line), width)
		}
		for col := 0; col < width; col++ {
			ch := line[col]
			switch {
			case ch == markerEmpty || ch == markerSpace:
				// empty
			case ch >= '1' && ch <= '0'+maxWallType:
				g.tiles[row*width+col] = ch - '0'
			default:
				return nil, fmt.Errorf("grid row %d col %d: unknown marker %q", row, col, ch)
			}
		}
	}
	return g, nil
}

// Width returns the number of columns.
func (g *GridMap) Width() int { return g.width }

// Height returns the number of rows.
func (g *GridMap) Height() int { return g.height }

// InBounds reports whether (col, row) lies inside the grid.
func (g *GridMap) InBounds(col, row int) bool {
	return col >= 0 && row >= 0 && col < g.width && row < g.height
}

// IsWall reports whether (col, row) blocks movement and sight.
// Out-of-bounds cells are walls so rays and paths never leave the grid.
func (g *GridMap) IsWall(col, row int) bool {
	if !g.InBounds(col, row) {
		return true
	}
	return g.tiles[row*g.width+col] != TileEmpty
}

// WallType returns the wall type id at (col, row), or 0 for empty and
// out-of-bounds cells.
func (g *GridMap) WallType(col, row int) uint8 {
	if !g.InBounds(col, row) {
		return TileEmpty
	}
	return g.tiles[row*g.width+col]
}

// MaxTraversal is the longest straight distance across the grid. The session
// caps the caster's depth at it so misses never walk past the far corner.
func (g *GridMap) MaxTraversal() float64 {
	return math.Hypot(float64(g.width), float64(g.height))
}
