// Package raycast implements grid traversal for first-person rendering:
// per-column DDA wall casting, line-of-sight tests and sprite projection.
package raycast

import (
	"math"

	"github.com/MartinDeV1991/Doom/internal/data"
)

// Vec2 is a world position or direction in cell units.
type Vec2 struct {
	X, Y float64
}

// Grid is the occupancy query surface the caster needs.
// *data.GridMap satisfies it.
type Grid interface {
	InBounds(col, row int) bool
	IsWall(col, row int) bool
	WallType(col, row int) uint8
}

// Side is the face of a wall cell struck by a ray. Y grows southward.
type Side uint8

const (
	SideNone Side = iota
	SideNorth
	SideSouth
	SideEast
	SideWest
)

// Vertical reports whether the face lies on a vertical grid line (an x-step hit).
func (s Side) Vertical() bool { return s == SideEast || s == SideWest }

func (s Side) String() string {
	switch s {
	case SideNorth:
		return "north"
	case SideSouth:
		return "south"
	case SideEast:
		return "east"
	case SideWest:
		return "west"
	}
	return "none"
}

// RayHit is the tagged result of one cast. Hit == false is a miss: nothing
// within range, draw background.
//
// Distance is measured along the ray, not perpendicular to the view plane.
// Strip heights need the fish-eye corrected Column.Depth from CastView.
type RayHit struct {
	Hit      bool
	Distance float64 // euclidean along the ray, 0 <= Distance <= max depth
	Side     Side
	Offset   float64 // position along the struck face, [0, 1)
	WallType uint8
	Cell     data.Cell
}

type stopReason uint8

const (
	stopWall stopReason = iota
	stopDepth
	stopBounds
)

// Caster runs DDA traversals against one grid. It keeps no per-frame state.
type Caster struct {
	grid     Grid
	maxDepth float64
}

// NewCaster returns a caster bounded by maxDepth cells.
func NewCaster(grid Grid, maxDepth float64) *Caster {
	return &Caster{grid: grid, maxDepth: maxDepth}
}

// MaxDepth returns the render distance cap.
func (c *Caster) MaxDepth() float64 { return c.maxDepth }

// CastColumn casts one ray from origin at angle (radians) and returns the
// nearest wall hit, or a miss past the max depth or off the grid.
func (c *Caster) CastColumn(origin Vec2, angle float64) RayHit {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return RayHit{}
	}
	hit, _ := c.traverse(origin, math.Cos(angle), math.Sin(angle), c.maxDepth)
	return hit
}

// LineOfSight reports whether the straight segment from -> to crosses no wall
// cell. Same traversal as CastColumn with the segment length as the cap.
func (c *Caster) LineOfSight(from, to Vec2) bool {
	dx, dy := to.X-from.X, to.Y-from.Y
	dist := math.Hypot(dx, dy)
	if data.CellOf(from.X, from.Y) == data.CellOf(to.X, to.Y) {
		return true
	}
	_, stop := c.traverse(from, dx/dist, dy/dist, dist)
	return stop == stopDepth
}

// traverse walks the grid along (dirX, dirY), a unit vector, until it enters a
// wall cell, the next grid line lies beyond limit, or it leaves the grid.
func (c *Caster) traverse(origin Vec2, dirX, dirY, limit float64) (RayHit, stopReason) {
	col := int(math.Floor(origin.X))
	row := int(math.Floor(origin.Y))

	deltaX, deltaY := math.Inf(1), math.Inf(1)
	if dirX != 0 {
		deltaX = math.Abs(1 / dirX)
	}
	if dirY != 0 {
		deltaY = math.Abs(1 / dirY)
	}

	stepX, stepY := 1, 1
	sideX, sideY := math.Inf(1), math.Inf(1)
	switch {
	case dirX < 0:
		stepX = -1
		sideX = (origin.X - float64(col)) * deltaX
	case dirX > 0:
		sideX = (float64(col) + 1 - origin.X) * deltaX
	}
	switch {
	case dirY < 0:
		stepY = -1
		sideY = (origin.Y - float64(row)) * deltaY
	case dirY > 0:
		sideY = (float64(row) + 1 - origin.Y) * deltaY
	}

	// Every step advances one axis by at least one cell length, so this cap
	// is never reached by a well-formed ray.
	maxSteps := 2*int(math.Ceil(limit)) + 4
	for i := 0; i < maxSteps; i++ {
		var dist float64
		var side Side
		if sideX < sideY {
			col += stepX
			dist = sideX
			sideX += deltaX
			side = SideWest
			if stepX < 0 {
				side = SideEast
			}
		} else {
			row += stepY
			dist = sideY
			sideY += deltaY
			side = SideNorth
			if stepY < 0 {
				side = SideSouth
			}
		}

		if dist > limit {
			return RayHit{}, stopDepth
		}
		if !c.grid.InBounds(col, row) {
			return RayHit{}, stopBounds
		}
		if !c.grid.IsWall(col, row) {
			continue
		}

		var offset float64
		if side.Vertical() {
			y := origin.Y + dist*dirY
			offset = y - math.Floor(y)
			if dirX < 0 {
				offset = 1 - offset
			}
		} else {
			x := origin.X + dist*dirX
			offset = x - math.Floor(x)
			if dirY > 0 {
				offset = 1 - offset
			}
		}
		if offset >= 1 {
			offset -= 1
		}
		return RayHit{
			Hit:      true,
			Distance: dist,
			Side:     side,
			Offset:   offset,
			WallType: c.grid.WallType(col, row),
			Cell:     data.Cell{Col: col, Row: row},
		}, stopWall
	}
	return RayHit{}, stopDepth
}
