package raycast

import "math"

// View describes the camera for one frame.
type View struct {
	Origin       Vec2
	Heading      float64 // radians
	FOV          float64 // radians
	Columns      int     // rays per frame
	ScreenWidth  int     // pixels
	ScreenHeight int     // pixels
}

// ColumnAngle returns the ray angle of column i:
// heading - FOV/2 + i*FOV/(N-1). A single-column view looks along the heading.
func (v View) ColumnAngle(i int) float64 {
	if v.Columns <= 1 {
		return v.Heading
	}
	return v.Heading - v.FOV/2 + float64(i)*v.FOV/float64(v.Columns-1)
}

// ScreenDist is the distance from the eye to the projection plane in pixels.
func (v View) ScreenDist() float64 {
	return float64(v.ScreenWidth) / 2 / math.Tan(v.FOV/2)
}

// ColumnWidth is the pixel width of one wall strip.
func (v View) ColumnWidth() float64 {
	if v.Columns <= 0 {
		return 0
	}
	return float64(v.ScreenWidth) / float64(v.Columns)
}

// Column is one screen column of a frame.
type Column struct {
	Index  int
	Angle  float64
	Hit    RayHit
	Depth  float64 // perpendicular (fish-eye corrected); max depth on a miss
	Height float64 // projected wall strip height in pixels; 0 on a miss
}

// CastView casts every column of the view. The result is valid for the
// current frame only.
func (c *Caster) CastView(v View) []Column {
	cols := make([]Column, v.Columns)
	screenDist := v.ScreenDist()
	for i := range cols {
		angle := v.ColumnAngle(i)
		hit := c.CastColumn(v.Origin, angle)
		col := Column{Index: i, Angle: angle, Hit: hit, Depth: c.maxDepth}
		if hit.Hit {
			col.Depth = hit.Distance * math.Cos(v.Heading-angle)
			col.Height = screenDist / (col.Depth + 0.0001)
		}
		cols[i] = col
	}
	return cols
}

// NormalizeAngle wraps a into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// AngleDelta returns the signed difference a-b wrapped into (-π, π].
func AngleDelta(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
