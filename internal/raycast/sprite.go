package raycast

import "math"

// minSpriteDepth keeps sprites hugging the camera from blowing up the
// projection.
const minSpriteDepth = 0.5

// SpriteProjection places a world-space billboard on screen.
type SpriteProjection struct {
	ScreenX  float64 // centre, pixels
	Distance float64 // euclidean from the camera
	Depth    float64 // perpendicular, comparable with Column.Depth
	Width    float64 // pixels
	Height   float64 // pixels
	Visible  bool
}

// CoversCenter reports whether the projected sprite spans the middle of the
// screen (the crosshair column).
func (p SpriteProjection) CoversCenter(screenWidth int) bool {
	half := float64(screenWidth) / 2
	return p.Visible && math.Abs(p.ScreenX-half) < p.Width/2
}

// ProjectSprite projects a square billboard at pos with the given scale.
func ProjectSprite(v View, pos Vec2, scale float64) SpriteProjection {
	dx := pos.X - v.Origin.X
	dy := pos.Y - v.Origin.Y
	dist := math.Hypot(dx, dy)
	delta := AngleDelta(math.Atan2(dy, dx), v.Heading)

	p := SpriteProjection{
		ScreenX:  (delta/v.FOV + 0.5) * float64(v.ScreenWidth),
		Distance: dist,
		Depth:    dist * math.Cos(delta),
	}
	if p.Depth <= minSpriteDepth {
		return p
	}
	size := v.ScreenDist() / p.Depth * scale
	p.Width, p.Height = size, size
	half := size / 2
	p.Visible = p.ScreenX > -half && p.ScreenX < float64(v.ScreenWidth)+half
	return p
}
