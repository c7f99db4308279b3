package system

import (
	"math"
	"time"

	coresys "github.com/MartinDeV1991/Doom/internal/core/system"
	"github.com/MartinDeV1991/Doom/internal/data"
	"github.com/MartinDeV1991/Doom/internal/raycast"
	"github.com/MartinDeV1991/Doom/internal/world"
)

// PlayerSystem applies movement and turning input. Phase 0 (Input).
type PlayerSystem struct {
	deps *Deps
}

func NewPlayerSystem(deps *Deps) *PlayerSystem {
	return &PlayerSystem{deps: deps}
}

func (s *PlayerSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *PlayerSystem) Update(dt time.Duration) {
	if s.deps.Status != StatusPlaying {
		return
	}
	secs := dt.Seconds()
	s.move(secs)
	s.turn(secs)
}

func (s *PlayerSystem) move(secs float64) {
	in := s.deps.Input
	p := s.deps.World.Player
	cos, sin := p.Direction()

	var dx, dy float64
	if in.Forward {
		dx += cos
		dy += sin
	}
	if in.Backward {
		dx -= cos
		dy -= sin
	}
	if in.StrafeLeft {
		dx += sin
		dy -= cos
	}
	if in.StrafeRight {
		dx -= sin
		dy += cos
	}
	length := math.Hypot(dx, dy)
	if length < 1e-9 {
		return
	}
	step := s.deps.Config.Player.Speed * secs / length
	dx *= step
	dy *= step

	// Per-axis collision so the player slides along walls.
	r := s.deps.Config.Player.Radius
	x, y := p.X, p.Y
	if s.canEnter(x+dx+sign(dx)*r, y, x+dx, y) {
		x += dx
	}
	if s.canEnter(x, y+dy+sign(dy)*r, x, y+dy) {
		y += dy
	}
	s.deps.World.UpdatePlayerPosition(x, y)
}

// canEnter checks the collision probe against walls and the body position
// against cells held by NPCs.
func (s *PlayerSystem) canEnter(probeX, probeY, bodyX, bodyY float64) bool {
	if s.deps.wallAt(probeX, probeY) {
		return false
	}
	c := data.CellOf(bodyX, bodyY)
	if c == s.deps.World.Player.Cell() {
		return true
	}
	return !s.deps.World.IsOccupied(c, world.PlayerID)
}

func (s *PlayerSystem) turn(secs float64) {
	in := s.deps.Input
	cfg := s.deps.Config.Player
	p := s.deps.World.Player

	if in.TurnLeft {
		p.Angle -= cfg.RotSpeed * secs
	}
	if in.TurnRight {
		p.Angle += cfg.RotSpeed * secs
	}
	if in.MouseDX != 0 {
		rel := math.Max(-cfg.MouseMaxRel, math.Min(cfg.MouseMaxRel, in.MouseDX))
		p.Angle += rel * cfg.MouseSensitivity * secs
	}
	p.Angle = raycast.NormalizeAngle(p.Angle)
}
