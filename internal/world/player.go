package world

import (
	"math"
	"time"

	"github.com/MartinDeV1991/Doom/internal/data"
)

// Player is the camera and the target every NPC chases.
type Player struct {
	X, Y  float64
	Angle float64 // heading in radians, [0, 2π)

	Health    int
	MaxHealth int

	RecoveryAcc  time.Duration // time banked toward the next +1 health
	FireCooldown time.Duration // time until the weapon can fire again
	Shooting     bool          // a shot was fired this frame
}

// Cell returns the grid cell the player stands in.
func (p *Player) Cell() data.Cell { return data.CellOf(p.X, p.Y) }

// Alive reports whether the player still has health.
func (p *Player) Alive() bool { return p.Health >= 1 }

// Damage subtracts dmg, clamping at zero, and returns the new health.
func (p *Player) Damage(dmg int) int {
	p.Health -= dmg
	if p.Health < 0 {
		p.Health = 0
	}
	return p.Health
}

// Heal adds amount up to MaxHealth.
func (p *Player) Heal(amount int) {
	p.Health = min(p.Health+amount, p.MaxHealth)
}

// Direction returns the unit heading vector.
func (p *Player) Direction() (float64, float64) {
	return math.Cos(p.Angle), math.Sin(p.Angle)
}
