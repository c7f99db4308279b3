package world

import (
	"math"

	"github.com/MartinDeV1991/Doom/internal/data"
)

// NpcState is what an NPC decided to do on the last tick.
type NpcState uint8

const (
	NpcIdle NpcState = iota
	NpcChase
	NpcAttack
	NpcHold
	NpcPain
	NpcDead
)

func (s NpcState) String() string {
	switch s {
	case NpcChase:
		return "chase"
	case NpcAttack:
		return "attack"
	case NpcHold:
		return "hold"
	case NpcPain:
		return "pain"
	case NpcDead:
		return "dead"
	}
	return "idle"
}

// NpcInfo holds runtime data for an NPC in the current level.
// Accessed only from the frame goroutine, no locks.
type NpcInfo struct {
	ID       int // unique within the level, assigned in spawn order
	Template *data.NpcTemplate
	X, Y     float64

	Health    int
	MaxHealth int
	Dead      bool

	// Combat state
	PainTicks   int     // >0 while flinching from a hit
	AttackDist  float64 // rolled once at spawn from the template range
	AttackTimer int     // ticks until the next attack is allowed

	// AI state
	Searching      bool // latched the first time the player is seen
	PlayerVisible  bool // line of sight result of the current tick
	PlayerDistance float64
	State          NpcState

	// Path cache
	Path      []data.Cell
	PathGoal  data.Cell
	PathTimer int // ticks until a forced recompute
}

// Cell returns the grid cell the NPC stands in.
func (n *NpcInfo) Cell() data.Cell { return data.CellOf(n.X, n.Y) }

// InPain reports whether the NPC is still flinching.
func (n *NpcInfo) InPain() bool { return n.PainTicks > 0 }

// DistanceTo returns the euclidean distance to (x, y).
func (n *NpcInfo) DistanceTo(x, y float64) float64 {
	return math.Hypot(x-n.X, y-n.Y)
}

// ClearPath drops the cached route.
func (n *NpcInfo) ClearPath() {
	n.Path = n.Path[:0]
	n.PathTimer = 0
}
