package event

import "time"

// NpcKilled is emitted when a shot drops an NPC's health to zero.
type NpcKilled struct {
	NpcID    int
	Template string
	Tick     uint64
}

// PlayerDamaged is emitted for every NPC attack that lands.
type PlayerDamaged struct {
	NpcID  int
	Damage int
	Health int // player health after the hit
}

// ShotFired is emitted when the player's weapon discharges. NpcID is 0 on a
// miss.
type ShotFired struct {
	NpcID int
	Tick  uint64
}

// Outcome is how a level attempt ended.
type Outcome string

const (
	OutcomeCleared Outcome = "cleared"
	OutcomeDied    Outcome = "died"
)

// LevelFinished is emitted once per level attempt, on the frame that ends it.
type LevelFinished struct {
	LevelIndex int
	LevelName  string
	Outcome    Outcome
	Ticks      uint64
	Elapsed    time.Duration
	Kills      int
	Health     int
}
