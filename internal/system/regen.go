package system

import (
	"time"

	coresys "github.com/MartinDeV1991/Doom/internal/core/system"
)

// RegenSystem restores one point of player health per recovery interval while
// below max. Phase 3 (PostUpdate).
type RegenSystem struct {
	deps *Deps
}

func NewRegenSystem(deps *Deps) *RegenSystem {
	return &RegenSystem{deps: deps}
}

func (s *RegenSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *RegenSystem) Update(dt time.Duration) {
	p := s.deps.World.Player
	delay := s.deps.Config.Player.RecoveryDelay
	if !p.Alive() || p.Health >= p.MaxHealth || delay <= 0 {
		p.RecoveryAcc = 0
		return
	}
	p.RecoveryAcc += dt
	for p.RecoveryAcc >= delay && p.Health < p.MaxHealth {
		p.RecoveryAcc -= delay
		p.Heal(1)
	}
}
