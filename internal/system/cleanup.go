package system

import (
	"time"

	"github.com/MartinDeV1991/Doom/internal/core/event"
	coresys "github.com/MartinDeV1991/Doom/internal/core/system"
	"go.uber.org/zap"
)

// CleanupSystem drops dead NPCs from the active set and decides whether the
// level attempt ended. Phase 5 (Cleanup).
type CleanupSystem struct {
	deps *Deps
}

func NewCleanupSystem(deps *Deps) *CleanupSystem {
	return &CleanupSystem{deps: deps}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	d := s.deps
	d.World.RemoveDead()
	if d.Status != StatusPlaying {
		return
	}

	var outcome event.Outcome
	switch {
	case !d.World.Player.Alive():
		d.Status = StatusGameOver
		outcome = event.OutcomeDied
	case d.World.LiveNpcCount() == 0:
		d.Status = StatusLevelCleared
		outcome = event.OutcomeCleared
	default:
		return
	}

	event.Emit(d.Bus, event.LevelFinished{
		LevelIndex: d.LevelIndex,
		LevelName:  d.LevelName,
		Outcome:    outcome,
		Ticks:      d.World.Tick,
		Elapsed:    d.Elapsed,
		Kills:      d.World.Kills,
		Health:     d.World.Player.Health,
	})
	d.Log.Info("level finished",
		zap.Int("level", d.LevelIndex),
		zap.String("name", d.LevelName),
		zap.String("outcome", string(outcome)),
		zap.Uint64("ticks", d.World.Tick),
		zap.Int("kills", d.World.Kills),
	)
}
