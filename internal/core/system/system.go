package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseInput      Phase = iota // 0: apply player input
	PhasePreUpdate               // 1: deliver last frame's events
	PhaseUpdate                  // 2: weapon, npc handler
	PhasePostUpdate              // 3: regen
	PhaseOutput                  // 4: build the frame snapshot
	PhaseCleanup                 // 5: drop dead npcs, win/lose
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhasePreUpdate:
		return "pre-update"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post-update"
	case PhaseOutput:
		return "output"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is one unit of per-frame work.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
