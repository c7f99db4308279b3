package system

import (
	"time"

	"github.com/MartinDeV1991/Doom/internal/core/event"
	coresys "github.com/MartinDeV1991/Doom/internal/core/system"
	"github.com/MartinDeV1991/Doom/internal/raycast"
	"github.com/MartinDeV1991/Doom/internal/world"
	"go.uber.org/zap"
)

// WeaponSystem fires the player's weapon. A shot hits the nearest live NPC in
// line of sight whose sprite covers the crosshair in front of the centre wall.
// Phase 2 (Update), registered before the NPC handler so a kill takes effect
// the same frame.
type WeaponSystem struct {
	deps *Deps
}

func NewWeaponSystem(deps *Deps) *WeaponSystem {
	return &WeaponSystem{deps: deps}
}

func (s *WeaponSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *WeaponSystem) Update(dt time.Duration) {
	p := s.deps.World.Player
	p.Shooting = false
	if p.FireCooldown > 0 {
		p.FireCooldown = max(p.FireCooldown-dt, 0)
	}
	if s.deps.Status != StatusPlaying || !s.deps.Input.Fire || p.FireCooldown > 0 {
		return
	}
	p.FireCooldown = s.deps.Config.Player.FireCooldown
	p.Shooting = true

	target := s.pickTarget()
	event.Emit(s.deps.Bus, event.ShotFired{NpcID: targetID(target), Tick: s.deps.World.Tick})
	if target == nil {
		return
	}
	s.hit(target)
}

func targetID(npc *world.NpcInfo) int {
	if npc == nil {
		return 0
	}
	return npc.ID
}

func (s *WeaponSystem) pickTarget() *world.NpcInfo {
	d := s.deps
	view := d.View()
	centre := d.Caster.CastColumn(view.Origin, view.Heading)
	wallDepth := d.Caster.MaxDepth()
	if centre.Hit {
		wallDepth = centre.Distance
	}

	var best *world.NpcInfo
	bestDepth := wallDepth
	for _, npc := range d.World.NpcList() {
		if npc.Dead {
			continue
		}
		pos := raycast.Vec2{X: npc.X, Y: npc.Y}
		proj := raycast.ProjectSprite(view, pos, npc.Template.SpriteScale)
		if !proj.CoversCenter(view.ScreenWidth) || proj.Depth >= bestDepth {
			continue
		}
		if !d.Caster.LineOfSight(pos, view.Origin) {
			continue
		}
		best, bestDepth = npc, proj.Depth
	}
	return best
}

func (s *WeaponSystem) hit(npc *world.NpcInfo) {
	d := s.deps
	npc.Health -= d.Config.Player.WeaponDamage
	npc.PainTicks = npc.Template.PainTicks
	npc.Searching = true
	if npc.Health >= 1 {
		return
	}
	d.World.NpcDied(npc)
	event.Emit(d.Bus, event.NpcKilled{NpcID: npc.ID, Template: npc.Template.Name, Tick: d.World.Tick})
	d.Log.Debug("npc killed",
		zap.Int("npc_id", npc.ID),
		zap.String("template", npc.Template.Name),
		zap.Int("level", d.LevelIndex),
	)
}
