package system

import (
	"math"
	"time"

	"github.com/MartinDeV1991/Doom/internal/core/event"
	coresys "github.com/MartinDeV1991/Doom/internal/core/system"
	"github.com/MartinDeV1991/Doom/internal/data"
	"github.com/MartinDeV1991/Doom/internal/pathfind"
	"github.com/MartinDeV1991/Doom/internal/raycast"
	"github.com/MartinDeV1991/Doom/internal/scripting"
	"github.com/MartinDeV1991/Doom/internal/world"
	"go.uber.org/zap"
)

// NpcAISystem is the per-tick NPC handler. Every decision and path query of a
// tick reads one frozen occupancy snapshot; moves are applied afterwards in ID
// order. Lua npc_ai makes the decision when scripts are loaded, otherwise the
// built-in rule does. Phase 2 (Update).
type NpcAISystem struct {
	deps    *Deps
	intents []npcIntent
}

type npcIntent struct {
	npc    *world.NpcInfo
	action world.NpcState
	target data.Cell
	move   bool
}

func NewNpcAISystem(deps *Deps) *NpcAISystem {
	return &NpcAISystem{deps: deps}
}

func (s *NpcAISystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *NpcAISystem) Update(dt time.Duration) {
	if s.deps.Status != StatusPlaying {
		return
	}
	ws := s.deps.World
	p := ws.Player
	snap := ws.Snapshot()
	playerPos := raycast.Vec2{X: p.X, Y: p.Y}

	// Read phase: nothing here touches occupancy.
	s.intents = s.intents[:0]
	for _, npc := range ws.NpcList() {
		if npc.Dead {
			continue
		}
		if npc.AttackTimer > 0 {
			npc.AttackTimer--
		}
		npc.PlayerDistance = npc.DistanceTo(p.X, p.Y)
		npc.PlayerVisible = s.deps.Caster.LineOfSight(raycast.Vec2{X: npc.X, Y: npc.Y}, playerPos)
		if npc.PlayerVisible {
			npc.Searching = true
		}

		action := s.decide(npc)
		if npc.PainTicks > 0 {
			npc.PainTicks--
		}
		npc.State = action

		it := npcIntent{npc: npc, action: action}
		if action == world.NpcChase {
			if next, ok := s.nextStep(npc, snap); ok && next != snap.PlayerCell {
				it.target, it.move = next, true
			}
		}
		s.intents = append(s.intents, it)
	}

	// Barrier: apply moves in ID order against live occupancy.
	secs := dt.Seconds()
	for _, it := range s.intents {
		if it.move {
			s.step(it.npc, it.target, secs)
		}
	}

	for _, it := range s.intents {
		if it.action == world.NpcAttack {
			s.attack(it.npc)
		}
	}
}

// decide picks the NPC's action for this tick.
func (s *NpcAISystem) decide(npc *world.NpcInfo) world.NpcState {
	if eng := s.deps.Scripting; eng != nil {
		cmds := eng.RunNpcAI(scripting.AIContext{
			NpcID:      npc.ID,
			Template:   npc.Template.Name,
			Health:     npc.Health,
			MaxHealth:  npc.MaxHealth,
			InPain:     npc.InPain(),
			Visible:    npc.PlayerVisible,
			Searching:  npc.Searching,
			PlayerDist: npc.PlayerDistance,
			AttackDist: npc.AttackDist,
			CanAttack:  npc.AttackTimer == 0,
		})
		if len(cmds) > 0 {
			if st, ok := commandState(cmds[0].Type, npc); ok {
				return st
			}
			s.deps.Log.Warn("unknown npc_ai command", zap.String("type", cmds[0].Type), zap.Int("npc_id", npc.ID))
		}
	}
	return decideBuiltin(npc)
}

// decideBuiltin: seeing the player latches searching; pain holds; visible and
// in range attacks; visible or searching chases; otherwise idle.
func decideBuiltin(npc *world.NpcInfo) world.NpcState {
	switch {
	case npc.InPain():
		return world.NpcPain
	case npc.PlayerVisible && npc.PlayerDistance < npc.AttackDist:
		return world.NpcAttack
	case npc.PlayerVisible || npc.Searching:
		return world.NpcChase
	}
	return world.NpcIdle
}

func commandState(cmd string, npc *world.NpcInfo) (world.NpcState, bool) {
	switch cmd {
	case "attack":
		return world.NpcAttack, true
	case "chase":
		return world.NpcChase, true
	case "hold":
		if npc.InPain() {
			return world.NpcPain, true
		}
		return world.NpcHold, true
	case "idle":
		return world.NpcIdle, true
	}
	return world.NpcIdle, false
}

// nextStep returns the cell the NPC should head for, reusing the cached path
// unless the goal moved, the next step is now occupied, or the recompute
// cooldown ran out.
func (s *NpcAISystem) nextStep(npc *world.NpcInfo, snap world.Snapshot) (data.Cell, bool) {
	cur := npc.Cell()
	goal := snap.PlayerCell
	for len(npc.Path) > 0 && npc.Path[0] == cur {
		npc.Path = npc.Path[1:]
	}
	if npc.PathTimer > 0 {
		npc.PathTimer--
	}

	next, ok := pathfind.NextStep(npc.Path)
	stale := !ok ||
		npc.PathGoal != goal ||
		npc.PathTimer <= 0 ||
		!adjacent(cur, next) ||
		(next != goal && snap.IsOccupied(next))
	if stale {
		npc.Path = pathfind.FindPath(s.deps.Grid, cur, goal, snap.Blocked())
		npc.PathGoal = goal
		npc.PathTimer = s.deps.Config.Npc.PathRecomputeTicks
		next, ok = pathfind.NextStep(npc.Path)
	}
	if !ok {
		npc.State = world.NpcHold
	}
	return next, ok
}

func adjacent(a, b data.Cell) bool {
	dc, dr := a.Col-b.Col, a.Row-b.Row
	return dc*dc+dr*dr == 1
}

// step moves the NPC toward the centre of target. A move that would enter a
// cell claimed by the player or another NPC is rejected and the NPC holds.
func (s *NpcAISystem) step(npc *world.NpcInfo, target data.Cell, secs float64) {
	tx, ty := target.Center()
	dx, dy := tx-npc.X, ty-npc.Y
	dist := math.Hypot(dx, dy)
	speed := npc.Template.Speed * secs
	if dist > speed && dist > 0 {
		dx, dy = dx/dist*speed, dy/dist*speed
	}

	r := npc.Template.Radius
	x, y := npc.X, npc.Y
	if !s.deps.wallAt(x+dx+sign(dx)*r, y) {
		x += dx
	}
	if !s.deps.wallAt(x, y+dy+sign(dy)*r) {
		y += dy
	}

	to := data.CellOf(x, y)
	if to != npc.Cell() && s.deps.World.IsOccupied(to, npc.ID) {
		npc.State = world.NpcHold
		return
	}
	s.deps.World.UpdateNpcPosition(npc.ID, x, y)
}

func (s *NpcAISystem) attack(npc *world.NpcInfo) {
	if npc.AttackTimer > 0 {
		return
	}
	d := s.deps
	tmpl := npc.Template
	npc.AttackTimer = tmpl.AttackCooldown

	roll := d.Rand.Float64()
	var res scripting.CombatResult
	ok := false
	if d.Scripting != nil {
		res, ok = d.Scripting.CalcNpcHit(scripting.NpcHitContext{
			NpcID:        npc.ID,
			Damage:       tmpl.AttackDamage,
			Accuracy:     tmpl.Accuracy,
			Distance:     npc.PlayerDistance,
			PlayerHealth: d.World.Player.Health,
			Roll:         roll,
		})
	}
	if !ok {
		res = scripting.CombatResult{IsHit: roll < tmpl.Accuracy, Damage: tmpl.AttackDamage}
	}
	if !res.IsHit || res.Damage <= 0 {
		return
	}
	health := d.World.Player.Damage(res.Damage)
	event.Emit(d.Bus, event.PlayerDamaged{NpcID: npc.ID, Damage: res.Damage, Health: health})
}
