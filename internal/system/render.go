package system

import (
	"sort"
	"time"

	coresys "github.com/MartinDeV1991/Doom/internal/core/system"
	"github.com/MartinDeV1991/Doom/internal/raycast"
)

// RenderSystem casts every screen column and projects NPC sprites into the
// frame snapshot. Phase 4 (Output).
type RenderSystem struct {
	deps *Deps
}

func NewRenderSystem(deps *Deps) *RenderSystem {
	return &RenderSystem{deps: deps}
}

func (s *RenderSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *RenderSystem) Update(_ time.Duration) {
	d := s.deps
	view := d.View()
	d.Frame.Columns = d.Caster.CastView(view)

	sprites := make([]SpriteView, 0, len(d.World.NpcList()))
	for _, npc := range d.World.NpcList() {
		if npc.Dead {
			continue
		}
		proj := raycast.ProjectSprite(view, raycast.Vec2{X: npc.X, Y: npc.Y}, npc.Template.SpriteScale)
		if !proj.Visible {
			continue
		}
		sprites = append(sprites, SpriteView{
			NpcID:      npc.ID,
			Template:   npc.Template.Name,
			State:      npc.State,
			Pain:       npc.InPain(),
			Projection: proj,
		})
	}
	sort.SliceStable(sprites, func(i, j int) bool {
		return sprites[i].Projection.Depth > sprites[j].Projection.Depth
	})
	d.Frame.Sprites = sprites
}
