package system

import (
	"math/rand"
	"testing"

	"github.com/MartinDeV1991/Doom/internal/config"
	"github.com/MartinDeV1991/Doom/internal/core/event"
	"github.com/MartinDeV1991/Doom/internal/data"
	"github.com/MartinDeV1991/Doom/internal/raycast"
	"github.com/MartinDeV1991/Doom/internal/world"
	"go.uber.org/zap"
)

func newTestDeps(t *testing.T, rows ...string) *Deps {
	t.Helper()
	g, err := data.NewGridMap(rows)
	if err != nil {
		t.Fatalf("unexpected grid error: %v", err)
	}
	cfg := config.Default()
	cfg.Render.Columns = 64
	cfg.Render.ScreenWidth = 320
	cfg.Render.ScreenHeight = 200
	return &Deps{
		Config: cfg,
		Log:    zap.NewNop(),
		World:  world.NewState(),
		Bus:    event.NewBus(),
		Rand:   rand.New(rand.NewSource(1)),
		Grid:   g,
		Caster: raycast.NewCaster(g, cfg.Render.MaxDepth),
	}
}

func testTemplate() *data.NpcTemplate {
	return &data.NpcTemplate{
		Name:           "soldier",
		Health:         100,
		Speed:          1.8,
		Radius:         0.3,
		AttackDamage:   10,
		Accuracy:       1,
		AttackDistMin:  1.5,
		AttackDistMax:  1.5,
		AttackCooldown: 5,
		PainTicks:      3,
		SpriteScale:    0.6,
	}
}

func addNpc(d *Deps, x, y float64) *world.NpcInfo {
	npc := &world.NpcInfo{
		Template:   testTemplate(),
		X:          x,
		Y:          y,
		Health:     100,
		MaxHealth:  100,
		AttackDist: 1.5,
	}
	d.World.AddNpc(npc)
	return npc
}

// collect subscribes to events of type T and returns a pointer to the slice
// they are appended to once the bus is flushed.
func collect[T any](bus *event.Bus) *[]T {
	var got []T
	event.Subscribe(bus, func(e T) { got = append(got, e) })
	return &got
}
