package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/MartinDeV1991/Doom/internal/config"
	"github.com/MartinDeV1991/Doom/internal/core/event"
	"github.com/MartinDeV1991/Doom/internal/data"
	"github.com/MartinDeV1991/Doom/internal/system"
)

const frame = 16 * time.Millisecond

var corridor = []string{
	"1111111",
	"1.....1",
	"1111111",
}

func testNpcs(t *testing.T) *data.NpcTable {
	t.Helper()
	tbl := data.NewNpcTable()
	for _, tmpl := range []data.NpcTemplate{
		{Name: "soldier", Health: 50, Speed: 1.8, AttackDamage: 10, Accuracy: 0, AttackDistMin: 1.5, AttackDistMax: 3},
		{Name: "brute", Health: 500, Speed: 1.8, AttackDamage: 200, Accuracy: 1, AttackDistMin: 1.5, AttackDistMax: 1.5},
	} {
		if err := tbl.Add(tmpl); err != nil {
			t.Fatalf("add template: %v", err)
		}
	}
	return tbl
}

func newTestSession(t *testing.T, levels ...data.LevelInfo) *Session {
	t.Helper()
	cfg := config.Default()
	cfg.Render.Columns = 64
	cfg.Render.ScreenWidth = 320
	cfg.Render.ScreenHeight = 200
	s, err := NewSession(cfg, levels, testNpcs(t), WithRand(rand.New(rand.NewSource(7))))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func corridorLevel(id int, name string, npc string, x float64) data.LevelInfo {
	return data.LevelInfo{
		ID:      id,
		Name:    name,
		Rows:    corridor,
		PlayerX: 1.5,
		PlayerY: 1.5,
		Spawns:  []data.SpawnEntry{{Npc: npc, X: x, Y: 1.5}},
	}
}

func TestClearingLevelLoadsNextAndWraps(t *testing.T) {
	s := newTestSession(t,
		corridorLevel(1, "first", "soldier", 5.5),
		corridorLevel(2, "second", "soldier", 5.5),
	)
	var finished []event.LevelFinished
	event.Subscribe(s.Bus(), func(e event.LevelFinished) { finished = append(finished, e) })

	out := s.AdvanceFrame(FrameInput{Elapsed: frame, Input: system.Input{Fire: true}})
	if out.Status != system.StatusLevelCleared || out.LevelIndex != 0 || out.LiveNpcs != 0 {
		t.Fatalf("expected level 0 cleared, got status %v level %d live %d", out.Status, out.LevelIndex, out.LiveNpcs)
	}
	if idx, name := s.Level(); idx != 1 || name != "second" {
		t.Fatalf("expected level 1 loaded, got %d %q", idx, name)
	}

	out = s.AdvanceFrame(FrameInput{Elapsed: frame})
	if out.Status != system.StatusPlaying || out.LevelIndex != 1 || out.Tick != 1 || out.LiveNpcs != 1 {
		t.Fatalf("unexpected first frame of level 1: %+v", out)
	}
	if len(finished) != 1 || finished[0].Outcome != event.OutcomeCleared || finished[0].LevelIndex != 0 || finished[0].Kills != 1 {
		t.Fatalf("expected one cleared result for level 0, got %+v", finished)
	}

	out = s.AdvanceFrame(FrameInput{Elapsed: frame, Input: system.Input{Fire: true}})
	if out.Status != system.StatusLevelCleared {
		t.Fatalf("expected level 1 cleared, got %v", out.Status)
	}
	if idx, _ := s.Level(); idx != 0 {
		t.Fatalf("expected rotation to wrap to level 0, got %d", idx)
	}
}

func TestDeathRestartsLevel(t *testing.T) {
	s := newTestSession(t, corridorLevel(1, "first", "brute", 2.5))

	out := s.AdvanceFrame(FrameInput{Elapsed: frame})
	if out.Status != system.StatusGameOver || out.Player.Health != 0 {
		t.Fatalf("expected game over at zero health, got %v health %d", out.Status, out.Player.Health)
	}
	if idx, _ := s.Level(); idx != 0 {
		t.Fatalf("expected the same level reloaded, got %d", idx)
	}
	p := s.deps.World.Player
	if p.Health != p.MaxHealth || p.X != 1.5 || p.Y != 1.5 {
		t.Fatalf("expected player respawned at full health, got %+v", *p)
	}
	if s.deps.World.Tick != 0 || s.deps.Status != system.StatusPlaying {
		t.Fatalf("expected fresh attempt, tick %d status %v", s.deps.World.Tick, s.deps.Status)
	}
}

func TestNpcChasesPlayerAcrossRoom(t *testing.T) {
	s := newTestSession(t, data.LevelInfo{
		ID:   1,
		Name: "room",
		Rows: []string{
			"1111111111",
			"1........1",
			"1........1",
			"1........1",
			"1........1",
			"1........1",
			"1........1",
			"1........1",
			"1........1",
			"1111111111",
		},
		PlayerX: 2.5,
		PlayerY: 5.5,
		Spawns:  []data.SpawnEntry{{Npc: "soldier", X: 7.5, Y: 5.5}},
	})
	// Pin the attack range so the NPC has to close in to the adjacent cell.
	s.deps.World.NpcList()[0].AttackDist = 1.5

	var out FrameOutput
	for i := 0; i < 60; i++ {
		out = s.AdvanceFrame(FrameInput{Elapsed: 100 * time.Millisecond})
	}
	if out.Status != system.StatusPlaying {
		t.Fatalf("expected play to continue, got %v", out.Status)
	}
	npc := s.deps.World.NpcList()[0]
	c := npc.Cell()
	if c.Col != 3 || c.Row != 5 {
		t.Fatalf("expected npc next to the player at (3,5), got %v", c)
	}
	if len(out.Columns) != 64 || len(out.Sprites) != 1 {
		t.Fatalf("expected 64 columns and one sprite, got %d and %d", len(out.Columns), len(out.Sprites))
	}
}

func TestNewSessionRejectsBadLevel(t *testing.T) {
	bad := corridorLevel(1, "bad", "soldier", 5.5)
	bad.PlayerX = 0.5
	_, err := NewSession(config.Default(), []data.LevelInfo{bad}, testNpcs(t))
	if err == nil {
		t.Fatal("expected an error for a player spawn inside a wall")
	}
	if _, err := NewSession(config.Default(), nil, testNpcs(t)); err == nil {
		t.Fatal("expected an error for an empty level list")
	}
}

func TestResetLevelOutOfRange(t *testing.T) {
	s := newTestSession(t, corridorLevel(1, "first", "soldier", 5.5))
	if err := s.ResetLevel(3); err == nil {
		t.Fatal("expected an error for a missing level")
	}
}

func TestCasterDepthCappedByGrid(t *testing.T) {
	s := newTestSession(t, corridorLevel(1, "first", "soldier", 5.5))
	if got, want := s.deps.Caster.MaxDepth(), s.deps.Grid.MaxTraversal(); got != want {
		t.Fatalf("expected caster depth capped at grid traversal %v, got %v", want, got)
	}

	s.cfg.Render.MaxDepth = 2
	if err := s.ResetLevel(0); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got := s.deps.Caster.MaxDepth(); got != 2 {
		t.Fatalf("expected configured depth 2 below the grid cap, got %v", got)
	}
}
