// Package game owns one play session: the level list, the world state, the
// tick runner and the event bus. The frame driver feeds it one FrameInput per
// frame and draws the FrameOutput it returns.
package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/MartinDeV1991/Doom/internal/config"
	"github.com/MartinDeV1991/Doom/internal/core/event"
	coresys "github.com/MartinDeV1991/Doom/internal/core/system"
	"github.com/MartinDeV1991/Doom/internal/data"
	"github.com/MartinDeV1991/Doom/internal/raycast"
	"github.com/MartinDeV1991/Doom/internal/scripting"
	"github.com/MartinDeV1991/Doom/internal/system"
	"github.com/MartinDeV1991/Doom/internal/world"
	"go.uber.org/zap"
)

// FrameInput is everything the session needs to advance one frame.
type FrameInput struct {
	Elapsed time.Duration // wall time since the previous frame
	system.Input
}

// PlayerView is the player's pose and status as of the end of a frame.
type PlayerView struct {
	X, Y      float64
	Angle     float64
	Health    int
	MaxHealth int
	Shooting  bool
}

// FrameOutput is a read-only snapshot of one frame. Slices are fresh every
// frame and may be kept by the caller.
type FrameOutput struct {
	Tick       uint64
	LevelIndex int
	LevelName  string
	Status     system.Status
	Player     PlayerView
	Columns    []raycast.Column
	Sprites    []system.SpriteView // far to near
	LiveNpcs   int
}

// Option customises a Session.
type Option func(*Session)

// WithLogger sets the session logger. Default: zap.NewNop().
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithScripting enables Lua NPC rules.
func WithScripting(eng *scripting.Engine) Option {
	return func(s *Session) { s.scripting = eng }
}

// WithRand sets the random source for attack rolls and attack ranges.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rand = r }
}

type Session struct {
	cfg       *config.Config
	log       *zap.Logger
	levels    []data.LevelInfo
	npcs      *data.NpcTable
	scripting *scripting.Engine
	rand      *rand.Rand

	bus    *event.Bus
	deps   *system.Deps
	runner *coresys.Runner
}

// NewSession validates every level up front and loads cfg.Game.StartLevel.
func NewSession(cfg *config.Config, levels []data.LevelInfo, npcs *data.NpcTable, opts ...Option) (*Session, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("new session: no levels")
	}
	if npcs == nil {
		return nil, fmt.Errorf("new session: nil npc table")
	}
	for i := range levels {
		g, err := levels[i].Grid()
		if err != nil {
			return nil, fmt.Errorf("new session: %w", err)
		}
		if err := levels[i].Validate(g, npcs); err != nil {
			return nil, fmt.Errorf("new session: %w", err)
		}
	}

	s := &Session{
		cfg:    cfg,
		log:    zap.NewNop(),
		levels: levels,
		npcs:   npcs,
		bus:    event.NewBus(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rand == nil {
		seed := cfg.Game.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		s.rand = rand.New(rand.NewSource(seed))
	}

	s.deps = &system.Deps{
		Config:    cfg,
		Log:       s.log,
		World:     world.NewState(),
		Bus:       s.bus,
		Scripting: s.scripting,
		Rand:      s.rand,
		Npcs:      npcs,
	}

	// Registration order is the in-phase order.
	s.runner = coresys.NewRunner()
	s.runner.Register(system.NewPlayerSystem(s.deps))
	s.runner.Register(system.NewEventDispatchSystem(s.bus))
	s.runner.Register(system.NewWeaponSystem(s.deps))
	s.runner.Register(system.NewNpcAISystem(s.deps))
	s.runner.Register(system.NewRegenSystem(s.deps))
	s.runner.Register(system.NewRenderSystem(s.deps))
	s.runner.Register(system.NewCleanupSystem(s.deps))

	start := cfg.Game.StartLevel
	if start < 0 || start >= len(levels) {
		start = 0
	}
	if err := s.ResetLevel(start); err != nil {
		return nil, err
	}
	return s, nil
}

// Bus returns the session event bus. Subscribers run during the next frame's
// dispatch phase, or on an explicit Flush.
func (s *Session) Bus() *event.Bus { return s.bus }

// Level returns the index and name of the loaded level.
func (s *Session) Level() (int, string) { return s.deps.LevelIndex, s.deps.LevelName }

// LevelCount returns the number of levels in the rotation.
func (s *Session) LevelCount() int { return len(s.levels) }

// AdvanceFrame runs every system once. A frame that ends the level attempt
// reports its terminal status; the level is rebuilt before the call returns
// (same level after a death, the next one after a clear).
func (s *Session) AdvanceFrame(in FrameInput) FrameOutput {
	d := s.deps
	d.World.Tick++
	d.Input = in.Input
	d.Elapsed += in.Elapsed

	s.runner.Tick(in.Elapsed)

	p := d.World.Player
	out := FrameOutput{
		Tick:       d.World.Tick,
		LevelIndex: d.LevelIndex,
		LevelName:  d.LevelName,
		Status:     d.Status,
		Player: PlayerView{
			X:         p.X,
			Y:         p.Y,
			Angle:     p.Angle,
			Health:    p.Health,
			MaxHealth: p.MaxHealth,
			Shooting:  p.Shooting,
		},
		Columns:  d.Frame.Columns,
		Sprites:  d.Frame.Sprites,
		LiveNpcs: d.World.LiveNpcCount(),
	}

	next := d.LevelIndex
	switch d.Status {
	case system.StatusGameOver:
	case system.StatusLevelCleared:
		next = (d.LevelIndex + 1) % len(s.levels)
	default:
		return out
	}
	if err := s.ResetLevel(next); err != nil {
		// Levels are validated in NewSession; this only fires on a broken invariant.
		s.log.Error("level reset failed", zap.Int("level", next), zap.Error(err))
	}
	return out
}

// ResetLevel rebuilds the grid, the NPC set and the player in place for the
// given level. Systems keep their Deps pointer across resets.
func (s *Session) ResetLevel(levelIndex int) error {
	if levelIndex < 0 || levelIndex >= len(s.levels) {
		return fmt.Errorf("reset level: index %d out of range [0,%d)", levelIndex, len(s.levels))
	}
	lvl := &s.levels[levelIndex]
	g, err := lvl.Grid()
	if err != nil {
		return fmt.Errorf("reset level: %w", err)
	}
	if err := lvl.Validate(g, s.npcs); err != nil {
		return fmt.Errorf("reset level: %w", err)
	}

	d := s.deps
	d.World.Reset()
	d.Grid = g
	d.Caster = raycast.NewCaster(g, min(s.cfg.Render.MaxDepth, g.MaxTraversal()))
	d.LevelIndex = levelIndex
	d.LevelName = lvl.Name
	d.Elapsed = 0
	d.Input = system.Input{}
	d.Status = system.StatusPlaying
	d.Frame = system.Frame{}

	d.World.PlacePlayer(lvl.PlayerX, lvl.PlayerY, lvl.PlayerAngle, s.cfg.Player.MaxHealth)
	for _, sp := range lvl.Spawns {
		tmpl := s.npcs.Get(sp.Npc)
		d.World.AddNpc(&world.NpcInfo{
			Template:   tmpl,
			X:          sp.X,
			Y:          sp.Y,
			Health:     tmpl.Health,
			MaxHealth:  tmpl.Health,
			AttackDist: tmpl.AttackDistMin + s.rand.Float64()*(tmpl.AttackDistMax-tmpl.AttackDistMin),
			State:      world.NpcIdle,
		})
	}

	s.log.Info("level loaded",
		zap.Int("level", levelIndex),
		zap.String("name", lvl.Name),
		zap.Int("npcs", len(lvl.Spawns)),
	)
	return nil
}
