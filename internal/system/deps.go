package system

import (
	"math/rand"
	"time"

	"github.com/MartinDeV1991/Doom/internal/config"
	"github.com/MartinDeV1991/Doom/internal/core/event"
	"github.com/MartinDeV1991/Doom/internal/data"
	"github.com/MartinDeV1991/Doom/internal/raycast"
	"github.com/MartinDeV1991/Doom/internal/scripting"
	"github.com/MartinDeV1991/Doom/internal/world"
	"go.uber.org/zap"
)

// Status is the session state reported with every frame.
type Status uint8

const (
	StatusPlaying Status = iota
	StatusGameOver
	StatusLevelCleared
)

func (s Status) String() string {
	switch s {
	case StatusGameOver:
		return "game_over"
	case StatusLevelCleared:
		return "level_cleared"
	}
	return "playing"
}

// Input is the player's intent for one frame.
type Input struct {
	Forward     bool
	Backward    bool
	StrafeLeft  bool
	StrafeRight bool
	TurnLeft    bool
	TurnRight   bool
	MouseDX     float64 // horizontal mouse motion since last frame, pixels
	Fire        bool
}

// SpriteView is one NPC billboard ready for depth-sorted compositing.
type SpriteView struct {
	NpcID      int
	Template   string
	State      world.NpcState
	Pain       bool
	Projection raycast.SpriteProjection
}

// Frame is the render output of the current frame.
type Frame struct {
	Columns []raycast.Column
	Sprites []SpriteView // far to near
}

// Deps holds the session state shared by every system. The session owns it
// and swaps the level fields in place on reset; systems keep the pointer.
type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	World     *world.State
	Bus       *event.Bus
	Scripting *scripting.Engine // nil = built-in NPC rules
	Rand      *rand.Rand
	Npcs      *data.NpcTable

	// Level, rebuilt on reset
	Grid       *data.GridMap
	Caster     *raycast.Caster
	LevelIndex int
	LevelName  string
	Elapsed    time.Duration // simulated time in the current level attempt

	// Per frame
	Input  Input
	Status Status
	Frame  Frame
}

// View returns the camera for the player's current pose.
func (d *Deps) View() raycast.View {
	p := d.World.Player
	r := d.Config.Render
	return raycast.View{
		Origin:       raycast.Vec2{X: p.X, Y: p.Y},
		Heading:      p.Angle,
		FOV:          r.FOV(),
		Columns:      r.Columns,
		ScreenWidth:  r.ScreenWidth,
		ScreenHeight: r.ScreenHeight,
	}
}

// wallAt reports whether the world position lies in a wall cell.
func (d *Deps) wallAt(x, y float64) bool {
	c := data.CellOf(x, y)
	return d.Grid.IsWall(c.Col, c.Row)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
