package main

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/MartinDeV1991/Doom/internal/config"
	"github.com/MartinDeV1991/Doom/internal/game"
	"github.com/MartinDeV1991/Doom/internal/raycast"
	"github.com/MartinDeV1991/Doom/internal/system"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const bannerDuration = 1500 * time.Millisecond

var (
	ceilingColor = color.RGBA{30, 30, 30, 255}
	floorColor   = color.RGBA{58, 58, 58, 255}
	npcColor     = color.RGBA{170, 40, 30, 255}
	painColor    = color.RGBA{240, 200, 200, 255}
	crossColor   = color.RGBA{255, 255, 255, 160}
)

// wallColors is indexed by wall type 1..9.
var wallColors = [...]color.RGBA{
	{},
	{150, 150, 150, 255},
	{140, 90, 60, 255},
	{70, 110, 160, 255},
	{90, 140, 80, 255},
	{160, 140, 70, 255},
	{120, 80, 140, 255},
	{80, 140, 140, 255},
	{170, 100, 100, 255},
	{200, 200, 200, 255},
}

// driver adapts a session to ebiten: it polls input, advances one frame per
// Update and flat-shades the last FrameOutput in Draw.
type driver struct {
	sess *game.Session
	cfg  *config.Config

	out         game.FrameOutput
	cursorX     int
	cursorReady bool

	banner      string
	bannerUntil time.Time
}

func newDriver(sess *game.Session, cfg *config.Config) *driver {
	return &driver{sess: sess, cfg: cfg}
}

func (d *driver) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	x, _ := ebiten.CursorPosition()
	var dx float64
	if d.cursorReady {
		dx = float64(x - d.cursorX)
	}
	d.cursorX, d.cursorReady = x, true

	in := game.FrameInput{
		Elapsed: d.cfg.Game.TickRate,
		Input: system.Input{
			Forward:     ebiten.IsKeyPressed(ebiten.KeyW),
			Backward:    ebiten.IsKeyPressed(ebiten.KeyS),
			StrafeLeft:  ebiten.IsKeyPressed(ebiten.KeyA),
			StrafeRight: ebiten.IsKeyPressed(ebiten.KeyD),
			TurnLeft:    ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
			TurnRight:   ebiten.IsKeyPressed(ebiten.KeyArrowRight),
			MouseDX:     dx,
			Fire:        ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) || ebiten.IsKeyPressed(ebiten.KeySpace),
		},
	}
	d.out = d.sess.AdvanceFrame(in)

	switch d.out.Status {
	case system.StatusGameOver:
		d.showBanner("YOU DIED")
	case system.StatusLevelCleared:
		d.showBanner(fmt.Sprintf("LEVEL CLEARED: %s", d.out.LevelName))
	}
	return nil
}

func (d *driver) showBanner(text string) {
	d.banner = text
	d.bannerUntil = time.Now().Add(bannerDuration)
}

func (d *driver) Draw(screen *ebiten.Image) {
	w := float32(d.cfg.Render.ScreenWidth)
	h := float32(d.cfg.Render.ScreenHeight)
	vector.DrawFilledRect(screen, 0, 0, w, h/2, ceilingColor, false)
	vector.DrawFilledRect(screen, 0, h/2, w, h/2, floorColor, false)

	cols := d.out.Columns
	if len(cols) == 0 {
		return
	}
	colW := w / float32(len(cols))
	for _, col := range cols {
		if !col.Hit.Hit {
			continue
		}
		strip := float32(col.Height)
		vector.DrawFilledRect(screen, float32(col.Index)*colW, (h-strip)/2, colW+1, strip, shade(col), false)
	}

	for _, sp := range d.out.Sprites {
		d.drawSprite(screen, sp, colW, h)
	}

	vector.StrokeLine(screen, w/2-6, h/2, w/2+6, h/2, 1, crossColor, false)
	vector.StrokeLine(screen, w/2, h/2-6, w/2, h/2+6, 1, crossColor, false)

	p := d.out.Player
	ebitenutil.DebugPrint(screen, fmt.Sprintf("HP %d/%d  level %d %s  enemies %d  FPS %0.1f",
		p.Health, p.MaxHealth, d.out.LevelIndex, d.out.LevelName, d.out.LiveNpcs, ebiten.ActualFPS()))
	if d.banner != "" && time.Now().Before(d.bannerUntil) {
		ebitenutil.DebugPrintAt(screen, d.banner, int(w)/2-4*len(d.banner), int(h)/2-24)
	}
}

// drawSprite draws a billboard strip by strip, skipping strips behind a
// nearer wall column.
func (d *driver) drawSprite(screen *ebiten.Image, sp system.SpriteView, colW, h float32) {
	proj := sp.Projection
	clr := npcColor
	if sp.Pain {
		clr = painColor
	}
	left := float32(proj.ScreenX - proj.Width/2)
	right := float32(proj.ScreenX + proj.Width/2)
	top := (h - float32(proj.Height)) / 2

	cols := d.out.Columns
	first := max(0, int(left/colW))
	last := min(len(cols)-1, int(right/colW))
	for i := first; i <= last; i++ {
		if cols[i].Depth <= proj.Depth {
			continue
		}
		x0 := max(left, float32(i)*colW)
		x1 := min(right, float32(i+1)*colW)
		if x1 <= x0 {
			continue
		}
		vector.DrawFilledRect(screen, x0, top, x1-x0, float32(proj.Height), clr, false)
	}
}

// shade darkens a wall colour with depth; faces on horizontal grid lines are
// drawn darker so corners read.
func shade(col raycast.Column) color.RGBA {
	base := wallColors[1]
	if t := int(col.Hit.WallType); t > 0 && t < len(wallColors) {
		base = wallColors[t]
	}
	f := 1 / (1 + math.Pow(col.Depth, 5)*0.00002)
	if !col.Hit.Side.Vertical() {
		f *= 0.75
	}
	return color.RGBA{
		R: uint8(float64(base.R) * f),
		G: uint8(float64(base.G) * f),
		B: uint8(float64(base.B) * f),
		A: 255,
	}
}

func (d *driver) Layout(_, _ int) (int, int) {
	return d.cfg.Render.ScreenWidth, d.cfg.Render.ScreenHeight
}
