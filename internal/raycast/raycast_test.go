package raycast

import (
	"math"
	"strings"
	"testing"

	"github.com/MartinDeV1991/Doom/internal/data"
)

const eps = 1e-9

func mustGrid(t *testing.T, rows ...string) *data.GridMap {
	t.Helper()
	g, err := data.NewGridMap(rows)
	if err != nil {
		t.Fatalf("unexpected grid error: %v", err)
	}
	return g
}

// walledRoom returns an n x n grid whose border cells are walls.
func walledRoom(t *testing.T, n int) *data.GridMap {
	t.Helper()
	rows := make([]string, n)
	for r := 0; r < n; r++ {
		if r == 0 || r == n-1 {
			rows[r] = strings.Repeat("1", n)
			continue
		}
		rows[r] = "1" + strings.Repeat(".", n-2) + "1"
	}
	return mustGrid(t, rows...)
}

func openGrid(t *testing.T, n int) *data.GridMap {
	t.Helper()
	rows := make([]string, n)
	for r := range rows {
		rows[r] = strings.Repeat(".", n)
	}
	return mustGrid(t, rows...)
}

// roomDistance is the closed-form distance from p along angle to the inner
// boundary of an axis-aligned room spanning [lo, hi] on both axes.
func roomDistance(p Vec2, angle, lo, hi float64) float64 {
	dx, dy := math.Cos(angle), math.Sin(angle)
	best := math.Inf(1)
	if dx > 0 {
		best = math.Min(best, (hi-p.X)/dx)
	} else if dx < 0 {
		best = math.Min(best, (lo-p.X)/dx)
	}
	if dy > 0 {
		best = math.Min(best, (hi-p.Y)/dy)
	} else if dy < 0 {
		best = math.Min(best, (lo-p.Y)/dy)
	}
	return best
}

func TestCastColumnMatchesAnalyticRoom(t *testing.T) {
	c := NewCaster(walledRoom(t, 10), 20)
	origins := []Vec2{{5.5, 5.5}, {1.2, 7.9}, {8.7, 1.3}, {4.05, 2.6}}
	for _, o := range origins {
		for i := 0; i < 72; i++ {
			angle := float64(i)*2*math.Pi/72 + 0.013
			hit := c.CastColumn(o, angle)
			if !hit.Hit {
				t.Fatalf("origin %v angle %.3f: expected a hit", o, angle)
			}
			want := roomDistance(o, angle, 1, 9)
			if math.Abs(hit.Distance-want) > 1e-6 {
				t.Fatalf("origin %v angle %.3f: distance %.9f, want %.9f", o, angle, hit.Distance, want)
			}
			if hit.Offset < 0 || hit.Offset >= 1 {
				t.Fatalf("offset out of range: %v", hit.Offset)
			}
		}
	}
}

func TestCastColumnFaces(t *testing.T) {
	c := NewCaster(walledRoom(t, 10), 20)
	origin := Vec2{5.5, 5.5}
	for _, tc := range []struct {
		name  string
		angle float64
		side  Side
		cell  data.Cell
		dist  float64
	}{
		{name: "east", angle: 0, side: SideWest, cell: data.Cell{Col: 9, Row: 5}, dist: 3.5},
		{name: "south", angle: math.Pi / 2, side: SideNorth, cell: data.Cell{Col: 5, Row: 9}, dist: 3.5},
		{name: "west", angle: math.Pi, side: SideEast, cell: data.Cell{Col: 0, Row: 5}, dist: 4.5},
		{name: "north", angle: -math.Pi / 2, side: SideSouth, cell: data.Cell{Col: 5, Row: 0}, dist: 4.5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			hit := c.CastColumn(origin, tc.angle)
			if !hit.Hit {
				t.Fatalf("expected a hit")
			}
			if hit.Side != tc.side {
				t.Fatalf("expected side %v, got %v", tc.side, hit.Side)
			}
			if hit.Cell != tc.cell {
				t.Fatalf("expected cell %v, got %v", tc.cell, hit.Cell)
			}
			if math.Abs(hit.Distance-tc.dist) > eps {
				t.Fatalf("expected distance %v, got %v", tc.dist, hit.Distance)
			}
			if math.Abs(hit.Offset-0.5) > 1e-6 {
				t.Fatalf("expected offset 0.5, got %v", hit.Offset)
			}
			if hit.WallType != 1 {
				t.Fatalf("expected wall type 1, got %d", hit.WallType)
			}
		})
	}
}

func TestCastColumnMissBeyondMaxDepth(t *testing.T) {
	c := NewCaster(walledRoom(t, 10), 2)
	if hit := c.CastColumn(Vec2{5.5, 5.5}, 0); hit.Hit {
		t.Fatalf("expected miss past max depth, got %+v", hit)
	}
	if hit := c.CastColumn(Vec2{5.5, 5.5}, math.NaN()); hit.Hit {
		t.Fatalf("expected miss for NaN angle, got %+v", hit)
	}
}

func TestCastColumnNeverQueriesOutsideGrid(t *testing.T) {
	g := &boundsGuard{t: t, GridMap: openGrid(t, 6)}
	c := NewCaster(g, 50)
	for _, o := range []Vec2{{0.1, 0.1}, {3, 3}, {5.9, 0.5}, {2.5, 5.99}} {
		for i := 0; i < 64; i++ {
			if hit := c.CastColumn(o, float64(i)*math.Pi/32); hit.Hit {
				t.Fatalf("open grid should never report a wall, got %+v", hit)
			}
		}
	}
}

type boundsGuard struct {
	t *testing.T
	*data.GridMap
}

func (b *boundsGuard) IsWall(col, row int) bool {
	if !b.GridMap.InBounds(col, row) {
		b.t.Fatalf("IsWall queried outside grid at (%d,%d)", col, row)
	}
	return b.GridMap.IsWall(col, row)
}

func TestOpenGridScenario(t *testing.T) {
	c := NewCaster(openGrid(t, 10), 20)
	player := Vec2{5.5, 5.5}
	npc := Vec2{8.5, 5.5}

	angle := math.Atan2(npc.Y-player.Y, npc.X-player.X)
	if hit := c.CastColumn(player, angle); hit.Hit {
		t.Fatalf("expected background miss on an open grid, got %+v", hit)
	}
	if !c.LineOfSight(npc, player) {
		t.Fatalf("expected clear line of sight")
	}
}

func TestLineOfSightCorridor(t *testing.T) {
	open := NewCaster(mustGrid(t,
		"1111111111",
		"1........1",
		"1111111111",
	), 20)
	blocked := NewCaster(mustGrid(t,
		"1111111111",
		"1...1....1",
		"1111111111",
	), 20)
	npc, player := Vec2{8.5, 1.5}, Vec2{1.5, 1.5}

	if !open.LineOfSight(npc, player) || !open.LineOfSight(player, npc) {
		t.Fatalf("expected visible along an open corridor")
	}
	if blocked.LineOfSight(npc, player) || blocked.LineOfSight(player, npc) {
		t.Fatalf("expected wall to block line of sight")
	}
	if !blocked.LineOfSight(Vec2{2.2, 1.5}, Vec2{2.8, 1.5}) {
		t.Fatalf("expected same-cell points to see each other")
	}
}

func TestLineOfSightDiagonal(t *testing.T) {
	c := NewCaster(mustGrid(t,
		"11111",
		"1...1",
		"1.1.1",
		"1...1",
		"11111",
	), 20)
	if c.LineOfSight(Vec2{1.5, 1.5}, Vec2{3.5, 3.5}) {
		t.Fatalf("expected the centre pillar to block the diagonal")
	}
	if !c.LineOfSight(Vec2{1.5, 1.5}, Vec2{3.5, 1.5}) {
		t.Fatalf("expected the top row to be visible")
	}
}

func TestCastViewCorrectsFishEye(t *testing.T) {
	c := NewCaster(walledRoom(t, 10), 20)
	v := View{
		Origin:       Vec2{5, 5},
		Heading:      0,
		FOV:          math.Pi / 3,
		Columns:      9,
		ScreenWidth:  360,
		ScreenHeight: 240,
	}
	cols := c.CastView(v)
	if len(cols) != 9 {
		t.Fatalf("expected 9 columns, got %d", len(cols))
	}
	if math.Abs(cols[0].Angle+math.Pi/6) > eps || math.Abs(cols[8].Angle-math.Pi/6) > eps {
		t.Fatalf("unexpected edge angles %v %v", cols[0].Angle, cols[8].Angle)
	}
	for _, col := range cols {
		if !col.Hit.Hit {
			t.Fatalf("column %d: expected a hit", col.Index)
		}
		if math.Abs(col.Depth-4) > 1e-6 {
			t.Fatalf("column %d: expected flat wall depth 4, got %v", col.Index, col.Depth)
		}
		if col.Hit.Distance < col.Depth-eps {
			t.Fatalf("column %d: ray distance shorter than depth", col.Index)
		}
		if math.Abs(col.Height-cols[4].Height) > 1e-6 {
			t.Fatalf("column %d: strip heights differ on a flat wall", col.Index)
		}
	}
}

func TestCastViewMissUsesMaxDepth(t *testing.T) {
	c := NewCaster(openGrid(t, 4), 6)
	cols := c.CastView(View{Origin: Vec2{2, 2}, FOV: math.Pi / 3, Columns: 1, ScreenWidth: 100, ScreenHeight: 80})
	if len(cols) != 1 || cols[0].Hit.Hit {
		t.Fatalf("expected one miss column, got %+v", cols)
	}
	if cols[0].Depth != 6 || cols[0].Height != 0 {
		t.Fatalf("expected max depth and no strip, got %+v", cols[0])
	}
}

func TestProjectSprite(t *testing.T) {
	v := View{Origin: Vec2{5.5, 5.5}, FOV: math.Pi / 3, Columns: 10, ScreenWidth: 400, ScreenHeight: 300}

	ahead := ProjectSprite(v, Vec2{8.5, 5.5}, 0.6)
	if !ahead.Visible || !ahead.CoversCenter(v.ScreenWidth) {
		t.Fatalf("expected sprite ahead to cover the centre, got %+v", ahead)
	}
	if math.Abs(ahead.ScreenX-200) > eps || math.Abs(ahead.Depth-3) > eps {
		t.Fatalf("unexpected projection %+v", ahead)
	}

	behind := ProjectSprite(v, Vec2{2.5, 5.5}, 0.6)
	if behind.Visible {
		t.Fatalf("expected sprite behind the camera to be hidden, got %+v", behind)
	}

	wide := ProjectSprite(v, Vec2{5.5 + 3*math.Cos(math.Pi/3), 5.5 + 3*math.Sin(math.Pi/3)}, 0.6)
	if wide.Visible {
		t.Fatalf("expected sprite outside the view to be hidden, got %+v", wide)
	}

	near := ProjectSprite(v, Vec2{6.5, 5.5}, 0.6)
	if !near.Visible || near.Height <= ahead.Height {
		t.Fatalf("expected closer sprite to project larger")
	}
}

func TestAngleHelpers(t *testing.T) {
	if got := NormalizeAngle(-math.Pi / 2); math.Abs(got-3*math.Pi/2) > eps {
		t.Fatalf("NormalizeAngle(-pi/2) = %v", got)
	}
	if got := NormalizeAngle(5 * math.Pi); math.Abs(got-math.Pi) > eps {
		t.Fatalf("NormalizeAngle(5pi) = %v", got)
	}
	if got := AngleDelta(0.1, 2*math.Pi-0.1); math.Abs(got-0.2) > eps {
		t.Fatalf("AngleDelta across zero = %v", got)
	}
}

func TestRayDistanceIsAlongRayDepthIsPerpendicular(t *testing.T) {
	c := NewCaster(walledRoom(t, 10), 20)
	origin := Vec2{5, 5}
	angle := math.Pi / 6

	hit := c.CastColumn(origin, angle)
	if want := 4 / math.Cos(angle); !hit.Hit || math.Abs(hit.Distance-want) > 1e-6 {
		t.Fatalf("expected along-ray distance %v, got %+v", want, hit)
	}

	cols := c.CastView(View{Origin: origin, FOV: math.Pi / 3, Columns: 3, ScreenWidth: 300, ScreenHeight: 200})
	edge := cols[2]
	if math.Abs(edge.Angle-angle) > eps {
		t.Fatalf("expected edge column at %v, got %v", angle, edge.Angle)
	}
	if math.Abs(edge.Hit.Distance-hit.Distance) > eps {
		t.Fatalf("column hit should carry the raw ray distance, got %v want %v", edge.Hit.Distance, hit.Distance)
	}
	if math.Abs(edge.Depth-4) > 1e-6 {
		t.Fatalf("expected perpendicular depth 4, got %v", edge.Depth)
	}
}
