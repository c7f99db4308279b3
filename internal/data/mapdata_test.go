package data

import (
	"strings"
	"testing"
)

func TestNewGridMapDecodesMarkers(t *testing.T) {
	g, err := NewGridMap([]string{
		"111",
		"1.2",
		"1 3",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Width() != 3 || g.Height() != 3 {
		t.Fatalf("expected 3x3, got %dx%d", g.Width(), g.Height())
	}
	if g.IsWall(1, 1) || g.IsWall(1, 2) {
		t.Fatalf("expected '.' and ' ' to decode as empty")
	}
	if got := g.WallType(2, 1); got != 2 {
		t.Fatalf("expected wall type 2, got %d", got)
	}
	if got := g.WallType(2, 2); got != 3 {
		t.Fatalf("expected wall type 3, got %d", got)
	}
}

func TestNewGridMapRejectsMalformed(t *testing.T) {
	for _, tc := range []struct {
		name string
		rows []string
		want string
	}{
		{name: "empty", rows: nil, want: "no rows"},
		{name: "empty-row", rows: []string{""}, want: "row 0 is empty"},
		{name: "ragged", rows: []string{"111", "11"}, want: "row 1 has 2 cells"},
		{name: "marker", rows: []string{"1x1"}, want: "unknown marker"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGridMap(tc.rows)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestOutOfBoundsIsWall(t *testing.T) {
	g, err := NewGridMap([]string{"..", ".."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, c := range []Cell{{-1, 0}, {0, -1}, {2, 0}, {0, 2}, {-5, -5}} {
		if !g.IsWall(c.Col, c.Row) {
			t.Errorf("expected %v to be a wall", c)
		}
		if g.WallType(c.Col, c.Row) != TileEmpty {
			t.Errorf("expected out-of-bounds wall type 0 at %v", c)
		}
	}
}

func TestCellOf(t *testing.T) {
	for _, tc := range []struct {
		x, y float64
		want Cell
	}{
		{5.5, 5.5, Cell{5, 5}},
		{0, 0, Cell{0, 0}},
		{2.999, 7.001, Cell{2, 7}},
		{-0.5, 1.2, Cell{-1, 1}},
	} {
		if got := CellOf(tc.x, tc.y); got != tc.want {
			t.Errorf("CellOf(%v,%v) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}
