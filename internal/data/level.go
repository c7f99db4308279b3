package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SpawnEntry places one NPC at level start.
type SpawnEntry struct {
	Npc string  `yaml:"npc"`
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
}

// LevelInfo is one level as listed in level_list.yaml.
type LevelInfo struct {
	ID          int          `yaml:"id"`
	Name        string       `yaml:"name"`
	Rows        []string     `yaml:"rows"`
	PlayerX     float64      `yaml:"player_x"`
	PlayerY     float64      `yaml:"player_y"`
	PlayerAngle float64      `yaml:"player_angle"` // radians
	Spawns      []SpawnEntry `yaml:"spawns"`
}

type levelListFile struct {
	Levels []LevelInfo `yaml:"levels"`
}

// LoadLevels loads the ordered level list from YAML.
func LoadLevels(path string) ([]LevelInfo, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level_list %s: %w", path, err)
	}
	return ParseLevels(raw)
}

// ParseLevels decodes a level_list document.
func ParseLevels(raw []byte) ([]LevelInfo, error) {
	var f levelListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse level_list: %w", err)
	}
	if len(f.Levels) == 0 {
		return nil, fmt.Errorf("level_list has no levels")
	}
	return f.Levels, nil
}

// Grid decodes the level's rows.
func (l *LevelInfo) Grid() (*GridMap, error) {
	g, err := NewGridMap(l.Rows)
	if err != nil {
		return nil, fmt.Errorf("level %d (%s): %w", l.ID, l.Name, err)
	}
	return g, nil
}

// Validate checks spawn placement against the decoded grid. Any failure is a
// fatal configuration error for that level.
func (l *LevelInfo) Validate(g *GridMap, npcs *NpcTable) error {
	pc := CellOf(l.PlayerX, l.PlayerY)
	if !g.InBounds(pc.Col, pc.Row) {
		return fmt.Errorf("level %d (%s): player spawn (%.2f,%.2f) outside grid", l.ID, l.Name, l.PlayerX, l.PlayerY)
	}
	if g.IsWall(pc.Col, pc.Row) {
		return fmt.Errorf("level %d (%s): player spawn (%.2f,%.2f) inside wall", l.ID, l.Name, l.PlayerX, l.PlayerY)
	}
	used := map[Cell]struct{}{pc: {}}
	for i, s := range l.Spawns {
		if npcs != nil && npcs.Get(s.Npc) == nil {
			return fmt.Errorf("level %d (%s): spawn %d: unknown npc %q", l.ID, l.Name, i, s.Npc)
		}
		c := CellOf(s.X, s.Y)
		if g.IsWall(c.Col, c.Row) {
			return fmt.Errorf("level %d (%s): spawn %d (%s) inside wall at %v", l.ID, l.Name, i, s.Npc, c)
		}
		if _, taken := used[c]; taken {
			return fmt.Errorf("level %d (%s): spawn %d (%s) shares cell %v", l.ID, l.Name, i, s.Npc, c)
		}
		used[c] = struct{}{}
	}
	return nil
}
