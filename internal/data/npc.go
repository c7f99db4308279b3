package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// NpcTemplate holds static data for an NPC type loaded from YAML.
type NpcTemplate struct {
	Name              string  `yaml:"name"`
	Health            int     `yaml:"health"`
	Speed             float64 `yaml:"speed"`  // cells per second
	Radius            float64 `yaml:"radius"` // wall collision probe, cells
	AttackDamage      int     `yaml:"attack_damage"`
	Accuracy          float64 `yaml:"accuracy"` // hit chance per attack (0.0-1.0)
	AttackDistMin     float64 `yaml:"attack_dist_min"`
	AttackDistMax     float64 `yaml:"attack_dist_max"`
	AttackCooldown    int     `yaml:"attack_cooldown"` // ticks
	PainTicks         int     `yaml:"pain_ticks"`
	SpriteScale       float64 `yaml:"sprite_scale"`
	SpriteHeightShift float64 `yaml:"sprite_height_shift"`
}

type npcListFile struct {
	Npcs []NpcTemplate `yaml:"npcs"`
}

// NpcTable holds all NPC templates indexed by name.
type NpcTable struct {
	templates map[string]*NpcTemplate
}

// LoadNpcTable loads NPC templates from a YAML file.
func LoadNpcTable(path string) (*NpcTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read npc_list: %w", err)
	}
	return ParseNpcTable(raw)
}

// ParseNpcTable decodes an npc_list document.
func ParseNpcTable(raw []byte) (*NpcTable, error) {
	var f npcListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse npc_list: %w", err)
	}
	t := NewNpcTable()
	for i := range f.Npcs {
		if err := t.Add(f.Npcs[i]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NewNpcTable returns an empty table.
func NewNpcTable() *NpcTable {
	return &NpcTable{templates: make(map[string]*NpcTemplate)}
}

// Add registers a template after filling zero fields with defaults.
func (t *NpcTable) Add(tmpl NpcTemplate) error {
	if tmpl.Name == "" {
		return fmt.Errorf("npc template without name")
	}
	if _, dup := t.templates[tmpl.Name]; dup {
		return fmt.Errorf("duplicate npc template %q", tmpl.Name)
	}
	if tmpl.Health <= 0 {
		return fmt.Errorf("npc template %q: health must be positive", tmpl.Name)
	}
	if tmpl.Speed <= 0 {
		tmpl.Speed = 1.8
	}
	if tmpl.Radius <= 0 {
		tmpl.Radius = 0.3
	}
	if tmpl.AttackDistMin <= 0 {
		tmpl.AttackDistMin = 1.5
	}
	if tmpl.AttackDistMax < tmpl.AttackDistMin {
		tmpl.AttackDistMax = tmpl.AttackDistMin
	}
	if tmpl.AttackCooldown <= 0 {
		tmpl.AttackCooldown = 30
	}
	if tmpl.SpriteScale <= 0 {
		tmpl.SpriteScale = 0.6
	}
	t.templates[tmpl.Name] = &tmpl
	return nil
}

// Get returns an NPC template by name, or nil if not found.
func (t *NpcTable) Get(name string) *NpcTemplate {
	return t.templates[name]
}

// Count returns the number of templates loaded.
func (t *NpcTable) Count() int {
	return len(t.templates)
}

// Names returns template names in sorted order.
func (t *NpcTable) Names() []string {
	names := make([]string, 0, len(t.templates))
	for n := range t.templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
