// levelconv converts a hand-drawn text map into a level entry and appends it
// to level_list.yaml.
//
// Map markers:
//   - '.', ' ' or '0'  floor
//   - '1'..'9'         wall of that type
//   - 'P'              player spawn (exactly one)
//   - a legend letter  NPC spawn, see -legend
//
// Usage:
//
//	go run ./cmd/levelconv -name bunker data/maps/bunker.txt
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MartinDeV1991/Doom/internal/data"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// YAML structures (same shape as data.LevelInfo)
// ---------------------------------------------------------------------------

type levelListFile struct {
	Levels []data.LevelInfo `yaml:"levels"`
}

// ---------------------------------------------------------------------------
// Main
// ---------------------------------------------------------------------------

func main() {
	levelsPath := flag.String("levels", filepath.Join("data", "yaml", "level_list.yaml"), "level list to append to")
	npcsPath := flag.String("npcs", filepath.Join("data", "yaml", "npc_list.yaml"), "npc templates used to check spawns")
	name := flag.String("name", "", "level name (default: map file name)")
	angle := flag.Float64("angle", 0, "player heading in radians")
	legend := flag.String("legend", "s=soldier,c=caco_demon,y=cyber_demon", "spawn marker legend")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: levelconv [flags] <map.txt>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	mapPath := flag.Arg(0)
	if *name == "" {
		*name = strings.TrimSuffix(filepath.Base(mapPath), filepath.Ext(mapPath))
	}

	markers, err := parseLegend(*legend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// ---- Read & decode map ----
	lines, err := readLines(mapPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", mapPath, err)
		os.Exit(1)
	}
	level, err := convert(lines, markers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error converting %s: %v\n", mapPath, err)
		os.Exit(1)
	}
	level.Name = *name
	level.PlayerAngle = *angle

	// ---- Merge into level list ----
	var list levelListFile
	if raw, err := os.ReadFile(*levelsPath); err == nil {
		if err := yaml.Unmarshal(raw, &list); err != nil {
			fmt.Fprintf(os.Stderr, "error parsing %s: %v\n", *levelsPath, err)
			os.Exit(1)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "error reading %s: %v\n", *levelsPath, err)
		os.Exit(1)
	}
	for _, l := range list.Levels {
		if l.Name == level.Name {
			fmt.Fprintf(os.Stderr, "error: level %q already exists in %s\n", level.Name, *levelsPath)
			os.Exit(1)
		}
		level.ID = max(level.ID, l.ID)
	}
	level.ID++

	npcs, err := data.LoadNpcTable(*npcsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	g, err := level.Grid()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := level.Validate(g, npcs); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	list.Levels = append(list.Levels, level)

	// ---- Write level_list.yaml ----
	if err := os.MkdirAll(filepath.Dir(*levelsPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}
	out, err := yaml.Marshal(&list)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error marshalling YAML: %v\n", err)
		os.Exit(1)
	}
	header := "# Levels are played in order; clearing the last one wraps to the first.\n\n"
	if err := os.WriteFile(*levelsPath, append([]byte(header), out...), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", *levelsPath, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote level %d (%s, %dx%d, %d spawns) to %s\n",
		level.ID, level.Name, g.Width(), g.Height(), len(level.Spawns), *levelsPath)
}

func parseLegend(s string) (map[byte]string, error) {
	markers := make(map[byte]string)
	for _, part := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || len(k) != 1 || v == "" {
			return nil, fmt.Errorf("bad legend entry %q", part)
		}
		if k[0] == 'P' || k[0] == '.' || (k[0] >= '0' && k[0] <= '9') {
			return nil, fmt.Errorf("legend marker %q is reserved", k)
		}
		markers[k[0]] = v
	}
	return markers, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

// convert turns map lines into grid rows plus spawns. Spawn markers become
// floor cells; positions are cell centres.
func convert(lines []string, markers map[byte]string) (data.LevelInfo, error) {
	var level data.LevelInfo
	player := false
	for row, line := range lines {
		cells := []byte(line)
		for col, ch := range cells {
			x, y := data.Cell{Col: col, Row: row}.Center()
			switch {
			case ch == '0':
				cells[col] = '.'
			case ch == 'P':
				if player {
					return level, fmt.Errorf("row %d col %d: second player spawn", row, col)
				}
				player = true
				level.PlayerX, level.PlayerY = x, y
				cells[col] = '.'
			case markers[ch] != "":
				level.Spawns = append(level.Spawns, data.SpawnEntry{Npc: markers[ch], X: x, Y: y})
				cells[col] = '.'
			}
		}
		level.Rows = append(level.Rows, string(cells))
	}
	if !player {
		return level, fmt.Errorf("no player spawn 'P'")
	}
	return level, nil
}
