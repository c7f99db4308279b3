package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for NPC decision scripts.
// Single-goroutine access only (frame loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// scriptDirs are loaded in order; later files may override earlier globals.
var scriptDirs = []string{"core", "combat", "ai"}

// NewEngine creates a Lua engine and loads all scripts under scriptsDir.
// Missing subdirectories are skipped.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	for _, sub := range scriptDirs {
		if err := e.loadDir(filepath.Join(scriptsDir, sub)); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source in the engine's VM.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

// Has reports whether a global Lua function is defined.
func (e *Engine) Has(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// --- NPC AI Bridge ---

// AIContext holds pre-packed data for one NPC decision.
type AIContext struct {
	NpcID      int
	Template   string
	Health     int
	MaxHealth  int
	InPain     bool
	Visible    bool    // line of sight to the player this tick
	Searching  bool    // has seen the player at some point
	PlayerDist float64 // euclidean, cells
	AttackDist float64
	CanAttack  bool // attack cooldown elapsed
}

// AICommand is a single action returned by Lua AI.
type AICommand struct {
	Type string // "attack", "chase", "hold", "idle"
}

// RunNpcAI calls Lua npc_ai(ctx) and returns a list of commands. A nil result
// means the script is missing or failed; the caller falls back to its own rule.
func (e *Engine) RunNpcAI(ctx AIContext) []AICommand {
	fn := e.vm.GetGlobal("npc_ai")
	if fn == lua.LNil {
		return nil
	}

	t := e.vm.NewTable()
	t.RawSetString("npc_id", lua.LNumber(ctx.NpcID))
	t.RawSetString("template", lua.LString(ctx.Template))
	t.RawSetString("health", lua.LNumber(ctx.Health))
	t.RawSetString("max_health", lua.LNumber(ctx.MaxHealth))
	t.RawSetString("in_pain", lua.LBool(ctx.InPain))
	t.RawSetString("visible", lua.LBool(ctx.Visible))
	t.RawSetString("searching", lua.LBool(ctx.Searching))
	t.RawSetString("player_dist", lua.LNumber(ctx.PlayerDist))
	t.RawSetString("attack_dist", lua.LNumber(ctx.AttackDist))
	t.RawSetString("can_attack", lua.LBool(ctx.CanAttack))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua npc_ai error", zap.Error(err), zap.Int("npc_id", ctx.NpcID))
		return nil
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil
	}

	var cmds []AICommand
	rt.ForEach(func(_, v lua.LValue) {
		if row, ok := v.(*lua.LTable); ok {
			cmds = append(cmds, AICommand{Type: lStr(row, "type")})
		}
	})
	return cmds
}

// --- NPC combat ---

// NpcHitContext is an NPC attack on the player. Roll is a uniform [0, 1)
// value drawn by the caller so outcomes stay reproducible under a fixed seed.
type NpcHitContext struct {
	NpcID        int
	Damage       int
	Accuracy     float64
	Distance     float64
	PlayerHealth int
	Roll         float64
}

// CombatResult is returned by the Lua combat function.
type CombatResult struct {
	IsHit  bool
	Damage int
}

// CalcNpcHit calls Lua calc_npc_hit(ctx). ok is false when the script is
// missing or failed.
func (e *Engine) CalcNpcHit(ctx NpcHitContext) (res CombatResult, ok bool) {
	fn := e.vm.GetGlobal("calc_npc_hit")
	if fn == lua.LNil {
		return CombatResult{}, false
	}

	t := e.vm.NewTable()
	t.RawSetString("npc_id", lua.LNumber(ctx.NpcID))
	t.RawSetString("damage", lua.LNumber(ctx.Damage))
	t.RawSetString("accuracy", lua.LNumber(ctx.Accuracy))
	t.RawSetString("distance", lua.LNumber(ctx.Distance))
	t.RawSetString("player_health", lua.LNumber(ctx.PlayerHealth))
	t.RawSetString("roll", lua.LNumber(ctx.Roll))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua calc_npc_hit error", zap.Error(err), zap.Int("npc_id", ctx.NpcID))
		return CombatResult{}, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, isTable := result.(*lua.LTable)
	if !isTable {
		e.log.Error("lua calc_npc_hit returned non-table")
		return CombatResult{}, false
	}
	return CombatResult{
		IsHit:  rt.RawGetString("is_hit") == lua.LTrue,
		Damage: lInt(rt, "damage"),
	}, true
}

// --- Lua helpers ---

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
