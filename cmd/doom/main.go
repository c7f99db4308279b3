package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MartinDeV1991/Doom/internal/config"
	"github.com/MartinDeV1991/Doom/internal/core/event"
	"github.com/MartinDeV1991/Doom/internal/data"
	"github.com/MartinDeV1991/Doom/internal/game"
	"github.com/MartinDeV1991/Doom/internal/persist"
	"github.com/MartinDeV1991/Doom/internal/scripting"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m                DOOM  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        grid raycaster · Go edition        \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func run() error {
	cfgFlag := flag.String("config", "", "path to game.toml (overrides "+config.EnvPath+")")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(config.Path(*cfgFlag))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. Load game data
	printSection("Data")
	npcs, err := data.LoadNpcTable(cfg.Game.NpcFile)
	if err != nil {
		return fmt.Errorf("npc table: %w", err)
	}
	printStat("NPC templates", npcs.Count())

	levels, err := data.LoadLevels(cfg.Game.LevelsFile)
	if err != nil {
		return fmt.Errorf("levels: %w", err)
	}
	printStat("Levels", len(levels))

	opts := []game.Option{game.WithLogger(log)}
	if cfg.Game.ScriptsDir != "" {
		eng, err := scripting.NewEngine(cfg.Game.ScriptsDir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer eng.Close()
		opts = append(opts, game.WithScripting(eng))
		printOK("Lua scripts loaded")
	}
	fmt.Println()

	// 4. Create session
	sess, err := game.NewSession(cfg, levels, npcs, opts...)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	subscribeLogging(sess.Bus(), log)

	// 5. Optional run journal
	if cfg.Database.Enabled {
		printSection("Database")
		journal, closeJournal, err := openJournal(cfg.Database, log)
		if err != nil {
			return err
		}
		defer closeJournal()
		subscribeJournal(sess.Bus(), journal)
		printOK("Run journal enabled")
		fmt.Println()
	}

	// 6. Run the frame driver until the window closes
	printSection("Ready")
	idx, name := sess.Level()
	printOK(fmt.Sprintf("Level %d: %s", idx, name))
	printOK(fmt.Sprintf("Frame interval %s", cfg.Game.TickRate))
	fmt.Println()

	ebiten.SetWindowSize(cfg.Render.ScreenWidth, cfg.Render.ScreenHeight)
	ebiten.SetWindowTitle("Doom")
	ebiten.SetTPS(max(1, int(time.Second/cfg.Game.TickRate)))
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)

	runErr := ebiten.RunGame(newDriver(sess, cfg))

	// Deliver the last frame's events before the journal closes.
	sess.Bus().Flush()
	log.Info("game stopped")
	if runErr != nil {
		return fmt.Errorf("frame driver: %w", runErr)
	}
	return nil
}

// openJournal connects to PostgreSQL, migrates and starts the journal writer.
// The returned func closes both in order.
func openJournal(cfg config.DatabaseConfig, log *zap.Logger) (*persist.Journal, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	printOK("PostgreSQL connected")

	if err := persist.RunMigrations(ctx, db.Pool, log); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	printOK("Migrations applied")

	journal := persist.NewJournal(persist.NewLevelResultRepo(db), cfg.JournalBuffer, log)
	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := journal.Close(ctx); err != nil {
			log.Warn("journal close", zap.Error(err))
		}
		db.Close()
	}
	return journal, closeFn, nil
}

func subscribeJournal(bus *event.Bus, journal *persist.Journal) {
	event.Subscribe(bus, func(e event.LevelFinished) {
		journal.Record(persist.LevelResult{
			LevelIndex: e.LevelIndex,
			LevelName:  e.LevelName,
			Outcome:    string(e.Outcome),
			Ticks:      e.Ticks,
			Elapsed:    e.Elapsed,
			Kills:      e.Kills,
			Health:     e.Health,
		})
	})
}

func subscribeLogging(bus *event.Bus, log *zap.Logger) {
	event.Subscribe(bus, func(e event.NpcKilled) {
		log.Debug("npc killed", zap.Int("npc", e.NpcID), zap.String("template", e.Template), zap.Uint64("tick", e.Tick))
	})
	event.Subscribe(bus, func(e event.PlayerDamaged) {
		log.Debug("player damaged", zap.Int("npc", e.NpcID), zap.Int("damage", e.Damage), zap.Int("health", e.Health))
	})
}

// newLogger creates a zap logger based on config.
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
