// Command worldsim runs the tribe world simulation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/tribe-world/internal/api"
	"github.com/talgya/tribe-world/internal/config"
	"github.com/talgya/tribe-world/internal/engine"
	"github.com/talgya/tribe-world/internal/persistence"
	"github.com/talgya/tribe-world/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (merged over built-in defaults)")
	seed := flag.Int64("seed", 0, "world seed (overrides config)")
	steps := flag.Uint64("steps", 0, "ticks to run, 0 = until interrupted (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.World.Seed = *seed
		case "steps":
			cfg.Run.Steps = *steps
		}
	})

	level, _ := config.ParseLevel(cfg.Log.Level)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	slog.Info("Tribe World: agents, tribes and the world",
		"seed", cfg.World.Seed,
		"tribes", len(cfg.World.Tribes),
		"agents_per_tribe", cfg.World.AgentsPerTribe,
		"technologies", len(cfg.World.Technologies),
	)

	// ── Database ──────────────────────────────────────────────────────
	var db *persistence.DB
	if cfg.Storage.DBPath != "" {
		db, err = persistence.Open(cfg.Storage.DBPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.SaveMeta("seed", strconv.FormatInt(cfg.World.Seed, 10)); err != nil {
			slog.Error("failed to record seed", "error", err)
		}
		slog.Info("database opened", "path", cfg.Storage.DBPath, "run_id", db.RunID())
	}

	// ── Telemetry ─────────────────────────────────────────────────────
	tel, err := telemetry.NewWriter(cfg.Storage.TelemetryDir)
	if err != nil {
		slog.Error("failed to open telemetry", "error", err)
		os.Exit(1)
	}
	defer tel.Close()
	if tel != nil {
		slog.Info("telemetry enabled", "dir", tel.Dir())
	}
	if err := tel.WriteConfig(cfg); err != nil {
		slog.Error("failed to write run config", "error", err)
	}

	// ── World ─────────────────────────────────────────────────────────
	world := engine.NewWorld(cfg.World)

	eng := engine.NewEngine(world)
	eng.Interval = cfg.Run.Interval
	eng.MaxTicks = cfg.Run.Steps
	eng.SnapshotEvery = cfg.Run.SnapshotEvery
	eng.OnSnapshot = func(snap *engine.Snapshot) {
		saveSnapshot(cfg, db, tel, snap)
	}

	// The founding state is written once before the first tick.
	saveSnapshot(cfg, db, tel, eng.Latest())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.API.Port > 0 {
		srv := &api.Server{
			Source:         eng,
			Techs:          world.TechTree().All(),
			Seed:           world.Seed(),
			Port:           cfg.API.Port,
			StateRateLimit: cfg.API.StateRateLimit,
		}
		if db != nil {
			srv.Store = db
		}
		go func() {
			if err := srv.Serve(ctx); err != nil {
				slog.Error("HTTP server error", "error", err)
			}
		}()
		fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.API.Port)
	}

	// ── Start ─────────────────────────────────────────────────────────
	limit := "until interrupted"
	if cfg.Run.Steps > 0 {
		limit = humanize.Comma(int64(cfg.Run.Steps)) + " ticks"
	}
	fmt.Printf("\nTribe World is alive: %d agents across %d tribes, running %s.\n",
		cfg.World.AgentsPerTribe*len(cfg.World.Tribes), len(cfg.World.Tribes), limit)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run(ctx)

	final := eng.Latest()
	pop := final.Population()
	fmt.Printf("Simulation stopped at tick %s: %d alive, %d dead, %s events on record.\n",
		humanize.Comma(int64(final.Tick)), pop.Alive, pop.Dead, humanize.Comma(int64(len(final.Timeline))))
	if cfg.Storage.StatePath != "" {
		fmt.Printf("Final state written to %s.\n", cfg.Storage.StatePath)
	}
}

// saveSnapshot fans a snapshot out to every configured sink. Failures are
// logged and the run continues.
func saveSnapshot(cfg *config.Config, db *persistence.DB, tel *telemetry.Writer, snap *engine.Snapshot) {
	if cfg.Storage.StatePath != "" {
		if err := persistence.WriteStateFile(cfg.Storage.StatePath, snap); err != nil {
			slog.Error("state file write failed", "tick", snap.Tick, "error", err)
		}
	}
	if db != nil {
		if err := db.SaveWorldState(snap); err != nil {
			slog.Error("database save failed", "tick", snap.Tick, "error", err)
		}
	}
	if err := tel.WriteTribes(snap); err != nil {
		slog.Error("telemetry write failed", "tick", snap.Tick, "error", err)
	}
}
