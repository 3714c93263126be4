// Package engine provides the tick-based world simulation and the loop that paces it.
package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/tribe-world/internal/economy"
)

// Engine drives a World forward in wall-clock time and publishes a Snapshot
// after every tick. Readers on other goroutines only ever see whole ticks.
type Engine struct {
	World *World

	Speed         float64       // Multiplier: 1.0 = Interval per tick, 0 = paused
	Interval      time.Duration // Base tick interval
	MaxTicks      uint64        // Stop once the world reaches this tick; 0 = never
	SnapshotEvery uint64        // Ticks between OnSnapshot calls; 0 = only on exit

	// Callbacks, run on the engine goroutine.
	OnTick     func(tick uint64)
	OnSnapshot func(snap *Snapshot)

	stopped      atomic.Bool
	latest       atomic.Pointer[Snapshot]
	lastSnapshot uint64
}

// NewEngine creates an engine for w with default pacing.
func NewEngine(w *World) *Engine {
	e := &Engine{
		World:        w,
		Speed:        1.0,
		Interval:     100 * time.Millisecond,
		lastSnapshot: w.Tick(),
	}
	e.latest.Store(w.Snapshot())
	return e
}

// Latest returns the most recently published snapshot. Safe for concurrent use.
func (e *Engine) Latest() *Snapshot {
	return e.latest.Load()
}

// Run advances the world until ctx is done, Stop is called, or MaxTicks is
// reached. OnSnapshot fires once more on exit unless the final tick was
// already written.
func (e *Engine) Run(ctx context.Context) {
	slog.Info("simulation engine started", "tick", e.World.Tick(), "speed", e.Speed, "interval", e.Interval)

	for !e.stopped.Load() && ctx.Err() == nil {
		if e.MaxTicks > 0 && e.World.Tick() >= e.MaxTicks {
			break
		}

		if e.Speed <= 0 {
			// Paused; sleep briefly and check again.
			sleep(ctx, 100*time.Millisecond)
			continue
		}

		start := time.Now()

		e.step()

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			sleep(ctx, target-elapsed)
		}
	}

	e.flush()
	slog.Info("simulation engine stopped", "tick", e.World.Tick())
}

// Stop halts the loop after the current tick. Safe for concurrent use.
func (e *Engine) Stop() {
	e.stopped.Store(true)
}

// step advances the world by one tick and publishes the result.
func (e *Engine) step() {
	e.World.TickWorld()
	tick := e.World.Tick()

	snap := e.World.Snapshot()
	e.latest.Store(snap)

	if e.OnTick != nil {
		e.OnTick(tick)
	}

	if e.SnapshotEvery > 0 && tick%e.SnapshotEvery == 0 {
		e.emit(snap)
	}

	if tick%TicksPerYear == 0 {
		logYearReport(snap)
	}
}

func (e *Engine) flush() {
	snap := e.Latest()
	if snap.Tick != e.lastSnapshot {
		e.emit(snap)
	}
}

func (e *Engine) emit(snap *Snapshot) {
	e.lastSnapshot = snap.Tick
	if e.OnSnapshot != nil {
		e.OnSnapshot(snap)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func logYearReport(snap *Snapshot) {
	pop := snap.Population()

	discovered := 0
	food := 0.0
	for _, t := range snap.Tribes {
		discovered += len(t.DiscoveredTech)
		food += t.Resources.Get(economy.Food)
	}

	slog.Info("year report",
		"year", snap.Tick/TicksPerYear,
		"tick", humanize.Comma(int64(snap.Tick)),
		"weather", snap.Weather.Name,
		"alive", pop.Alive,
		"dead", pop.Dead,
		"mean_happiness", humanize.FtoaWithDigits(pop.MeanHappiness, 3),
		"total_food", humanize.FtoaWithDigits(food, 1),
		"technologies", discovered,
	)
}
