package persistence

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/tribe-world/internal/config"
	"github.com/talgya/tribe-world/internal/economy"
	"github.com/talgya/tribe-world/internal/engine"
)

func openTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "tribes.db")
	db, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, path
}

func testWorld(t *testing.T) *engine.World {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.World.Seed = 123
	return engine.NewWorld(cfg.World)
}

func currentRun(t *testing.T, db *DB) string {
	t.Helper()
	var id string
	require.NoError(t, db.conn.Get(&id, "SELECT value FROM world_meta WHERE key = 'current_run'"))
	return id
}

func TestEachOpenStartsNewRun(t *testing.T) {
	db, path := openTestDB(t)

	id := db.RunID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, currentRun(t, db))

	w := testWorld(t)
	for i := 0; i < 10; i++ {
		w.TickWorld()
	}
	require.NoError(t, db.SaveWorldState(w.Snapshot()))
	require.NoError(t, db.Close())

	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()
	assert.NotEqual(t, id, again.RunID())
	assert.Equal(t, again.RunID(), currentRun(t, again))

	// A new run sees none of the old run's history and records its own in full.
	events, err := again.RecentEvents(100)
	require.NoError(t, err)
	assert.Empty(t, events)

	fresh := testWorld(t)
	fresh.TickWorld()
	require.NoError(t, again.SaveWorldState(fresh.Snapshot()))
	events, err = again.RecentEvents(100)
	require.NoError(t, err)
	assert.Len(t, events, len(fresh.Timeline()))
}

func TestSaveWorldStateRoundTrip(t *testing.T) {
	db, _ := openTestDB(t)
	w := testWorld(t)
	for i := 0; i < 5; i++ {
		w.TickWorld()
	}
	snap := w.Snapshot()

	require.NoError(t, db.SaveWorldState(snap))

	latest, err := db.LatestTick()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), latest)

	loaded, err := db.LoadSnapshot(5)
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)

	tick, err := db.GetMeta("last_tick")
	require.NoError(t, err)
	assert.Equal(t, "5", tick)

	var tribes []tribeRow
	require.NoError(t, db.conn.Select(&tribes, "SELECT * FROM tribes ORDER BY id"))
	require.Len(t, tribes, 2)
	assert.Equal(t, "Aurora Clan", tribes[0].Name)
	assert.Equal(t, snap.Tribes[0].Resources.Get(economy.Food), tribes[0].Food)

	var alive int
	require.NoError(t, db.conn.Get(&alive, "SELECT COUNT(*) FROM agents WHERE alive = 1"))
	assert.Equal(t, 10, alive)
}

func TestSaveWorldStateAppendsOnlyNewEvents(t *testing.T) {
	db, _ := openTestDB(t)
	w := testWorld(t)

	for i := 0; i < 20; i++ {
		w.TickWorld()
		if w.Tick()%5 == 0 {
			require.NoError(t, db.SaveWorldState(w.Snapshot()))
		}
	}
	// Saving the same tick again adds nothing.
	require.NoError(t, db.SaveWorldState(w.Snapshot()))

	var stored int
	require.NoError(t, db.conn.Get(&stored, "SELECT COUNT(*) FROM events"))
	assert.Equal(t, len(w.Timeline()), stored)

	recent, err := db.RecentEvents(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, uint64(20), recent[0].Tick)
	assert.Contains(t, recent[0].Description, "Year 1 has passed")

	all, err := db.RecentEvents(1000)
	require.NoError(t, err)
	assert.Equal(t, "World created. Two tribes emerge: Aurora Clan and Dusk Wanderers.", all[len(all)-1].Description)
}

func TestMetaIsPerRun(t *testing.T) {
	db, path := openTestDB(t)

	w := testWorld(t)
	for i := 0; i < 7; i++ {
		w.TickWorld()
	}
	require.NoError(t, db.SaveMeta("seed", "123"))
	require.NoError(t, db.SaveWorldState(w.Snapshot()))
	require.NoError(t, db.Close())

	again, err := Open(path)
	require.NoError(t, err)
	defer again.Close()

	tick, err := again.LatestTick()
	require.NoError(t, err)
	assert.Zero(t, tick)

	_, err = again.GetMeta("last_tick")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, err = again.GetMeta("seed")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	fresh := testWorld(t)
	fresh.TickWorld()
	require.NoError(t, again.SaveWorldState(fresh.Snapshot()))
	last, err := again.GetMeta("last_tick")
	require.NoError(t, err)
	assert.Equal(t, "1", last)

	var runs int
	require.NoError(t, again.conn.Get(&runs, "SELECT COUNT(DISTINCT run_id) FROM run_meta WHERE key = 'last_tick'"))
	assert.Equal(t, 2, runs, "the earlier run keeps its own metadata")
}

func TestLoadSnapshotMissing(t *testing.T) {
	db, _ := openTestDB(t)

	_, err := db.LoadSnapshot(42)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	tick, err := db.LatestTick()
	require.NoError(t, err)
	assert.Zero(t, tick)
}

func TestMeta(t *testing.T) {
	db, _ := openTestDB(t)

	require.NoError(t, db.SaveMeta("seed", "123"))
	require.NoError(t, db.SaveMeta("seed", "124"))
	v, err := db.GetMeta("seed")
	require.NoError(t, err)
	assert.Equal(t, "124", v)

	_, err = db.GetMeta("missing")
	assert.Error(t, err)
}

func TestStateFileRoundTrip(t *testing.T) {
	w := testWorld(t)
	w.TickWorld()
	snap := w.Snapshot()

	path := filepath.Join(t.TempDir(), "data", "state.json")
	require.NoError(t, WriteStateFile(path, snap))

	// A second write replaces the first.
	w.TickWorld()
	next := w.Snapshot()
	require.NoError(t, WriteStateFile(path, next))

	got, err := ReadStateFile(path)
	require.NoError(t, err)
	assert.Equal(t, next, got)

	entries, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".state-*"))
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files are cleaned up")
}
