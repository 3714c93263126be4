// Package persistence provides SQLite-based world state storage.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/tribe-world/internal/economy"
	"github.com/talgya/tribe-world/internal/engine"
	"github.com/talgya/tribe-world/internal/timeline"
)

// ErrNoSnapshot is returned when no snapshot was stored for a tick.
var ErrNoSnapshot = errors.New("snapshot not found")

// DB wraps a SQLite connection for world state persistence.
type DB struct {
	conn  *sqlx.DB
	runID string

	savedThrough int64 // Last tick whose events are stored; -1 before the first save
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn, savedThrough: -1}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if err := db.initRunID(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run id: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// RunID identifies this run. Every Open starts a new run; events and
// snapshots are stored per run.
func (db *DB) RunID() string {
	return db.runID
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tribes (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		food REAL NOT NULL,
		wood REAL NOT NULL,
		knowledge_pool REAL NOT NULL,
		resources_json TEXT NOT NULL,
		discovered_json TEXT NOT NULL,
		attitude_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agents (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		tribe_id INTEGER NOT NULL,
		aggression REAL NOT NULL,
		curiosity REAL NOT NULL,
		cooperativeness REAL NOT NULL,
		hunger REAL NOT NULL,
		fatigue REAL NOT NULL,
		happiness REAL NOT NULL,
		alive INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		body TEXT NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_meta (
		run_id TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (run_id, key)
	);

	CREATE INDEX IF NOT EXISTS idx_events_run_tick ON events(run_id, tick);
	CREATE INDEX IF NOT EXISTS idx_agents_tribe ON agents(tribe_id);
	CREATE INDEX IF NOT EXISTS idx_agents_alive ON agents(alive);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// initRunID starts a new run and points world_meta's current_run at it.
// Everything else in the file is keyed by run.
func (db *DB) initRunID() error {
	db.runID = uuid.NewString()
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES ('current_run', ?)",
		db.runID,
	)
	return err
}

type tribeRow struct {
	ID             uint64  `db:"id"`
	Name           string  `db:"name"`
	Food           float64 `db:"food"`
	Wood           float64 `db:"wood"`
	KnowledgePool  float64 `db:"knowledge_pool"`
	ResourcesJSON  string  `db:"resources_json"`
	DiscoveredJSON string  `db:"discovered_json"`
	AttitudeJSON   string  `db:"attitude_json"`
}

type agentRow struct {
	ID              uint64  `db:"id"`
	Name            string  `db:"name"`
	TribeID         uint64  `db:"tribe_id"`
	Aggression      float64 `db:"aggression"`
	Curiosity       float64 `db:"curiosity"`
	Cooperativeness float64 `db:"cooperativeness"`
	Hunger          float64 `db:"hunger"`
	Fatigue         float64 `db:"fatigue"`
	Happiness       float64 `db:"happiness"`
	Alive           bool    `db:"alive"`
}

// saveTribes writes all tribes (full replace).
func saveTribes(tx *sqlx.Tx, tribes []engine.TribeState) error {
	if _, err := tx.Exec("DELETE FROM tribes"); err != nil {
		return err
	}

	for _, t := range tribes {
		resJSON, err := json.Marshal(t.Resources)
		if err != nil {
			return fmt.Errorf("encode resources of tribe %d: %w", t.ID, err)
		}
		discJSON, err := json.Marshal(t.DiscoveredTech)
		if err != nil {
			return fmt.Errorf("encode discoveries of tribe %d: %w", t.ID, err)
		}
		attJSON, err := json.Marshal(t.Attitude)
		if err != nil {
			return fmt.Errorf("encode attitude of tribe %d: %w", t.ID, err)
		}

		row := tribeRow{
			ID:             uint64(t.ID),
			Name:           t.Name,
			Food:           t.Resources.Get(economy.Food),
			Wood:           t.Resources.Get(economy.Wood),
			KnowledgePool:  t.KnowledgePool,
			ResourcesJSON:  string(resJSON),
			DiscoveredJSON: string(discJSON),
			AttitudeJSON:   string(attJSON),
		}
		if _, err := tx.NamedExec(`INSERT INTO tribes
			(id, name, food, wood, knowledge_pool, resources_json, discovered_json, attitude_json)
			VALUES (:id, :name, :food, :wood, :knowledge_pool, :resources_json, :discovered_json, :attitude_json)`,
			row,
		); err != nil {
			return fmt.Errorf("insert tribe %d: %w", t.ID, err)
		}
	}
	return nil
}

// saveAgents writes all agents (full replace).
func saveAgents(tx *sqlx.Tx, list []engine.AgentState) error {
	if _, err := tx.Exec("DELETE FROM agents"); err != nil {
		return err
	}

	stmt, err := tx.PrepareNamed(`INSERT INTO agents
		(id, name, tribe_id, aggression, curiosity, cooperativeness, hunger, fatigue, happiness, alive)
		VALUES (:id, :name, :tribe_id, :aggression, :curiosity, :cooperativeness, :hunger, :fatigue, :happiness, :alive)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range list {
		row := agentRow{
			ID:              uint64(a.ID),
			Name:            a.Name,
			TribeID:         uint64(a.TribeID),
			Aggression:      a.Aggression,
			Curiosity:       a.Curiosity,
			Cooperativeness: a.Cooperativeness,
			Hunger:          a.Hunger,
			Fatigue:         a.Fatigue,
			Happiness:       a.Happiness,
			Alive:           a.Alive,
		}
		if _, err := stmt.Exec(row); err != nil {
			return fmt.Errorf("insert agent %d: %w", a.ID, err)
		}
	}
	return nil
}

// saveEvents appends timeline events newer than after. The timeline only
// keeps recent history, so the table is the long-term record.
func saveEvents(tx *sqlx.Tx, runID string, after int64, events []timeline.Event) (int, error) {
	n := 0
	for _, e := range events {
		if int64(e.Tick) <= after {
			continue
		}
		if _, err := tx.Exec(
			"INSERT INTO events (run_id, tick, description) VALUES (?, ?, ?)",
			runID, e.Tick, e.Description,
		); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// SaveWorldState performs a full save of a snapshot in one transaction.
func (db *DB) SaveWorldState(snap *engine.Snapshot) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := saveTribes(tx, snap.Tribes); err != nil {
		return fmt.Errorf("save tribes: %w", err)
	}
	if err := saveAgents(tx, snap.Agents); err != nil {
		return fmt.Errorf("save agents: %w", err)
	}
	added, err := saveEvents(tx, db.runID, db.savedThrough, snap.Timeline)
	if err != nil {
		return fmt.Errorf("save events: %w", err)
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO snapshots (run_id, tick, body) VALUES (?, ?, ?)",
		db.runID, snap.Tick, string(body),
	); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO run_meta (run_id, key, value) VALUES (?, 'last_tick', ?)",
		db.runID, strconv.FormatUint(snap.Tick, 10),
	); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	db.savedThrough = max(db.savedThrough, int64(snap.Tick))

	slog.Debug("world state saved", "tick", snap.Tick, "tribes", len(snap.Tribes), "agents", len(snap.Agents), "events", added)
	return nil
}

// SaveMeta stores a key-value pair for this run.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO run_meta (run_id, key, value) VALUES (?, ?, ?)",
		db.runID, key, value,
	)
	return err
}

// GetMeta retrieves a value this run stored. Keys saved by earlier runs are
// not visible and return sql.ErrNoRows.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM run_meta WHERE run_id = ? AND key = ?", db.runID, key)
	return value, err
}

// RecentEvents returns this run's most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]timeline.Event, error) {
	var events []timeline.Event
	err := db.conn.Select(&events,
		"SELECT tick, description FROM events WHERE run_id = ? ORDER BY id DESC LIMIT ?",
		db.runID, limit,
	)
	return events, err
}

// LatestTick returns the tick of this run's newest snapshot, or 0 if none.
func (db *DB) LatestTick() (uint64, error) {
	var tick uint64
	err := db.conn.Get(&tick, "SELECT COALESCE(MAX(tick), 0) FROM snapshots WHERE run_id = ?", db.runID)
	return tick, err
}

// LoadSnapshot reads back the snapshot this run stored for tick.
func (db *DB) LoadSnapshot(tick uint64) (*engine.Snapshot, error) {
	var body string
	err := db.conn.Get(&body, "SELECT body FROM snapshots WHERE run_id = ? AND tick = ?", db.runID, tick)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tick %d: %w", tick, ErrNoSnapshot)
	}
	if err != nil {
		return nil, err
	}

	var snap engine.Snapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %d: %w", tick, err)
	}
	return &snap, nil
}
