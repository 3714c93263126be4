package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/tribe-world/internal/economy"
	"github.com/talgya/tribe-world/internal/tech"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, int64(123), cfg.World.Seed)
	assert.Equal(t, 5, cfg.World.AgentsPerTribe)
	assert.Equal(t, 200, cfg.World.TimelineCapacity)
	require.Len(t, cfg.World.Tribes, 2)
	assert.Equal(t, "Aurora Clan", cfg.World.Tribes[0].Name)
	assert.EqualValues(t, 2, cfg.World.Tribes[1].ID)

	require.Len(t, cfg.World.Technologies, 3)
	fire := cfg.World.Technologies[0]
	assert.Equal(t, tech.ID("fire"), fire.ID)
	assert.Equal(t, 5.0, fire.Cost)
	assert.Empty(t, fire.Prerequisites)
	assert.Equal(t, 5.0, fire.Bonus[economy.Food])
	assert.Equal(t, 10.0, cfg.World.Technologies[1].Bonus[economy.Food])
	assert.Equal(t, []tech.ID{"fire"}, cfg.World.Technologies[2].Prerequisites)

	assert.Equal(t, uint64(200), cfg.Run.Steps)
	assert.Equal(t, 100*time.Millisecond, cfg.Run.Interval)
	assert.Equal(t, uint64(5), cfg.Run.SnapshotEvery)
	assert.Equal(t, 0, cfg.API.Port)
	assert.Equal(t, 60, cfg.API.StateRateLimit)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
world:
  seed: 7
  tribes:
    - id: 10
      name: Solo
run:
  interval: 1s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.World.Seed)
	require.Len(t, cfg.World.Tribes, 1, "lists replace the defaults")
	assert.Equal(t, "Solo", cfg.World.Tribes[0].Name)
	assert.Equal(t, 5, cfg.World.AgentsPerTribe, "untouched fields keep defaults")
	assert.Equal(t, time.Second, cfg.Run.Interval)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeFile(t, "world: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"no tribes", func(c *Config) { c.World.Tribes = nil }, "at least one tribe"},
		{"duplicate tribe", func(c *Config) { c.World.Tribes[1].ID = c.World.Tribes[0].ID }, "duplicate id 1"},
		{"negative agents", func(c *Config) { c.World.AgentsPerTribe = -1 }, "agents_per_tribe"},
		{"zero timeline", func(c *Config) { c.World.TimelineCapacity = 0 }, "timeline_capacity"},
		{"duplicate tech", func(c *Config) { c.World.Technologies[1].ID = "fire" }, `duplicate id "fire"`},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "unknown level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUnknownPrerequisiteIsValid(t *testing.T) {
	cfg := Default()
	cfg.World.Technologies = append(cfg.World.Technologies, tech.Technology{
		ID: "bronze", Name: "Bronze", Prerequisites: []tech.ID{"smelting"}, Cost: 20,
	})
	assert.NoError(t, cfg.Validate())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvSeed, "99")
	t.Setenv(EnvAPIPort, "8088")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.World.Seed)
	assert.Equal(t, 8088, cfg.API.Port)
}

func TestEnvOverrideInvalid(t *testing.T) {
	t.Setenv(EnvSeed, "not-a-number")
	_, err := Load("")
	assert.ErrorContains(t, err, EnvSeed)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.World.Seed = 555
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(555), loaded.World.Seed)
	assert.Equal(t, cfg.Run.Interval, loaded.Run.Interval)
	assert.Equal(t, cfg.World.Tribes, loaded.World.Tribes)
}
