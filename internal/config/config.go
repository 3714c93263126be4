// Package config provides configuration loading for the simulator.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/talgya/tribe-world/internal/social"
	"github.com/talgya/tribe-world/internal/tech"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Environment overrides.
const (
	EnvSeed    = "TRIBEWORLD_SEED"
	EnvAPIPort = "TRIBEWORLD_API_PORT"
)

// Config holds every tunable of a run.
type Config struct {
	World   WorldConfig   `yaml:"world"`
	Run     RunConfig     `yaml:"run"`
	Storage StorageConfig `yaml:"storage"`
	API     APIConfig     `yaml:"api"`
	Log     LogConfig     `yaml:"log"`
}

// WorldConfig describes the founding state of a world.
type WorldConfig struct {
	Seed             int64             `yaml:"seed"`
	AgentsPerTribe   int               `yaml:"agents_per_tribe"`
	TimelineCapacity int               `yaml:"timeline_capacity"`
	Tribes           []TribeConfig     `yaml:"tribes"`
	Technologies     []tech.Technology `yaml:"technologies"`
}

// TribeConfig names one founding tribe.
type TribeConfig struct {
	ID   social.TribeID `yaml:"id"`
	Name string         `yaml:"name"`
}

// RunConfig controls the pacing loop.
type RunConfig struct {
	Steps         uint64        `yaml:"steps"`          // 0 = run until stopped
	Interval      time.Duration `yaml:"interval"`       // Wall time per tick
	SnapshotEvery uint64        `yaml:"snapshot_every"` // Ticks between snapshot writes
}

// StorageConfig locates output. Empty paths disable that output.
type StorageConfig struct {
	StatePath    string `yaml:"state_path"`
	DBPath       string `yaml:"db_path"`
	TelemetryDir string `yaml:"telemetry_dir"`
}

// APIConfig controls the HTTP read API.
type APIConfig struct {
	Port           int `yaml:"port"`             // 0 = disabled
	StateRateLimit int `yaml:"state_rate_limit"` // Full-state requests per client per minute; 0 = unlimited
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file; lists replace wholesale.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.World.Seed = seed
	}
	if v := os.Getenv(EnvAPIPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAPIPort, err)
		}
		c.API.Port = port
	}
	return nil
}

// Validate checks for configurations the world cannot be built from.
// Technology prerequisites are deliberately not checked: an unknown
// prerequisite only blocks that technology.
func (c *Config) Validate() error {
	var errs []error

	if len(c.World.Tribes) == 0 {
		errs = append(errs, errors.New("world.tribes: at least one tribe required"))
	}
	seenTribe := make(map[social.TribeID]bool)
	for _, t := range c.World.Tribes {
		if seenTribe[t.ID] {
			errs = append(errs, fmt.Errorf("world.tribes: duplicate id %d", t.ID))
		}
		seenTribe[t.ID] = true
	}
	if c.World.AgentsPerTribe < 0 {
		errs = append(errs, fmt.Errorf("world.agents_per_tribe: must be >= 0, got %d", c.World.AgentsPerTribe))
	}
	if c.World.TimelineCapacity <= 0 {
		errs = append(errs, fmt.Errorf("world.timeline_capacity: must be > 0, got %d", c.World.TimelineCapacity))
	}
	seenTech := make(map[tech.ID]bool)
	for _, t := range c.World.Technologies {
		if t.ID == "" {
			errs = append(errs, errors.New("world.technologies: empty id"))
		}
		if seenTech[t.ID] {
			errs = append(errs, fmt.Errorf("world.technologies: duplicate id %q", t.ID))
		}
		seenTech[t.ID] = true
	}
	if c.Run.Interval < 0 {
		errs = append(errs, fmt.Errorf("run.interval: must be >= 0, got %s", c.Run.Interval))
	}
	if c.API.StateRateLimit < 0 {
		errs = append(errs, fmt.Errorf("api.state_rate_limit: must be >= 0, got %d", c.API.StateRateLimit))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level: unknown level %q", name)
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
