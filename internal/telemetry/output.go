package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/talgya/tribe-world/internal/config"
	"github.com/talgya/tribe-world/internal/engine"
)

// Writer appends tribe statistics to tribes.csv in its directory.
type Writer struct {
	dir        string
	tribesFile *os.File

	tribesHeaderWritten bool
}

// NewWriter creates the output directory and tribes.csv.
// Returns nil if dir is empty (output disabled).
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating telemetry directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "tribes.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating tribes.csv: %w", err)
	}

	return &Writer{dir: dir, tribesFile: f}, nil
}

// WriteConfig saves the run configuration next to the CSV output.
func (w *Writer) WriteConfig(cfg *config.Config) error {
	if w == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(w.dir, "config.yaml"))
}

// WriteTribes appends one row per tribe in snap.
func (w *Writer) WriteTribes(snap *engine.Snapshot) error {
	if w == nil {
		return nil
	}

	records := CollectTribes(snap)
	if len(records) == 0 {
		return nil
	}

	if !w.tribesHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, w.tribesFile); err != nil {
			return fmt.Errorf("writing tribe stats: %w", err)
		}
		w.tribesHeaderWritten = true
		return nil
	}

	if err := gocsv.MarshalWithoutHeaders(records, w.tribesFile); err != nil {
		return fmt.Errorf("writing tribe stats: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (w *Writer) Dir() string {
	if w == nil {
		return ""
	}
	return w.dir
}

// Close closes the output files.
func (w *Writer) Close() error {
	if w == nil || w.tribesFile == nil {
		return nil
	}
	return w.tribesFile.Close()
}
