package upgrade

import (
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/roach88/deft/internal/format"
	"github.com/roach88/deft/internal/storage"
	"github.com/roach88/deft/internal/tracker"
)

// Config is the raw tracker configuration. Keys this version does not know
// are carried through unchanged.
type Config map[string]any

// Format returns the config's format version.
func (c Config) Format() string {
	s, _ := c["format"].(string)
	return s
}

// DataDir returns the config's data directory.
func (c Config) DataDir() string {
	if s, ok := c["datadir"].(string); ok && s != "" {
		return storage.Clean(s)
	}
	return legacyDataDir
}

// legacyDataDir is where trackers created before the datadir setting kept
// their files.
const legacyDataDir = ".deft/data"

// Step migrates storage from one format version to the next and records
// the new version in cfg.
type Step func(st storage.Storage, cfg Config) error

// Upgrader applies migration steps until storage reaches a target format.
type Upgrader struct {
	target string
	steps  map[string]Step
}

// New creates an Upgrader. steps maps each format version to the step that
// migrates away from it.
func New(target string, steps map[string]Step) *Upgrader {
	return &Upgrader{target: target, steps: steps}
}

// Target returns the format version the Upgrader migrates to.
func (u *Upgrader) Target() string {
	return u.target
}

// Upgrade migrates st to the target format and saves the config. It
// reports whether anything was done: false means st was already at the
// target. A version with no registered step, or a chain that fails to
// advance, is a CodeUnsupportedMigration error.
func (u *Upgrader) Upgrade(st storage.Storage) (bool, error) {
	cfg, err := LoadConfig(st)
	if err != nil {
		return false, err
	}
	if cfg.Format() == u.target {
		return false, nil
	}

	visited := make(map[string]bool)
	for current := cfg.Format(); current != u.target; current = cfg.Format() {
		step, ok := u.steps[current]
		if !ok || visited[current] {
			return false, tracker.NewUserError(tracker.CodeUnsupportedMigration,
				"cannot migrate from version %s to version %s", current, u.target)
		}
		visited[current] = true

		if err := step(st, cfg); err != nil {
			return false, fmt.Errorf("migrate from version %s: %w", current, err)
		}
		slog.Info("migrated tracker format", "from", current, "to", cfg.Format())
	}

	if err := format.Write(st, tracker.ConfigFile, format.YAML, map[string]any(cfg)); err != nil {
		return false, fmt.Errorf("save config: %w", err)
	}
	return true, nil
}

// LoadConfig reads the raw configuration of the tracker in st.
func LoadConfig(st storage.Storage) (Config, error) {
	if !st.Exists(tracker.ConfigDir) {
		return nil, tracker.NewUserError(tracker.CodeNotInitialized, "tracker not initialised")
	}
	data, err := storage.ReadAll(st, tracker.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Versions such as 1.0 are written unquoted and would decode as
	// numbers, so scalars are kept as written.
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := make(Config)
	if len(doc.Content) == 0 {
		return cfg, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("load config: %s is not a mapping", tracker.ConfigFile)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if value.Kind == yaml.ScalarNode && value.Tag != "!!null" {
			cfg[key.Value] = value.Value
			continue
		}
		var v any
		if err := value.Decode(&v); err != nil {
			return nil, fmt.Errorf("load config: %s: %w", key.Value, err)
		}
		cfg[key.Value] = v
	}
	return cfg, nil
}

// Default returns the Upgrader that migrates any known format to
// tracker.FormatVersion.
func Default() *Upgrader {
	return New(tracker.FormatVersion, map[string]Step{
		"1.0": splitCombinedRecords,
		"2.0": moveIntoFeaturesDir,
		"2.1": buildStatusIndexes,
	})
}
