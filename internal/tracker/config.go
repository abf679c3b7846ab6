package tracker

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/deft/internal/format"
	"github.com/roach88/deft/internal/storage"
)

const (
	// FormatVersion is the on-disk format this package reads and writes.
	FormatVersion = "3.0"

	// ConfigDir marks the root of a tracker.
	ConfigDir = ".deft"

	// ConfigFile holds the tracker's Config.
	ConfigFile = ConfigDir + "/config"

	// DefaultDataDir is where feature and index files live by default.
	DefaultDataDir = "tracker"

	// DefaultInitialStatus is the default status of new features.
	DefaultInitialStatus = "new"

	// LostAndFound is the status given to feature records that no index
	// lists.
	LostAndFound = "lost+found"
)

//go:embed config.cue
var configSchema string

// Config is the tracker configuration stored in ConfigFile.
type Config struct {
	Format        string `yaml:"format" json:"format"`
	DataDir       string `yaml:"datadir" json:"datadir"`
	InitialStatus string `yaml:"initial_status" json:"initial_status"`
}

// DefaultConfig returns the configuration of a newly initialized tracker.
func DefaultConfig() Config {
	return Config{
		Format:        FormatVersion,
		DataDir:       DefaultDataDir,
		InitialStatus: DefaultInitialStatus,
	}
}

// Validate checks the config against its CUE schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(configSchema).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	v := schema.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		msg := err.Error()
		if errs := cueerrors.Errors(err); len(errs) > 0 {
			msg = errs[0].Error()
		}
		return NewUserError(CodeInvalidConfig, "invalid tracker configuration: %s", msg)
	}
	return nil
}

// LoadConfig reads the tracker configuration from st.
func LoadConfig(st storage.Storage) (Config, error) {
	if !st.Exists(ConfigDir) {
		return Config{}, NewUserError(CodeNotInitialized, "tracker not initialised")
	}
	var cfg Config
	if err := format.Read(st, ConfigFile, format.YAML, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the tracker configuration to st.
func SaveConfig(st storage.Storage, cfg Config) error {
	if err := format.Write(st, ConfigFile, format.YAML, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// Init creates a tracker in st. Non-empty fields of overrides replace the
// defaults; the format version cannot be overridden.
func Init(st storage.Storage, overrides Config) (*Tracker, error) {
	if st.Exists(ConfigDir) {
		return nil, NewUserError(CodeAlreadyInitialized, "tracker already initialised in directory %s", ConfigDir)
	}
	cfg := DefaultConfig()
	if overrides.DataDir != "" {
		cfg.DataDir = overrides.DataDir
	}
	if overrides.InitialStatus != "" {
		status, err := NormalizeName("status", overrides.InitialStatus)
		if err != nil {
			return nil, err
		}
		cfg.InitialStatus = status
	}
	t, err := New(cfg, st, nil)
	if err != nil {
		return nil, err
	}
	if err := SaveConfig(st, cfg); err != nil {
		return nil, err
	}
	return t, nil
}

// FindRoot returns the nearest directory at or above dir that contains a
// tracker.
func FindRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		info, err := os.Stat(filepath.Join(dir, ConfigDir))
		if err == nil && info.IsDir() {
			return dir, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", NewUserError(CodeNotInitialized, "tracker not initialised: no %s directory found", ConfigDir)
		}
		dir = parent
	}
}
