package tracker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/deft/internal/storage"
)

func TestInit_WritesDefaultConfig(t *testing.T) {
	st := storage.NewMemStorage("/p")

	tr, err := Init(st, Config{})
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), tr.Config())
	assert.Equal(t, "format: \"3.0\"\ndatadir: tracker\ninitial_status: new\n", readFile(t, st, ConfigFile))
}

func TestInit_AppliesOverrides(t *testing.T) {
	st := storage.NewMemStorage("/p")

	_, err := Init(st, Config{Format: "9.9", DataDir: "data", InitialStatus: "inbox"})
	require.NoError(t, err)

	cfg, err := LoadConfig(st)
	require.NoError(t, err)
	assert.Equal(t, Config{Format: FormatVersion, DataDir: "data", InitialStatus: "inbox"}, cfg)
}

func TestInit_FailsWhenAlreadyInitialized(t *testing.T) {
	st := storage.NewMemStorage("/p")
	_, err := Init(st, Config{})
	require.NoError(t, err)

	_, err = Init(st, Config{})

	assert.True(t, HasCode(err, CodeAlreadyInitialized))
}

func TestLoad_FailsWhenNotInitialized(t *testing.T) {
	_, err := Load(storage.NewMemStorage("/p"), nil)

	assert.True(t, HasCode(err, CodeNotInitialized))
	assert.Equal(t, "tracker not initialised", err.Error())
}

func TestConfigure_SavesInitialStatus(t *testing.T) {
	tr, st := newTestTracker(t)

	require.NoError(t, tr.Configure("inbox"))
	assert.Equal(t, "inbox", tr.Config().InitialStatus)

	reloaded := reload(t, st)
	f := create(t, reloaded, "x", CreateOptions{})
	assert.Equal(t, "inbox", f.Status())

	assert.True(t, HasCode(tr.Configure(""), CodeInvalidName))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty format", mutate: func(c *Config) { c.Format = "" }, wantErr: true},
		{name: "empty datadir", mutate: func(c *Config) { c.DataDir = "" }, wantErr: true},
		{name: "empty initial status", mutate: func(c *Config) { c.InitialStatus = "" }, wantErr: true},
		{name: "old format is still valid", mutate: func(c *Config) { c.Format = "1.0" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.True(t, HasCode(err, CodeInvalidConfig), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFindRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ConfigDir), 0o755))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := FindRoot(nested)
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	gotReal, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, want, gotReal)

	got, err = FindRoot(root)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindRoot_NotFound(t *testing.T) {
	_, err := FindRoot(t.TempDir())
	assert.True(t, HasCode(err, CodeNotInitialized))
}
