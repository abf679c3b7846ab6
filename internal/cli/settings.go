package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/roach88/deft/internal/tracker"
)

// EditorVariables are the environment variables naming the editor
// command, in order of precedence.
var EditorVariables = []string{"DEFT_EDITOR", "VISUAL", "EDITOR"}

// Environment variables read by the CLI besides the editor variables.
const (
	DirectoryVariable = "DEFT_DIRECTORY"
	HistoryVariable   = "DEFT_HISTORY"
)

// envFiles are read from the working directory, later files overriding
// earlier ones. The process environment overrides both.
var envFiles = []string{".env", ".env.local"}

// Settings are the process settings taken from the environment.
type Settings struct {
	v *viper.Viper
}

// LoadSettings reads settings from the environment and from the env files
// found in dir. Missing env files are skipped.
func LoadSettings(dir string) (*Settings, error) {
	v := viper.New()
	v.AutomaticEnv()
	for _, name := range envFiles {
		p := filepath.Join(dir, name)
		values, err := godotenv.Read(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		for key, value := range values {
			v.SetDefault(key, value)
		}
	}
	return &Settings{v: v}, nil
}

// EditorCommand returns the editor command line from the first editor
// variable that is set.
func (s *Settings) EditorCommand() (string, error) {
	for _, name := range EditorVariables {
		if command := strings.TrimSpace(s.v.GetString(name)); command != "" {
			return command, nil
		}
	}
	return "", tracker.NewUserError(tracker.CodeNoEditor,
		"no editor specified: one of the environment variables %s must be set",
		strings.Join(EditorVariables, ", "))
}

// Directory returns the directory deft runs in when no --directory flag
// is given, or "" for the working directory.
func (s *Settings) Directory() string {
	return s.v.GetString(DirectoryVariable)
}

// HistoryPath returns the path of the snapshot database of the tracker
// rooted at root.
func (s *Settings) HistoryPath(root string) string {
	if p := s.v.GetString(HistoryVariable); p != "" {
		return p
	}
	return filepath.Join(root, filepath.FromSlash(tracker.ConfigDir), "history.db")
}
