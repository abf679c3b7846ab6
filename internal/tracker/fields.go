package tracker

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/deft/internal/format"
	"github.com/roach88/deft/internal/storage"
)

// field describes a file-backed feature field.
type field struct {
	name   string
	suffix string
	format format.Format
}

var (
	descriptionField = field{name: "description", suffix: ".description", format: format.Text}
	propertiesField  = field{name: "properties", suffix: ".properties.yaml", format: format.YAML}
)

// recordFields lists the file-backed fields. A feature record exists if
// any of these files exists.
var recordFields = []field{descriptionField, propertiesField}

const indexSuffix = ".index"

// layout maps tracker entities to storage paths under a data directory.
type layout struct {
	dataDir string
}

func (l layout) indexPath(status string) string {
	return path.Join(l.dataDir, "status", status+indexSuffix)
}

func (l layout) recordPath(name string, f field) string {
	return path.Join(l.dataDir, "features", name+f.suffix)
}

// records returns the names of all features with at least one record file.
func (l layout) records(st storage.Storage) (map[string]bool, error) {
	names := make(map[string]bool)
	for _, f := range recordFields {
		paths, err := st.List(l.recordPath("*", f))
		if err != nil {
			return nil, fmt.Errorf("list %s files: %w", f.name, err)
		}
		for _, p := range paths {
			names[norm.NFC.String(strings.TrimSuffix(path.Base(p), f.suffix))] = true
		}
	}
	return names, nil
}
