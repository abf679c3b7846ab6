package upgrade

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/deft/internal/format"
	"github.com/roach88/deft/internal/storage"
)

const (
	statusSuffix      = ".status"
	descriptionSuffix = ".description"
	propertiesSuffix  = ".properties.yaml"
)

// splitCombinedRecords migrates 1.0 to 2.0. A 1.0 record is a single YAML
// document <name>.status holding the status, priority, description and
// properties of a feature. It becomes a text <name>.status holding the
// priority and status, a <name>.description and a <name>.properties.yaml.
func splitCombinedRecords(st storage.Storage, cfg Config) error {
	dataDir := cfg.DataDir()
	paths, err := st.List(path.Join(dataDir, "*"+statusSuffix))
	if err != nil {
		return err
	}
	for _, p := range paths {
		base := strings.TrimSuffix(p, statusSuffix)

		data, err := storage.ReadAll(st, p)
		if err != nil {
			return err
		}
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
			return fmt.Errorf("%s: not a mapping", p)
		}

		var (
			status      string
			priority    int
			description *string
		)
		props := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		fields := doc.Content[0].Content
		for i := 0; i+1 < len(fields); i += 2 {
			key, value := fields[i], fields[i+1]
			switch key.Value {
			case "status":
				status = value.Value
			case "priority":
				if priority, err = strconv.Atoi(value.Value); err != nil {
					return fmt.Errorf("%s: priority: %w", p, err)
				}
			case "description":
				var s string
				if err := value.Decode(&s); err != nil {
					return fmt.Errorf("%s: description: %w", p, err)
				}
				description = &s
			default:
				props.Content = append(props.Content, key, value)
			}
		}
		if status == "" {
			return fmt.Errorf("%s: missing status", p)
		}

		if description != nil {
			if err := format.Write(st, base+descriptionSuffix, format.Text, *description); err != nil {
				return err
			}
		}
		if len(props.Content) > 0 {
			if err := format.Write(st, base+propertiesSuffix, format.YAML, props); err != nil {
				return err
			}
		}
		if err := format.Write(st, p, format.Text, formatStatus(status, priority)); err != nil {
			return err
		}
	}
	cfg["format"] = "2.0"
	return nil
}

// moveIntoFeaturesDir migrates 2.0 to 2.1 by moving every record file
// into <datadir>/features.
func moveIntoFeaturesDir(st storage.Storage, cfg Config) error {
	dataDir := cfg.DataDir()
	for _, suffix := range []string{statusSuffix, descriptionSuffix, propertiesSuffix} {
		paths, err := st.List(path.Join(dataDir, "*"+suffix))
		if err != nil {
			return err
		}
		for _, p := range paths {
			if err := st.Rename(p, path.Join(dataDir, "features", path.Base(p))); err != nil {
				return err
			}
		}
	}
	cfg["format"] = "2.1"
	return nil
}

type ranked struct {
	name     string
	priority int
}

// buildStatusIndexes migrates 2.1 to 3.0. The status and priority held in
// each <name>.status file become an entry in <datadir>/status/<status>.index
// and the .status files are removed. A feature left with no record file
// gets an empty description so that it still exists.
func buildStatusIndexes(st storage.Storage, cfg Config) error {
	featuresDir := path.Join(cfg.DataDir(), "features")
	paths, err := st.List(path.Join(featuresDir, "*"+statusSuffix))
	if err != nil {
		return err
	}

	buckets := make(map[string][]ranked)
	for _, p := range paths {
		var text string
		if err := format.Read(st, p, format.Text, &text); err != nil {
			return err
		}
		status, priority, err := parseStatus(text)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		name := strings.TrimSuffix(path.Base(p), statusSuffix)
		buckets[status] = append(buckets[status], ranked{name: name, priority: priority})
	}

	for status, features := range buckets {
		sort.Slice(features, func(i, j int) bool {
			if features[i].priority != features[j].priority {
				return features[i].priority < features[j].priority
			}
			return features[i].name < features[j].name
		})
		names := make([]string, len(features))
		for i, f := range features {
			names[i] = f.name
		}
		indexPath := path.Join(cfg.DataDir(), "status", status+".index")
		if err := format.Write(st, indexPath, format.Lines, names); err != nil {
			return err
		}
	}

	for _, p := range paths {
		base := strings.TrimSuffix(p, statusSuffix)
		if !st.Exists(base+descriptionSuffix) && !st.Exists(base+propertiesSuffix) {
			if err := format.Write(st, base+descriptionSuffix, format.Text, ""); err != nil {
				return err
			}
		}
		if err := st.Remove(p); err != nil {
			return err
		}
	}
	cfg["datadir"] = cfg.DataDir()
	cfg["format"] = "3.0"
	return nil
}

// formatStatus renders the 2.x status record: the priority right-aligned
// in eight columns, a space, then the status.
func formatStatus(status string, priority int) string {
	return fmt.Sprintf("%8d %s", priority, status)
}

func parseStatus(text string) (status string, priority int, err error) {
	text = strings.TrimSpace(text)
	digits, status, ok := strings.Cut(text, " ")
	if !ok {
		return "", 0, errors.New("malformed status record")
	}
	priority, err = strconv.Atoi(digits)
	if err != nil {
		return "", 0, fmt.Errorf("malformed priority: %w", err)
	}
	status = strings.TrimSpace(status)
	if status == "" {
		return "", 0, errors.New("malformed status record: missing status")
	}
	return status, priority, nil
}
