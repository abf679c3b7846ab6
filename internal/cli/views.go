package cli

import (
	"fmt"
	"strings"

	"github.com/roach88/deft/internal/tracker"
)

// featureView is the JSON form of a feature.
type featureView struct {
	Name       string              `json:"name"`
	Status     string              `json:"status"`
	Priority   int                 `json:"priority"`
	Properties *tracker.Properties `json:"properties,omitempty"`
}

func viewOf(f *tracker.Feature) featureView {
	return featureView{Name: f.Name(), Status: f.Status(), Priority: f.Priority()}
}

// parseAssignment splits a NAME=VALUE flag argument at the first "=".
func parseAssignment(s string) (name, value string, err error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", "", NewExitError(ExitUserError, fmt.Sprintf("invalid property assignment %q: expected NAME=VALUE", s))
	}
	return name, value, nil
}
