package history

import (
	"fmt"

	"github.com/roach88/deft/internal/storage"
	"github.com/roach88/deft/internal/tracker"
	"github.com/roach88/deft/internal/upgrade"
	"github.com/roach88/deft/internal/warn"
)

// LoadTracker loads the tracker held in a read-only snapshot. The snapshot
// is wrapped in an Overlay and upgraded to the current format there, so
// neither the migration nor the load's repairs reach the snapshot.
func LoadTracker(snapshot storage.Storage, sink warn.Sink) (*tracker.Tracker, error) {
	overlay := storage.NewOverlay(snapshot)
	if _, err := upgrade.Default().Upgrade(overlay); err != nil {
		return nil, fmt.Errorf("upgrade snapshot: %w", err)
	}
	return tracker.Load(overlay, sink)
}
