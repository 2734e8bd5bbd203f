package store

import "station-mods/internal/laundry"

// Snapshot is one machine as the recorder observed it. Label is the machine's stable ID.
type Snapshot struct {
	Label string
	View  laundry.View
}

// Idle reports whether no cycle is in progress.
func (s Snapshot) Idle() bool { return !s.View.Running() }
