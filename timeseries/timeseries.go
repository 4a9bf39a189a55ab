// Package timeseries holds an ordered sequence of topology snapshots
// covering a simulated time window, each owning its own deep-cloned
// topology.
package timeseries

import (
	"github.com/example/ldmrsat/topology"
)

// Snapshot pairs an immutable topology with the time interval it covers.
type Snapshot struct {
	TimestampS float64
	DurationS  float64
	Topology   *topology.Topology
}

// Manager holds an ordered, append-only list of snapshots and a cursor
// used by Advance.
type Manager struct {
	snapshots []Snapshot
	cursor    int
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{}
}

// AddSnapshot appends a snapshot, deep-cloning its topology so the manager
// never shares mutable state with the caller (mirrors Topology.Clone's
// independence guarantee).
func (m *Manager) AddSnapshot(timestampS, durationS float64, topo *topology.Topology) {
	m.snapshots = append(m.snapshots, Snapshot{
		TimestampS: timestampS,
		DurationS:  durationS,
		Topology:   topo.Clone(),
	})
}

// SnapshotAt returns the snapshot whose interval [timestamp, timestamp+duration)
// contains t, found by linear scan.
func (m *Manager) SnapshotAt(t float64) (Snapshot, bool) {
	for _, s := range m.snapshots {
		if t >= s.TimestampS && t < s.TimestampS+s.DurationS {
			return s, true
		}
	}
	return Snapshot{}, false
}

// Advance returns the next snapshot in sequence and moves the cursor
// forward. The second return is false once the series is exhausted.
func (m *Manager) Advance() (Snapshot, bool) {
	if m.cursor >= len(m.snapshots) {
		return Snapshot{}, false
	}
	s := m.snapshots[m.cursor]
	m.cursor++
	return s, true
}

// Reset rewinds the Advance cursor to the start of the series without
// discarding any snapshots.
func (m *Manager) Reset() {
	m.cursor = 0
}

// Len returns the number of snapshots held.
func (m *Manager) Len() int {
	return len(m.snapshots)
}

// Snapshots returns all snapshots in order.
func (m *Manager) Snapshots() []Snapshot {
	return append([]Snapshot(nil), m.snapshots...)
}
