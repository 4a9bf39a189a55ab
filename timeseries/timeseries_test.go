package timeseries_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ldmrsat/timeseries"
	"github.com/example/ldmrsat/topology"
)

func singleNodeTopology(t *testing.T, id string) *topology.Topology {
	t.Helper()
	topo := topology.New()
	require.NoError(t, topo.AddNode(topology.Node{ID: id, Kind: topology.Satellite}))
	return topo
}

func TestSnapshotAtFindsContainingInterval(t *testing.T) {
	m := timeseries.NewManager()
	m.AddSnapshot(0, 60, singleNodeTopology(t, "A"))
	m.AddSnapshot(60, 60, singleNodeTopology(t, "B"))

	snap, ok := m.SnapshotAt(90)
	require.True(t, ok)
	_, hasB := snap.Topology.GetNode("B")
	assert.True(t, hasB)
}

func TestSnapshotAtOutsideRangeIsAbsent(t *testing.T) {
	m := timeseries.NewManager()
	m.AddSnapshot(0, 60, singleNodeTopology(t, "A"))
	_, ok := m.SnapshotAt(120)
	assert.False(t, ok)
}

func TestSnapshotOwnsIndependentClone(t *testing.T) {
	m := timeseries.NewManager()
	topo := singleNodeTopology(t, "A")
	m.AddSnapshot(0, 60, topo)

	require.NoError(t, topo.AddNode(topology.Node{ID: "B", Kind: topology.Satellite}))

	snap, ok := m.SnapshotAt(0)
	require.True(t, ok)
	_, hasB := snap.Topology.GetNode("B")
	assert.False(t, hasB)
}

func TestAdvanceAndReset(t *testing.T) {
	m := timeseries.NewManager()
	m.AddSnapshot(0, 60, singleNodeTopology(t, "A"))
	m.AddSnapshot(60, 60, singleNodeTopology(t, "B"))

	first, ok := m.Advance()
	require.True(t, ok)
	assert.Equal(t, float64(0), first.TimestampS)

	second, ok := m.Advance()
	require.True(t, ok)
	assert.Equal(t, float64(60), second.TimestampS)

	_, ok = m.Advance()
	assert.False(t, ok)

	m.Reset()
	again, ok := m.Advance()
	require.True(t, ok)
	assert.Equal(t, float64(0), again.TimestampS)
}
