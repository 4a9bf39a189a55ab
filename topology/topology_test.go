package topology_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ldmrsat/topology"
)

func buildDiamond(t *testing.T) *topology.Topology {
	t.Helper()
	topo := topology.New()
	for _, id := range []string{"A", "B", "C", "D"} {
		require.NoError(t, topo.AddNode(topology.Node{ID: id, Kind: topology.Satellite}))
	}
	links := []topology.Link{
		{End1: "A", End2: "B", DelayMs: 10, Weight: 10, BandwidthG: 1, Active: true},
		{End1: "A", End2: "C", DelayMs: 20, Weight: 20, BandwidthG: 1, Active: true},
		{End1: "B", End2: "D", DelayMs: 10, Weight: 10, BandwidthG: 1, Active: true},
		{End1: "C", End2: "D", DelayMs: 15, Weight: 15, BandwidthG: 1, Active: true},
		{End1: "B", End2: "C", DelayMs: 5, Weight: 5, BandwidthG: 1, Active: true},
	}
	for _, l := range links {
		require.NoError(t, topo.AddLink(l))
	}
	return topo
}

func TestAddLinkRejectsMissingEndpoint(t *testing.T) {
	topo := topology.New()
	require.NoError(t, topo.AddNode(topology.Node{ID: "A", Kind: topology.Satellite}))
	err := topo.AddLink(topology.Link{End1: "A", End2: "ghost", Active: true})
	assert.ErrorIs(t, err, topology.ErrLinkEndpointGap)
}

func TestGetLinkIsOrderIndependent(t *testing.T) {
	topo := buildDiamond(t)
	forward, ok := topo.GetLink("A", "B")
	require.True(t, ok)
	backward, ok := topo.GetLink("B", "A")
	require.True(t, ok)
	assert.Equal(t, forward, backward)
}

func TestNeighborsAreSymmetric(t *testing.T) {
	topo := buildDiamond(t)
	for _, l := range topo.Links() {
		assert.Contains(t, topo.Neighbors(l.End1), l.End2)
		assert.Contains(t, topo.Neighbors(l.End2), l.End1)
	}
}

func TestRemoveLinkIsNoOpWhenAbsent(t *testing.T) {
	topo := buildDiamond(t)
	before := topo.Statistics().TotalLinks
	topo.RemoveLink("A", "D")
	assert.Equal(t, before, topo.Statistics().TotalLinks)
}

func TestRemoveLinkUpdatesAdjacencyAtomically(t *testing.T) {
	topo := buildDiamond(t)
	topo.RemoveLink("A", "B")
	assert.NotContains(t, topo.Neighbors("A"), "B")
	assert.NotContains(t, topo.Neighbors("B"), "A")
	_, ok := topo.GetLink("A", "B")
	assert.False(t, ok)
}

func TestCloneIndependence(t *testing.T) {
	topo := buildDiamond(t)
	clone := topo.Clone()

	clone.RemoveLink("A", "B")
	clone.UpdateLinkWeights(map[topology.LinkKey]float64{
		topology.NewLinkKey("B", "C"): 999,
	})

	original, ok := topo.GetLink("A", "B")
	require.True(t, ok)
	assert.True(t, original.Active)

	untouched, ok := topo.GetLink("B", "C")
	require.True(t, ok)
	assert.Equal(t, float64(5), untouched.Weight)
}

func TestStatisticsCountsAndConnectivity(t *testing.T) {
	topo := buildDiamond(t)
	stats := topo.Statistics()
	assert.Equal(t, 4, stats.SatelliteCount)
	assert.Equal(t, 5, stats.TotalLinks)
	assert.True(t, stats.IsConnected)
}

func TestStatisticsDetectsDisconnection(t *testing.T) {
	topo := topology.New()
	require.NoError(t, topo.AddNode(topology.Node{ID: "A", Kind: topology.Satellite}))
	require.NoError(t, topo.AddNode(topology.Node{ID: "B", Kind: topology.Satellite}))
	stats := topo.Statistics()
	assert.False(t, stats.IsConnected)
}

func TestUpdateLinkWeightsInvalidatesCache(t *testing.T) {
	topo := buildDiamond(t)
	_ = topo.WeightMatrix()
	topo.UpdateLinkWeights(map[topology.LinkKey]float64{
		topology.NewLinkKey("A", "B"): 42,
	})
	matrix := topo.WeightMatrix()
	assert.Equal(t, float64(42), matrix[topology.NewLinkKey("A", "B")])
}

func TestUsageCounterLifecycle(t *testing.T) {
	topo := buildDiamond(t)
	key := topology.NewLinkKey("A", "B")
	topo.IncrementUsage(key)
	topo.IncrementUsage(key)
	assert.Equal(t, 2, topo.UsageCount(key))
	topo.ResetUsage()
	assert.Equal(t, 0, topo.UsageCount(key))
}
