package pathfind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ldmrsat/pathfind"
	"github.com/example/ldmrsat/topology"
)

func diamondTopology(t *testing.T) *topology.Topology {
	t.Helper()
	topo := topology.New()
	for _, id := range []string{"A", "B", "C", "D"} {
		require.NoError(t, topo.AddNode(topology.Node{ID: id, Kind: topology.Satellite}))
	}
	links := []topology.Link{
		{End1: "A", End2: "B", DelayMs: 10, Weight: 10, BandwidthG: 5, Active: true},
		{End1: "A", End2: "C", DelayMs: 20, Weight: 20, BandwidthG: 5, Active: true},
		{End1: "B", End2: "D", DelayMs: 10, Weight: 10, BandwidthG: 5, Active: true},
		{End1: "C", End2: "D", DelayMs: 15, Weight: 15, BandwidthG: 5, Active: true},
		{End1: "B", End2: "C", DelayMs: 5, Weight: 5, BandwidthG: 5, Active: true},
	}
	for _, l := range links {
		require.NoError(t, topo.AddLink(l))
	}
	return topo
}

func TestShortestPathPrefersLowerDelay(t *testing.T) {
	topo := diamondTopology(t)
	path, ok := pathfind.ShortestPath(topo, "A", "D", pathfind.Delay, nil)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B", "D"}, path.Nodes)
	assert.Equal(t, float64(20), path.TotalDelayMs)
}

func TestShortestPathSameSourceAndDestination(t *testing.T) {
	topo := diamondTopology(t)
	path, ok := pathfind.ShortestPath(topo, "A", "A", pathfind.Delay, nil)
	require.True(t, ok)
	assert.Equal(t, []string{"A"}, path.Nodes)
	assert.Empty(t, path.Links)
}

func TestShortestPathUnreachableReturnsFalse(t *testing.T) {
	topo := topology.New()
	require.NoError(t, topo.AddNode(topology.Node{ID: "A", Kind: topology.Satellite}))
	require.NoError(t, topo.AddNode(topology.Node{ID: "B", Kind: topology.Satellite}))
	_, ok := pathfind.ShortestPath(topo, "A", "B", pathfind.Delay, nil)
	assert.False(t, ok)
}

func TestShortestPathUnknownNodeReturnsFalse(t *testing.T) {
	topo := diamondTopology(t)
	_, ok := pathfind.ShortestPath(topo, "A", "ghost", pathfind.Delay, nil)
	assert.False(t, ok)
}

func TestShortestPathHonoursExcludedLinks(t *testing.T) {
	topo := diamondTopology(t)
	excluded := []topology.LinkKey{topology.NewLinkKey("A", "B")}
	path, ok := pathfind.ShortestPath(topo, "A", "D", pathfind.Delay, excluded)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "C", "D"}, path.Nodes)
}

func TestKShortestPathsReturnsDistinctRoutes(t *testing.T) {
	topo := diamondTopology(t)
	paths := pathfind.KShortestPaths(topo, "A", "D", pathfind.Delay, 2)
	require.Len(t, paths, 2)
	assert.Equal(t, []string{"A", "B", "D"}, paths[0].Nodes)
	assert.NotEqual(t, paths[0].Nodes, paths[1].Nodes)
}

func TestKShortestPathsCapsAtAvailableRoutes(t *testing.T) {
	topo := topology.New()
	for _, id := range []string{"A", "B", "C"} {
		require.NoError(t, topo.AddNode(topology.Node{ID: id, Kind: topology.Satellite}))
	}
	require.NoError(t, topo.AddLink(topology.Link{End1: "A", End2: "B", DelayMs: 1, BandwidthG: 1, Active: true}))
	require.NoError(t, topo.AddLink(topology.Link{End1: "B", End2: "C", DelayMs: 1, BandwidthG: 1, Active: true}))

	paths := pathfind.KShortestPaths(topo, "A", "C", pathfind.Delay, 3)
	assert.Len(t, paths, 1)
}
