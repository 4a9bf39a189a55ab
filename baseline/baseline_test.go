package baseline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ldmrsat/baseline"
	"github.com/example/ldmrsat/pathfind"
	"github.com/example/ldmrsat/topology"
	"github.com/example/ldmrsat/traffic"
)

func addNode(t *testing.T, topo *topology.Topology, id string) {
	t.Helper()
	require.NoError(t, topo.AddNode(topology.Node{ID: id, Kind: topology.Satellite}))
}

func addLink(t *testing.T, topo *topology.Topology, a, b string, delay float64) {
	t.Helper()
	require.NoError(t, topo.AddLink(topology.Link{End1: a, End2: b, DelayMs: delay, Weight: delay, BandwidthG: 10, Active: true}))
}

func TestSPFReturnsSinglePath(t *testing.T) {
	topo := topology.New()
	for _, id := range []string{"A", "B", "C"} {
		addNode(t, topo, id)
	}
	addLink(t, topo, "A", "B", 5)
	addLink(t, topo, "B", "C", 5)

	results := baseline.RunSPF(topo, []traffic.Demand{{SourceID: "A", DestinationID: "C"}}, baseline.DefaultSPFConfig())
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Len(t, results[0].Paths, 1)
}

func TestSPFUnreachableFails(t *testing.T) {
	topo := topology.New()
	addNode(t, topo, "A")
	addNode(t, topo, "B")
	results := baseline.RunSPF(topo, []traffic.Demand{{SourceID: "A", DestinationID: "B"}}, baseline.DefaultSPFConfig())
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
}

// TestECMPToleranceFiltering checks that, given three parallel 3-hop paths
// of delay 30, 31, 40 between A and B with tolerance 0.1, ECMP keeps 30
// and 31 and excludes 40 (40 > 33).
func TestECMPToleranceFiltering(t *testing.T) {
	topo := topology.New()
	for _, id := range []string{"A", "B", "P1a", "P1b", "P2a", "P2b", "P3a", "P3b"} {
		addNode(t, topo, id)
	}
	// Path 1: A-P1a-P1b-B, total delay 30.
	addLink(t, topo, "A", "P1a", 10)
	addLink(t, topo, "P1a", "P1b", 10)
	addLink(t, topo, "P1b", "B", 10)
	// Path 2: A-P2a-P2b-B, total delay 31.
	addLink(t, topo, "A", "P2a", 10)
	addLink(t, topo, "P2a", "P2b", 11)
	addLink(t, topo, "P2b", "B", 10)
	// Path 3: A-P3a-P3b-B, total delay 40.
	addLink(t, topo, "A", "P3a", 13)
	addLink(t, topo, "P3a", "P3b", 14)
	addLink(t, topo, "P3b", "B", 13)

	cfg := baseline.ECMPConfig{WeightKind: pathfind.Delay, MaxPaths: 3, Tolerance: 0.1}
	results, err := baseline.RunECMP(topo, []traffic.Demand{{SourceID: "A", DestinationID: "B"}}, cfg)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Len(t, results[0].Paths, 2)

	for _, p := range results[0].Paths {
		assert.LessOrEqual(t, p.TotalDelayMs, 33.0)
	}
}

func TestECMPRejectsInvalidConfig(t *testing.T) {
	topo := topology.New()
	_, err := baseline.RunECMP(topo, nil, baseline.ECMPConfig{MaxPaths: 0})
	assert.ErrorIs(t, err, baseline.ErrInvalidMaxPaths)

	_, err = baseline.RunECMP(topo, nil, baseline.ECMPConfig{MaxPaths: 1, Tolerance: -1})
	assert.ErrorIs(t, err, baseline.ErrInvalidTolerance)
}
