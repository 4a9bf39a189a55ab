// Package baseline implements the SPF and ECMP comparison algorithms used
// alongside LDMR: single shortest path, and equal-cost multipath within a
// tolerance of the optimum.
package baseline

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/ldmrsat/ldmr"
	"github.com/example/ldmrsat/pathfind"
	"github.com/example/ldmrsat/topology"
	"github.com/example/ldmrsat/traffic"
)

// Errors returned by this package.
var (
	ErrInvalidTolerance = errors.New("baseline: tolerance must be >= 0")
	ErrInvalidMaxPaths  = errors.New("baseline: max_paths must be >= 1")
)

// Result is the same per-demand shape LDMR returns, so the reporting
// interface can treat all three algorithms uniformly.
type Result = ldmr.MultiPathResult

// SPFConfig configures the single-path baseline.
type SPFConfig struct {
	WeightKind pathfind.WeightKind
}

// DefaultSPFConfig uses DELAY-weighted shortest path.
func DefaultSPFConfig() SPFConfig {
	return SPFConfig{WeightKind: pathfind.Delay}
}

// RunSPF computes, per demand, a single shortest path under cfg.WeightKind.
func RunSPF(topo *topology.Topology, demands []traffic.Demand, cfg SPFConfig) []Result {
	results := make([]Result, 0, len(demands))
	for _, d := range demands {
		start := time.Now()
		path, ok := pathfind.ShortestPath(topo, d.SourceID, d.DestinationID, cfg.WeightKind, nil)
		if !ok {
			results = append(results, Result{
				Source: d.SourceID, Destination: d.DestinationID, Demand: d, Success: false,
				ComputationTimeMs: elapsedMs(start),
			})
			continue
		}
		results = append(results, Result{
			Source: d.SourceID, Destination: d.DestinationID, Demand: d, Success: true,
			Paths: []pathfind.Path{path}, ComputationTimeMs: elapsedMs(start),
		})
	}
	return results
}

// ECMPConfig configures the equal-cost-multipath baseline.
type ECMPConfig struct {
	WeightKind pathfind.WeightKind
	MaxPaths   int
	Tolerance  float64
}

// DefaultECMPConfig uses K=4 candidates and a 10% cost tolerance.
func DefaultECMPConfig() ECMPConfig {
	return ECMPConfig{WeightKind: pathfind.Delay, MaxPaths: 4, Tolerance: 0.1}
}

// Validate checks MaxPaths >= 1 and Tolerance >= 0.
func (c ECMPConfig) Validate() error {
	if c.MaxPaths < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxPaths, c.MaxPaths)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTolerance, c.Tolerance)
	}
	return nil
}

// RunECMP computes, per demand, up to cfg.MaxPaths candidates via Yen's
// algorithm, keeping every one whose cost is within cfg.Tolerance of the
// cheapest.
func RunECMP(topo *topology.Topology, demands []traffic.Demand, cfg ECMPConfig) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(demands))
	for _, d := range demands {
		start := time.Now()
		candidates := pathfind.KShortestPaths(topo, d.SourceID, d.DestinationID, cfg.WeightKind, cfg.MaxPaths)
		if len(candidates) == 0 {
			results = append(results, Result{
				Source: d.SourceID, Destination: d.DestinationID, Demand: d, Success: false,
				ComputationTimeMs: elapsedMs(start),
			})
			continue
		}
		accepted := filterEqualCost(topo, candidates, cfg.WeightKind, cfg.Tolerance)
		results = append(results, Result{
			Source: d.SourceID, Destination: d.DestinationID, Demand: d, Success: true,
			Paths: accepted, ComputationTimeMs: elapsedMs(start),
		})
	}
	return results, nil
}

func filterEqualCost(topo *topology.Topology, candidates []pathfind.Path, kind pathfind.WeightKind, tolerance float64) []pathfind.Path {
	minCost := candidates[0].Cost(topo, kind)
	for _, p := range candidates[1:] {
		if c := p.Cost(topo, kind); c < minCost {
			minCost = c
		}
	}
	threshold := minCost * (1 + tolerance)

	var accepted []pathfind.Path
	for _, p := range candidates {
		if p.Cost(topo, kind) <= threshold {
			accepted = append(accepted, p)
		}
	}
	return accepted
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
