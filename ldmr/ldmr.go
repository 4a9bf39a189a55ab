// Package ldmr implements the link-disjoint multipath routing algorithm:
// usage-counter-driven weight randomization building up to K link-disjoint
// paths per demand, elephant-first.
package ldmr

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/ldmrsat/pathfind"
	"github.com/example/ldmrsat/topology"
	"github.com/example/ldmrsat/traffic"
)

// Errors returned by this package.
var (
	ErrInvalidConfig = errors.New("ldmr: invalid configuration")
)

// Config holds the tunable parameters of the LDMR algorithm.
// Defaults match the paper: K=2, r1=1, r2=10, r3=50, Ne_th=2.
type Config struct {
	K                int
	R1, R2, R3       int
	NeTh             int
	MaxIterations    int
	EnableStatistics bool
	// Seed makes a run reproducible. A nil Seed draws from process
	// randomness and yields a correct but non-reproducible run.
	Seed *int64
}

// DefaultConfig returns the paper's default parameterization.
func DefaultConfig() Config {
	return Config{K: 2, R1: 1, R2: 10, R3: 50, NeTh: 2, MaxIterations: 10, EnableStatistics: true}
}

// Validate checks the constraint 0 < r1 < r2 < r3 and K >= 1.
func (c Config) Validate() error {
	if c.K < 1 {
		return fmt.Errorf("%w: K must be >= 1, got %d", ErrInvalidConfig, c.K)
	}
	if !(0 < c.R1 && c.R1 < c.R2 && c.R2 < c.R3) {
		return fmt.Errorf("%w: require 0 < r1 < r2 < r3, got r1=%d r2=%d r3=%d", ErrInvalidConfig, c.R1, c.R2, c.R3)
	}
	return nil
}

// presets are named scenario configurations for common deployment profiles.
var presets = map[string]Config{
	"testing":          {K: 2, R1: 1, R2: 5, R3: 20, NeTh: 1, MaxIterations: 10, EnableStatistics: true},
	"light_load":       {K: 2, R1: 1, R2: 10, R3: 30, NeTh: 2, MaxIterations: 10, EnableStatistics: true},
	"heavy_load":       {K: 2, R1: 1, R2: 10, R3: 50, NeTh: 3, MaxIterations: 10, EnableStatistics: true},
	"high_reliability": {K: 3, R1: 1, R2: 15, R3: 60, NeTh: 2, MaxIterations: 10, EnableStatistics: true},
	"performance":      {K: 2, R1: 1, R2: 10, R3: 50, NeTh: 2, MaxIterations: 10, EnableStatistics: true},
}

// PresetConfig looks up a named scenario preset, falling back to
// DefaultConfig for an unrecognized name (matching the original's permissive
// dict.get(scenario, default) behaviour).
func PresetConfig(name string) Config {
	if cfg, ok := presets[name]; ok {
		return cfg
	}
	return DefaultConfig()
}

// MultiPathResult is the outcome of routing one demand: up to K link-disjoint
// paths, or an empty, unsuccessful result.
type MultiPathResult struct {
	Source            string
	Destination       string
	Paths             []pathfind.Path
	Demand            traffic.Demand
	Success           bool
	ComputationTimeMs float64
}

// TotalDelayMs sums every returned path's delay.
func (r MultiPathResult) TotalDelayMs() float64 {
	var total float64
	for _, p := range r.Paths {
		total += p.TotalDelayMs
	}
	return total
}

// MinDelayMs returns the lowest-delay path's delay, or +Inf if there are no paths.
func (r MultiPathResult) MinDelayMs() float64 {
	if len(r.Paths) == 0 {
		return math.Inf(1)
	}
	min := r.Paths[0].TotalDelayMs
	for _, p := range r.Paths[1:] {
		if p.TotalDelayMs < min {
			min = p.TotalDelayMs
		}
	}
	return min
}

// TotalHops sums the hop count (link count) of every returned path.
func (r MultiPathResult) TotalHops() int {
	total := 0
	for _, p := range r.Paths {
		total += len(p.Links)
	}
	return total
}

// ExecutionStats accumulates per-run counters, correlated to one
// invocation via RunID.
type ExecutionStats struct {
	RunID            string
	TotalTimeMs      float64
	PathCalculations int
	WeightUpdates    int
	LinkRemovals     int
}

// Algorithm is a stateful LDMR run context: usage counters and a seeded
// random source reset at the start of every Run/RunParallel call.
type Algorithm struct {
	cfg Config

	// mu guards usage, rng, and stats, all of which are shared across
	// worker goroutines in RunParallel. The sequential Run path pays the
	// same lock/unlock cost as a single-goroutine caller, which is cheap
	// relative to a graph search.
	mu    sync.Mutex
	usage map[topology.LinkKey]int
	rng   *rand.Rand
	stats ExecutionStats
}

// NewAlgorithm validates cfg and returns a ready-to-run Algorithm.
func NewAlgorithm(cfg Config) (*Algorithm, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := time.Now().UnixNano()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}
	return &Algorithm{
		cfg:   cfg,
		usage: make(map[topology.LinkKey]int),
		rng:   rand.New(rand.NewSource(seed)),
	}, nil
}

// Stats returns the statistics accumulated by the most recent Run or
// RunParallel call.
func (a *Algorithm) Stats() ExecutionStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// UsageSnapshot returns a copy of the current per-link usage counters, for
// a report's link-usage distribution.
func (a *Algorithm) UsageSnapshot() map[topology.LinkKey]int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[topology.LinkKey]int, len(a.usage))
	for k, v := range a.usage {
		out[k] = v
	}
	return out
}

// resetState clears usage counters and statistics and reseeds the random
// source (Algorithm 1, Steps 1-5).
func (a *Algorithm) resetState() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.usage = make(map[topology.LinkKey]int)
	a.stats = ExecutionStats{RunID: uuid.New().String()}
	seed := time.Now().UnixNano()
	if a.cfg.Seed != nil {
		seed = *a.cfg.Seed
	}
	a.rng = rand.New(rand.NewSource(seed))
}

func (a *Algorithm) incrementUsage(p pathfind.Path) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, key := range p.Links {
		a.usage[key]++
		if a.cfg.EnableStatistics {
			a.stats.PathCalculations++
		}
	}
}

func (a *Algorithm) usageCount(key topology.LinkKey) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.usage[key]
}

// randomizeWeights draws a fresh weight for every non-excluded link on
// clone, uniformly from [r1,r2] if its usage count is below Ne_th, else
// from [r2,r3] (inclusive both ends, Algorithm 1 Steps 13-19). Usage-count
// reads, the random draw, and the weight-update counter all happen under
// one lock so a concurrent backup-path search from another demand can't
// interleave with this link's randomization decision.
func (a *Algorithm) randomizeWeights(clone *topology.Topology) {
	a.mu.Lock()
	updates := make(map[topology.LinkKey]float64)
	for _, l := range clone.Links() {
		key := l.Key()
		var w int
		if a.usage[key] < a.cfg.NeTh {
			w = a.cfg.R1 + a.rng.Intn(a.cfg.R2-a.cfg.R1+1)
		} else {
			w = a.cfg.R2 + a.rng.Intn(a.cfg.R3-a.cfg.R2+1)
		}
		updates[key] = float64(w)
	}
	if a.cfg.EnableStatistics {
		a.stats.WeightUpdates += len(updates)
	}
	a.mu.Unlock()

	clone.UpdateLinkWeights(updates)
}

// findBackupPath clones topo, removes every excluded link, randomizes the
// remaining weights, and runs a WEIGHT-kind shortest path search on the
// clone (Algorithm 1, Steps 23-28).
func (a *Algorithm) findBackupPath(topo *topology.Topology, source, destination string, excluded []topology.LinkKey) (pathfind.Path, bool) {
	clone := topo.Clone()
	for _, key := range excluded {
		clone.RemoveLink(key.End1, key.End2)
	}
	if a.cfg.EnableStatistics {
		a.mu.Lock()
		a.stats.LinkRemovals += len(excluded)
		a.mu.Unlock()
	}
	a.randomizeWeights(clone)
	return pathfind.ShortestPath(clone, source, destination, pathfind.Weight, nil)
}

// seedShortestDelayPaths computes the DELAY-weighted shortest path for
// every distinct (source, destination) pair among demands, incrementing
// usage counters for each (Algorithm 1, Steps 6-10 / Phase 1).
func (a *Algorithm) seedShortestDelayPaths(topo *topology.Topology, demands []traffic.Demand) map[[2]string]pathfind.Path {
	seeds := make(map[[2]string]pathfind.Path)
	seen := make(map[[2]string]bool)
	for _, d := range demands {
		pairKey := [2]string{d.SourceID, d.DestinationID}
		if seen[pairKey] {
			continue
		}
		seen[pairKey] = true
		path, ok := pathfind.ShortestPath(topo, d.SourceID, d.DestinationID, pathfind.Delay, nil)
		if !ok {
			continue
		}
		seeds[pairKey] = path
		a.incrementUsage(path)
	}
	return seeds
}

// calculateMultipathForDemand builds up to K link-disjoint paths for one
// demand, reusing a precomputed seed path when available.
func (a *Algorithm) calculateMultipathForDemand(topo *topology.Topology, demand traffic.Demand, seeds map[[2]string]pathfind.Path) MultiPathResult {
	start := time.Now()
	source, destination := demand.SourceID, demand.DestinationID

	var paths []pathfind.Path
	if seed, ok := seeds[[2]string{source, destination}]; ok {
		paths = append(paths, seed)
	} else {
		path, ok := pathfind.ShortestPath(topo, source, destination, pathfind.Delay, nil)
		if !ok {
			return MultiPathResult{
				Source: source, Destination: destination, Demand: demand,
				Success: false, ComputationTimeMs: msSince(start),
			}
		}
		paths = append(paths, path)
		a.incrementUsage(path)
	}

	for j := 1; j < a.cfg.K; j++ {
		excluded := excludedLinksOf(paths)
		backup, ok := a.findBackupPath(topo, source, destination, excluded)
		if !ok {
			break
		}
		paths = append(paths, backup)
		a.incrementUsage(backup)
	}

	return MultiPathResult{
		Source: source, Destination: destination, Paths: paths, Demand: demand,
		Success: true, ComputationTimeMs: msSince(start),
	}
}

func excludedLinksOf(paths []pathfind.Path) []topology.LinkKey {
	seen := make(map[topology.LinkKey]struct{})
	var out []topology.LinkKey
	for _, p := range paths {
		for _, key := range p.Links {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				out = append(out, key)
			}
		}
	}
	return out
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

// Run executes the sequential reference implementation: it initializes
// every link's weight to its delay, seeds shortest-delay paths for each
// distinct (source, destination) pair, then processes demands in
// non-increasing bandwidth order (elephant-first), building up to K
// link-disjoint paths per demand. ctx is checked once per demand; on
// cancellation, remaining demands are returned with Success=false.
func (a *Algorithm) Run(ctx context.Context, topo *topology.Topology, demands []traffic.Demand) ([]MultiPathResult, error) {
	a.resetState()
	start := time.Now()

	delayWeights := make(map[topology.LinkKey]float64)
	for _, l := range topo.Links() {
		delayWeights[l.Key()] = l.DelayMs
	}
	topo.UpdateLinkWeights(delayWeights)

	seeds := a.seedShortestDelayPaths(topo, demands)

	sorted := make([]traffic.Demand, len(demands))
	copy(sorted, demands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BandwidthMbps > sorted[j].BandwidthMbps
	})

	results := make([]MultiPathResult, 0, len(sorted))
	for _, d := range sorted {
		select {
		case <-ctx.Done():
			results = append(results, MultiPathResult{
				Source: d.SourceID, Destination: d.DestinationID, Demand: d, Success: false,
			})
			continue
		default:
		}
		results = append(results, a.calculateMultipathForDemand(topo, d, seeds))
	}

	if a.cfg.EnableStatistics {
		a.mu.Lock()
		a.stats.TotalTimeMs = msSince(start)
		a.mu.Unlock()
	}
	return results, nil
}
