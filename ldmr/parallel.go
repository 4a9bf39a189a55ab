package ldmr

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/ldmrsat/topology"
	"github.com/example/ldmrsat/traffic"
)

// RunParallel runs a fixed worker pool that drains a demand queue while
// usage counters and the random source stay behind Algorithm's mutex.
// Dispatch order is elephant-first, exactly as Run, but completion order
// is not — results are collected into a slice indexed by dispatch position
// and handed back in that original order, never completion order. Callers
// relying on elephant-first *processing* rather than *dispatch* order
// should use Run instead.
func (a *Algorithm) RunParallel(ctx context.Context, topo *topology.Topology, demands []traffic.Demand, workers int) ([]MultiPathResult, error) {
	if workers < 1 {
		workers = 1
	}

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

	type dispatch struct {
		index  int
		demand traffic.Demand
	}
	jobs := make(chan dispatch)
	results := make([]MultiPathResult, len(sorted))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results[job.index] = a.calculateMultipathForDemand(topo, job.demand, seeds)
			}
		}()
	}

	for i, d := range sorted {
		select {
		case <-ctx.Done():
			results[i] = MultiPathResult{Source: d.SourceID, Destination: d.DestinationID, Demand: d, Success: false}
		case jobs <- dispatch{index: i, demand: d}:
		}
	}
	close(jobs)
	wg.Wait()

	if a.cfg.EnableStatistics {
		a.mu.Lock()
		a.stats.TotalTimeMs = msSince(start)
		a.mu.Unlock()
	}
	return results, nil
}
