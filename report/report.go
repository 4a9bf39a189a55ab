// Package report aggregates per-demand routing results into the summary
// metrics external collaborators format/export/persist: success rates,
// path quality, computation time, link-usage distribution, and a
// disjointness audit.
package report

import (
	"github.com/example/ldmrsat/ldmr"
	"github.com/example/ldmrsat/topology"
)

// Conflict records one link shared by two paths within the same result,
// discovered by the disjointness auditor.
type Conflict struct {
	ResultIndex int
	PathA       int
	PathB       int
	Link        topology.LinkKey
}

// DisjointnessAudit reports, for a batch of results, how many had
// pairwise link-disjoint paths and the specifics of any that didn't.
type DisjointnessAudit struct {
	TotalChecked       int
	DisjointResults    int
	NonDisjointResults int
	DisjointRate       float64
	Conflicts          []Conflict
}

// VerifyDisjointness checks every multi-path (>= 2 paths) successful
// result for pairwise link disjointness.
func VerifyDisjointness(results []ldmr.MultiPathResult) DisjointnessAudit {
	var audit DisjointnessAudit
	for resultIdx, r := range results {
		if !r.Success || len(r.Paths) < 2 {
			continue
		}
		audit.TotalChecked++

		seen := make(map[topology.LinkKey]int) // link -> path index that first used it
		disjoint := true
		for pathIdx, p := range r.Paths {
			for _, key := range p.Links {
				if firstPath, ok := seen[key]; ok {
					disjoint = false
					audit.Conflicts = append(audit.Conflicts, Conflict{
						ResultIndex: resultIdx, PathA: firstPath, PathB: pathIdx, Link: key,
					})
					continue
				}
				seen[key] = pathIdx
			}
		}
		if disjoint {
			audit.DisjointResults++
		} else {
			audit.NonDisjointResults++
		}
	}
	if audit.TotalChecked > 0 {
		audit.DisjointRate = float64(audit.DisjointResults) / float64(audit.TotalChecked)
	}
	return audit
}

// Bundle is the complete set of aggregate metrics for one algorithm's run
// over a batch of demands.
type Bundle struct {
	TotalDemands      int
	SuccessfulDemands int
	FailedDemands     int
	SuccessRate       float64

	TotalPaths         int
	MeanPathsPerDemand float64
	MinPathLengthHops  int
	MeanPathLengthHops float64
	MaxPathLengthHops  int
	MinPathDelayMs     float64
	MeanPathDelayMs    float64
	MaxPathDelayMs     float64

	MeanComputationTimeMs  float64
	TotalComputationTimeMs float64
	MaxComputationTimeMs   float64

	// Link-usage fields are populated only when usage counters are
	// supplied (LDMR); SPF/ECMP carry no usage concept and leave these zero.
	LinkUsageDistribution map[topology.LinkKey]int
	MeanLinkUsage         float64
	MaxLinkUsage          int

	Disjointness DisjointnessAudit
}

// Compute aggregates results into a Bundle. usage may be nil for
// algorithms that don't track per-link usage counters (SPF, ECMP).
func Compute(results []ldmr.MultiPathResult, usage map[topology.LinkKey]int) Bundle {
	var b Bundle
	b.TotalDemands = len(results)
	b.Disjointness = VerifyDisjointness(results)

	var pathLengths []int
	var pathDelays []float64
	var computationTimes []float64

	for _, r := range results {
		computationTimes = append(computationTimes, r.ComputationTimeMs)
		if !r.Success {
			b.FailedDemands++
			continue
		}
		b.SuccessfulDemands++
		for _, p := range r.Paths {
			b.TotalPaths++
			pathLengths = append(pathLengths, len(p.Links))
			pathDelays = append(pathDelays, p.TotalDelayMs)
		}
	}

	if b.TotalDemands > 0 {
		b.SuccessRate = float64(b.SuccessfulDemands) / float64(b.TotalDemands)
	}
	if b.SuccessfulDemands > 0 {
		b.MeanPathsPerDemand = float64(b.TotalPaths) / float64(b.SuccessfulDemands)
	}

	if len(pathLengths) > 0 {
		b.MinPathLengthHops, b.MeanPathLengthHops, b.MaxPathLengthHops = intStats(pathLengths)
	}
	if len(pathDelays) > 0 {
		b.MinPathDelayMs, b.MeanPathDelayMs, b.MaxPathDelayMs = floatStats(pathDelays)
	}
	if len(computationTimes) > 0 {
		b.TotalComputationTimeMs = sumFloat(computationTimes)
		b.MeanComputationTimeMs = b.TotalComputationTimeMs / float64(len(computationTimes))
		_, _, b.MaxComputationTimeMs = floatStats(computationTimes)
	}

	if len(usage) > 0 {
		b.LinkUsageDistribution = usage
		values := make([]int, 0, len(usage))
		for _, v := range usage {
			values = append(values, v)
		}
		_, mean, max := intStats(values)
		b.MeanLinkUsage = mean
		b.MaxLinkUsage = max
	}

	return b
}

func intStats(values []int) (lo int, mean float64, hi int) {
	loV, hiV := values[0], values[0]
	sum := 0
	for _, v := range values {
		if v < loV {
			loV = v
		}
		if v > hiV {
			hiV = v
		}
		sum += v
	}
	return loV, float64(sum) / float64(len(values)), hiV
}

func floatStats(values []float64) (lo, mean, hi float64) {
	loV, hiV := values[0], values[0]
	sum := 0.0
	for _, v := range values {
		if v < loV {
			loV = v
		}
		if v > hiV {
			hiV = v
		}
		sum += v
	}
	return loV, sum / float64(len(values)), hiV
}

func sumFloat(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
