// Package traffic defines the read-only demand type consumed by the
// routing algorithms. Traffic generation itself (population models, gravity
// models) is an external collaborator's job and out of scope here.
package traffic

// Priority levels a Demand may carry.
const (
	PriorityLow    = 1
	PriorityNormal = 2
	PriorityHigh   = 3
)

// ElephantThresholdMbps is the bandwidth at or above which a demand is
// classified as an elephant flow and processed first by LDMR.
const ElephantThresholdMbps = 50

// Demand is a single source-destination traffic request, consumed
// read-only by the routing core.
type Demand struct {
	SourceID      string
	DestinationID string
	BandwidthMbps float64
	StartTimeS    float64
	DurationS     float64
	Priority      int
}

// EndTimeS returns the demand's end-of-life instant.
func (d Demand) EndTimeS() float64 {
	return d.StartTimeS + d.DurationS
}

// IsActiveAt reports whether the demand is active at simulated time t,
// i.e. t falls within [start, start+duration), inclusive of the start
// time and exclusive of the end.
func (d Demand) IsActiveAt(t float64) bool {
	return t >= d.StartTimeS && t < d.EndTimeS()
}

// IsElephant reports whether this demand counts as an elephant flow.
func (d Demand) IsElephant() bool {
	return d.BandwidthMbps >= ElephantThresholdMbps
}
