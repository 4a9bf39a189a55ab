// Package topology holds the nodes, links, and adjacency of a satellite
// network at a single instant: the mutable graph every routing algorithm in
// this module reads from and, during a run, clones and perturbs.
package topology

import (
	"errors"
	"fmt"
	"sort"

	"github.com/example/ldmrsat/geometry"
)

// NodeKind distinguishes orbiting satellites from fixed ground stations.
type NodeKind int

const (
	Satellite NodeKind = iota
	GroundStation
)

func (k NodeKind) String() string {
	switch k {
	case Satellite:
		return "SATELLITE"
	case GroundStation:
		return "GROUND_STATION"
	default:
		return "UNKNOWN"
	}
}

// Errors declared by this package, grouped by concern. AddNode returns
// ErrNodeExists and AddLink returns ErrLinkEndpointGap; ErrNodeNotFound and
// ErrEmptyTopology are not returned by any function of this package.
var (
	// Construction and mutation errors.
	ErrNodeExists      = errors.New("topology: node already exists")
	ErrNodeNotFound    = errors.New("topology: node not found")
	ErrLinkEndpointGap = errors.New("topology: link references a node not present in the topology")

	// Statistics/connectivity errors.
	ErrEmptyTopology = errors.New("topology: no nodes present")
)

// Node is an immutable network endpoint: a satellite or a ground station.
type Node struct {
	ID         string
	Kind       NodeKind
	Position   geometry.Position
	Attributes map[string]string
}

// LinkKey canonically identifies an undirected link: End1 <= End2 always.
// Every map keyed by link uses this type so (a,b) and (b,a) collide.
type LinkKey struct {
	End1 string
	End2 string
}

// NewLinkKey orders the two endpoints so the result is canonical regardless
// of call-site argument order.
func NewLinkKey(a, b string) LinkKey {
	if a <= b {
		return LinkKey{End1: a, End2: b}
	}
	return LinkKey{End1: b, End2: a}
}

func (k LinkKey) String() string {
	return fmt.Sprintf("%s<->%s", k.End1, k.End2)
}

// Link is an undirected edge between two nodes. Fields are mutated in place
// only through Topology methods, which keep cached views coherent.
type Link struct {
	End1, End2 string
	BandwidthG float64
	DelayMs    float64
	Weight     float64
	UsageCount int
	Active     bool
}

// Key returns this link's canonical key.
func (l Link) Key() LinkKey { return NewLinkKey(l.End1, l.End2) }

// Statistics summarizes a topology's shape for smoke tests and reporting.
type Statistics struct {
	SatelliteCount     int
	GroundStationCount int
	TotalLinks         int
	MeanDegree         float64
	IsConnected        bool
}

// Topology is the mutable node/link graph. The zero value is not usable;
// construct with New.
type Topology struct {
	nodes map[string]*Node
	links map[LinkKey]*Link
	adj   map[string]map[string]struct{}

	// Lazily computed, invalidated on any mutation.
	weightMatrix map[LinkKey]float64
}

// New returns an empty topology ready for nodes and links to be added.
func New() *Topology {
	return &Topology{
		nodes: make(map[string]*Node),
		links: make(map[LinkKey]*Link),
		adj:   make(map[string]map[string]struct{}),
	}
}

// AddNode inserts n. Re-adding an existing id returns ErrNodeExists.
func (t *Topology) AddNode(n Node) error {
	if _, exists := t.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrNodeExists, n.ID)
	}
	nodeCopy := n
	if nodeCopy.Attributes != nil {
		nodeCopy.Attributes = cloneAttrs(n.Attributes)
	}
	t.nodes[n.ID] = &nodeCopy
	if _, ok := t.adj[n.ID]; !ok {
		t.adj[n.ID] = make(map[string]struct{})
	}
	return nil
}

// GetNode returns the node with the given id.
func (t *Topology) GetNode(id string) (Node, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Nodes returns all nodes, sorted by id for deterministic iteration.
func (t *Topology) Nodes() []Node {
	ids := make([]string, 0, len(t.nodes))
	for id := range t.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, *t.nodes[id])
	}
	return out
}

// AddLink inserts l, rejecting it if either endpoint is absent from the
// topology. Both endpoints' adjacency sets are updated atomically with the
// link insertion.
func (t *Topology) AddLink(l Link) error {
	if _, ok := t.nodes[l.End1]; !ok {
		return fmt.Errorf("%w: %s", ErrLinkEndpointGap, l.End1)
	}
	if _, ok := t.nodes[l.End2]; !ok {
		return fmt.Errorf("%w: %s", ErrLinkEndpointGap, l.End2)
	}
	key := NewLinkKey(l.End1, l.End2)
	linkCopy := l
	linkCopy.End1, linkCopy.End2 = key.End1, key.End2
	t.links[key] = &linkCopy
	t.adj[key.End1][key.End2] = struct{}{}
	t.adj[key.End2][key.End1] = struct{}{}
	t.invalidate()
	return nil
}

// RemoveLink deletes the link between a and b, if present. Removing an
// absent link is a no-op.
func (t *Topology) RemoveLink(a, b string) {
	key := NewLinkKey(a, b)
	if _, ok := t.links[key]; !ok {
		return
	}
	delete(t.links, key)
	delete(t.adj[key.End1], key.End2)
	delete(t.adj[key.End2], key.End1)
	t.invalidate()
}

// GetLink returns the link between a and b regardless of argument order.
func (t *Topology) GetLink(a, b string) (Link, bool) {
	l, ok := t.links[NewLinkKey(a, b)]
	if !ok {
		return Link{}, false
	}
	return *l, true
}

// HasActiveLink reports whether an active link connects a and b.
func (t *Topology) HasActiveLink(a, b string) bool {
	l, ok := t.GetLink(a, b)
	return ok && l.Active
}

// Neighbors returns the set of node ids reachable from id via an active
// link, sorted for deterministic iteration.
func (t *Topology) Neighbors(id string) []string {
	nbrs := t.adj[id]
	out := make([]string, 0, len(nbrs))
	for n := range nbrs {
		if t.HasActiveLink(id, n) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

// UpdateLinkWeights batch-writes new weights keyed by canonical link key,
// invalidating the cached weight matrix once rather than per write.
func (t *Topology) UpdateLinkWeights(weights map[LinkKey]float64) {
	for key, w := range weights {
		if l, ok := t.links[key]; ok {
			l.Weight = w
		}
	}
	t.invalidate()
}

// IncrementUsage bumps the usage counter of the link identified by key, if
// it exists. These per-link counters are separate from the usage counters
// an ldmr.Algorithm keeps; the ldmr package neither reads nor resets them.
func (t *Topology) IncrementUsage(key LinkKey) {
	if l, ok := t.links[key]; ok {
		l.UsageCount++
	}
}

// UsageCount returns the current usage counter for key, or 0 if the link is
// absent.
func (t *Topology) UsageCount(key LinkKey) int {
	if l, ok := t.links[key]; ok {
		return l.UsageCount
	}
	return 0
}

// ResetUsage zeroes every link's usage counter.
func (t *Topology) ResetUsage() {
	for _, l := range t.links {
		l.UsageCount = 0
	}
}

// Links returns all links, sorted by canonical key for deterministic
// iteration.
func (t *Topology) Links() []Link {
	keys := make([]LinkKey, 0, len(t.links))
	for k := range t.links {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].End1 != keys[j].End1 {
			return keys[i].End1 < keys[j].End1
		}
		return keys[i].End2 < keys[j].End2
	})
	out := make([]Link, 0, len(keys))
	for _, k := range keys {
		out = append(out, *t.links[k])
	}
	return out
}

// WeightMatrix returns a lazily computed, cached map of canonical link key
// to current weight. The cache is invalidated by any mutating method.
func (t *Topology) WeightMatrix() map[LinkKey]float64 {
	if t.weightMatrix != nil {
		return t.weightMatrix
	}
	m := make(map[LinkKey]float64, len(t.links))
	for k, l := range t.links {
		m[k] = l.Weight
	}
	t.weightMatrix = m
	return m
}

func (t *Topology) invalidate() {
	t.weightMatrix = nil
}

// Clone returns an independent deep copy: mutating the clone never affects
// the receiver.
func (t *Topology) Clone() *Topology {
	out := New()
	for id, n := range t.nodes {
		nodeCopy := *n
		nodeCopy.Attributes = cloneAttrs(n.Attributes)
		out.nodes[id] = &nodeCopy
		out.adj[id] = make(map[string]struct{}, len(t.adj[id]))
		for nbr := range t.adj[id] {
			out.adj[id][nbr] = struct{}{}
		}
	}
	for k, l := range t.links {
		linkCopy := *l
		out.links[k] = &linkCopy
	}
	return out
}

// Statistics reports node/link counts, mean degree, and connectivity.
// Connectivity is computed over active links only, via BFS — no graph
// library dependency is needed since adjacency sets are already
// maintained as an invariant.
func (t *Topology) Statistics() Statistics {
	var stats Statistics
	for _, n := range t.nodes {
		switch n.Kind {
		case Satellite:
			stats.SatelliteCount++
		case GroundStation:
			stats.GroundStationCount++
		}
	}
	activeLinks := 0
	for _, l := range t.links {
		if l.Active {
			activeLinks++
		}
	}
	stats.TotalLinks = activeLinks
	if len(t.nodes) > 0 {
		stats.MeanDegree = float64(2*activeLinks) / float64(len(t.nodes))
	}
	stats.IsConnected = t.isConnected()
	return stats
}

func (t *Topology) isConnected() bool {
	if len(t.nodes) == 0 {
		return false
	}
	var start string
	for id := range t.nodes {
		start = id
		break
	}
	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nbr := range t.Neighbors(cur) {
			if !visited[nbr] {
				visited[nbr] = true
				queue = append(queue, nbr)
			}
		}
	}
	return len(visited) == len(t.nodes)
}

func cloneAttrs(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
