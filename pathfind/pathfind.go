// Package pathfind is the shortest-path kernel every routing algorithm in
// this module is built on: a configurable-weight Dijkstra search and a
// Yen-style K-shortest-paths enumeration over it.
package pathfind

import (
	"container/heap"
	"math"
	"sort"

	"github.com/example/ldmrsat/topology"
)

// WeightKind selects which link field Dijkstra treats as edge cost.
type WeightKind int

const (
	Delay WeightKind = iota
	Weight
	Hops
)

func edgeCost(l topology.Link, kind WeightKind) float64 {
	switch kind {
	case Delay:
		return l.DelayMs
	case Weight:
		return l.Weight
	case Hops:
		return 1
	default:
		return l.DelayMs
	}
}

// Path is a computed route between two node ids.
type Path struct {
	Nodes               []string
	Links               []topology.LinkKey
	TotalDelayMs        float64
	BottleneckBandwidth float64
}

// Cost returns the path's total cost under kind, recomputed from the
// underlying topology's current link fields.
func (p Path) Cost(topo *topology.Topology, kind WeightKind) float64 {
	if len(p.Links) == 0 {
		return 0
	}
	var total float64
	for _, key := range p.Links {
		l, ok := topo.GetLink(key.End1, key.End2)
		if !ok {
			continue
		}
		total += edgeCost(l, kind)
	}
	return total
}

// excludedSet is a set of canonical link keys to skip during search.
type excludedSet map[topology.LinkKey]struct{}

// NewExcludedSet builds an excludedSet from a slice of keys.
func NewExcludedSet(keys []topology.LinkKey) excludedSet {
	s := make(excludedSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

func (s excludedSet) has(k topology.LinkKey) bool {
	if s == nil {
		return false
	}
	_, ok := s[k]
	return ok
}

type queueItem struct {
	node  string
	cost  float64
	index int
}

type priorityQueue []*queueItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].cost != pq[j].cost {
		return pq[i].cost < pq[j].cost
	}
	return pq[i].node < pq[j].node
}
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index, pq[j].index = i, j
}
func (pq *priorityQueue) Push(x any) {
	item := x.(*queueItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// ShortestPath runs Dijkstra from src to dst over topo's active links,
// using kind to cost each edge and skipping any link in excluded.
// When several predecessors reach a node at equal cost, the first one
// discovered is kept, giving a deterministic result under the sorted
// neighbour iteration order. Returns (Path{}, false) if src or dst is absent, or if
// dst is unreachable. When src == dst, returns a zero-length path.
func ShortestPath(topo *topology.Topology, src, dst string, kind WeightKind, excluded []topology.LinkKey) (Path, bool) {
	if _, ok := topo.GetNode(src); !ok {
		return Path{}, false
	}
	if _, ok := topo.GetNode(dst); !ok {
		return Path{}, false
	}
	if src == dst {
		return Path{Nodes: []string{src}, BottleneckBandwidth: math.Inf(1)}, true
	}

	excl := NewExcludedSet(excluded)
	dist := map[string]float64{src: 0}
	prev := map[string]string{}
	visited := map[string]bool{}

	pq := &priorityQueue{{node: src, cost: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*queueItem)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true
		if cur.node == dst {
			break
		}

		for _, nbr := range topo.Neighbors(cur.node) {
			if visited[nbr] {
				continue
			}
			link, ok := topo.GetLink(cur.node, nbr)
			if !ok || !link.Active {
				continue
			}
			if excl.has(link.Key()) {
				continue
			}
			candidate := cur.cost + edgeCost(link, kind)
			existing, seen := dist[nbr]
			if !seen || candidate < existing {
				dist[nbr] = candidate
				prev[nbr] = cur.node
				heap.Push(pq, &queueItem{node: nbr, cost: candidate})
			}
		}
	}

	if _, ok := dist[dst]; !ok {
		return Path{}, false
	}
	return reconstructPath(topo, src, dst, prev), true
}

func reconstructPath(topo *topology.Topology, src, dst string, prev map[string]string) Path {
	nodes := []string{dst}
	for nodes[len(nodes)-1] != src {
		nodes = append(nodes, prev[nodes[len(nodes)-1]])
	}
	// Reverse into source-to-destination order.
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return buildPathFromNodes(topo, nodes)
}

func buildPathFromNodes(topo *topology.Topology, nodes []string) Path {
	if len(nodes) == 1 {
		return Path{Nodes: nodes, BottleneckBandwidth: math.Inf(1)}
	}
	links := make([]topology.LinkKey, 0, len(nodes)-1)
	totalDelay := 0.0
	bottleneck := math.Inf(1)
	for i := 0; i+1 < len(nodes); i++ {
		l, ok := topo.GetLink(nodes[i], nodes[i+1])
		if !ok {
			continue
		}
		links = append(links, l.Key())
		totalDelay += l.DelayMs
		if l.BandwidthG < bottleneck {
			bottleneck = l.BandwidthG
		}
	}
	return Path{Nodes: nodes, Links: links, TotalDelayMs: totalDelay, BottleneckBandwidth: bottleneck}
}

// KShortestPaths enumerates up to k paths from src to dst using Yen's
// algorithm built on ShortestPath. Candidates are deduplicated by node
// sequence; iteration stops early if the candidate pool is exhausted.
func KShortestPaths(topo *topology.Topology, src, dst string, kind WeightKind, k int) []Path {
	first, ok := ShortestPath(topo, src, dst, kind, nil)
	if !ok {
		return nil
	}
	accepted := []Path{first}
	var candidates []Path

	for len(accepted) < k {
		last := accepted[len(accepted)-1]
		for i := 0; i < len(last.Nodes)-1; i++ {
			root := append([]string(nil), last.Nodes[:i+1]...)
			spurNode := root[len(root)-1]

			excluded := rootExcludedLinks(accepted, root, i)

			clone := topo.Clone()
			for j := 0; j < len(root)-1; j++ {
				clone.RemoveLink(root[j], root[j+1])
			}

			spur, found := ShortestPath(clone, spurNode, dst, kind, excluded)
			if !found {
				continue
			}
			candidate := concatenate(topo, root, spur.Nodes)
			if containsNodeSequence(accepted, candidate.Nodes) || containsNodeSequence(candidates, candidate.Nodes) {
				continue
			}
			candidates = append(candidates, candidate)
		}

		if len(candidates) == 0 {
			break
		}
		sort.Slice(candidates, func(a, b int) bool {
			return candidates[a].Cost(topo, kind) < candidates[b].Cost(topo, kind)
		})
		accepted = append(accepted, candidates[0])
		candidates = candidates[1:]
	}

	return accepted
}

// rootExcludedLinks forbids the edge leaving the shared root in every
// previously accepted path that shares the same root prefix.
func rootExcludedLinks(accepted []Path, root []string, spurIndex int) []topology.LinkKey {
	var excluded []topology.LinkKey
	for _, p := range accepted {
		if len(p.Nodes) <= spurIndex+1 {
			continue
		}
		if equalPrefix(p.Nodes[:spurIndex+1], root) {
			key := topology.NewLinkKey(p.Nodes[spurIndex], p.Nodes[spurIndex+1])
			excluded = append(excluded, key)
		}
	}
	return excluded
}

func equalPrefix(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func concatenate(topo *topology.Topology, root, spur []string) Path {
	nodes := append([]string(nil), root[:len(root)-1]...)
	nodes = append(nodes, spur...)
	return buildPathFromNodes(topo, nodes)
}

func containsNodeSequence(paths []Path, nodes []string) bool {
	for _, p := range paths {
		if equalPrefix(p.Nodes, nodes) {
			return true
		}
	}
	return false
}
