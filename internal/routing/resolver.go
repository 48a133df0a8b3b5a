// Package routing computes minimum-transit-time paths on the road
// network. Results are deterministic: when several paths share the
// minimum cost, ties are broken by preferring the predecessor with the
// lexicographically smaller node id, so repeated queries on the same
// graph return identical paths regardless of edge insertion order.
package routing

import (
	"container/heap"
	"fmt"
	"sync"

	"botnav/internal/model"
)

// Resolver answers shortest-path queries against one immutable graph.
// It caches the full single-source result per queried source, which
// pays off because simulation and search query the same handful of
// sources (bot positions, restaurants) repeatedly.
type Resolver struct {
	graph *model.Graph

	mu    sync.Mutex
	cache map[model.NodeID]*sourceTree
}

type sourceTree struct {
	dist   map[model.NodeID]int
	parent map[model.NodeID]model.NodeID
}

// NewResolver creates a Resolver for the graph. The graph must not be
// mutated afterwards.
func NewResolver(g *model.Graph) *Resolver {
	return &Resolver{graph: g, cache: make(map[model.NodeID]*sourceTree)}
}

// Cost returns the minimum transit time in minutes from one node to
// another. A query with from == to costs zero. Wraps ErrNoPath when the
// destination is unreachable.
func (r *Resolver) Cost(from, to model.NodeID) (int, error) {
	t, err := r.tree(from)
	if err != nil {
		return 0, err
	}
	d, ok := t.dist[to]
	if !ok {
		return 0, fmt.Errorf("%s -> %s: %w", from, to, ErrNoPath)
	}
	return d, nil
}

// Path returns the full node sequence from source to destination,
// endpoints included. from == to yields the single-node path.
func (r *Resolver) Path(from, to model.NodeID) ([]model.NodeID, error) {
	t, err := r.tree(from)
	if err != nil {
		return nil, err
	}
	if _, ok := t.dist[to]; !ok {
		return nil, fmt.Errorf("%s -> %s: %w", from, to, ErrNoPath)
	}
	var rev []model.NodeID
	for at := to; ; {
		rev = append(rev, at)
		if at == from {
			break
		}
		at = t.parent[at]
	}
	path := make([]model.NodeID, len(rev))
	for i, n := range rev {
		path[len(rev)-1-i] = n
	}
	return path, nil
}

func (r *Resolver) tree(from model.NodeID) (*sourceTree, error) {
	if !r.graph.HasNode(from) {
		return nil, fmt.Errorf("source %s: %w", from, ErrUnknownSource)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.cache[from]; ok {
		return t, nil
	}
	t := r.dijkstra(from)
	r.cache[from] = t
	return t, nil
}

// dijkstra runs a standard non-negative-weight shortest path search
// from the source, recording distance and parent for every reachable
// node.
func (r *Resolver) dijkstra(from model.NodeID) *sourceTree {
	t := &sourceTree{
		dist:   make(map[model.NodeID]int),
		parent: make(map[model.NodeID]model.NodeID),
	}
	t.dist[from] = 0

	pq := &nodePQ{{id: from, dist: 0}}
	heap.Init(pq)
	visited := make(map[model.NodeID]bool)

	for pq.Len() > 0 {
		u := heap.Pop(pq).(pqItem)
		if visited[u.id] {
			continue
		}
		visited[u.id] = true
		for _, e := range r.graph.Out(u.id) {
			if visited[e.To] {
				continue
			}
			nd := t.dist[u.id] + e.Minutes
			cur, seen := t.dist[e.To]
			switch {
			case !seen || nd < cur:
				t.dist[e.To] = nd
				t.parent[e.To] = u.id
				heap.Push(pq, pqItem{id: e.To, dist: nd})
			case nd == cur && u.id < t.parent[e.To]:
				// equal cost: keep the lexicographically smaller
				// predecessor for reproducible paths
				t.parent[e.To] = u.id
			}
		}
	}
	return t
}

type pqItem struct {
	id   model.NodeID
	dist int
}

type nodePQ []pqItem

func (pq nodePQ) Len() int { return len(pq) }
func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].id < pq[j].id
}
func (pq nodePQ) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	it := old[n-1]
	*pq = old[:n-1]
	return it
}
