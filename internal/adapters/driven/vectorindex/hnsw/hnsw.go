// Package hnsw provides an approximate nearest-neighbour vector index
// based on a hierarchical navigable small world graph.
//
// M and EfConstruction tune the recall/latency trade-off, not
// correctness: on corpora small enough for the search to be exhaustive
// the ranking semantics match the bruteforce package exactly (cosine
// distance ascending, ties by insertion order).
package hnsw

import (
	"container/heap"
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default graph parameters, matching the deployment defaults of the
// pgvector HNSW index this replaces.
const (
	DefaultM              = 16
	DefaultEfConstruction = 64
	DefaultEfSearch       = 64
)

// Config holds HNSW graph parameters.
type Config struct {
	// M is the maximum number of bidirectional links per node on the
	// upper layers; layer 0 allows 2*M.
	M int

	// EfConstruction is the candidate list size while building.
	EfConstruction int

	// EfSearch is the candidate list size while querying. It is raised
	// to k when a query asks for more.
	EfSearch int

	// Seed fixes the level generator for reproducible graphs.
	Seed int64
}

// node is one vertex of the graph. Replaced vectors leave a tombstone
// that still routes but never surfaces in results.
type node struct {
	key     domain.ChunkKey
	vec     []float32
	mag     float64
	level   int
	links   [][]int32
	deleted bool
}

// Index is a pure-Go HNSW graph over chunk embeddings.
type Index struct {
	mu        sync.RWMutex
	dimension int
	cfg       Config
	levelMult float64
	rng       *rand.Rand

	nodes    []*node
	byKey    map[domain.ChunkKey]int32
	entry    int32
	maxLevel int
	live     int
}

// New creates an HNSW index for vectors of the given dimension.
func New(dimension int, cfg Config) (*Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("hnsw: dimension must be positive, got %d", dimension)
	}
	if cfg.M <= 0 {
		cfg.M = DefaultM
	}
	if cfg.EfConstruction < cfg.M {
		cfg.EfConstruction = DefaultEfConstruction
	}
	if cfg.EfSearch <= 0 {
		cfg.EfSearch = DefaultEfSearch
	}

	return &Index{
		dimension: dimension,
		cfg:       cfg,
		levelMult: 1 / math.Log(float64(cfg.M)),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		byKey:     make(map[domain.ChunkKey]int32),
		entry:     -1,
	}, nil
}

// Upsert inserts or replaces vectors for the given chunks.
func (idx *Index) Upsert(_ context.Context, chunks []domain.DocumentChunk) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, chunk := range chunks {
		if len(chunk.Embedding) != idx.dimension {
			return fmt.Errorf("%w: got %d, index dimension %d",
				domain.ErrDimensionMismatch, len(chunk.Embedding), idx.dimension)
		}
		idx.insert(chunk.Key(), append([]float32(nil), chunk.Embedding...))
	}
	return nil
}

// Delete tombstones vectors by key. Tombstoned nodes keep routing
// queries but never appear in results. Unknown keys are ignored.
func (idx *Index) Delete(_ context.Context, keys []domain.ChunkKey) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, key := range keys {
		if id, ok := idx.byKey[key]; ok {
			if !idx.nodes[id].deleted {
				idx.nodes[id].deleted = true
				idx.live--
			}
			delete(idx.byKey, key)
		}
	}
	return nil
}

// Search returns the k nearest vectors by cosine distance, nearest
// first. An empty index yields an empty result, not an error.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.entry < 0 || idx.live == 0 || k <= 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("%w: query has %d, index dimension %d",
			domain.ErrDimensionMismatch, len(query), idx.dimension)
	}

	qm := magnitude(query)
	distTo := func(id int32) float64 {
		n := idx.nodes[id]
		return cosineDistance(query, n.vec, qm, n.mag)
	}

	ep := idx.entry
	for l := idx.maxLevel; l > 0; l-- {
		ep = idx.greedyClosest(ep, l, distTo)
	}

	ef := idx.cfg.EfSearch
	if ef < k {
		ef = k
	}
	candidates := idx.searchLayer(ep, 0, ef, distTo)

	// Drop tombstones, order by distance then insertion order.
	found := candidates[:0]
	for _, c := range candidates {
		if !idx.nodes[c.id].deleted {
			found = append(found, c)
		}
	}
	sort.Slice(found, func(a, b int) bool {
		if found[a].dist != found[b].dist {
			return found[a].dist < found[b].dist
		}
		return found[a].id < found[b].id
	})

	if k > len(found) {
		k = len(found)
	}
	hits := make([]driven.VectorHit, k)
	for i := 0; i < k; i++ {
		hits[i] = driven.VectorHit{Key: idx.nodes[found[i].id].key, Distance: found[i].dist}
	}
	return hits, nil
}

// Len returns the number of live vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.live
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// insert adds one vector. Caller must hold the write lock.
func (idx *Index) insert(key domain.ChunkKey, vec []float32) {
	if old, ok := idx.byKey[key]; ok {
		if !idx.nodes[old].deleted {
			idx.nodes[old].deleted = true
			idx.live--
		}
	}

	level := idx.randomLevel()
	n := &node{
		key:   key,
		vec:   vec,
		mag:   magnitude(vec),
		level: level,
		links: make([][]int32, level+1),
	}
	id := int32(len(idx.nodes))
	idx.nodes = append(idx.nodes, n)
	idx.byKey[key] = id
	idx.live++

	if idx.entry < 0 {
		idx.entry = id
		idx.maxLevel = level
		return
	}

	distTo := func(other int32) float64 {
		o := idx.nodes[other]
		return cosineDistance(vec, o.vec, n.mag, o.mag)
	}

	ep := idx.entry
	for l := idx.maxLevel; l > level; l-- {
		ep = idx.greedyClosest(ep, l, distTo)
	}

	top := level
	if top > idx.maxLevel {
		top = idx.maxLevel
	}
	for l := top; l >= 0; l-- {
		candidates := idx.searchLayer(ep, l, idx.cfg.EfConstruction, distTo)

		m := idx.cfg.M
		if len(candidates) < m {
			m = len(candidates)
		}
		for _, c := range candidates[:m] {
			n.links[l] = append(n.links[l], c.id)
			neighbour := idx.nodes[c.id]
			neighbour.links[l] = append(neighbour.links[l], id)
			idx.trimLinks(neighbour, l)
		}
		if len(candidates) > 0 {
			ep = candidates[0].id
		}
	}

	if level > idx.maxLevel {
		idx.entry = id
		idx.maxLevel = level
	}
}

// trimLinks caps a node's neighbour list at a layer, keeping the
// closest links.
func (idx *Index) trimLinks(n *node, layer int) {
	maxLinks := idx.cfg.M
	if layer == 0 {
		maxLinks = 2 * idx.cfg.M
	}
	if len(n.links[layer]) <= maxLinks {
		return
	}

	links := n.links[layer]
	sort.Slice(links, func(a, b int) bool {
		oa, ob := idx.nodes[links[a]], idx.nodes[links[b]]
		da := cosineDistance(n.vec, oa.vec, n.mag, oa.mag)
		db := cosineDistance(n.vec, ob.vec, n.mag, ob.mag)
		if da != db {
			return da < db
		}
		return links[a] < links[b]
	})
	n.links[layer] = links[:maxLinks]
}

// greedyClosest walks a layer towards the query until no neighbour
// improves the distance.
func (idx *Index) greedyClosest(ep int32, layer int, distTo func(int32) float64) int32 {
	best := ep
	bestDist := distTo(ep)
	for {
		improved := false
		n := idx.nodes[best]
		if layer < len(n.links) {
			for _, nb := range n.links[layer] {
				if d := distTo(nb); d < bestDist {
					best, bestDist = nb, d
					improved = true
				}
			}
		}
		if !improved {
			return best
		}
	}
}

// scoredNode pairs a node id with its distance from the query.
type scoredNode struct {
	id   int32
	dist float64
}

// searchLayer runs a best-first search over one layer and returns up
// to ef nodes ordered ascending by distance.
func (idx *Index) searchLayer(ep int32, layer, ef int, distTo func(int32) float64) []scoredNode {
	visited := map[int32]bool{ep: true}
	start := scoredNode{id: ep, dist: distTo(ep)}

	candidates := &minHeap{start}
	results := &maxHeap{start}

	for candidates.Len() > 0 {
		cur := heap.Pop(candidates).(scoredNode)
		if cur.dist > (*results)[0].dist && results.Len() >= ef {
			break
		}

		n := idx.nodes[cur.id]
		if layer >= len(n.links) {
			continue
		}
		for _, nb := range n.links[layer] {
			if visited[nb] {
				continue
			}
			visited[nb] = true

			d := distTo(nb)
			if results.Len() < ef || d < (*results)[0].dist {
				heap.Push(candidates, scoredNode{id: nb, dist: d})
				heap.Push(results, scoredNode{id: nb, dist: d})
				if results.Len() > ef {
					heap.Pop(results)
				}
			}
		}
	}

	out := make([]scoredNode, results.Len())
	copy(out, *results)
	sort.Slice(out, func(a, b int) bool {
		if out[a].dist != out[b].dist {
			return out[a].dist < out[b].dist
		}
		return out[a].id < out[b].id
	})
	return out
}

// randomLevel draws a level from the standard HNSW geometric
// distribution.
func (idx *Index) randomLevel() int {
	return int(-math.Log(idx.rng.Float64()) * idx.levelMult)
}

// minHeap orders candidates nearest first.
type minHeap []scoredNode

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return h[i].dist < h[j].dist }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)        { *h = append(*h, x.(scoredNode)) }

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// maxHeap keeps the current result set with the farthest on top.
type maxHeap []scoredNode

func (h maxHeap) Len() int           { return len(h) }
func (h maxHeap) Less(i, j int) bool { return h[i].dist > h[j].dist }
func (h maxHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x any)        { *h = append(*h, x.(scoredNode)) }

func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// cosineDistance computes 1 - cosine similarity. A zero-magnitude
// vector on either side yields the maximum distance of 1.
func cosineDistance(a, b []float32, ma, mb float64) float64 {
	if ma == 0 || mb == 0 {
		return 1
	}
	d := 1 - dot(a, b)/(ma*mb)
	if math.IsNaN(d) {
		return 1
	}
	return d
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func magnitude(v []float32) float64 {
	return math.Sqrt(dot(v, v))
}
