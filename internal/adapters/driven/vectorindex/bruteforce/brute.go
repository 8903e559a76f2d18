// Package bruteforce provides an exact-scan vector index.
//
// It is the reference implementation of the VectorIndex ranking
// semantics: the HNSW index must return the same ordering on corpora
// where both are exact. Suitable as a drop-in for small corpora.
package bruteforce

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/docuchat/internal/core/domain"
	"github.com/custodia-labs/docuchat/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// entry is one stored vector with its insertion sequence number.
type entry struct {
	key domain.ChunkKey
	vec []float32
	mag float64
	seq int
}

// Index is an exact cosine-distance scan over all stored vectors.
type Index struct {
	mu        sync.RWMutex
	dimension int
	entries   []entry
	byKey     map[domain.ChunkKey]int
	nextSeq   int
}

// New creates a brute-force index for vectors of the given dimension.
func New(dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("bruteforce: dimension must be positive, got %d", dimension)
	}
	return &Index{
		dimension: dimension,
		byKey:     make(map[domain.ChunkKey]int),
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

		vec := append([]float32(nil), chunk.Embedding...)
		if slot, ok := idx.byKey[chunk.Key()]; ok {
			// Replacement keeps the original insertion sequence so
			// tie-breaks stay stable.
			idx.entries[slot].vec = vec
			idx.entries[slot].mag = magnitude(vec)
			continue
		}

		idx.byKey[chunk.Key()] = len(idx.entries)
		idx.entries = append(idx.entries, entry{
			key: chunk.Key(),
			vec: vec,
			mag: magnitude(vec),
			seq: idx.nextSeq,
		})
		idx.nextSeq++
	}
	return nil
}

// Delete removes vectors by key. Unknown keys are ignored.
func (idx *Index) Delete(_ context.Context, keys []domain.ChunkKey) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, key := range keys {
		slot, ok := idx.byKey[key]
		if !ok {
			continue
		}
		delete(idx.byKey, key)
		idx.entries = append(idx.entries[:slot], idx.entries[slot+1:]...)
		for i := slot; i < len(idx.entries); i++ {
			idx.byKey[idx.entries[i].key] = i
		}
	}
	return nil
}

// Search returns the k nearest vectors by cosine distance, nearest
// first. Ties break by insertion order. An empty index yields an empty
// result, not an error.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.entries) == 0 || k <= 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("%w: query has %d, index dimension %d",
			domain.ErrDimensionMismatch, len(query), idx.dimension)
	}

	qm := magnitude(query)

	type scored struct {
		slot     int
		distance float64
	}
	scoreds := make([]scored, len(idx.entries))
	for i := range idx.entries {
		scoreds[i] = scored{slot: i, distance: cosineDistance(query, idx.entries[i].vec, qm, idx.entries[i].mag)}
	}

	sort.SliceStable(scoreds, func(a, b int) bool {
		if scoreds[a].distance != scoreds[b].distance {
			return scoreds[a].distance < scoreds[b].distance
		}
		return idx.entries[scoreds[a].slot].seq < idx.entries[scoreds[b].slot].seq
	})

	if k > len(scoreds) {
		k = len(scoreds)
	}
	hits := make([]driven.VectorHit, k)
	for i := 0; i < k; i++ {
		hits[i] = driven.VectorHit{
			Key:      idx.entries[scoreds[i].slot].key,
			Distance: scoreds[i].distance,
		}
	}
	return hits, nil
}

// Len returns the number of stored vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
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
