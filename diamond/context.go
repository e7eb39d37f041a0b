// File: context.go
// Role: per-invocation memoization context for C3 (section 4.3 "Caching").
//
// Set operations (intersect, difference) and ancestor/descendant-intersect-
// target are keyed on stable content hashes of their inputs and memoized
// in bounded LRU caches scoped to one call of IdentifyAndGroupDiamonds.
// Induced edge lists are not cached: they are recomputed with
// graphidx.Indices.InducedEdges each time they are needed. A fresh opContext is built per call (or per
// worker thread in the parallel C4 caller) so caches never leak state
// across unrelated runs, matching section 9's "mutable global caches...
// become per-invocation optimization contexts."
package diamond

import (
	"encoding/binary"
	"hash/fnv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dagrel/reachrel/graphidx"
)

// opCacheSize bounds each memoization table; large enough to help on
// realistic diamonds without ever approaching the 10,000-entry global
// purge threshold of section 4.4.
const opCacheSize = 2048

// opContext carries the graph indices and the transient memoization
// tables used while identifying diamonds at one or more join nodes in a
// single call.
type opContext struct {
	idx *graphidx.Indices

	intersectCache  *lru.Cache[uint64, graphidx.NodeSet]
	differenceCache *lru.Cache[uint64, graphidx.NodeSet]
	closureCache   *lru.Cache[uint64, graphidx.NodeSet]
}

// newOpContext allocates a fresh opContext bound to idx.
func newOpContext(idx *graphidx.Indices) *opContext {
	intersect, _ := lru.New[uint64, graphidx.NodeSet](opCacheSize)
	difference, _ := lru.New[uint64, graphidx.NodeSet](opCacheSize)
	ancestor, _ := lru.New[uint64, graphidx.NodeSet](opCacheSize)

	return &opContext{idx: idx, intersectCache: intersect, differenceCache: difference, closureCache: ancestor}
}

// setHash folds a NodeSet into an order-independent 64-bit digest via XOR
// accumulation, matching section 9's "XOR of per-element hashes" guidance.
func setHash(s graphidx.NodeSet) uint64 {
	var h uint64
	for n := range s {
		h ^= nodeHash(n)
	}

	return h
}

// pairKey combines two set digests and an operator tag into one cache key.
func pairKey(tag byte, a, b uint64) uint64 {
	h := fnv.New64a()
	var buf [17]byte
	buf[0] = tag
	binary.LittleEndian.PutUint64(buf[1:9], a)
	binary.LittleEndian.PutUint64(buf[9:17], b)
	_, _ = h.Write(buf[:])

	return h.Sum64()
}

// intersect returns a ∩ b, memoized.
func (c *opContext) intersect(a, b graphidx.NodeSet) graphidx.NodeSet {
	key := pairKey('i', setHash(a), setHash(b))
	if v, ok := c.intersectCache.Get(key); ok {
		return v
	}
	result := a.Intersect(b)
	c.intersectCache.Add(key, result)

	return result
}

// difference returns a \ b, memoized.
func (c *opContext) difference(a, b graphidx.NodeSet) graphidx.NodeSet {
	key := pairKey('d', setHash(a), setHash(b))
	if v, ok := c.differenceCache.Get(key); ok {
		return v
	}
	result := a.Difference(b)
	c.differenceCache.Add(key, result)

	return result
}

// ancestorsIntersect returns Ancestors[node] ∩ target, memoized.
func (c *opContext) ancestorsIntersect(node graphidx.NodeID, target graphidx.NodeSet) graphidx.NodeSet {
	key := pairKey('a', nodeHash(node), setHash(target))
	if v, ok := c.closureCache.Get(key); ok {
		return v
	}
	result := c.idx.Ancestors[node].Intersect(target)
	c.closureCache.Add(key, result)

	return result
}

// descendantsIntersect returns Descendants[node] ∩ target, memoized.
func (c *opContext) descendantsIntersect(node graphidx.NodeID, target graphidx.NodeSet) graphidx.NodeSet {
	key := pairKey('D', nodeHash(node), setHash(target))
	if v, ok := c.closureCache.Get(key); ok {
		return v
	}
	result := c.idx.Descendants[node].Intersect(target)
	c.closureCache.Add(key, result)

	return result
}

// purge clears every memoization table, per section 5's adaptive cache
// purge guidance applied at the per-thread/per-invocation granularity.
func (c *opContext) purge() {
	c.intersectCache.Purge()
	c.differenceCache.Purge()
	c.closureCache.Purge()
}
