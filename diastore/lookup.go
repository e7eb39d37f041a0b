package diastore

import (
	"github.com/dagrel/reachrel/diamond"
	"github.com/dagrel/reachrel/graphidx"
)

// lookupTable is the hybrid lookup table of section 4.4 step 5: every
// DiamondsAtNode ever materialised anywhere in this build, keyed by join
// node, so a non-root work item can try to reuse a previously discovered
// diamond instead of re-running C3.
type lookupTable map[graphidx.NodeID][]*diamond.AtNode

func newLookupTable() lookupTable {
	return make(lookupTable)
}

// clone returns a deep-enough copy for a worker's thread-local snapshot:
// the outer map and each slice are copied, but *diamond.AtNode values are
// shared (they are never mutated after construction).
func (t lookupTable) clone() lookupTable {
	out := make(lookupTable, len(t))
	for join, entries := range t {
		cp := make([]*diamond.AtNode, len(entries))
		copy(cp, entries)
		out[join] = cp
	}

	return out
}

// size returns the total number of recorded AtNode entries across all joins.
func (t lookupTable) size() int {
	n := 0
	for _, entries := range t {
		n += len(entries)
	}

	return n
}

// purge clears every entry once size exceeds threshold, per section 5's
// adaptive cache purge guidance ("threshold of 500 ... or 1000").
func (t lookupTable) purge(threshold int) {
	if t.size() <= threshold {
		return
	}
	for join := range t {
		delete(t, join)
	}
}

// record appends at under its join node.
func (t lookupTable) record(at *diamond.AtNode) {
	t[at.JoinNode] = append(t[at.JoinNode], at)
}

// mergeFrom folds another table's entries into t, skipping any entry whose
// diamond hash is already present under the same join (used to fold a
// worker's thread-local discoveries back into the shared master table).
func (t lookupTable) mergeFrom(other lookupTable) {
	for join, entries := range other {
		existing := make(map[uint64]struct{}, len(t[join]))
		for _, at := range t[join] {
			existing[diamond.Hash(at.Diamond)] = struct{}{}
		}
		for _, at := range entries {
			h := diamond.Hash(at.Diamond)
			if _, ok := existing[h]; ok {
				continue
			}
			t[join] = append(t[join], at)
			existing[h] = struct{}{}
		}
	}
}

// find looks up a cached DiamondsAtNode for join whose edges are a subset
// of subEdges and whose conditioning nodes do not intersect
// currentExcluded, per section 4.4 step 5. Returns the first survivor, or
// nil on a miss (the caller falls back to C3).
func (t lookupTable) find(join graphidx.NodeID, subEdges []graphidx.Edge, currentExcluded graphidx.NodeSet) *diamond.AtNode {
	candidates, ok := t[join]
	if !ok {
		return nil
	}

	subEdgeSet := make(map[graphidx.Edge]struct{}, len(subEdges))
	for _, e := range subEdges {
		subEdgeSet[e] = struct{}{}
	}

	for _, at := range candidates {
		if !edgesSubsetOf(at.Diamond.EdgeList, subEdgeSet) {
			continue
		}
		if !at.Diamond.ConditioningNodes.Intersect(currentExcluded).IsEmpty() {
			continue
		}

		return at
	}

	return nil
}

func edgesSubsetOf(edges []graphidx.Edge, set map[graphidx.Edge]struct{}) bool {
	for _, e := range edges {
		if _, ok := set[e]; !ok {
			return false
		}
	}

	return true
}
