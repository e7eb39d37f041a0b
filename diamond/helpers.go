package diamond

import (
	"github.com/dagrel/reachrel/graphidx"
)

// structuralSources returns the members of relevant that have no incoming
// edge within edges (i.e. the sources of the induced sub-DAG), not to be
// confused with graphidx.Indices.Sources (the full graph's sources).
func structuralSources(relevant graphidx.NodeSet, edges []graphidx.Edge) graphidx.NodeSet {
	hasIncoming := make(graphidx.NodeSet, len(edges))
	for _, e := range edges {
		hasIncoming.Add(e.To)
	}
	out := graphidx.NodeSet{}
	for n := range relevant {
		if !hasIncoming.Contains(n) {
			out.Add(n)
		}
	}

	return out
}

// sharedAncestorCandidates implements the two tests of section 4.3 step 2
// ("Parent-of-parent sharing", section 9): for the given set of nodes
// (either j's direct parents, or the current sub-sources in later fixed
// point passes), a node f is a candidate shared ancestor iff either
//   - f is itself a member of nodes and an ancestor of another member, or
//   - f (not necessarily a member of nodes) is a fork ancestor of at
//     least two distinct members.
//
// irrelevant nodes are never returned as candidates. Results are sorted
// for deterministic downstream iteration.
func sharedAncestorCandidates(nodes graphidx.NodeSet, irrelevant graphidx.NodeSet, idx *graphidx.Indices, ctx *opContext) []graphidx.NodeID {
	sorted := nodes.Sorted()
	candidates := graphidx.NodeSet{}

	// Test 1: one member is an ancestor of another.
	for _, a := range sorted {
		if irrelevant.Contains(a) {
			continue
		}
		for _, b := range sorted {
			if a == b {
				continue
			}
			if idx.Ancestors[b].Contains(a) {
				candidates.Add(a)

				break
			}
		}
	}

	// Test 2: a fork ancestor shared by >= 2 members.
	forkAncestors := make(map[graphidx.NodeID]graphidx.NodeSet, len(sorted))
	for _, s := range sorted {
		forkAncestors[s] = ctx.difference(ctx.ancestorsIntersect(s, idx.Forks), irrelevant)
	}
	count := make(map[graphidx.NodeID]int)
	for _, s := range sorted {
		for f := range forkAncestors[s] {
			count[f]++
		}
	}
	for f, c := range count {
		if c >= 2 {
			candidates.Add(f)
		}
	}

	return candidates.Sorted()
}

// enlargeWithAncestor unions f and the path between f and join
// (Descendants[f] ∩ Ancestors[join]) into relevant, returning the new set
// and whether anything was actually added.
func enlargeWithAncestor(relevant graphidx.NodeSet, f, join graphidx.NodeID, ctx *opContext) (graphidx.NodeSet, bool) {
	path := ctx.descendantsIntersect(f, ctx.idx.Ancestors[join])
	combined := path.Clone()
	combined.Add(f)

	newNodes := ctx.difference(combined, relevant)
	if newNodes.IsEmpty() {
		return relevant, false
	}

	return relevant.Union(combined), true
}

// ensureIntermediateCompleteness implements section 4.3 step 5: every node
// in relevant \ (conditioning ∪ {join}) must have ALL of its graph-level
// incoming edges represented, even if that pulls brand-new source nodes
// into relevant. Returns the (possibly enlarged) relevant set and whether
// anything changed.
func ensureIntermediateCompleteness(relevant, conditioning graphidx.NodeSet, join graphidx.NodeID, idx *graphidx.Indices) (graphidx.NodeSet, bool) {
	excludeFromIntermediates := conditioning.Union(graphidx.NewNodeSet(join))
	intermediates := relevant.Difference(excludeFromIntermediates)

	out := relevant.Clone()
	changed := false
	for inter := range intermediates {
		for p := range idx.Incoming[inter] {
			if !out.Contains(p) {
				out.Add(p)
				changed = true
			}
		}
	}

	return out, changed
}
