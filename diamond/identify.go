package diamond

import (
	"github.com/dagrel/reachrel/graphidx"
)

// IdentifyAndGroupDiamonds runs the Diamond Identifier (section 4.3) once
// per join node in joinNodes, sharing a single opContext (and therefore
// its memoization tables) across all of them. A join with no qualifying
// diamond is simply absent from the returned map; that is not an error.
//
// irrelevantSources and excludedNodes are unioned once up front into a
// single irrelevant set, per step 1: sources the caller has already
// determined cannot contribute (section 4.3's pre-filter) and nodes
// explicitly excluded from conditioning (e.g. because a trial fixes their
// state) are treated identically by every test in this package.
func IdentifyAndGroupDiamonds(joinNodes []graphidx.NodeID, idx *graphidx.Indices, irrelevantSources, excludedNodes graphidx.NodeSet) (map[graphidx.NodeID]*AtNode, error) {
	if idx == nil {
		return nil, ErrNilIndices
	}

	irrelevant := irrelevantSources.Union(excludedNodes)
	ctx := newOpContext(idx)

	out := make(map[graphidx.NodeID]*AtNode)
	for _, join := range joinNodes {
		at, found, err := identifyAtJoin(join, idx, irrelevant, ctx)
		if err != nil {
			return nil, err
		}
		if found {
			out[join] = at
		}
	}

	return out, nil
}

// identifyAtJoin runs steps 2-8 of section 4.3 for a single join node.
// irrelevant already combines the caller's irrelevantSources and
// excludedNodes (see IdentifyAndGroupDiamonds); no test in this function
// distinguishes between the two.
func identifyAtJoin(join graphidx.NodeID, idx *graphidx.Indices, irrelevant graphidx.NodeSet, ctx *opContext) (*AtNode, bool, error) {
	parents := idx.Incoming[join]
	candidateParents := ctx.difference(parents, irrelevant)

	// Step 2: do any two (post-filter) parents share a fork ancestor, or
	// is one parent an ancestor of another? If neither test fires, join
	// has no diamond. Parents marked irrelevant never seed a diamond, but
	// still surface as NonDiamondParents below.
	forks := sharedAncestorCandidates(candidateParents, irrelevant, idx, ctx)
	if len(forks) == 0 {
		return nil, false, nil
	}

	// Step 3: induce the initial sub-DAG from every candidate fork's path
	// to join, plus join's non-irrelevant parents themselves.
	relevant := candidateParents.Clone()
	relevant.Add(join)
	for _, f := range forks {
		relevant, _ = enlargeWithAncestor(relevant, f, join, ctx)
	}

	edges := idx.InducedEdges(relevant)

	// Step 4: candidate conditioning nodes are the structural sources of
	// the induced sub-DAG, minus irrelevant/excluded nodes. None means no
	// diamond survives at this join.
	conditioning := ctx.difference(structuralSources(relevant, edges), irrelevant)
	if conditioning.IsEmpty() {
		return nil, false, nil
	}

	// Step 5: pull in every incoming edge of every intermediate node once.
	relevant, changed := ensureIntermediateCompleteness(relevant, conditioning, join, idx)
	if changed {
		edges = idx.InducedEdges(relevant)
	}

	// Step 6: fixed-point closure over sub-DAG sources - keep admitting
	// shared-ancestor candidates among the evolving sources until no
	// candidate adds a new node.
	relevant, edges, err := closeSubSources(relevant, edges, join, irrelevant, ctx, idx)
	if err != nil {
		return nil, false, err
	}

	// Step 7: recursive completeness - alternate source-closure admission
	// with step 5's intermediate-completeness pass until both stabilize.
	// Tracked as a SEPARATE loop from step 6 per section 4.3's note that
	// the two stopping conditions must each be checked independently.
	relevant, edges, err = closeRecursiveCompleteness(relevant, edges, join, irrelevant, ctx, idx)
	if err != nil {
		return nil, false, err
	}

	// Step 8: emit.
	conditioningFinal := ctx.difference(structuralSources(relevant, edges), irrelevant)
	relevantNodes := edgeEndpoints(edges)
	relevantNodes.Add(join)

	diamondParents := ctx.intersect(parents, relevantNodes)
	nonDiamondParents := ctx.difference(parents, diamondParents)

	at := &AtNode{
		Diamond: Diamond{
			RelevantNodes:     relevantNodes,
			ConditioningNodes: conditioningFinal,
			EdgeList:          graphidx.EdgesSorted(edges),
		},
		NonDiamondParents: nonDiamondParents,
		JoinNode:          join,
	}

	return at, true, nil
}

// closeSubSources implements section 4.3 step 6: repeatedly recompute the
// structural sources of the current sub-DAG, test them for new shared
// ancestor candidates, and enlarge with any that add nodes not already in
// relevant. Terminates when a pass adds nothing.
func closeSubSources(relevant graphidx.NodeSet, edges []graphidx.Edge, join graphidx.NodeID, irrelevant graphidx.NodeSet, ctx *opContext, idx *graphidx.Indices) (graphidx.NodeSet, []graphidx.Edge, error) {
	for i := 0; i < maxFixedPointIterations; i++ {
		sources := structuralSources(relevant, edges)
		candidates := sharedAncestorCandidates(sources, irrelevant, idx, ctx)

		anyAdded := false
		for _, f := range candidates {
			var added bool
			relevant, added = enlargeWithAncestor(relevant, f, join, ctx)
			anyAdded = anyAdded || added
		}

		if !anyAdded {
			return relevant, edges, nil
		}

		edges = idx.InducedEdges(relevant)
	}

	return nil, nil, ErrIterationLimitExceeded
}

// closeRecursiveCompleteness implements section 4.3 step 7: alternate
// source-closure admission (as in step 6) with intermediate-completeness
// enforcement (as in step 5) until a full pass changes nothing.
func closeRecursiveCompleteness(relevant graphidx.NodeSet, edges []graphidx.Edge, join graphidx.NodeID, irrelevant graphidx.NodeSet, ctx *opContext, idx *graphidx.Indices) (graphidx.NodeSet, []graphidx.Edge, error) {
	for i := 0; i < maxFixedPointIterations; i++ {
		changedThisPass := false

		sources := structuralSources(relevant, edges)
		candidates := sharedAncestorCandidates(sources, irrelevant, idx, ctx)
		for _, f := range candidates {
			var added bool
			relevant, added = enlargeWithAncestor(relevant, f, join, ctx)
			changedThisPass = changedThisPass || added
		}
		if changedThisPass {
			edges = idx.InducedEdges(relevant)
		}

		conditioning := ctx.difference(structuralSources(relevant, edges), irrelevant)
		var completenessChanged bool
		relevant, completenessChanged = ensureIntermediateCompleteness(relevant, conditioning, join, idx)
		if completenessChanged {
			edges = idx.InducedEdges(relevant)
			changedThisPass = true
		}

		if !changedThisPass {
			return relevant, edges, nil
		}
	}

	return nil, nil, ErrIterationLimitExceeded
}

// edgeEndpoints returns the union of every edge's From and To nodes.
func edgeEndpoints(edges []graphidx.Edge) graphidx.NodeSet {
	out := graphidx.NodeSet{}
	for _, e := range edges {
		out.Add(e.From)
		out.Add(e.To)
	}

	return out
}
