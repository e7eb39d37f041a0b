package propagate

import (
	"fmt"
	"sort"

	"github.com/dagrel/reachrel/diamond"
	"github.com/dagrel/reachrel/diastore"
	"github.com/dagrel/reachrel/graphidx"
	"github.com/dagrel/reachrel/value"
)

// groupsByJoin indexes storage's active root hashes by join node, so
// beliefForNode can find every diamond group that independently reaches a
// given join. In this engine a join almost always carries exactly one
// group, since package diamond already unions every shared-ancestor group
// feeding a join into a single Diamond; the slice form exists to honor
// section 4.5's general multiple-disjoint-groups rule if a caller ever
// assembles a Storage whose root hashes cover the same join twice.
func groupsByJoin(storage *diastore.Storage) map[graphidx.NodeID][]*diastore.DiamondComputationData {
	out := make(map[graphidx.NodeID][]*diastore.DiamondComputationData)
	for _, h := range storage.RootHashes {
		data, ok := storage.Entries[h]
		if !ok {
			continue
		}
		out[data.Join] = append(out[data.Join], data)
	}
	for j, entries := range out {
		sort.Slice(entries, func(i, k int) bool {
			return diamond.Hash(entries[i].Diamond) < diamond.Hash(entries[k].Diamond)
		})
		out[j] = entries
	}

	return out
}

// computeJoinBelief implements section 4.5's join-node rule: each group's
// diamond-contribution is computed independently, the groups are combined
// via inclusion-exclusion, and the result is folded in as one arrival
// alongside every parent the groups leave unexplained.
func computeJoinBelief(n graphidx.NodeID, groups []*diastore.DiamondComputationData, idx *graphidx.Indices, belief map[graphidx.NodeID]value.Value, edgeProbs map[graphidx.Edge]value.Value, nodePriors map[graphidx.NodeID]value.Value, storage *diastore.Storage, kind value.Kind, cfg options) (value.Value, error) {
	parents := idx.Incoming[n]
	explained := graphidx.NodeSet{}
	diamondArrivals := make([]value.Value, 0, len(groups))

	for _, data := range groups {
		contribution, err := groupContribution(n, data, belief, edgeProbs, storage, kind, cfg)
		if err != nil {
			return nil, err
		}
		diamondArrivals = append(diamondArrivals, contribution)
		explained = explained.Union(data.Diamond.RelevantNodes.Intersect(parents))
	}

	combinedDiamond := value.InclusionExclusion(kind, diamondArrivals)

	nonDiamondParents := parents.Difference(explained).Sorted()
	arrivals := make([]value.Value, 0, len(nonDiamondParents)+1)
	arrivals = append(arrivals, combinedDiamond)

	var traced map[graphidx.NodeID]value.Value
	if cfg.trace != nil {
		traced = make(map[graphidx.NodeID]value.Value, len(nonDiamondParents))
	}

	for _, p := range nonDiamondParents {
		a, err := parentArrival(p, n, belief, edgeProbs)
		if err != nil {
			return nil, err
		}
		arrivals = append(arrivals, a)
		if traced != nil {
			traced[p] = a
		}
	}

	if cfg.trace != nil {
		cfg.trace.DiamondContribution[n] = combinedDiamond
		cfg.trace.NonDiamondArrivals[n] = traced
		cfg.trace.GroupCount[n] = len(groups)
	}

	prior, ok := nodePriors[n]
	if !ok {
		return nil, fmt.Errorf("%w: node %d", ErrMissingNodePrior, n)
	}

	return value.CombineIndependentArrivals(kind, arrivals).Mul(prior), nil
}

// groupContribution implements section 4.5 steps 2-6 for one diamond group:
// enumerate all 2^k conditioning assignments, recurse into the diamond's
// own sub-DAG for each, and sum p_assign * q_n^assign.
func groupContribution(n graphidx.NodeID, data *diastore.DiamondComputationData, outerBelief map[graphidx.NodeID]value.Value, edgeProbs map[graphidx.Edge]value.Value, storage *diastore.Storage, kind value.Kind, cfg options) (value.Value, error) {
	conditioning := data.Diamond.ConditioningNodes.Sorted()

	nestedHashes := make([]uint64, 0, len(data.NestedDiamonds))
	for _, at := range data.NestedDiamonds {
		nestedHashes = append(nestedHashes, diamond.Hash(at.Diamond))
	}
	nestedStorage := &diastore.Storage{Entries: storage.Entries, RootHashes: nestedHashes}

	total := value.Zero(kind)
	assignments := 1 << len(conditioning)

	for mask := 0; mask < assignments; mask++ {
		subPriors, pAssign, err := conditionedSubPriors(data, conditioning, mask, outerBelief, kind)
		if err != nil {
			return nil, err
		}

		subBelief, err := Propagate(data.SubIndices, subPriors, edgeProbs, nestedStorage, kind, recurseOptions(cfg)...)
		if err != nil {
			return nil, err
		}

		qAssign, ok := subBelief[n]
		if !ok {
			return nil, fmt.Errorf("propagate: sub-DAG produced no belief for join %d", n)
		}

		total = total.Add(pAssign.Mul(qAssign))
	}

	return total, nil
}

// conditionedSubPriors builds the sub-node-prior map for one conditioning
// assignment (section 4.5 step 2) and the corresponding p_assign (step 4).
// Bit i of mask selects "success" for conditioning[i]. Every non-source
// sub-DAG node keeps its own availability prior from data.SubNodePriors;
// every non-conditioning sub-source is overwritten with the already-computed
// outer belief of that node.
func conditionedSubPriors(data *diastore.DiamondComputationData, conditioning []graphidx.NodeID, mask int, outerBelief map[graphidx.NodeID]value.Value, kind value.Kind) (map[graphidx.NodeID]value.Value, value.Value, error) {
	subPriors := make(map[graphidx.NodeID]value.Value, len(data.SubNodePriors))
	for node, v := range data.SubNodePriors {
		subPriors[node] = v
	}

	pAssign := value.One(kind)
	for i, c := range conditioning {
		b, ok := outerBelief[c]
		if !ok {
			return nil, nil, fmt.Errorf("propagate: belief for conditioning node %d not yet computed", c)
		}

		if mask&(1<<i) != 0 {
			subPriors[c] = value.One(kind)
			pAssign = pAssign.Mul(b)
		} else {
			subPriors[c] = value.Zero(kind)
			pAssign = pAssign.Mul(b.Complement())
		}
	}

	for s := range data.SubIndices.Sources {
		if data.Diamond.ConditioningNodes.Contains(s) {
			continue
		}
		if b, ok := outerBelief[s]; ok {
			subPriors[s] = b
		}
	}

	return subPriors, pAssign, nil
}

// recurseOptions carries the logger into a nested Propagate call but never
// the caller's Trace: a sub-DAG recursion re-visits the same join node ID
// once per conditioning assignment, and threading a shared Trace through
// would have each assignment silently overwrite the last one's record.
func recurseOptions(cfg options) []Option {
	return []Option{WithLogger(cfg.logger)}
}
