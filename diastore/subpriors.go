package diastore

import (
	"github.com/dagrel/reachrel/diamond"
	"github.com/dagrel/reachrel/graphidx"
	"github.com/dagrel/reachrel/value"
)

// buildSubNodePriors implements section 4.4 step 4: for every node in a
// diamond's relevant_nodes, decide what belief-independent prior the
// sub-DAG's propagation pass should start from.
//   - the join node itself always starts at one (its own "availability"
//     is folded in by propagate after the sub-DAG recursion returns);
//   - a non-source node in the sub-DAG inherits its already-known global
//     prior;
//   - a sub-source that is a conditioning node starts at one (conditioning
//     enumeration overwrites it per assignment; one is a safe default);
//   - any other sub-source (a node whose real belief is only known once
//     the outer graph's propagation reaches it) gets the neutral
//     placeholder, to be overwritten with the real outer belief before the
//     sub-DAG recursion runs.
func buildSubNodePriors(d diamond.Diamond, join graphidx.NodeID, subIdx *graphidx.Indices, kind value.Kind, globalPriors map[graphidx.NodeID]value.Value) map[graphidx.NodeID]value.Value {
	out := make(map[graphidx.NodeID]value.Value, len(d.RelevantNodes))

	for n := range d.RelevantNodes {
		switch {
		case n == join:
			out[n] = value.One(kind)
		case !subIdx.Sources.Contains(n):
			out[n] = globalPriors[n]
		case d.ConditioningNodes.Contains(n):
			out[n] = value.One(kind)
		default:
			out[n] = value.Neutral(kind)
		}
	}

	return out
}
