package montecarlo

import (
	"fmt"
	"math/rand"

	"github.com/dagrel/reachrel/graphidx"
	"github.com/dagrel/reachrel/value"
)

// runTrial samples one realisation of the DAG: every node's availability
// and every edge's transmission is flipped once, independently, and a
// node is reached if its own availability succeeds and at least one
// parent is both reached and its connecting edge succeeds. Iterating
// idx.IterationSets in order guarantees every parent's reached status is
// final before a child reads it.
func runTrial(idx *graphidx.Indices, nodePriors map[graphidx.NodeID]value.Value, edgeProbs map[graphidx.Edge]value.Value, rng *rand.Rand) (map[graphidx.NodeID]bool, error) {
	reached := make(map[graphidx.NodeID]bool, len(idx.Nodes))

	for _, layer := range idx.IterationSets {
		for _, n := range layer {
			prior, ok := nodePriors[n]
			if !ok {
				return nil, fmt.Errorf("%w: node %d", ErrMissingNodePrior, n)
			}
			p, err := scalarProb(prior)
			if err != nil {
				return nil, err
			}
			available := rng.Float64() < p

			if idx.Sources.Contains(n) {
				reached[n] = available

				continue
			}

			arrived := false
			for _, parent := range idx.Incoming[n].Sorted() {
				ep, ok := edgeProbs[graphidx.Edge{From: parent, To: n}]
				if !ok {
					return nil, fmt.Errorf("%w: edge (%d,%d)", ErrMissingEdgeProb, parent, n)
				}
				q, err := scalarProb(ep)
				if err != nil {
					return nil, err
				}

				// Every parent consumes one draw regardless of whether it
				// is already known to be unreached, so a trial's RNG
				// consumption does not depend on evaluation order.
				succeeded := rng.Float64() < q
				if reached[parent] && succeeded {
					arrived = true
				}
			}
			reached[n] = available && arrived
		}
	}

	return reached, nil
}

// scalarProb extracts the float64 probability backing v. Only value.Scalar
// is supported; see ErrUnsupportedKind.
func scalarProb(v value.Value) (float64, error) {
	s, ok := v.(value.Scalar)
	if !ok {
		return 0, fmt.Errorf("%w: got %T", ErrUnsupportedKind, v)
	}

	return s.Float64(), nil
}
