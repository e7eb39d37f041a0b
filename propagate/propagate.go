package propagate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dagrel/reachrel/diastore"
	"github.com/dagrel/reachrel/graphidx"
	"github.com/dagrel/reachrel/value"
)

// Propagate computes the marginal reachability belief of every node in idx
// (section 4.5's contract), iterating over idx.IterationSets in ascending
// layer order so every parent's belief is final before a child reads it.
// storage holds the unique diamonds reachable from the graph's joins
// (package diastore); a join node with no matching entry in storage falls
// back to the regular independent-arrival rule over all of its parents.
func Propagate(idx *graphidx.Indices, nodePriors map[graphidx.NodeID]value.Value, edgeProbs map[graphidx.Edge]value.Value, storage *diastore.Storage, kind value.Kind, opts ...Option) (map[graphidx.NodeID]value.Value, error) {
	if idx == nil {
		return nil, ErrNilIndices
	}
	if storage == nil {
		return nil, ErrNilStorage
	}

	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	groups := groupsByJoin(storage)
	belief := make(map[graphidx.NodeID]value.Value, len(idx.Nodes))

	for layer, nodes := range idx.IterationSets {
		for _, n := range nodes {
			v, err := beliefForNode(n, idx, belief, edgeProbs, nodePriors, groups, storage, kind, cfg)
			if err != nil {
				return nil, err
			}
			belief[n] = v
		}
		cfg.logger.Debug("propagate: layer complete", zap.Int("layer", layer), zap.Int("nodes", len(nodes)))
	}

	return belief, nil
}

func beliefForNode(n graphidx.NodeID, idx *graphidx.Indices, belief map[graphidx.NodeID]value.Value, edgeProbs map[graphidx.Edge]value.Value, nodePriors map[graphidx.NodeID]value.Value, groups map[graphidx.NodeID][]*diastore.DiamondComputationData, storage *diastore.Storage, kind value.Kind, cfg options) (value.Value, error) {
	if idx.Sources.Contains(n) {
		prior, ok := nodePriors[n]
		if !ok {
			return nil, fmt.Errorf("%w: node %d", ErrMissingNodePrior, n)
		}

		return prior, nil
	}

	if entries, ok := groups[n]; ok {
		return computeJoinBelief(n, entries, idx, belief, edgeProbs, nodePriors, storage, kind, cfg)
	}

	return computeRegularBelief(n, idx, belief, edgeProbs, nodePriors, kind)
}

// computeRegularBelief implements section 4.5's non-join rule: combine
// every parent's arrival as an independent Bernoulli event, then scale by
// the node's own availability prior.
func computeRegularBelief(n graphidx.NodeID, idx *graphidx.Indices, belief map[graphidx.NodeID]value.Value, edgeProbs map[graphidx.Edge]value.Value, nodePriors map[graphidx.NodeID]value.Value, kind value.Kind) (value.Value, error) {
	parents := idx.Incoming[n].Sorted()
	arrivals := make([]value.Value, 0, len(parents))
	for _, p := range parents {
		a, err := parentArrival(p, n, belief, edgeProbs)
		if err != nil {
			return nil, err
		}
		arrivals = append(arrivals, a)
	}

	prior, ok := nodePriors[n]
	if !ok {
		return nil, fmt.Errorf("%w: node %d", ErrMissingNodePrior, n)
	}

	return value.CombineIndependentArrivals(kind, arrivals).Mul(prior), nil
}

// parentArrival is belief[p] . edge_prob[(p,n)], section 4.5's definition
// of a single parent's arrival at n.
func parentArrival(p, n graphidx.NodeID, belief map[graphidx.NodeID]value.Value, edgeProbs map[graphidx.Edge]value.Value) (value.Value, error) {
	pb, ok := belief[p]
	if !ok {
		return nil, fmt.Errorf("propagate: belief for node %d not yet computed when visiting %d (iteration order violated)", p, n)
	}
	ep, ok := edgeProbs[graphidx.Edge{From: p, To: n}]
	if !ok {
		return nil, fmt.Errorf("%w: edge (%d,%d)", ErrMissingEdgeProb, p, n)
	}

	return pb.Mul(ep), nil
}
