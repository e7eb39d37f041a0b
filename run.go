package reachrel

import (
	"context"
	"fmt"

	"github.com/dagrel/reachrel/diamond"
	"github.com/dagrel/reachrel/diastore"
	"github.com/dagrel/reachrel/graphidx"
	"github.com/dagrel/reachrel/montecarlo"
	"github.com/dagrel/reachrel/propagate"
	"github.com/dagrel/reachrel/value"
)

// Run is RunContext with context.Background().
func Run(nodes []graphidx.NodeID, edges []graphidx.Edge, nodePriors map[graphidx.NodeID]value.Value, edgeProbs map[graphidx.Edge]value.Value, kind value.Kind, opts ...Option) (*Result, error) {
	return RunContext(context.Background(), nodes, edges, nodePriors, edgeProbs, kind, opts...)
}

// RunContext wires graphidx (C1) -> diamond (C3) -> diastore (C4) ->
// propagate (C5) into a single end-to-end reachability-reliability
// computation: it builds the graph's indices, identifies the diamond
// rooted at every join, materialises the unique diamond storage
// (sequentially, or via diastore.BuildParallel with WithParallel(true)),
// and propagates belief through it.
func RunContext(ctx context.Context, nodes []graphidx.NodeID, edges []graphidx.Edge, nodePriors map[graphidx.NodeID]value.Value, edgeProbs map[graphidx.Edge]value.Value, kind value.Kind, opts ...Option) (*Result, error) {
	cfg := defaultRunOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	idx, err := graphidx.Build(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("reachrel: building graph indices: %w", err)
	}

	diamonds, err := diamond.IdentifyAndGroupDiamonds(idx.Joins.Sorted(), idx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("reachrel: identifying diamonds: %w", err)
	}

	storage, err := buildStorage(ctx, diamonds, idx, nodePriors, kind, cfg)
	if err != nil {
		return nil, fmt.Errorf("reachrel: building diamond storage: %w", err)
	}

	belief, err := propagate.Propagate(idx, nodePriors, edgeProbs, storage, kind, cfg.propagateOptions...)
	if err != nil {
		return nil, fmt.Errorf("reachrel: propagating belief: %w", err)
	}

	return &Result{Indices: idx, Storage: storage, Belief: belief}, nil
}

func buildStorage(ctx context.Context, diamonds map[graphidx.NodeID]*diamond.AtNode, idx *graphidx.Indices, nodePriors map[graphidx.NodeID]value.Value, kind value.Kind, cfg runOptions) (*diastore.Storage, error) {
	if len(diamonds) == 0 {
		return &diastore.Storage{Entries: map[uint64]*diastore.DiamondComputationData{}}, nil
	}

	roots := make([]diastore.RootDiamond, 0, len(diamonds))
	for join, at := range diamonds {
		roots = append(roots, diastore.RootDiamond{Diamond: at.Diamond, Join: join})
	}

	if cfg.parallel {
		return diastore.BuildParallel(ctx, roots, idx, nodePriors, kind, cfg.diastoreOptions...)
	}

	return diastore.Build(roots, idx, nodePriors, kind, cfg.diastoreOptions...)
}

// Validate runs the Monte-Carlo validator (C6) against r's already-built
// indices, offering an empirical cross-check of r.Belief without
// re-deriving the graph structure.
func (r *Result) Validate(ctx context.Context, nodePriors map[graphidx.NodeID]value.Value, edgeProbs map[graphidx.Edge]value.Value, trials int, opts ...montecarlo.Option) (map[graphidx.NodeID]float64, error) {
	return montecarlo.Run(ctx, r.Indices, nodePriors, edgeProbs, trials, opts...)
}
