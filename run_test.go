package reachrel_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reachrel "github.com/dagrel/reachrel"
	"github.com/dagrel/reachrel/graphidx"
	"github.com/dagrel/reachrel/value"
)

func minimalDiamondEdges() []graphidx.Edge {
	return []graphidx.Edge{
		{From: 1, To: 2},
		{From: 2, To: 3},
		{From: 2, To: 4},
		{From: 3, To: 5},
		{From: 4, To: 5},
	}
}

func uniformPriors(nodes []graphidx.NodeID) map[graphidx.NodeID]value.Value {
	out := make(map[graphidx.NodeID]value.Value, len(nodes))
	for _, n := range nodes {
		out[n] = value.Scalar(1)
	}

	return out
}

func uniformEdgeProbs(edges []graphidx.Edge, p float64) map[graphidx.Edge]value.Value {
	out := make(map[graphidx.Edge]value.Value, len(edges))
	for _, e := range edges {
		out[e] = value.Scalar(p)
	}

	return out
}

func TestRun_MinimalDiamond(t *testing.T) {
	edges := minimalDiamondEdges()
	nodes := []graphidx.NodeID{1, 2, 3, 4, 5}
	priors := uniformPriors(nodes)
	edgeProbs := uniformEdgeProbs(edges, 0.9)

	result, err := reachrel.Run(nodes, edges, priors, edgeProbs, value.KindScalar)
	require.NoError(t, err)

	require.NotNil(t, result.Indices)
	require.Len(t, result.Storage.RootHashes, 1)

	want := 0.9 * (1 - math.Pow(1-0.9*0.9, 2))
	assert.InDelta(t, want, float64(result.Belief[5].(value.Scalar)), 1e-9)
}

func TestRun_ParallelMatchesSequential(t *testing.T) {
	edges := minimalDiamondEdges()
	nodes := []graphidx.NodeID{1, 2, 3, 4, 5}
	priors := uniformPriors(nodes)
	edgeProbs := uniformEdgeProbs(edges, 0.9)

	seq, err := reachrel.Run(nodes, edges, priors, edgeProbs, value.KindScalar)
	require.NoError(t, err)
	par, err := reachrel.Run(nodes, edges, priors, edgeProbs, value.KindScalar, reachrel.WithParallel(true))
	require.NoError(t, err)

	assert.Equal(t, seq.Belief, par.Belief)
}

func TestRun_NoDiamonds(t *testing.T) {
	edges := []graphidx.Edge{{From: 1, To: 2}, {From: 2, To: 3}}
	nodes := []graphidx.NodeID{1, 2, 3}
	priors := uniformPriors(nodes)
	edgeProbs := uniformEdgeProbs(edges, 0.8)

	result, err := reachrel.Run(nodes, edges, priors, edgeProbs, value.KindScalar)
	require.NoError(t, err)
	assert.Empty(t, result.Storage.RootHashes)
	assert.InDelta(t, 0.64, float64(result.Belief[3].(value.Scalar)), 1e-12)
}

func TestRun_InvalidGraph(t *testing.T) {
	edges := []graphidx.Edge{{From: 1, To: 1}}
	_, err := reachrel.Run(nil, edges, nil, nil, value.KindScalar)
	assert.ErrorIs(t, err, graphidx.ErrSelfLoop)
}

func TestResult_Validate(t *testing.T) {
	edges := minimalDiamondEdges()
	nodes := []graphidx.NodeID{1, 2, 3, 4, 5}
	priors := uniformPriors(nodes)
	edgeProbs := uniformEdgeProbs(edges, 0.9)

	result, err := reachrel.Run(nodes, edges, priors, edgeProbs, value.KindScalar)
	require.NoError(t, err)

	empirical, err := result.Validate(context.Background(), priors, edgeProbs, 20_000)
	require.NoError(t, err)

	exact := float64(result.Belief[5].(value.Scalar))
	assert.InDelta(t, exact, empirical[5], 0.02)
}
