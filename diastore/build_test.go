package diastore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagrel/reachrel/diamond"
	"github.com/dagrel/reachrel/diastore"
	"github.com/dagrel/reachrel/graphidx"
	"github.com/dagrel/reachrel/value"
)

// minimalDiamondEdges is scenario 1 from spec.md section 8: a single
// diamond at join 5, fork at 2.
func minimalDiamondEdges() []graphidx.Edge {
	return []graphidx.Edge{
		{From: 1, To: 2},
		{From: 2, To: 3},
		{From: 2, To: 4},
		{From: 3, To: 5},
		{From: 4, To: 5},
	}
}

func scalarPriors(idx *graphidx.Indices, sourceValue float64) map[graphidx.NodeID]value.Value {
	out := make(map[graphidx.NodeID]value.Value, len(idx.Nodes))
	for _, n := range idx.Nodes {
		if idx.Sources.Contains(n) {
			out[n] = value.Scalar(sourceValue)
		} else {
			out[n] = value.Scalar(1)
		}
	}

	return out
}

func TestBuild_MinimalDiamond(t *testing.T) {
	idx, err := graphidx.Build(nil, minimalDiamondEdges())
	require.NoError(t, err)

	diamonds, err := diamond.IdentifyAndGroupDiamonds(idx.Joins.Sorted(), idx, nil, nil)
	require.NoError(t, err)
	require.Contains(t, diamonds, graphidx.NodeID(5))

	roots := []diastore.RootDiamond{{Diamond: diamonds[5].Diamond, Join: 5}}
	priors := scalarPriors(idx, 0.9)

	storage, err := diastore.Build(roots, idx, priors, value.KindScalar)
	require.NoError(t, err)
	require.Len(t, storage.RootHashes, 1)
	require.Len(t, storage.Entries, 1)

	data := storage.Entries[storage.RootHashes[0]]
	assert.Equal(t, graphidx.NodeID(5), data.Join)
	assert.NotNil(t, data.SubIndices)
	assert.ElementsMatch(t, []graphidx.NodeID{2, 3, 4, 5}, data.SubIndices.Nodes)
	assert.Empty(t, data.NestedDiamonds)

	// node 2 is the sole conditioning node, and should start at one so
	// conditioning enumeration can override it per assignment.
	assert.True(t, data.SubNodePriors[2].IsOne())
	assert.True(t, data.SubNodePriors[5].IsOne())
}

func TestBuild_NestedDiamondsDiscovered(t *testing.T) {
	// two chained diamonds: the root diamond at join 8 (found by raw C3
	// with no exclusions) flattens all the way back to fork 2. Once C4
	// excludes 2 as already-explained, a smaller, *nested* diamond is
	// re-discovered at the same join 8 conditioned on 5 instead - this is
	// the hierarchical refinement section 4.4 step 5 performs.
	edges := []graphidx.Edge{
		{From: 1, To: 2},
		{From: 2, To: 3},
		{From: 2, To: 4},
		{From: 3, To: 5},
		{From: 4, To: 5},
		{From: 5, To: 6},
		{From: 5, To: 7},
		{From: 6, To: 8},
		{From: 7, To: 8},
	}
	idx, err := graphidx.Build(nil, edges)
	require.NoError(t, err)

	diamonds, err := diamond.IdentifyAndGroupDiamonds([]graphidx.NodeID{8}, idx, nil, nil)
	require.NoError(t, err)
	require.Contains(t, diamonds, graphidx.NodeID(8))
	require.True(t, diamonds[8].Diamond.ConditioningNodes.Contains(2))

	roots := []diastore.RootDiamond{{Diamond: diamonds[8].Diamond, Join: 8}}
	priors := scalarPriors(idx, 0.9)

	storage, err := diastore.Build(roots, idx, priors, value.KindScalar)
	require.NoError(t, err)

	rootData := storage.Entries[storage.RootHashes[0]]
	require.Contains(t, rootData.NestedDiamonds, graphidx.NodeID(8))

	nested := rootData.NestedDiamonds[8]
	assert.True(t, nested.Diamond.ConditioningNodes.Contains(5))
	assert.ElementsMatch(t, []graphidx.NodeID{5, 6, 7, 8}, nested.Diamond.RelevantNodes.Sorted())

	nestedHash := diamond.Hash(nested.Diamond)
	require.Contains(t, storage.Entries, nestedHash)
	assert.Equal(t, graphidx.NodeID(8), storage.Entries[nestedHash].Join)
	assert.Len(t, storage.Entries, 2)

	// recursing one more level into the nested diamond (now also
	// excluding 5) finds no further structure - node 5's only fork
	// ancestor was 2, already spent.
	assert.Empty(t, storage.Entries[nestedHash].NestedDiamonds)
}

func TestBuild_NilIndices(t *testing.T) {
	_, err := diastore.Build(nil, nil, nil, value.KindScalar)
	assert.ErrorIs(t, err, diastore.ErrNilIndices)
}

func TestBuild_NoRoots(t *testing.T) {
	idx, err := graphidx.Build(nil, minimalDiamondEdges())
	require.NoError(t, err)

	_, err = diastore.Build(nil, idx, nil, value.KindScalar)
	assert.ErrorIs(t, err, diastore.ErrNoRootDiamonds)
}

func TestBuildParallel_MatchesSequential(t *testing.T) {
	idx, err := graphidx.Build(nil, minimalDiamondEdges())
	require.NoError(t, err)

	diamonds, err := diamond.IdentifyAndGroupDiamonds(idx.Joins.Sorted(), idx, nil, nil)
	require.NoError(t, err)

	roots := []diastore.RootDiamond{{Diamond: diamonds[5].Diamond, Join: 5}}
	priors := scalarPriors(idx, 0.9)

	seq, err := diastore.Build(roots, idx, priors, value.KindScalar)
	require.NoError(t, err)

	par, err := diastore.BuildParallel(context.Background(), roots, idx, priors, value.KindScalar)
	require.NoError(t, err)

	assert.Equal(t, len(seq.Entries), len(par.Entries))
	for h := range seq.Entries {
		require.Contains(t, par.Entries, h)
		assert.Equal(t, seq.Entries[h].Join, par.Entries[h].Join)
	}
}
