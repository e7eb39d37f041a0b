package diamond_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagrel/reachrel/diamond"
	"github.com/dagrel/reachrel/graphidx"
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

func TestIdentifyAndGroupDiamonds_MinimalDiamond(t *testing.T) {
	idx, err := graphidx.Build(nil, minimalDiamondEdges())
	require.NoError(t, err)

	result, err := diamond.IdentifyAndGroupDiamonds([]graphidx.NodeID{5}, idx, nil, nil)
	require.NoError(t, err)
	require.Contains(t, result, graphidx.NodeID(5))

	at := result[5]
	assert.Equal(t, graphidx.NodeID(5), at.JoinNode)
	assert.True(t, at.NonDiamondParents.IsEmpty())
	assert.True(t, at.Diamond.ConditioningNodes.Contains(2))
	assert.Equal(t, 1, len(at.Diamond.ConditioningNodes))
	assert.ElementsMatch(t, []graphidx.NodeID{2, 3, 4, 5}, at.Diamond.RelevantNodes.Sorted())
	assert.ElementsMatch(t, []graphidx.Edge{
		{From: 2, To: 3}, {From: 2, To: 4}, {From: 3, To: 5}, {From: 4, To: 5},
	}, at.Diamond.EdgeList)
}

// chainedDiamondEdges is scenario 2: two diamonds in series, sharing join
// 5 as the fork of the second diamond, joining at 8.
func chainedDiamondEdges() []graphidx.Edge {
	return []graphidx.Edge{
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
}

func TestIdentifyAndGroupDiamonds_ChainedDiamonds(t *testing.T) {
	idx, err := graphidx.Build(nil, chainedDiamondEdges())
	require.NoError(t, err)

	result, err := diamond.IdentifyAndGroupDiamonds([]graphidx.NodeID{5, 8}, idx, nil, nil)
	require.NoError(t, err)
	require.Contains(t, result, graphidx.NodeID(5))
	require.Contains(t, result, graphidx.NodeID(8))

	first := result[5]
	assert.True(t, first.Diamond.ConditioningNodes.Contains(2))
	assert.ElementsMatch(t, []graphidx.NodeID{2, 3, 4, 5}, first.Diamond.RelevantNodes.Sorted())

	// The diamond at 8 is identified directly against the raw graph
	// indices, with no knowledge of the diamond already resolved at 5:
	// both 2 and 5 are fork ancestors shared by 8's parents 6 and 7, so
	// the induced sub-DAG flattens across the chain back to 2. Avoiding
	// this re-expansion past an already-resolved join is diastore's job
	// (it excludes previously-resolved join nodes' upstream sources
	// before calling into this package), not this package's.
	second := result[8]
	assert.True(t, second.Diamond.ConditioningNodes.Contains(2))
	assert.Equal(t, 1, len(second.Diamond.ConditioningNodes))
	assert.ElementsMatch(t, []graphidx.NodeID{2, 3, 4, 5, 6, 7, 8}, second.Diamond.RelevantNodes.Sorted())
}

// parentAsForkEdges is scenario 3: 1 is both a direct parent of 3 and an
// ancestor of 3's other parent 2 (edges {(1,2),(1,3),(2,3)}).
func parentAsForkEdges() []graphidx.Edge {
	return []graphidx.Edge{
		{From: 1, To: 2},
		{From: 1, To: 3},
		{From: 2, To: 3},
	}
}

func TestIdentifyAndGroupDiamonds_ParentAsFork(t *testing.T) {
	idx, err := graphidx.Build(nil, parentAsForkEdges())
	require.NoError(t, err)

	result, err := diamond.IdentifyAndGroupDiamonds([]graphidx.NodeID{3}, idx, nil, nil)
	require.NoError(t, err)
	require.Contains(t, result, graphidx.NodeID(3))

	at := result[3]
	assert.True(t, at.Diamond.ConditioningNodes.Contains(1))
	assert.ElementsMatch(t, []graphidx.NodeID{1, 2, 3}, at.Diamond.RelevantNodes.Sorted())
	assert.True(t, at.NonDiamondParents.IsEmpty())
}

func TestIdentifyAndGroupDiamonds_IrrelevantSourceExcluded(t *testing.T) {
	// scenario 4: node 9 also feeds the diamond's join but is marked
	// irrelevant up front, so it must not appear as a conditioning node or
	// relevant node, and must surface as a non-diamond parent if it feeds
	// the join directly.
	edges := []graphidx.Edge{
		{From: 1, To: 2},
		{From: 2, To: 3},
		{From: 2, To: 4},
		{From: 3, To: 5},
		{From: 4, To: 5},
		{From: 9, To: 5},
	}
	idx, err := graphidx.Build(nil, edges)
	require.NoError(t, err)

	irrelevant := graphidx.NewNodeSet(9)
	result, err := diamond.IdentifyAndGroupDiamonds([]graphidx.NodeID{5}, idx, irrelevant, nil)
	require.NoError(t, err)
	require.Contains(t, result, graphidx.NodeID(5))

	at := result[5]
	assert.False(t, at.Diamond.RelevantNodes.Contains(9))
	assert.False(t, at.Diamond.ConditioningNodes.Contains(9))
	assert.True(t, at.NonDiamondParents.Contains(9))
}

func TestIdentifyAndGroupDiamonds_TwoGroupsAtOneJoin(t *testing.T) {
	// scenario 5: join 9 has four direct parents forming two independent
	// fork/join groups (1 forks into 2,3; 5 forks into 6,7), both landing
	// on 9 directly. The identifier must union both groups into a single
	// diamond with two conditioning nodes.
	edges := []graphidx.Edge{
		{From: 1, To: 2},
		{From: 1, To: 3},
		{From: 2, To: 9},
		{From: 3, To: 9},
		{From: 5, To: 6},
		{From: 5, To: 7},
		{From: 6, To: 9},
		{From: 7, To: 9},
	}
	idx, err := graphidx.Build(nil, edges)
	require.NoError(t, err)

	result, err := diamond.IdentifyAndGroupDiamonds([]graphidx.NodeID{9}, idx, nil, nil)
	require.NoError(t, err)
	require.Contains(t, result, graphidx.NodeID(9))

	at := result[9]
	assert.ElementsMatch(t, []graphidx.NodeID{1, 2, 3, 5, 6, 7, 9}, at.Diamond.RelevantNodes.Sorted())
	assert.ElementsMatch(t, []graphidx.NodeID{1, 5}, at.Diamond.ConditioningNodes.Sorted())
	assert.True(t, at.NonDiamondParents.IsEmpty())
}

func TestIdentifyAndGroupDiamonds_NoDiamondAtNode(t *testing.T) {
	// a join with two independent, non-sharing parents has no diamond.
	edges := []graphidx.Edge{
		{From: 1, To: 3},
		{From: 2, To: 3},
	}
	idx, err := graphidx.Build(nil, edges)
	require.NoError(t, err)

	result, err := diamond.IdentifyAndGroupDiamonds([]graphidx.NodeID{3}, idx, nil, nil)
	require.NoError(t, err)
	assert.NotContains(t, result, graphidx.NodeID(3))
}

func TestIdentifyAndGroupDiamonds_NilIndices(t *testing.T) {
	_, err := diamond.IdentifyAndGroupDiamonds([]graphidx.NodeID{1}, nil, nil, nil)
	assert.ErrorIs(t, err, diamond.ErrNilIndices)
}

func TestIdentifyAndGroupDiamonds_ExcludedNodeNeverConditioning(t *testing.T) {
	// excluding the diamond's only candidate conditioning node removes
	// its correlation structure entirely: no diamond can be identified
	// at the join, since there is no other shared ancestor to decompose
	// on.
	idx, err := graphidx.Build(nil, minimalDiamondEdges())
	require.NoError(t, err)

	excluded := graphidx.NewNodeSet(2)
	result, err := diamond.IdentifyAndGroupDiamonds([]graphidx.NodeID{5}, idx, nil, excluded)
	require.NoError(t, err)
	assert.NotContains(t, result, graphidx.NodeID(5))
}
