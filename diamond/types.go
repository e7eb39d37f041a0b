package diamond

import (
	"errors"

	"github.com/dagrel/reachrel/graphidx"
)

// Sentinel errors for diamond identification.
var (
	// ErrIterationLimitExceeded indicates one of the two fixed-point
	// enlargement loops of section 4.3 (steps 6 and 7) failed to converge
	// within maxFixedPointIterations; surfaced as IterationLimitExceeded
	// per section 7, always fatal.
	ErrIterationLimitExceeded = errors.New("diamond: iteration limit exceeded")

	// ErrNilIndices indicates a nil *graphidx.Indices was supplied.
	ErrNilIndices = errors.New("diamond: graph indices are nil")
)

// maxFixedPointIterations caps both the sub-source closure loop (step 6)
// and the recursive completeness loop (step 7) at 1000 iterations each,
// per section 4.3's hard cap.
const maxFixedPointIterations = 1000

// Diamond is the (relevant_nodes, conditioning_nodes, edgelist) tuple of
// section 3. EdgeList is always canonicalised (sorted) so that Hash is
// stable.
type Diamond struct {
	RelevantNodes     graphidx.NodeSet
	ConditioningNodes graphidx.NodeSet
	EdgeList          []graphidx.Edge
}

// AtNode is the DiamondsAtNode tuple of section 3: one diamond discovered
// at JoinNode, plus the parents of JoinNode the diamond does not explain.
type AtNode struct {
	Diamond           Diamond
	NonDiamondParents graphidx.NodeSet
	JoinNode          graphidx.NodeID
}
