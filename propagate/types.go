package propagate

import (
	"errors"

	"go.uber.org/zap"

	"github.com/dagrel/reachrel/graphidx"
	"github.com/dagrel/reachrel/value"
)

// Sentinel errors for belief propagation.
var (
	// ErrNilIndices indicates a nil *graphidx.Indices was supplied.
	ErrNilIndices = errors.New("propagate: graph indices are nil")

	// ErrNilStorage indicates a nil *diastore.Storage was supplied; callers
	// with no diamonds at all should still pass an empty, non-nil Storage.
	ErrNilStorage = errors.New("propagate: diamond storage is nil")

	// ErrMissingNodePrior indicates node_priors has no entry for a node the
	// pass needs, per section 7's InvalidInput(missing_prior).
	ErrMissingNodePrior = errors.New("propagate: missing node prior")

	// ErrMissingEdgeProb indicates edge_probs has no entry for an edge the
	// pass needs, per section 7's InvalidInput(missing_edge_prob).
	ErrMissingEdgeProb = errors.New("propagate: missing edge probability")
)

// Option configures Propagate, following lvlath/dfs's functional-options idiom.
type Option func(*options)

type options struct {
	logger *zap.Logger
	trace  *Trace
}

func defaultOptions() options {
	return options{logger: zap.NewNop()}
}

// WithLogger sets the *zap.Logger used for layer-transition diagnostics. A
// nil logger is replaced with zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}

// WithTrace attaches a Trace that Propagate fills in as it runs, recording
// the per-join diamond-contribution and non-diamond-arrival breakdown
// (section 9's "supplemented feature: diagnostic trace"). t must not be nil.
func WithTrace(t *Trace) Option {
	return func(o *options) {
		o.trace = t
	}
}

// Trace is an optional diagnostic record of how each join node's belief was
// assembled, populated only for nodes where a stored diamond was used.
type Trace struct {
	// DiamondContribution is the combined diamond-group arrival at each
	// traced join, before non-diamond parents are folded in.
	DiamondContribution map[graphidx.NodeID]value.Value

	// NonDiamondArrivals holds the per-parent arrival value for each
	// non-diamond parent of each traced join.
	NonDiamondArrivals map[graphidx.NodeID]map[graphidx.NodeID]value.Value

	// GroupCount records how many disjoint diamond groups were combined at
	// each traced join (almost always 1, since package diamond unions
	// shared-ancestor groups at a join into a single Diamond already).
	GroupCount map[graphidx.NodeID]int
}

// NewTrace returns an empty, ready-to-use Trace.
func NewTrace() *Trace {
	return &Trace{
		DiamondContribution: make(map[graphidx.NodeID]value.Value),
		NonDiamondArrivals:  make(map[graphidx.NodeID]map[graphidx.NodeID]value.Value),
		GroupCount:          make(map[graphidx.NodeID]int),
	}
}
