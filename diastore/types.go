package diastore

import (
	"errors"

	"go.uber.org/zap"

	"github.com/dagrel/reachrel/diamond"
	"github.com/dagrel/reachrel/graphidx"
	"github.com/dagrel/reachrel/value"
)

// Sentinel errors for unique diamond storage construction.
var (
	// ErrNilIndices indicates a nil *graphidx.Indices was supplied.
	ErrNilIndices = errors.New("diastore: graph indices are nil")

	// ErrNoRootDiamonds indicates Build was called with zero root diamonds;
	// not itself fatal to a caller, but most callers expect at least one.
	ErrNoRootDiamonds = errors.New("diastore: no root diamonds supplied")
)

// RootDiamond pairs a diamond discovered by package diamond with the join
// node it was discovered at, as produced by diamond.IdentifyAndGroupDiamonds
// over the graph's full join set.
type RootDiamond struct {
	Diamond diamond.Diamond
	Join    graphidx.NodeID
}

// DiamondComputationData is everything propagate (C5) needs to recurse
// into one uniquely-identified diamond: its own sub-graph indices, the
// node priors restricted and adjusted for that sub-DAG (section 4.4 step
// 4), and the nested diamonds found at the sub-DAG's own join nodes.
type DiamondComputationData struct {
	Diamond        diamond.Diamond
	Join           graphidx.NodeID
	SubIndices     *graphidx.Indices
	SubNodePriors  map[graphidx.NodeID]value.Value
	NestedDiamonds map[graphidx.NodeID]*diamond.AtNode
}

// Storage is the output of Build/BuildParallel: every unique diamond
// keyed by its structural hash (diamond.Hash), plus the root hashes in
// discovery order for callers that need to seed propagation top-down.
type Storage struct {
	Entries    map[uint64]*DiamondComputationData
	RootHashes []uint64
}

// BuildOption configures Build and BuildParallel, following lvlath/dfs's
// functional-options idiom.
type BuildOption func(*buildOptions)

type buildOptions struct {
	logger              *zap.Logger
	cachePurgeThreshold int
	workerCount         int
}

func defaultBuildOptions() buildOptions {
	return buildOptions{
		logger:              zap.NewNop(),
		cachePurgeThreshold: 1000,
		workerCount:         0, // 0 means "use runtime.GOMAXPROCS(0)"
	}
}

// WithLogger sets the *zap.Logger used for cache-purge and level-transition
// diagnostics. A nil logger is replaced with zap.NewNop().
func WithLogger(l *zap.Logger) BuildOption {
	return func(o *buildOptions) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}

// WithCachePurgeThreshold overrides the per-thread hybrid-lookup-table
// purge threshold (section 5's "threshold of 500 ... or 1000"). The
// processed-hash set is never purged.
// Values <= 0 are ignored.
func WithCachePurgeThreshold(n int) BuildOption {
	return func(o *buildOptions) {
		if n > 0 {
			o.cachePurgeThreshold = n
		}
	}
}

// WithWorkerCount overrides the worker pool size used by BuildParallel
// within a level. 0 (the default) means runtime.GOMAXPROCS(0). Ignored by
// the sequential Build.
func WithWorkerCount(n int) BuildOption {
	return func(o *buildOptions) {
		if n >= 0 {
			o.workerCount = n
		}
	}
}
