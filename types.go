package reachrel

import (
	"go.uber.org/zap"

	"github.com/dagrel/reachrel/diastore"
	"github.com/dagrel/reachrel/graphidx"
	"github.com/dagrel/reachrel/propagate"
	"github.com/dagrel/reachrel/value"
)

// Option configures Run/RunContext, following lvlath/dfs's
// functional-options idiom.
type Option func(*runOptions)

type runOptions struct {
	logger           *zap.Logger
	parallel         bool
	diastoreOptions  []diastore.BuildOption
	propagateOptions []propagate.Option
}

func defaultRunOptions() runOptions {
	return runOptions{logger: zap.NewNop()}
}

// WithLogger sets the *zap.Logger threaded through to diastore and
// propagate. A nil logger is replaced with zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(o *runOptions) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
		o.diastoreOptions = append(o.diastoreOptions, diastore.WithLogger(l))
		o.propagateOptions = append(o.propagateOptions, propagate.WithLogger(l))
	}
}

// WithParallel selects diastore.BuildParallel instead of the sequential
// diastore.Build for the unique-diamond-storage stage.
func WithParallel(enabled bool) Option {
	return func(o *runOptions) {
		o.parallel = enabled
	}
}

// WithDiastoreOptions appends options forwarded verbatim to
// diastore.Build/BuildParallel (e.g. WithCachePurgeThreshold).
func WithDiastoreOptions(opts ...diastore.BuildOption) Option {
	return func(o *runOptions) {
		o.diastoreOptions = append(o.diastoreOptions, opts...)
	}
}

// WithPropagateOptions appends options forwarded verbatim to
// propagate.Propagate (e.g. WithTrace).
func WithPropagateOptions(opts ...propagate.Option) Option {
	return func(o *runOptions) {
		o.propagateOptions = append(o.propagateOptions, opts...)
	}
}

// Result is the output of one end-to-end run: the graph's derived
// indices, the unique diamond storage built from them, and the final
// per-node belief map.
type Result struct {
	Indices *graphidx.Indices
	Storage *diastore.Storage
	Belief  map[graphidx.NodeID]value.Value
}
