package montecarlo

import (
	"context"
	"math/rand"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dagrel/reachrel/graphidx"
	"github.com/dagrel/reachrel/value"
)

// Run implements section 4.6: for trials independent realisations of the
// DAG, count how often each node is reached and report the empirical
// fraction. With WithParallel(true) the trials are split across a worker
// pool, each worker seeded with its own decorrelated RNG stream
// (deriveRNG), so the result does not depend on goroutine scheduling.
func Run(ctx context.Context, idx *graphidx.Indices, nodePriors map[graphidx.NodeID]value.Value, edgeProbs map[graphidx.Edge]value.Value, trials int, opts ...Option) (map[graphidx.NodeID]float64, error) {
	if idx == nil {
		return nil, ErrNilIndices
	}
	if trials <= 0 {
		return nil, ErrInvalidTrialCount
	}

	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	base := rngFromSeed(cfg.seed)

	var counts map[graphidx.NodeID]int
	var err error
	if cfg.parallel {
		counts, err = runParallel(ctx, idx, nodePriors, edgeProbs, trials, base, cfg)
	} else {
		counts, err = runSequential(idx, nodePriors, edgeProbs, trials, base)
	}
	if err != nil {
		return nil, err
	}

	out := make(map[graphidx.NodeID]float64, len(idx.Nodes))
	for _, n := range idx.Nodes {
		out[n] = float64(counts[n]) / float64(trials)
	}

	return out, nil
}

func runSequential(idx *graphidx.Indices, nodePriors map[graphidx.NodeID]value.Value, edgeProbs map[graphidx.Edge]value.Value, trials int, rng *rand.Rand) (map[graphidx.NodeID]int, error) {
	counts := make(map[graphidx.NodeID]int, len(idx.Nodes))

	for i := 0; i < trials; i++ {
		reached, err := runTrial(idx, nodePriors, edgeProbs, rng)
		if err != nil {
			return nil, err
		}
		for n, ok := range reached {
			if ok {
				counts[n]++
			}
		}
	}

	return counts, nil
}

// runParallel splits trials as evenly as possible across a worker pool,
// each worker running its share sequentially against its own RNG stream,
// then sums the per-worker counts. Each worker owns a distinct slot of a
// pre-sized slice, so no locking is needed to merge results.
func runParallel(ctx context.Context, idx *graphidx.Indices, nodePriors map[graphidx.NodeID]value.Value, edgeProbs map[graphidx.Edge]value.Value, trials int, base *rand.Rand, cfg options) (map[graphidx.NodeID]int, error) {
	workerCount := cfg.workerCount
	if workerCount <= 0 {
		workerCount = runtime.GOMAXPROCS(0)
	}
	if workerCount > trials {
		workerCount = trials
	}

	shares := splitTrials(trials, workerCount)
	perWorker := make([]map[graphidx.NodeID]int, len(shares))

	g, gCtx := errgroup.WithContext(ctx)
	for w, share := range shares {
		rng := deriveRNG(base, uint64(w))
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			counts, err := runSequential(idx, nodePriors, edgeProbs, share, rng)
			if err != nil {
				return err
			}
			perWorker[w] = counts

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := make(map[graphidx.NodeID]int, len(idx.Nodes))
	for _, counts := range perWorker {
		for n, c := range counts {
			total[n] += c
		}
	}

	cfg.logger.Debug("montecarlo: parallel run complete", zap.Int("workers", workerCount), zap.Int("trials", trials))

	return total, nil
}

// splitTrials divides trials into workerCount shares as evenly as
// possible; the first trials%workerCount shares get one extra trial.
func splitTrials(trials, workerCount int) []int {
	base := trials / workerCount
	extra := trials % workerCount

	shares := make([]int, workerCount)
	for i := range shares {
		shares[i] = base
		if i < extra {
			shares[i]++
		}
	}

	return shares
}
