package diastore

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dagrel/reachrel/diamond"
	"github.com/dagrel/reachrel/graphidx"
	"github.com/dagrel/reachrel/value"
)

// sharedState is the mutex-guarded state every worker of BuildParallel
// reads from and merges back into, per section 5: a global processed-hash
// set (contains+insert only), a shared result map, and a shared hybrid
// lookup table snapshotted at worker start and merged back at worker end.
type sharedState struct {
	mu        sync.Mutex
	processed map[uint64]struct{}
	entries   map[uint64]*DiamondComputationData
	table     lookupTable
}

func newSharedState() *sharedState {
	return &sharedState{
		processed: make(map[uint64]struct{}),
		entries:   make(map[uint64]*DiamondComputationData),
		table:     newLookupTable(),
	}
}

// tryClaim reports whether the caller is the first to claim hash h.
func (s *sharedState) tryClaim(h uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.processed[h]; ok {
		return false
	}
	s.processed[h] = struct{}{}

	return true
}

// snapshotTable returns a deep-enough copy of the shared lookup table for
// a worker's thread-local use.
func (s *sharedState) snapshotTable() lookupTable {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.table.clone()
}

// merge folds a completed worker's local results and lookup-table
// discoveries back into the shared state.
func (s *sharedState) merge(local map[uint64]*DiamondComputationData, localTable lookupTable) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for h, d := range local {
		s.entries[h] = d
	}
	s.table.mergeFrom(localTable)
}

// BuildParallel runs the bulk-synchronous parallel variant of section 4.4
// / section 5: root diamonds are grouped by the iteration level of their
// join node, levels are processed strictly in ascending order as barriers,
// and within a level each root diamond expands on its own worker using a
// thread-local stack, a thread-local snapshot of the hybrid lookup table,
// and a shared, lock-guarded processed-hash set and result map. The set of
// unique diamonds produced does not depend on thread interleaving.
func BuildParallel(ctx context.Context, roots []RootDiamond, idx *graphidx.Indices, nodePriors map[graphidx.NodeID]value.Value, kind value.Kind, opts ...BuildOption) (*Storage, error) {
	if idx == nil {
		return nil, ErrNilIndices
	}
	if len(roots) == 0 {
		return nil, ErrNoRootDiamonds
	}

	cfg := defaultBuildOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	rootHashes := make([]uint64, len(roots))
	for i, r := range roots {
		rootHashes[i] = diamond.Hash(r.Diamond)
	}

	levels := groupRootsByLevel(roots, idx)
	shared := newSharedState()

	workerLimit := cfg.workerCount
	if workerLimit <= 0 {
		workerLimit = runtime.GOMAXPROCS(0)
	}

	for _, level := range levels {
		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(workerLimit)

		for _, root := range level {
			g.Go(func() error {
				if err := gCtx.Err(); err != nil {
					return err
				}

				localTable := shared.snapshotTable()
				stack := seedStack([]RootDiamond{root}, idx)

				local, err := drainStack(stack, idx, nodePriors, kind, localTable, shared.tryClaim, cfg)
				if err != nil {
					return err
				}

				shared.merge(local, localTable)

				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}

		cfg.logger.Debug("diastore: level complete", zap.Int("roots", len(level)))
	}

	return &Storage{Entries: shared.entries, RootHashes: rootHashes}, nil
}

// groupRootsByLevel buckets roots by idx.NodeLayer[join] and returns the
// buckets ordered by ascending level, per section 4.4's level-barrier
// ordering.
func groupRootsByLevel(roots []RootDiamond, idx *graphidx.Indices) [][]RootDiamond {
	byLevel := make(map[int][]RootDiamond)
	for _, r := range roots {
		lvl := idx.NodeLayer[r.Join]
		byLevel[lvl] = append(byLevel[lvl], r)
	}

	levels := make([]int, 0, len(byLevel))
	for lvl := range byLevel {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)

	out := make([][]RootDiamond, len(levels))
	for i, lvl := range levels {
		out[i] = byLevel[lvl]
	}

	return out
}
