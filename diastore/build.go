package diastore

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/dagrel/reachrel/diamond"
	"github.com/dagrel/reachrel/graphidx"
	"github.com/dagrel/reachrel/value"
)

// workItem is one entry of the LIFO expansion stack of section 4.4.
type workItem struct {
	diamond             diamond.Diamond
	join                graphidx.NodeID
	accumulatedExcluded graphidx.NodeSet
	isRoot              bool
}

// Build runs the strictly sequential LIFO expansion of section 4.4 over
// roots, materialising one DiamondComputationData per unique diamond hash
// reachable from them. idx is the full graph's indices (used for its
// Joins set and node layers); nodePriors is the caller's best-known
// per-node availability prior (section 3's node_priors), read for every
// non-source sub-DAG node.
func Build(roots []RootDiamond, idx *graphidx.Indices, nodePriors map[graphidx.NodeID]value.Value, kind value.Kind, opts ...BuildOption) (*Storage, error) {
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

	stack := seedStack(roots, idx)

	processed := make(map[uint64]struct{}, len(roots))
	claim := func(h uint64) bool {
		if _, ok := processed[h]; ok {
			return false
		}
		processed[h] = struct{}{}

		return true
	}

	entries, err := drainStack(stack, idx, nodePriors, kind, newLookupTable(), claim, cfg)
	if err != nil {
		return nil, err
	}

	return &Storage{Entries: entries, RootHashes: rootHashes}, nil
}

// drainStack pops work items one at a time until the stack is empty,
// implementing section 4.4 steps 1-7 for the given stack and dedup
// strategy. claim reports whether the caller is the first to process a
// given diamond hash; Build uses a plain map, BuildParallel uses a
// mutex-guarded shared set (section 5's "global processed_hashes set").
func drainStack(stack []workItem, idx *graphidx.Indices, nodePriors map[graphidx.NodeID]value.Value, kind value.Kind, table lookupTable, claim func(uint64) bool, cfg buildOptions) (map[uint64]*DiamondComputationData, error) {
	entries := make(map[uint64]*DiamondComputationData)
	processedCount := 0

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		h := diamond.Hash(item.diamond)
		if !claim(h) {
			continue
		}

		data, nested, err := processWorkItem(item, idx, nodePriors, kind, table)
		if err != nil {
			return nil, fmt.Errorf("diastore: join %d: %w", item.join, err)
		}

		entries[h] = data
		processedCount++

		if processedCount%cfg.cachePurgeThreshold == 0 {
			cfg.logger.Debug("diastore: purging hybrid lookup table",
				zap.Int("processed", processedCount))
			table.purge(cfg.cachePurgeThreshold)
		}

		currentExcluded := item.accumulatedExcluded.Union(item.diamond.ConditioningNodes)
		for _, at := range sortedAtNodes(nested) {
			stack = append(stack, workItem{
				diamond:             at.Diamond,
				join:                at.JoinNode,
				accumulatedExcluded: currentExcluded,
				isRoot:              false,
			})
		}
	}

	return entries, nil
}

// seedStack groups roots by the iteration level of their join node and
// pushes levels in ascending order, per section 4.4: lowest levels are
// pushed first (and therefore popped last), so the shallowest roots are
// processed last while nested sub-diamonds (pushed during processing)
// always sit on top and drain first.
func seedStack(roots []RootDiamond, idx *graphidx.Indices) []workItem {
	sorted := make([]RootDiamond, len(roots))
	copy(sorted, roots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return idx.NodeLayer[sorted[i].Join] < idx.NodeLayer[sorted[j].Join]
	})

	stack := make([]workItem, 0, len(sorted))
	for _, r := range sorted {
		stack = append(stack, workItem{
			diamond:             r.Diamond,
			join:                r.Join,
			accumulatedExcluded: graphidx.NodeSet{},
			isRoot:              true,
		})
	}

	return stack
}

// processWorkItem implements section 4.4 steps 2-6 for a single popped
// work item, returning its computation data and the nested diamonds
// discovered at its sub-DAG's joins.
func processWorkItem(item workItem, idx *graphidx.Indices, nodePriors map[graphidx.NodeID]value.Value, kind value.Kind, table lookupTable) (*DiamondComputationData, map[graphidx.NodeID]*diamond.AtNode, error) {
	currentExcluded := item.accumulatedExcluded.Union(item.diamond.ConditioningNodes)

	subIdx, err := graphidx.Build(item.diamond.RelevantNodes.Sorted(), item.diamond.EdgeList)
	if err != nil {
		return nil, nil, err
	}

	subPriors := buildSubNodePriors(item.diamond, item.join, subIdx, kind, nodePriors)

	subJoins := subIdx.Joins.Intersect(idx.Joins)

	nested, err := findNestedDiamonds(subJoins, subIdx, currentExcluded, item.isRoot, table)
	if err != nil {
		return nil, nil, err
	}

	data := &DiamondComputationData{
		Diamond:        item.diamond,
		Join:           item.join,
		SubIndices:     subIdx,
		SubNodePriors:  subPriors,
		NestedDiamonds: nested,
	}

	return data, nested, nil
}

// findNestedDiamonds implements section 4.4 step 5: root items always
// call C3 directly; non-root items first consult the hybrid lookup table
// per join and only fall back to C3 on a miss. Fresh C3 results are
// recorded into table so later work items may reuse them.
func findNestedDiamonds(subJoins graphidx.NodeSet, subIdx *graphidx.Indices, currentExcluded graphidx.NodeSet, isRoot bool, table lookupTable) (map[graphidx.NodeID]*diamond.AtNode, error) {
	if isRoot {
		found, err := diamond.IdentifyAndGroupDiamonds(subJoins.Sorted(), subIdx, nil, currentExcluded)
		if err != nil {
			return nil, err
		}
		for _, at := range found {
			table.record(at)
		}

		return found, nil
	}

	out := make(map[graphidx.NodeID]*diamond.AtNode, len(subJoins))
	var misses []graphidx.NodeID
	for _, j := range subJoins.Sorted() {
		if at := table.find(j, subIdx.Edges, currentExcluded); at != nil {
			out[j] = at

			continue
		}
		misses = append(misses, j)
	}

	if len(misses) == 0 {
		return out, nil
	}

	found, err := diamond.IdentifyAndGroupDiamonds(misses, subIdx, nil, currentExcluded)
	if err != nil {
		return nil, err
	}
	for j, at := range found {
		out[j] = at
		table.record(at)
	}

	return out, nil
}

// sortedAtNodes returns m's values ordered by join node, for deterministic
// stack-push order (section 4.5's "stable sorted order by node ID").
func sortedAtNodes(m map[graphidx.NodeID]*diamond.AtNode) []*diamond.AtNode {
	joins := make([]graphidx.NodeID, 0, len(m))
	for j := range m {
		joins = append(joins, j)
	}
	sort.Slice(joins, func(i, k int) bool { return joins[i] < joins[k] })

	out := make([]*diamond.AtNode, 0, len(m))
	for _, j := range joins {
		out = append(out, m[j])
	}

	return out
}
