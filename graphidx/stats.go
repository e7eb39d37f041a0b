package graphidx

// Stats is a cheap snapshot of index sizes (O(L) in the number of
// iteration sets, to find the widest one), handy for callers sizing
// diastore's worker pool or sanity-checking a loaded graph before running
// the expensive discovery/propagation passes.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	SourceCount  int
	ForkCount    int
	JoinCount    int
	LayerCount   int
	WidestLayer  int // size of the largest iteration set
}

// Stats computes a Stats snapshot from already-built Indices.
func (idx *Indices) Stats() Stats {
	widest := 0
	for _, layerNodes := range idx.IterationSets {
		if len(layerNodes) > widest {
			widest = len(layerNodes)
		}
	}

	return Stats{
		NodeCount:   len(idx.Nodes),
		EdgeCount:   len(idx.Edges),
		SourceCount: len(idx.Sources),
		ForkCount:   len(idx.Forks),
		JoinCount:   len(idx.Joins),
		LayerCount:  len(idx.IterationSets),
		WidestLayer: widest,
	}
}
