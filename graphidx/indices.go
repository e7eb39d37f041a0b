// File: indices.go
// Role: derive the indices of section 4.1 from a raw node/edge list.
//
// Algorithm:
//  1. Validate edges (no self-loops, no duplicates) and union their
//     endpoints with the explicit node list into the final node set.
//  2. Build outgoing/incoming adjacency from the edge list.
//  3. Derive sources (empty incoming), forks (out-degree>1), joins (in-degree>1).
//  4. Layer nodes into iteration sets via Kahn's algorithm: layer 0 is the
//     sources, layer k+1 is every node whose parents all lie in layers <=k.
//     A node that never gains all of its parents indicates a cycle.
//  5. Propagate ancestors/descendants layer by layer (ancestors forward
//     over iteration sets, descendants over the reverse order), unioning
//     each parent's own ancestors plus the parent itself.
package graphidx

import "sort"

// Indices holds every derived structure of section 3/4.1, built once and
// read-only thereafter.
type Indices struct {
	Nodes []NodeID // all nodes, sorted ascending

	Outgoing map[NodeID]NodeSet // Outgoing[n] = children of n
	Incoming map[NodeID]NodeSet // Incoming[n] = parents of n

	Sources NodeSet // nodes with empty Incoming
	Forks   NodeSet // |Outgoing[n]| > 1
	Joins   NodeSet // |Incoming[n]| > 1

	Ancestors   map[NodeID]NodeSet // transitive closure of Incoming
	Descendants map[NodeID]NodeSet // transitive closure of Outgoing

	IterationSets [][]NodeID     // layer k -> sorted node list
	NodeLayer     map[NodeID]int // node -> index into IterationSets

	Edges []Edge // the input edge list, sorted by (From, To); Build rejects duplicates
}

// Build constructs Indices from nodes and edges. nodes may be nil or a
// subset of the edges' endpoints; every edge endpoint is implicitly a node.
// Build returns ErrSelfLoop, ErrDuplicateEdge, or ErrCycle on invalid input.
//
// Complexity: O(V*E) worst case for the ancestor/descendant propagation
// (section 4.1), O(V*L) for the layering (L = number of iteration sets,
// since each layer rescans every node), O(V+E) for everything else.
func Build(nodes []NodeID, edges []Edge) (*Indices, error) {
	nodeSet := NewNodeSet(nodes...)
	seenEdge := make(map[Edge]struct{}, len(edges))
	for _, e := range edges {
		if e.From == e.To {
			return nil, ErrSelfLoop
		}
		if _, dup := seenEdge[e]; dup {
			return nil, ErrDuplicateEdge
		}
		seenEdge[e] = struct{}{}
		nodeSet.Add(e.From)
		nodeSet.Add(e.To)
	}

	idx := &Indices{
		Nodes:       nodeSet.Sorted(),
		Outgoing:    make(map[NodeID]NodeSet, len(nodeSet)),
		Incoming:    make(map[NodeID]NodeSet, len(nodeSet)),
		Ancestors:   make(map[NodeID]NodeSet, len(nodeSet)),
		Descendants: make(map[NodeID]NodeSet, len(nodeSet)),
		NodeLayer:   make(map[NodeID]int, len(nodeSet)),
		Edges:       EdgesSorted(edges),
	}
	for _, n := range idx.Nodes {
		idx.Outgoing[n] = NodeSet{}
		idx.Incoming[n] = NodeSet{}
	}
	for _, e := range idx.Edges {
		idx.Outgoing[e.From].Add(e.To)
		idx.Incoming[e.To].Add(e.From)
	}

	idx.Sources = NodeSet{}
	idx.Forks = NodeSet{}
	idx.Joins = NodeSet{}
	for _, n := range idx.Nodes {
		if len(idx.Incoming[n]) == 0 {
			idx.Sources.Add(n)
		}
		if len(idx.Outgoing[n]) > 1 {
			idx.Forks.Add(n)
		}
		if len(idx.Incoming[n]) > 1 {
			idx.Joins.Add(n)
		}
	}

	layers, err := layer(idx)
	if err != nil {
		return nil, err
	}
	idx.IterationSets = layers
	for k, layerNodes := range layers {
		for _, n := range layerNodes {
			idx.NodeLayer[n] = k
		}
	}

	propagateAncestors(idx)
	propagateDescendants(idx)

	return idx, nil
}

// layer runs Kahn's algorithm: repeatedly extract the set of nodes whose
// parents have all already been assigned a layer. Returns ErrCycle if some
// node never becomes extractable.
func layer(idx *Indices) ([][]NodeID, error) {
	remaining := make(map[NodeID]int, len(idx.Nodes)) // remaining unassigned parent count
	assignedAt := make(map[NodeID]int, len(idx.Nodes))
	for _, n := range idx.Nodes {
		remaining[n] = len(idx.Incoming[n])
	}

	var layers [][]NodeID
	assigned := 0
	for assigned < len(idx.Nodes) {
		var current []NodeID
		for _, n := range idx.Nodes {
			if _, done := assignedAt[n]; done {
				continue
			}
			if remaining[n] == 0 {
				current = append(current, n)
			}
		}
		if len(current) == 0 {
			return nil, ErrCycle
		}
		sort.Slice(current, func(i, j int) bool { return current[i] < current[j] })
		layers = append(layers, current)
		for _, n := range current {
			assignedAt[n] = len(layers) - 1
			for child := range idx.Outgoing[n] {
				remaining[child]--
			}
		}
		assigned += len(current)
	}

	return layers, nil
}

// propagateAncestors fills idx.Ancestors by walking iteration sets in
// ascending order: ancestors[n] = union over parents p of (ancestors[p] u {p}).
func propagateAncestors(idx *Indices) {
	for _, n := range idx.Nodes {
		idx.Ancestors[n] = NodeSet{}
	}
	for _, layerNodes := range idx.IterationSets {
		for _, n := range layerNodes {
			acc := idx.Ancestors[n]
			for p := range idx.Incoming[n] {
				acc.Add(p)
				for a := range idx.Ancestors[p] {
					acc.Add(a)
				}
			}
			idx.Ancestors[n] = acc
		}
	}
}

// propagateDescendants fills idx.Descendants by walking iteration sets in
// descending order: descendants[n] = union over children c of (descendants[c] u {c}).
func propagateDescendants(idx *Indices) {
	for _, n := range idx.Nodes {
		idx.Descendants[n] = NodeSet{}
	}
	for k := len(idx.IterationSets) - 1; k >= 0; k-- {
		for _, n := range idx.IterationSets[k] {
			acc := idx.Descendants[n]
			for c := range idx.Outgoing[n] {
				acc.Add(c)
				for d := range idx.Descendants[c] {
					acc.Add(d)
				}
			}
			idx.Descendants[n] = acc
		}
	}
}

// Parents returns the sorted parent list of n (empty slice if none).
func (idx *Indices) Parents(n NodeID) []NodeID {
	return idx.Incoming[n].Sorted()
}

// Children returns the sorted child list of n (empty slice if none).
func (idx *Indices) Children(n NodeID) []NodeID {
	return idx.Outgoing[n].Sorted()
}

// InducedEdges returns every edge of idx whose endpoints are both in nodes.
func (idx *Indices) InducedEdges(nodes NodeSet) []Edge {
	var out []Edge
	for _, e := range idx.Edges {
		if nodes.Contains(e.From) && nodes.Contains(e.To) {
			out = append(out, e)
		}
	}

	return out
}
