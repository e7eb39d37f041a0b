// Package graphidx builds the immutable derived indices of a directed
// acyclic graph: adjacency, sources, forks, joins, ancestor/descendant
// closures, and a Kahn-style topological layering (iteration sets).
//
// Node identifiers are plain non-negative integers (NodeID); edges are
// ordered (From, To) pairs. Indices, once built, is read-only: there are no
// mutation methods, so callers never need to guard it with a lock (unlike
// lvlath/core's Graph, which supports online mutation and therefore needs
// sync.RWMutex). Build is the single entry point and runs once per graph.
package graphidx
