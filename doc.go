// Package reachrel computes reachability reliability on a directed
// acyclic graph: given per-node prior availability and per-edge
// transmission probabilities, it answers, for every node, the marginal
// probability that the node is reached from the graph's sources.
//
// Naive belief propagation double-counts on graphs that are not
// polytrees, because a diamond — two or more paths from a common fork
// ancestor reconverging at a join — introduces a dependency a simple
// message pass ignores. This engine resolves that by (1) enumerating
// every maximal diamond sub-DAG, (2) conditioning on each diamond's
// highest independent ancestors to decompose the joint distribution into
// a sum of conditional polytree problems, and (3) recombining the
// conditional results via inclusion-exclusion. A Monte-Carlo sampler is
// included for offline validation of the exact result.
//
// The work is split across six subpackages, each independently usable:
//
//	graphidx/   — derives incoming/outgoing adjacency, sources, forks,
//	              joins, ancestor/descendant closures, and topological
//	              iteration layers from a raw node/edge list.
//	value/      — the probability algebra (Scalar, Interval, PBox) every
//	              other package computes over.
//	diamond/    — identifies the diamond rooted at each join node.
//	diastore/   — recursively discovers and uniquely stores every nested
//	              diamond reachable from a set of root diamonds.
//	propagate/  — the conditioned belief propagator: the exact inference
//	              pass that produces the final per-node belief map.
//	montecarlo/ — an independent sampler used to validate propagate's
//	              output empirically.
//
// Run and RunContext wire all five non-validation stages together; they
// contain no algorithmic logic of their own beyond the wiring.
package reachrel
