// Package propagate implements the Conditioned Belief Propagator (section
// 4.5): an exact inference pass over a DAG's topological layers that
// conditions on each diamond's conditioning nodes to avoid the
// double-counting naive belief propagation would introduce on non-polytree
// graphs.
//
// Propagate walks graph_indices.IterationSets in ascending layer order. A
// source node takes its prior directly; a regular node combines its
// parents' arrivals as independent Bernoulli events; a join node with a
// stored diamond (package diastore's DiamondComputationData) instead
// enumerates every assignment of its conditioning nodes, recurses into the
// diamond's own sub-DAG for each assignment, and folds the 2^k conditional
// beliefs back into a single diamond-contribution before combining it with
// any non-diamond parents.
package propagate
