// Package montecarlo implements the Monte-Carlo Validator (section 4.6):
// an independent trial sampler used offline to check package propagate's
// exact belief computation against empirical frequencies. For N trials it
// independently samples every node's availability and every edge's
// transmission from their priors, derives which nodes are reached from the
// sources under that one realisation, and reports the fraction of trials
// in which each node was reached.
//
// Run is sequential by default. With WithParallel(true) it splits trials
// across workers, each seeded with its own decorrelated RNG stream (see
// rng.go), and folds worker-local counts back into a single result.
package montecarlo
