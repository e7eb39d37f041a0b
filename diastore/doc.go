// Package diastore implements the Unique Diamond Storage Builder (section
// 4.4): starting from a set of root diamonds, it recursively discovers
// every nested diamond inside each diamond's induced sub-DAG, deduplicates
// by structural hash, and materialises a DiamondComputationData entry per
// unique diamond ready for belief propagation (package propagate).
//
// Build runs a strictly sequential, single-threaded LIFO expansion.
// BuildParallel runs the bulk-synchronous variant of section 5: iteration
// levels act as barriers, and within a level each root diamond expands on
// its own worker using thread-local state, merging into shared storage
// under lock as soon as that worker finishes.
package diastore
