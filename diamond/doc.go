// Package diamond implements the Diamond Identifier (section 4.3): for a
// set of join nodes, it discovers every maximal diamond sub-DAG between a
// set of shared fork ancestors ("conditioning nodes") and the join, via
// two nested fixed-point enlargement loops over candidate sub-DAGs.
//
// The algorithm never mutates graphidx.Indices; it only reads the
// precomputed adjacency and ancestor/descendant closures. Per-invocation
// memoization of set operations lives in an opContext (context.go),
// grounded in lvlath/dfs's pattern of a small struct carrying traversal
// state through a family of unexported helper methods.
package diamond
