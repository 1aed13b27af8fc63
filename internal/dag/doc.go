// Package dag models the dependency graph between deployable units and
// derives the deterministic wave layering the planner uses to assign
// prepare/execute order numbers. Planning is single-threaded, so the graph
// carries no locking; it is built once per session and then only read.
package dag
