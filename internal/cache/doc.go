// Package cache persists compiled render functions keyed by a digest of
// the template source and the compile options, so repeated CLI runs over
// unchanged inputs skip the pipeline.
//
// Storage is SQLite with WAL mode. SQLite allows one writer at a time, so
// the pool is pinned to a single connection.
package cache
