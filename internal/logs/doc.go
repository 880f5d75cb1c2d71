// Package logs reads the reelbuild log file for the `reelbuild logs` command.
//
// Tail returns the last N lines or everything after a byte offset, and Follow
// polls for appended lines until its context is cancelled. Memory stays
// bounded by the requested line count.
package logs
