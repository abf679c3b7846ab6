// Package index implements the priority ordering of one status bucket.
//
// A PriorityIndex is persisted by the tracker as a status/<status>.index
// file, one feature name per line, highest priority first.
package index
