// Package tasks implements playlist reconciliation between music services.
//
// The core abstraction is SyncEngine, which computes the delta between a
// source and destination collection, searches the destination service for
// the missing tracks, and applies the additions (and optional removals and
// favoriting) in batches. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks
