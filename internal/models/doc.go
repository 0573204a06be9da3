// Package models defines the domain value types shared by every layer of the
// reconciliation engine.
//
//   - [Track] : song metadata read from a provider collection listing
//   - [SearchCandidate] : a provider search hit for one query
//   - [Collection] : a named ordered track list (playlist or favorites)
//
// All three are plain immutable values. Nothing in this package performs I/O
// and nothing here outlives a single sync run; persistence of run summaries
// lives in the repositories package.
package models
