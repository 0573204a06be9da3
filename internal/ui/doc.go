// Package ui implements interactive terminal views using bubbletea's Elm architecture.
//
// Three workflows are provided:
//  1. [SelectCollection] : Browse and pick a source playlist
//  2. [ReviewFuzzyMatches] : Accept or reject uncertain track matches
//  3. [ReviewOrphans] : Choose destination tracks to remove during cleanup
//
// The review views share a multi-select model: space toggles the current row,
// a/n select all or none, enter confirms and esc aborts the run. Keyboard
// navigation uses vim-style bindings (j/k) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
