// Package view derives what to display from the task collection.
//
// Everything here is a pure function of its inputs: no persistence access,
// no hidden state, and identical output for identical input.
//
// # Projection
//
// Project selects the tasks matching a filter, in collection order, and
// computes the summary values a listing shows alongside them:
//
//   - Remaining: number of incomplete tasks in the whole collection
//   - AnyCompleted: whether a bulk clear would remove anything
//
// # Reconciliation
//
// Diff compares the listing currently on display with a freshly projected
// one and returns the keyed changes (remove, insert, move, update) that
// turn the first into the second. Apply replays those changes. Renderers
// that keep a persistent display use the pair to update only what changed.
package view
