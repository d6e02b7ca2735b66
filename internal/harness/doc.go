// Package harness runs YAML scenarios against a fully wired task list.
//
// Each scenario drives the real controller, task store, persistence adapter
// and an in-memory SQLite slot, records a trace of what happened, and checks
// assertions against the final state.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	seed: '[{"id":"a","title":"Stored","completed":false,"createdAt":1}]'
//	setup:
//	  - action: add
//	    args: { title: "Buy milk" }
//	flow:
//	  - action: toggle
//	    args: { id: "1", completed: true }
//	    expect: { outcome: applied }
//	  - action: set_filter
//	    args: { filter: archived }
//	    expect: { error: "invalid filter" }
//	assertions:
//	  - type: projection
//	    filter: active
//	    titles: ["Walk dog"]
//	  - type: write_count
//	    count: 3
//
// Seed is written to the slot before the store loads, so scenarios can
// start from stored, possibly corrupt, data. Task ids in args go through
// Controller.Resolve and may be positions, ids or id prefixes.
//
// # Actions
//
//   - add: title
//   - toggle: id, completed
//   - edit: id, title
//   - remove: id
//   - clear_completed
//   - set_filter: filter
//
// A step may set fail_write to make every slot write during that step fail.
//
// # Assertion Types
//
//   - projection: visible titles, in order, under a filter (default: current)
//   - remaining: number of incomplete tasks
//   - any_completed: whether a bulk clear would remove anything
//   - write_count: successful slot writes, setup included
//   - stored: titles decoded from the slot, in order
//   - trace_count: number of times an action was invoked
//
// # Deterministic Testing
//
// Ids come from testutil.SequentialIDs (t-1, t-2, ...) and timestamps from
// testutil.DeterministicClock, so traces are byte-stable and can be compared
// against golden files.
package harness
