// Package task defines the task record and the listing filter shared by
// every other package.
//
// This package imports nothing internal. The store, persistence adapter,
// projector and controller all build on these types.
//
// Key constraints:
//   - Task.ID is unique across a collection and never changes
//   - Task.CreatedAt is epoch milliseconds, set once at creation
//   - JSON tags match the persisted layout: id, title, completed, createdAt
package task
