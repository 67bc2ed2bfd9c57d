// Package task defines the Task entity and the reactive Store that owns the
// task collection.
//
// # Store
//
// Store holds an ordered, newest-first slice of tasks. Tasks, Snapshot,
// GetByID and ChangedEvent hand out copies, so editing a returned task
// never reaches the store; only the mutating methods change state. Each
// mutating call publishes exactly one ChangedEvent on the event bus after
// the store's lock is released, including calls that turn out to be
// no-ops (an update for an unknown id, for example).
//
// Lookup misses are not errors: UpdateTask, DeleteTask and ToggleComplete
// silently do nothing when the id is unknown. Callers that need to know
// use GetByID or Resolve first.
//
// # Selection
//
// Selection is the process-wide category filter read by the matrix views.
// An unset Selection means "all categories".
//
// # Persistence
//
// The store knows nothing about storage. The workspace package subscribes
// to ChangedEvent and hands each snapshot to a storage.Writer.
package task
