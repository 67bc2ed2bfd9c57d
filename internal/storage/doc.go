// Package storage is eisen's persistence adapter: a small key-value
// [Backend] abstraction, a fault-tolerant [Read] for loading state at
// startup, and a debounced [Writer] that coalesces bursts of store changes
// into one write per key.
//
// Persistence is best-effort. Nothing in this package returns an error to
// the code path that mutated a store: decode failures fall back to a
// caller-supplied default, and write failures are logged and published as
// [event.WriteFailedEvent] on the bus.
//
// # Backends
//
//   - [FileBackend]: one JSON file per key, atomic rename under flock(2)
//   - [SQLiteBackend]: a single kv table in an SQLite database
//   - [MemoryBackend]: in-process map, used by tests and ephemeral sessions
//
// # Usage
//
//	backend, err := storage.Open("file", dataDir)
//	tasks := storage.Read(ctx, backend, storage.KeyTasks, []task.Task{}, logger)
//
//	w := storage.NewWriter(backend, storage.WithBus(bus), storage.WithLogger(logger))
//	defer w.Close(ctx)
//	w.Schedule(storage.KeyTasks, snapshot, 300*time.Millisecond)
package storage
