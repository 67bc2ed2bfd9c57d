// Package event provides the pub-sub bus that connects eisen's stores to
// everything that reacts to them: the persistence writer, the derived matrix
// view and the TUI.
//
// Stores never call their consumers directly. A mutation publishes one
// change event carrying the new immutable snapshot; subscribers decide what
// to do with it.
//
// # Main Types
//
//   - [Event]: Interface that all events implement
//   - [Base]: Embeddable helper for event types declared in other packages
//   - [Bus]: Synchronous pub-sub dispatcher with panic isolation
//
// # Event Types
//
// Store change events are declared next to their stores (task.ChangedEvent,
// task.SelectionChangedEvent, category.ChangedEvent). Persistence outcome
// events are declared here:
//   - [WriteCompletedEvent]: a debounced write reached the backend
//   - [WriteFailedEvent]: a debounced write was dropped
//
// # Usage
//
//	bus := event.NewBus()
//	id := bus.Subscribe(event.TypeWriteFailed, func(e event.Event) {
//	    failed := e.(event.WriteFailedEvent)
//	    log.Printf("could not save %s: %s", failed.Key, failed.Err)
//	})
//	defer bus.Unsubscribe(id)
//
// # Thread Safety
//
// [Bus] is safe for concurrent use. Handlers run synchronously on the
// publishing goroutine; the debounce writer publishes from timer goroutines,
// so handlers that touch shared state must synchronize.
package event
