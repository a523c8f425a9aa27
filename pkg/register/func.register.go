// Package register collects init-time callbacks keyed by an arbitrary value,
// so packages can hook into a provider's setup without importing each other.
package register

import "sync"

type Handler[T any] func(T)

var (
	mu       sync.Mutex
	handlers = make(map[any][]any)
)

// RegisterFunc queues handler under key. Safe to call from init funcs.
func RegisterFunc[T any](key any, handler Handler[T]) {
	mu.Lock()
	defer mu.Unlock()
	handlers[key] = append(handlers[key], handler)
}

// ResolveFuncHandlers returns the handlers queued under key whose
// argument type matches T. Entries of other types are skipped.
func ResolveFuncHandlers[T any](key any) []Handler[T] {
	mu.Lock()
	defer mu.Unlock()

	var matched []Handler[T]
	for _, raw := range handlers[key] {
		if h, ok := raw.(Handler[T]); ok {
			matched = append(matched, h)
		}
	}
	return matched
}
