package session

import "sync"

// StateNotifier fans auth-state transitions out to registered handlers.
// Backend implementations embed it to satisfy AuthBackend.OnAuthStateChange.
// The zero value is ready to use.
type StateNotifier struct {
	mu          sync.Mutex
	handlers    map[int]func(*Identity)
	nextHandler int
}

// OnAuthStateChange registers a handler and returns its unsubscribe function.
func (n *StateNotifier) OnAuthStateChange(handler func(*Identity)) (unsubscribe func()) {
	n.mu.Lock()
	if n.handlers == nil {
		n.handlers = make(map[int]func(*Identity))
	}
	id := n.nextHandler
	n.nextHandler++
	n.handlers[id] = handler
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.handlers, id)
		n.mu.Unlock()
	}
}

// Emit invokes every registered handler with the new identity. Handlers run
// outside the notifier lock with no ordering guarantee between them.
func (n *StateNotifier) Emit(identity *Identity) {
	n.mu.Lock()
	handlers := make([]func(*Identity), 0, len(n.handlers))
	for _, h := range n.handlers {
		handlers = append(handlers, h)
	}
	n.mu.Unlock()

	for _, h := range handlers {
		h(identity)
	}
}
