package routing

import "sync"

// History is an in-memory navigation stack. Subscribers are notified after
// every change, outside the lock, so they may navigate again.
type History struct {
	mu    sync.Mutex
	stack []Location
	subs  map[int]func(Location)
	next  int
}

// NewHistory starts a stack at href.
func NewHistory(href string) *History {
	return &History{
		stack: []Location{ParseHref(href)},
		subs:  make(map[int]func(Location)),
	}
}

// Location returns the top of the stack.
func (h *History) Location() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stack[len(h.stack)-1]
}

// Push navigates forward to href.
func (h *History) Push(href string) {
	h.mu.Lock()
	loc := ParseHref(href)
	h.stack = append(h.stack, loc)
	h.mu.Unlock()
	h.notify(loc)
}

// Replace swaps the current location for href.
func (h *History) Replace(href string) {
	h.mu.Lock()
	loc := ParseHref(href)
	h.stack[len(h.stack)-1] = loc
	h.mu.Unlock()
	h.notify(loc)
}

// Back pops the stack. It returns false when already at the root entry.
func (h *History) Back() bool {
	h.mu.Lock()
	if len(h.stack) == 1 {
		h.mu.Unlock()
		return false
	}
	h.stack = h.stack[:len(h.stack)-1]
	loc := h.stack[len(h.stack)-1]
	h.mu.Unlock()
	h.notify(loc)
	return true
}

// Depth is the number of entries on the stack.
func (h *History) Depth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stack)
}

// Subscribe registers fn for location changes and returns its cancel func.
func (h *History) Subscribe(fn func(Location)) func() {
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

func (h *History) notify(loc Location) {
	h.mu.Lock()
	subs := make([]func(Location), 0, len(h.subs))
	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	h.mu.Unlock()

	for _, fn := range subs {
		fn(loc)
	}
}
