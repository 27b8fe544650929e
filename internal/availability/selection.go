package availability

import (
	"context"
	"sync"
)

// Tracker guards against stale selections: per session key only the most
// recently started computation may publish its result. Starting a new
// computation cancels the context of the previous one for the same key.
type Tracker struct {
	mu       sync.Mutex
	next     uint64
	sessions map[string]*selection
}

type selection struct {
	generation uint64
	cancel     context.CancelFunc
}

// Ticket identifies one started computation
type Ticket struct {
	key        string
	generation uint64
}

// NewTracker создаёт трекер выбора
func NewTracker() *Tracker {
	return &Tracker{sessions: make(map[string]*selection)}
}

// Begin registers a new computation for key and supersedes the previous one.
// The returned context is canceled when a newer computation begins or on Release.
func (t *Tracker) Begin(ctx context.Context, key string) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()

	sel, ok := t.sessions[key]
	if !ok {
		sel = &selection{}
		t.sessions[key] = sel
	}
	if sel.cancel != nil {
		sel.cancel()
	}
	// сквозной счётчик: после Release номер поколения не повторяется
	t.next++
	sel.generation = t.next
	sel.cancel = cancel

	return ctx, Ticket{key: key, generation: sel.generation}
}

// IsCurrent reports whether ticket still belongs to the latest computation of its key
func (t *Tracker) IsCurrent(ticket Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	sel, ok := t.sessions[ticket.key]
	return ok && sel.generation == ticket.generation
}

// Release finishes a computation. The session entry is dropped only when the
// ticket is still current, so a newer computation keeps its slot.
func (t *Tracker) Release(ticket Ticket) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sel, ok := t.sessions[ticket.key]
	if !ok || sel.generation != ticket.generation {
		return
	}
	sel.cancel()
	delete(t.sessions, ticket.key)
}
