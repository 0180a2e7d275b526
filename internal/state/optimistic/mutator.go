// Package optimistic applies local changes before the remote call confirms
// them and reconciles afterwards. Mutations on the same key run one at a time.
package optimistic

import (
	"context"
	"sync"

	"secondhand/internal/observability"
	"secondhand/pkg/logger"
)

type Phase int

const (
	Idle Phase = iota
	Pending
	Committed
	Failed
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Change is one optimistic mutation. Apply runs before Commit; exactly one of
// Confirm and Rollback runs afterwards. Nil hooks are skipped.
type Change struct {
	Apply    func()
	Commit   func(ctx context.Context) error
	Confirm  func()
	Rollback func(err error)
}

type TransitionFunc func(key string, from, to Phase)

type Option func(*Mutator)

func WithTransitionHook(fn TransitionFunc) Option {
	return func(m *Mutator) {
		m.onTransition = fn
	}
}

type entry struct {
	slot  chan struct{}
	phase Phase
	refs  int
}

type Mutator struct {
	name         string
	onTransition TransitionFunc

	mu      sync.Mutex
	entries map[string]*entry
}

func New(name string, opts ...Option) *Mutator {
	m := &Mutator{
		name:    name,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Phase reports where the mutation on key currently stands. Entries are
// dropped once no mutation holds or waits for the key, so a settled key
// reports Idle; the transition hook sees the Committed step.
func (m *Mutator) Phase(key string) Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[key]; ok {
		return e.phase
	}
	return Idle
}

// Mutate waits for any in-flight mutation on key, then applies the change and
// commits it. The commit error is returned after Rollback has run; there is
// no retry. If ctx ends while waiting, nothing is applied and ctx.Err() is
// returned.
func (m *Mutator) Mutate(ctx context.Context, key string, ch Change) error {
	e := m.acquire(key)
	select {
	case e.slot <- struct{}{}:
	case <-ctx.Done():
		m.release(key, e, false)
		observability.IncMutation(m.name, "cancelled")
		return ctx.Err()
	}
	defer m.release(key, e, true)

	m.transition(key, e, Pending)
	if ch.Apply != nil {
		ch.Apply()
	}

	var err error
	if ch.Commit != nil {
		err = ch.Commit(ctx)
	}

	if err != nil {
		m.transition(key, e, Failed)
		logger.Warn("%s: mutation on %s failed, rolling back: %v", m.name, key, err)
		if ch.Rollback != nil {
			ch.Rollback(err)
		}
		m.transition(key, e, Idle)
		observability.IncMutation(m.name, "failed")
		return err
	}

	if ch.Confirm != nil {
		ch.Confirm()
	}
	m.transition(key, e, Committed)
	observability.IncMutation(m.name, "committed")
	return nil
}

func (m *Mutator) acquire(key string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{slot: make(chan struct{}, 1)}
		m.entries[key] = e
	}
	e.refs++
	return e
}

func (m *Mutator) release(key string, e *entry, held bool) {
	if held {
		<-e.slot
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
}

func (m *Mutator) transition(key string, e *entry, to Phase) {
	m.mu.Lock()
	from := e.phase
	e.phase = to
	m.mu.Unlock()

	logger.Debug("%s: %s %s -> %s", m.name, key, from, to)
	if m.onTransition != nil {
		m.onTransition(key, from, to)
	}
}
