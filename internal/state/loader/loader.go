// Package loader implements "try remote, degrade to mock" reads with
// last-call-wins ordering per logical resource.
package loader

import (
	"context"
	"fmt"
	"sync"

	"secondhand/internal/observability"
	"secondhand/pkg/logger"
)

// Source describes one load. Normalize must be total: it receives the remote
// payload, the mock payload, or nil when neither is available.
type Source[T any] struct {
	Remote    func(ctx context.Context) (any, error)
	Mock      func() (any, error)
	Normalize func(raw any) T
	// Apply installs the data into the caller's own state. It runs only for
	// the load that is still the latest, while the resource is locked, so a
	// newer load can never be overwritten by an older one. Apply must not call
	// back into the Resource.
	Apply func(data T, usedFallback bool)
}

type Result[T any] struct {
	Data         T
	UsedFallback bool
	// Superseded is set when a newer Load started before this one resolved.
	// Data is then zero and nothing was published.
	Superseded bool
	RemoteErr  error
}

// Snapshot is the published state of a resource. Version grows with every
// change; subscribers may observe snapshots out of order and should keep the
// highest version.
type Snapshot[T any] struct {
	Data         T
	Loading      bool
	Loaded       bool
	UsedFallback bool
	Version      uint64
}

type Resource[T any] struct {
	name string

	mu      sync.Mutex
	gen     uint64
	snap    Snapshot[T]
	subs    map[int]func(Snapshot[T])
	nextSub int
}

func NewResource[T any](name string) *Resource[T] {
	return &Resource[T]{
		name: name,
		subs: make(map[int]func(Snapshot[T])),
	}
}

func (r *Resource[T]) Name() string {
	return r.name
}

// Loading reports whether the most recent Load is still in flight.
func (r *Resource[T]) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap.Loading
}

func (r *Resource[T]) Snapshot() Snapshot[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// Subscribe registers fn for every published change and returns a function
// that removes it.
func (r *Resource[T]) Subscribe(fn func(Snapshot[T])) func() {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, id)
			r.mu.Unlock()
		})
	}
}

// Load never returns an error: remote failures fall back to the mock source,
// and a missing or failing mock source yields Normalize(nil).
func (r *Resource[T]) Load(ctx context.Context, src Source[T]) Result[T] {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.snap.Loading = true
	r.snap.Version++
	snap, subs := r.snap, r.subscribers()
	r.mu.Unlock()
	notify(subs, snap)

	res := Result[T]{}
	raw, err := src.Remote(ctx)
	if err == nil {
		res.Data = src.Normalize(raw)
	} else {
		res.RemoteErr = err
		res.UsedFallback = true
		if r.current(gen) {
			logger.Warn("%s: remote load failed, using mock data: %v", r.name, err)
			observability.IncFallback(r.name)
			res.Data = r.fallback(src)
		}
	}

	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		observability.IncSuperseded(r.name)
		logger.Debug("%s: discarding superseded load %d", r.name, gen)
		var zero T
		return Result[T]{Data: zero, UsedFallback: res.UsedFallback, Superseded: true, RemoteErr: res.RemoteErr}
	}
	if src.Apply != nil {
		src.Apply(res.Data, res.UsedFallback)
	}
	r.snap = Snapshot[T]{
		Data:         res.Data,
		Loaded:       true,
		UsedFallback: res.UsedFallback,
		Version:      r.snap.Version + 1,
	}
	snap, subs = r.snap, r.subscribers()
	r.mu.Unlock()
	notify(subs, snap)
	return res
}

func (r *Resource[T]) current(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return gen == r.gen
}

func (r *Resource[T]) fallback(src Source[T]) (data T) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("%s: mock source panicked: %v", r.name, rec)
			data = src.Normalize(nil)
		}
	}()
	if src.Mock == nil {
		return src.Normalize(nil)
	}
	raw, err := src.Mock()
	if err != nil {
		logger.Warn("%s: %v", r.name, fmt.Errorf("mock data unavailable: %w", err))
		return src.Normalize(nil)
	}
	return src.Normalize(raw)
}

func (r *Resource[T]) subscribers() []func(Snapshot[T]) {
	out := make([]func(Snapshot[T]), 0, len(r.subs))
	for _, fn := range r.subs {
		out = append(out, fn)
	}
	return out
}

func notify[T any](subs []func(Snapshot[T]), snap Snapshot[T]) {
	for _, fn := range subs {
		fn(snap)
	}
}
