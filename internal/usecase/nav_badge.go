package usecase

import (
	"sync"

	"secondhand/internal/state/unread"
)

// NavBadge keeps the chat tab badge in step with the unread store.
type NavBadge struct {
	mu          sync.Mutex
	label       string
	shown       bool
	unsubscribe func()
}

func NewNavBadge(store *unread.Store) *NavBadge {
	b := &NavBadge{}
	b.unsubscribe = store.Subscribe(b.render)
	b.render(store.Value())
	return b
}

func (b *NavBadge) render(n int) {
	label, shown := unread.BadgeLabel(n)
	b.mu.Lock()
	b.label, b.shown = label, shown
	b.mu.Unlock()
}

func (b *NavBadge) Label() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label, b.shown
}

func (b *NavBadge) Close() {
	b.unsubscribe()
}
