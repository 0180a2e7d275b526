// Package unread holds the session-wide unread chat message total.
//
// Any component may read or subscribe; by convention only the chat list
// use case writes, overwriting the value after each load.
package unread

import (
	"strconv"
	"sync"
)

const badgeCap = 99

type Store struct {
	mu      sync.Mutex
	value   int
	subs    map[int]func(int)
	nextSub int
}

func NewStore() *Store {
	return &Store{subs: make(map[int]func(int))}
}

func (s *Store) Value() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set overwrites the total (negative values become 0) and notifies every
// subscriber, even when the value did not change.
func (s *Store) Set(n int) {
	if n < 0 {
		n = 0
	}
	s.mu.Lock()
	s.value = n
	subs := make([]func(int), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
}

// Subscribe registers fn and returns a function that removes it. fn is not
// called with the current value; read Value for that.
func (s *Store) Subscribe(fn func(int)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// BadgeLabel renders n for the navigation badge. ok is false when no badge
// should be shown.
func BadgeLabel(n int) (label string, ok bool) {
	switch {
	case n <= 0:
		return "", false
	case n > badgeCap:
		return strconv.Itoa(badgeCap) + "+", true
	}
	return strconv.Itoa(n), true
}
