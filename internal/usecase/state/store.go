// Package state holds the single shared selection/filter state of a session.
package state

import (
	"sync"

	domstate "github.com/kailas-cloud/carelens/internal/domain/state"
)

// Observer is called synchronously after every update with the merged snapshot.
// Observers must not call Update.
type Observer func(domstate.Snapshot)

// Store owns the state. Update is the only mutation: it merges a patch and
// notifies every observer before returning. Updates are serialized, so
// observers and readers only ever see fully-merged snapshots.
type Store struct {
	writeMu sync.Mutex // serializes merge + notify

	mu        sync.RWMutex
	current   domstate.Snapshot
	observers map[uint64]Observer
	order     []uint64
	nextID    uint64
}

// New creates a store holding the initial state.
func New() *Store {
	return NewWith(domstate.Initial())
}

// NewWith creates a store holding the given state.
func NewWith(initial domstate.Snapshot) *Store {
	return &Store{
		current:   initial.Clone(),
		observers: make(map[uint64]Observer),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() domstate.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Update merges p into the state, bumps the version and notifies observers
// in subscription order. It returns the merged snapshot.
func (s *Store) Update(p domstate.Patch) domstate.Snapshot {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	next := s.current.Apply(p)
	next.Version = s.current.Version + 1
	s.current = next
	observers := s.observerList()
	s.mu.Unlock()

	for _, o := range observers {
		o(next.Clone())
	}
	return next.Clone()
}

// Subscribe registers an observer and returns a function that removes it.
func (s *Store) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.observers[id] = o
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.observers, id)
		})
	}
}

// Observers returns the number of registered observers.
func (s *Store) Observers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// observerList returns live observers in subscription order and compacts
// the order slice. Caller holds mu.
func (s *Store) observerList() []Observer {
	out := make([]Observer, 0, len(s.observers))
	live := s.order[:0]
	for _, id := range s.order {
		if o, ok := s.observers[id]; ok {
			out = append(out, o)
			live = append(live, id)
		}
	}
	s.order = live
	return out
}
