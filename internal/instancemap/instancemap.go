// Package instancemap unifies the widget instance maps owned by separately
// loaded copies of the rendering runtime.
//
// Every third-party component package may bring its own runtime copy with
// its own instance map. The Bridge caches one map per repository locator and,
// once told to watch a host map, forwards every write performed on a cached
// map into the host map after the write has been applied locally. Forwarding
// is built on an explicit write subscription rather than on replacing the
// map's write method.
package instancemap

import (
	"sort"
	"sync"
)

// WriteListener observes a completed write.
type WriteListener func(key, value interface{})

// Writer accepts writes. Keys must be comparable.
type Writer interface {
	Set(key, value interface{})
}

// Map is an instance map that exposes its writes to subscribers.
type Map interface {
	Writer
	Subscribe(listener WriteListener) (unsubscribe func())
}

// Store is the in-process Map implementation. Values are opaque to this
// package.
type Store struct {
	mu        sync.RWMutex
	data      map[interface{}]interface{}
	listeners map[int]WriteListener
	nextID    int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		data:      make(map[interface{}]interface{}),
		listeners: make(map[int]WriteListener),
	}
}

// Set stores value under key, then notifies subscribers in subscription
// order.
func (s *Store) Set(key, value interface{}) {
	s.mu.Lock()
	s.data[key] = value
	listeners := s.orderedListeners()
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(key, value)
	}
}

// Get returns the value stored under key
func (s *Store) Get(key interface{}) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	return value, ok
}

// Len returns the number of stored entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data)
}

// Subscribe registers a write listener and returns its cancel function.
func (s *Store) Subscribe(listener WriteListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = listener

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
		})
	}
}

// orderedListeners must be called with the mutex held
func (s *Store) orderedListeners() []WriteListener {
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	result := make([]WriteListener, len(ids))
	for i, id := range ids {
		result[i] = s.listeners[id]
	}
	return result
}
