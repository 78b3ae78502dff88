package instancemap

import (
	"sort"
	"sync"

	derrors "github.com/blocklang/designer/internal/errors"
	"github.com/blocklang/designer/internal/registry"
)

// Bridge caches one instance map per repository locator key.
type Bridge struct {
	mu            sync.Mutex
	maps          map[string]Map
	subscriptions []func()
}

// NewBridge creates an empty bridge
func NewBridge() *Bridge {
	return &Bridge{
		maps: make(map[string]Map),
	}
}

// Cache stores m under the locator key. It fails with a duplicate
// registration error when the key already has a map.
func (b *Bridge) Cache(locator registry.Keyer, m Map) error {
	key := locator.Key()

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.maps[key]; exists {
		return derrors.ErrDuplicateRegistration("instance map bridge", key)
	}
	b.maps[key] = m
	return nil
}

// Lookup returns the map cached under the locator key
func (b *Bridge) Lookup(locator registry.Keyer) (Map, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	m, ok := b.maps[locator.Key()]
	return m, ok
}

// Keys returns the cached locator keys in sorted order
func (b *Bridge) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	keys := make([]string, 0, len(b.maps))
	for key := range b.maps {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Watch mirrors every later write on every currently cached map into host.
// Maps cached after Watch are not mirrored; callers populate the bridge
// first. Watching again replaces the previous host.
func (b *Bridge) Watch(host Writer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.unsubscribeAll()
	for _, key := range b.sortedKeys() {
		b.subscriptions = append(b.subscriptions, b.maps[key].Subscribe(func(k, v interface{}) {
			host.Set(k, v)
		}))
	}
}

// ClearAll stops mirroring and drops every cached map.
func (b *Bridge) ClearAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.unsubscribeAll()
	b.maps = make(map[string]Map)
}

// unsubscribeAll must be called with the mutex held
func (b *Bridge) unsubscribeAll() {
	for _, cancel := range b.subscriptions {
		cancel()
	}
	b.subscriptions = nil
}

// sortedKeys must be called with the mutex held
func (b *Bridge) sortedKeys() []string {
	keys := make([]string, 0, len(b.maps))
	for key := range b.maps {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
