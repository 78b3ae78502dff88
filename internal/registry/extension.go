// Package registry holds the extension registry: the store through which
// independently built component packages publish widget implementations and
// property panel layouts under their repository locator, and from which the
// designer host resolves them at render time.
//
// A registry is an explicitly constructed object owned by a designer session.
// Registration is first-writer-wins: a second registration under the same
// locator key fails instead of overwriting, so two packages can never corrupt
// each other's widget namespace. Lookups never fail; a miss yields nil or an
// empty slice.
package registry

import (
	"sort"
	"sync"
	"time"

	derrors "github.com/blocklang/designer/internal/errors"
	"github.com/blocklang/designer/internal/types"
)

// WidgetType is the registered implementation of one widget. IdeWidget is an
// optional design-time variant.
type WidgetType struct {
	Widget           types.WidgetFactory
	IdeWidget        types.WidgetFactory
	PropertiesLayout []types.PropertyLayout
}

// WidgetMap maps widget type names, unique within one package, to their
// implementation.
type WidgetMap map[string]WidgetType

// EventType represents the type of registry event
type EventType int

const (
	EventTypeRegistered EventType = iota
	EventTypeCleared
)

// String returns the string representation of the EventType
func (e EventType) String() string {
	switch e {
	case EventTypeRegistered:
		return "registered"
	case EventTypeCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event represents a change in the extension registry
type Event struct {
	Type      EventType
	Key       string
	Widgets   []string
	Timestamp time.Time
}

// ExtensionRegistry maps repository locator keys to widget maps.
type ExtensionRegistry struct {
	packages map[string]WidgetMap
	mutex    sync.RWMutex
	watchers []chan Event
}

// NewExtensionRegistry creates an empty registry
func NewExtensionRegistry() *ExtensionRegistry {
	return &ExtensionRegistry{
		packages: make(map[string]WidgetMap),
		watchers: make([]chan Event, 0),
	}
}

// Register stores widgets under the locator key. It fails with a duplicate
// registration error when the key already holds an entry.
func (r *ExtensionRegistry) Register(locator Keyer, widgets WidgetMap) error {
	key := locator.Key()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.packages[key]; exists {
		return derrors.ErrDuplicateRegistration("extension registry", key)
	}

	stored := make(WidgetMap, len(widgets))
	for name, widget := range widgets {
		stored[name] = widget
	}
	r.packages[key] = stored

	r.notify(Event{
		Type:      EventTypeRegistered,
		Key:       key,
		Widgets:   sortedNames(stored),
		Timestamp: time.Now(),
	})

	return nil
}

func (r *ExtensionRegistry) lookup(locator Keyer, name string) (WidgetType, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	widgets, ok := r.packages[locator.Key()]
	if !ok {
		return WidgetType{}, false
	}
	widget, ok := widgets[name]
	return widget, ok
}

// FindWidgetType returns the preview implementation of the named widget, or
// nil.
func (r *ExtensionRegistry) FindWidgetType(locator Keyer, name string) types.WidgetFactory {
	widget, ok := r.lookup(locator, name)
	if !ok {
		return nil
	}
	return widget.Widget
}

// FindIdeWidgetType returns the design-time implementation of the named
// widget, or nil when the widget or its design-time variant is missing.
func (r *ExtensionRegistry) FindIdeWidgetType(locator Keyer, name string) types.WidgetFactory {
	widget, ok := r.lookup(locator, name)
	if !ok {
		return nil
	}
	return widget.IdeWidget
}

// FindPropertiesLayout returns the property panel layout of the named widget.
// The result is never nil.
func (r *ExtensionRegistry) FindPropertiesLayout(locator Keyer, name string) []types.PropertyLayout {
	widget, ok := r.lookup(locator, name)
	if !ok || widget.PropertiesLayout == nil {
		return []types.PropertyLayout{}
	}
	return widget.PropertiesLayout
}

// Keys returns the registered locator keys in sorted order
func (r *ExtensionRegistry) Keys() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	keys := make([]string, 0, len(r.packages))
	for key := range r.packages {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// WidgetNames returns the widget type names registered under the locator
func (r *ExtensionRegistry) WidgetNames(locator Keyer) []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return sortedNames(r.packages[locator.Key()])
}

// Count returns the number of registered packages
func (r *ExtensionRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.packages)
}

// ClearAll removes every registered package. Calling it on an empty
// registry is a no-op apart from the event.
func (r *ExtensionRegistry) ClearAll() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.packages = make(map[string]WidgetMap)
	r.notify(Event{Type: EventTypeCleared, Timestamp: time.Now()})
}

// Watch returns a channel that receives registry events
func (r *ExtensionRegistry) Watch() <-chan Event {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan Event, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *ExtensionRegistry) UnWatch(ch <-chan Event) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// notify must be called with the mutex held
func (r *ExtensionRegistry) notify(event Event) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}

func sortedNames(widgets WidgetMap) []string {
	names := make([]string, 0, len(widgets))
	for name := range widgets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
