package session

import (
	"fmt"
	"time"

	"github.com/blocklang/designer/internal/types"
)

// EventType represents the type of session event
type EventType int

const (
	EventRendered EventType = iota
	EventFocusing
	EventFocused
	EventHighlight
	EventUnhighlight
	EventPropertyChanged
	EventReloaded
)

// String returns the string representation of the EventType
func (e EventType) String() string {
	switch e {
	case EventRendered:
		return "rendered"
	case EventFocusing:
		return "focusing"
	case EventFocused:
		return "focused"
	case EventHighlight:
		return "highlight"
	case EventUnhighlight:
		return "unhighlight"
	case EventPropertyChanged:
		return "property_changed"
	case EventReloaded:
		return "reloaded"
	default:
		return "unknown"
	}
}

// MarshalText lets events serialize their type by name.
func (e EventType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText parses an event type name.
func (e *EventType) UnmarshalText(text []byte) error {
	for t := EventRendered; t <= EventReloaded; t++ {
		if t.String() == string(text) {
			*e = t
			return nil
		}
	}
	return fmt.Errorf("unknown session event type %q", text)
}

// Event is a change of session state
type Event struct {
	Type       EventType             `json:"type"`
	WidgetID   string                `json:"widgetId,omitempty"`
	Dimensions types.Dimensions      `json:"dimensions"`
	Change     *types.PropertyChange `json:"change,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// Watch returns a channel that receives session events
func (s *Session) Watch() <-chan Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, 100)
	s.watchers = append(s.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (s *Session) UnWatch(ch <-chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, watcher := range s.watchers {
		if watcher == ch {
			close(watcher)
			s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
			break
		}
	}
}

// emit must be called with the mutex held
func (s *Session) emit(event Event) {
	event.Timestamp = time.Now()
	for _, watcher := range s.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}
