package vdom

// Pointer and input event types used by the designer.
const (
	EventMouseUp   = "mouseup"
	EventMouseOver = "mouseover"
	EventMouseOut  = "mouseout"
	EventInput     = "input"
)

// Event is a dispatched UI event. Value carries a form control's value and
// Text the text content reported by the host for contenteditable nodes.
type Event struct {
	Type          string
	Target        *Node
	CurrentTarget *Node
	Value         string
	Text          string

	stopped bool
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Stopped reports whether propagation was stopped.
func (e *Event) Stopped() bool {
	return e.stopped
}

// TargetText returns the textual content of the target: the value of a form
// control, otherwise the reported text falling back to the node's own text.
func (e *Event) TargetText() string {
	if e.Target != nil && e.Target.IsFormControl() {
		return e.Value
	}
	if e.Text != "" || e.Target == nil {
		return e.Text
	}
	return e.Target.TextContent()
}

// Dispatch delivers e to the node with the given key and bubbles it through
// the node's ancestors. It reports whether the target was found.
func Dispatch(roots []*Node, key string, e *Event) bool {
	path := PathTo(roots, key)
	if len(path) == 0 {
		return false
	}

	e.Target = path[len(path)-1]
	for i := len(path) - 1; i >= 0; i-- {
		node := path[i]
		handler, ok := node.On[e.Type]
		if !ok {
			continue
		}
		e.CurrentTarget = node
		handler(e)
		if e.stopped {
			break
		}
	}

	return true
}
