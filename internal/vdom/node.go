// Package vdom is the minimal virtual node model the designer renders into.
//
// Widgets produce trees of *Node. Keys identify nodes across render passes
// and are what the host measures. Events are dispatched to a keyed node and
// bubble to its ancestors until a handler stops propagation.
package vdom

import (
	"strings"
)

// EventHandler handles a dispatched event.
type EventHandler func(e *Event)

// Node is an element or, when Tag is empty, a text node.
type Node struct {
	Tag      string
	Key      string
	Text     string
	Attrs    map[string]string
	Styles   map[string]string
	Classes  []string
	On       map[string]EventHandler
	Children []*Node
}

// Element creates an element node.
func Element(tag, key string, children ...*Node) *Node {
	return &Node{Tag: tag, Key: key, Children: children}
}

// Text creates a text node.
func Text(text string) *Node {
	return &Node{Text: text}
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.Tag == ""
}

// SetAttr sets an attribute and returns n.
func (n *Node) SetAttr(name, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = value
	return n
}

// SetStyle sets an inline style property and returns n.
func (n *Node) SetStyle(name, value string) *Node {
	if n.Styles == nil {
		n.Styles = make(map[string]string)
	}
	n.Styles[name] = value
	return n
}

// AddClass appends a class and returns n.
func (n *Node) AddClass(class string) *Node {
	n.Classes = append(n.Classes, class)
	return n
}

// Handle binds handler to the event type, replacing any previous handler,
// and returns n.
func (n *Node) Handle(eventType string, handler EventHandler) *Node {
	if n.On == nil {
		n.On = make(map[string]EventHandler)
	}
	n.On[eventType] = handler
	return n
}

// Append adds children and returns n.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// IsFormControl reports whether n is a native form control whose textual
// content lives in its value.
func (n *Node) IsFormControl() bool {
	switch strings.ToLower(n.Tag) {
	case "input", "textarea", "select":
		return true
	}
	return false
}

// TextContent concatenates the text of n and its descendants.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var b strings.Builder
	for _, child := range n.Children {
		b.WriteString(child.TextContent())
	}
	return b.String()
}

// Find returns the first node with the given key, depth first.
func Find(roots []*Node, key string) *Node {
	path := PathTo(roots, key)
	if len(path) == 0 {
		return nil
	}
	return path[len(path)-1]
}

// PathTo returns the chain from a root down to the node with the given key.
func PathTo(roots []*Node, key string) []*Node {
	if key == "" {
		return nil
	}
	for _, root := range roots {
		if root == nil {
			continue
		}
		if root.Key == key {
			return []*Node{root}
		}
		if sub := PathTo(root.Children, key); sub != nil {
			return append([]*Node{root}, sub...)
		}
	}
	return nil
}
