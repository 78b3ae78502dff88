package widgets

import (
	"strings"

	"github.com/blocklang/designer/internal/types"
	"github.com/blocklang/designer/internal/vdom"
	"github.com/spf13/cast"
)

// Page is the root container of a page.
type Page struct{}

// Render implements types.Renderable.
func (Page) Render(w *types.AttachedWidget, children []*vdom.Node) []*vdom.Node {
	node := vdom.Element("div", w.ID, children...).AddClass("page")
	applyStyle(node, w)
	return []*vdom.Node{node}
}

// Container groups child widgets.
type Container struct{}

// Render implements types.Renderable.
func (Container) Render(w *types.AttachedWidget, children []*vdom.Node) []*vdom.Node {
	node := vdom.Element("div", w.ID, children...).AddClass("container")
	applyStyle(node, w)
	return []*vdom.Node{node}
}

// Text renders its value as inline text.
type Text struct{}

// Render implements types.Renderable.
func (Text) Render(w *types.AttachedWidget, _ []*vdom.Node) []*vdom.Node {
	value, _ := w.PropertyValue(CodeValue)
	node := vdom.Element("span", w.ID, vdom.Text(value))
	applyStyle(node, w)
	return []*vdom.Node{node}
}

// IdeText is the design-time Text whose value is edited in place.
type IdeText struct{ Text }

// Render implements types.Renderable.
func (t IdeText) Render(w *types.AttachedWidget, children []*vdom.Node) []*vdom.Node {
	nodes := t.Text.Render(w, children)
	nodes[0].SetAttr("contenteditable", "true")
	return nodes
}

// EditablePropertyName names the property edited in place.
func (IdeText) EditablePropertyName() string { return "value" }

// Button renders a native button.
type Button struct{}

// Render implements types.Renderable.
func (Button) Render(w *types.AttachedWidget, _ []*vdom.Node) []*vdom.Node {
	value, _ := w.PropertyValue(CodeValue)
	node := vdom.Element("button", w.ID, vdom.Text(value)).SetAttr("type", "button")
	if disabled(w) {
		node.SetAttr("disabled", "disabled")
	}
	applyStyle(node, w)
	return []*vdom.Node{node}
}

// IdeButton is the design-time Button whose label is edited in place.
type IdeButton struct{ Button }

// Render implements types.Renderable.
func (b IdeButton) Render(w *types.AttachedWidget, children []*vdom.Node) []*vdom.Node {
	nodes := b.Button.Render(w, children)
	nodes[0].SetAttr("contenteditable", "true")
	return nodes
}

// EditablePropertyName names the property edited in place.
func (IdeButton) EditablePropertyName() string { return "value" }

// TextInput renders a native text input.
type TextInput struct{}

// Render implements types.Renderable.
func (TextInput) Render(w *types.AttachedWidget, _ []*vdom.Node) []*vdom.Node {
	node := vdom.Element("input", w.ID).SetAttr("type", "text")
	if value, _ := w.PropertyValue(CodeValue); value != "" {
		node.SetAttr("value", value)
	}
	if placeholder, _ := w.PropertyValue(CodePlaceholder); placeholder != "" {
		node.SetAttr("placeholder", placeholder)
	}
	if disabled(w) {
		node.SetAttr("disabled", "disabled")
	}
	applyStyle(node, w)
	return []*vdom.Node{node}
}

// IdeTextInput is the design-time TextInput. Its native pointer events are
// covered by an overlay.
type IdeTextInput struct{ TextInput }

// NeedsOverlay reports that designer events go to an overlay.
func (IdeTextInput) NeedsOverlay() bool { return true }

// EditablePropertyName names the property edited in place.
func (IdeTextInput) EditablePropertyName() string { return "value" }

func disabled(w *types.AttachedWidget) bool {
	value, ok := w.PropertyValue(CodeDisabled)
	return ok && cast.ToBool(value)
}

// applyStyle reads the style property as "name: value; name: value".
func applyStyle(node *vdom.Node, w *types.AttachedWidget) {
	style, ok := w.PropertyValue(CodeStyle)
	if !ok || style == "" {
		return
	}
	for _, decl := range strings.Split(style, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name != "" && value != "" {
			node.SetStyle(name, value)
		}
	}
}
