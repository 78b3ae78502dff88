// Package types provides the widget model shared by the registry, the
// designable wrapper, the page model and the designer session.
// It holds plain data and contracts only, so every other package can depend
// on it without cycles.
package types

import (
	"github.com/blocklang/designer/internal/tree"
	"github.com/blocklang/designer/internal/vdom"
)

// RootParentID is the parent id of widgets placed directly on the page.
const RootParentID = tree.RootParentID

// ValueType is the declared type of a widget property value.
type ValueType string

const (
	ValueTypeString   ValueType = "string"
	ValueTypeInt      ValueType = "int"
	ValueTypeFloat    ValueType = "float"
	ValueTypeDate     ValueType = "date"
	ValueTypeBoolean  ValueType = "boolean"
	ValueTypeFunction ValueType = "function"
	ValueTypeObject   ValueType = "object"
	ValueTypeArray    ValueType = "array"
)

// WidgetProperty is a property declared by a widget definition.
type WidgetProperty struct {
	Code         string    `json:"code" yaml:"code"`
	Name         string    `json:"name" yaml:"name"`
	ValueType    ValueType `json:"valueType" yaml:"valueType"`
	DefaultValue string    `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

// Widget is the immutable definition of a widget offered by a component
// package.
type Widget struct {
	WidgetID       int              `json:"widgetId" yaml:"widgetId"`
	WidgetName     string           `json:"widgetName" yaml:"widgetName"`
	WidgetCode     string           `json:"widgetCode" yaml:"widgetCode"`
	CanHasChildren bool             `json:"canHasChildren" yaml:"canHasChildren"`
	APIRepoID      int              `json:"apiRepoId" yaml:"apiRepoId"`
	Properties     []WidgetProperty `json:"properties" yaml:"properties"`
}

// AttachedWidgetProperty is a property of a widget placed on a page. ID is
// the page-local property instance id.
type AttachedWidgetProperty struct {
	ID           string    `json:"id" yaml:"id"`
	Code         string    `json:"code" yaml:"code"`
	Name         string    `json:"name" yaml:"name"`
	ValueType    ValueType `json:"valueType" yaml:"valueType"`
	DefaultValue string    `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Value        string    `json:"value,omitempty" yaml:"value,omitempty"`
	IsExpr       bool      `json:"isExpr" yaml:"isExpr"`
}

// EffectiveValue returns Value, falling back to DefaultValue.
func (p AttachedWidgetProperty) EffectiveValue() string {
	if p.Value != "" {
		return p.Value
	}
	return p.DefaultValue
}

// AttachedWidget is a widget instance placed on a page. ID is the page-local
// instance id, distinct from the definition's WidgetID.
type AttachedWidget struct {
	ID             string                   `json:"id" yaml:"id"`
	ParentID       string                   `json:"parentId" yaml:"parentId"`
	WidgetID       int                      `json:"widgetId" yaml:"widgetId"`
	WidgetName     string                   `json:"widgetName" yaml:"widgetName"`
	WidgetCode     string                   `json:"widgetCode" yaml:"widgetCode"`
	CanHasChildren bool                     `json:"canHasChildren" yaml:"canHasChildren"`
	APIRepoID      int                      `json:"apiRepoId" yaml:"apiRepoId"`
	Properties     []AttachedWidgetProperty `json:"properties" yaml:"properties"`
}

// NodeID implements tree.Node.
func (w AttachedWidget) NodeID() string { return w.ID }

// NodeParentID implements tree.Node.
func (w AttachedWidget) NodeParentID() string { return w.ParentID }

// IsRoot reports whether the widget sits directly on the page.
func (w *AttachedWidget) IsRoot() bool {
	return w.ParentID == RootParentID
}

// PropertyIndex returns the index of the property with the given name, or -1.
func (w *AttachedWidget) PropertyIndex(name string) int {
	for i, p := range w.Properties {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// PropertyValue returns the effective value of the property with the given
// code.
func (w *AttachedWidget) PropertyValue(code string) (string, bool) {
	for _, p := range w.Properties {
		if p.Code == code {
			return p.EffectiveValue(), true
		}
	}
	return "", false
}

// Dimensions is the measured bounding box of a rendered node.
type Dimensions struct {
	OffsetTop  float64 `json:"offsetTop"`
	OffsetLeft float64 `json:"offsetLeft"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

// IsZero reports whether nothing was measured.
func (d Dimensions) IsZero() bool {
	return d == Dimensions{}
}

// HighlightPayload is sent when the pointer enters a widget.
type HighlightPayload struct {
	ID         string     `json:"id"`
	Dimensions Dimensions `json:"dimensions"`
}

// PropertyChange is a direct in-place edit of a widget property. Index
// locates the property in the widget's property list. IsChanging marks a
// trial value that is not committed yet.
type PropertyChange struct {
	Index      int    `json:"index"`
	NewValue   string `json:"newValue"`
	IsChanging bool   `json:"isChanging"`
	IsExpr     bool   `json:"isExpr"`
}

// ExtendProperties is the capability set a designer host injects into a
// wrapped widget. AutoFocus and OnPropertyChanged are optional; missing
// callbacks are no-ops.
type ExtendProperties struct {
	OnFocusing        func(id string)
	OnFocused         func(dimensions Dimensions)
	OnHighlight       func(payload HighlightPayload)
	OnUnhighlight     func()
	AutoFocus         func(id string) bool
	OnPropertyChanged func(change PropertyChange)
}

// Renderable is a widget implementation. Render receives the attached widget
// and its already rendered children.
type Renderable interface {
	Render(widget *AttachedWidget, children []*vdom.Node) []*vdom.Node
}

// RenderFunc adapts a function to Renderable.
type RenderFunc func(widget *AttachedWidget, children []*vdom.Node) []*vdom.Node

// Render implements Renderable.
func (f RenderFunc) Render(widget *AttachedWidget, children []*vdom.Node) []*vdom.Node {
	return f(widget, children)
}

// WidgetFactory creates a fresh widget implementation.
type WidgetFactory func() Renderable

// PropertyLayout describes one entry of a widget's property panel.
type PropertyLayout struct {
	PropertyName string           `json:"propertyName" yaml:"propertyName"`
	Label        string           `json:"label" yaml:"label"`
	Editor       string           `json:"editor" yaml:"editor"`
	Options      []string         `json:"options,omitempty" yaml:"options,omitempty"`
	Children     []PropertyLayout `json:"children,omitempty" yaml:"children,omitempty"`
}
