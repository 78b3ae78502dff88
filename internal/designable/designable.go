// Package designable augments ordinary widgets with designer behavior.
//
// Wrap decorates a base widget with pointer driven focus and highlight
// notifications, on-demand measurement of its primary output node, an
// optional transparent overlay for widgets whose native events would fight
// the designer, and optional in-place editing of one declared property. The
// base widget's rendering logic stays unaware of the designer.
//
// One render pass runs three steps: a pre-render step resolving the editable
// property index, delegation to the base widget, and a post-render step
// binding handlers to the output. Measurement for auto focus happens in
// AfterCommit, which the host calls once the pass has been committed to
// layout.
package designable

import (
	"context"
	"strconv"

	derrors "github.com/blocklang/designer/internal/errors"
	"github.com/blocklang/designer/internal/logging"
	"github.com/blocklang/designer/internal/middleware"
	"github.com/blocklang/designer/internal/types"
	"github.com/blocklang/designer/internal/vdom"
)

// EditableProperty is implemented by widgets that allow one of their
// properties to be edited in place.
type EditableProperty interface {
	EditablePropertyName() string
}

// OverlayRequirer is implemented by widgets that need designer events to be
// captured by an overlay instead of their own output, typically native form
// controls.
type OverlayRequirer interface {
	NeedsOverlay() bool
}

// OverlayClass is the class carried by every overlay node.
const OverlayClass = "designer-overlay"

const measurementKeyPrefix = "designable/dimensions/"

// Option configures a Designable.
type Option func(*Designable)

// WithLogger sets the logger misuse warnings go to.
func WithLogger(logger logging.Logger) Option {
	return func(d *Designable) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Designable is a widget wrapped with designer capabilities.
type Designable struct {
	base   types.Renderable
	widget *types.AttachedWidget
	ext    types.ExtendProperties
	host   middleware.Host
	logger logging.Logger

	measuredKey           string
	editablePropertyIndex int
	overlay               bool
	local                 types.Dimensions
}

// Wrap decorates base. The attached widget supplies the instance id and the
// property list; ext carries the host callbacks, any of which may be nil.
func Wrap(
	base types.Renderable,
	widget *types.AttachedWidget,
	ext types.ExtendProperties,
	host middleware.Host,
	opts ...Option,
) *Designable {
	d := &Designable{
		base:                  base,
		widget:                widget,
		ext:                   ext,
		host:                  host,
		logger:                logging.Nop(),
		editablePropertyIndex: -1,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithComponent("designable")

	return d
}

// Widget returns the attached widget
func (d *Designable) Widget() *types.AttachedWidget {
	return d.widget
}

// Base returns the wrapped widget
func (d *Designable) Base() types.Renderable {
	return d.base
}

// MeasuredKey returns the key of the primary output node recorded by the
// last render, or "" before the first render.
func (d *Designable) MeasuredKey() string {
	return d.measuredKey
}

// EditablePropertyIndex returns the resolved index of the editable property,
// or -1.
func (d *Designable) EditablePropertyIndex() int {
	return d.editablePropertyIndex
}

// Render runs one render pass over the already rendered children.
func (d *Designable) Render(children []*vdom.Node) []*vdom.Node {
	d.beforeRender()
	nodes := d.base.Render(d.widget, children)
	return d.afterRender(nodes)
}

func (d *Designable) beforeRender() {
	d.editablePropertyIndex = -1
	if editable, ok := d.base.(EditableProperty); ok {
		if name := editable.EditablePropertyName(); name != "" {
			d.editablePropertyIndex = d.widget.PropertyIndex(name)
		}
	}

	d.overlay = false
	if requirer, ok := d.base.(OverlayRequirer); ok {
		d.overlay = requirer.NeedsOverlay()
	}
}

func (d *Designable) afterRender(nodes []*vdom.Node) []*vdom.Node {
	primary := firstElement(nodes)
	if primary == nil {
		d.measuredKey = ""
		return nodes
	}

	if primary.Key == "" {
		primary.Key = d.widget.ID
	}
	d.measuredKey = primary.Key

	if d.overlay {
		nodes = append(nodes, d.renderOverlay())
	} else {
		d.bindPointerHandlers(primary)
	}

	if d.editablePropertyIndex >= 0 && d.ext.OnPropertyChanged != nil {
		primary.Handle(vdom.EventInput, d.onInput)
	}

	return nodes
}

func firstElement(nodes []*vdom.Node) *vdom.Node {
	for _, node := range nodes {
		if node != nil && !node.IsText() {
			return node
		}
	}
	return nil
}

func (d *Designable) renderOverlay() *vdom.Node {
	dimensions := d.LastMeasurement()

	overlay := vdom.Element("div", OverlayKey(d.widget.ID)).
		AddClass(OverlayClass).
		SetStyle("position", "absolute").
		SetStyle("top", px(dimensions.OffsetTop)).
		SetStyle("left", px(dimensions.OffsetLeft)).
		SetStyle("width", px(dimensions.Width)).
		SetStyle("height", px(dimensions.Height))
	d.bindPointerHandlers(overlay)

	return overlay
}

// OverlayKey returns the key of the overlay node rendered for a widget.
func OverlayKey(widgetID string) string {
	return widgetID + "-overlay"
}

func (d *Designable) bindPointerHandlers(node *vdom.Node) {
	node.Handle(vdom.EventMouseUp, d.onMouseUp).
		Handle(vdom.EventMouseOver, d.onMouseOver).
		Handle(vdom.EventMouseOut, d.onMouseOut)
}

func (d *Designable) onMouseUp(e *vdom.Event) {
	e.StopPropagation()
	if d.ext.OnFocusing != nil {
		d.ext.OnFocusing(d.widget.ID)
	}
}

func (d *Designable) onMouseOver(e *vdom.Event) {
	e.StopPropagation()
	dimensions := d.Measure()
	d.storeMeasurement(dimensions)
	if d.ext.OnHighlight != nil {
		d.ext.OnHighlight(types.HighlightPayload{ID: d.widget.ID, Dimensions: dimensions})
	}
}

// Nested widgets never clear the highlight themselves; only a page root
// does, so bubbling out of a child cannot drop the ancestor's highlight.
func (d *Designable) onMouseOut(e *vdom.Event) {
	e.StopPropagation()
	if !d.widget.IsRoot() {
		return
	}
	if d.ext.OnUnhighlight != nil {
		d.ext.OnUnhighlight()
	}
}

func (d *Designable) onInput(e *vdom.Event) {
	if d.editablePropertyIndex < 0 || d.ext.OnPropertyChanged == nil {
		return
	}
	d.ext.OnPropertyChanged(types.PropertyChange{
		Index:      d.editablePropertyIndex,
		NewValue:   e.TargetText(),
		IsChanging: false,
		IsExpr:     false,
	})
}

// AfterCommit runs once the render pass is committed to layout. It refreshes
// the overlay measurement, invalidating the host when it moved, and reports
// the focused dimensions when the host asks for auto focus.
func (d *Designable) AfterCommit() {
	if d.measuredKey == "" {
		return
	}

	if d.overlay {
		if dimensions := d.Measure(); dimensions != d.LastMeasurement() {
			d.storeMeasurement(dimensions)
			if d.host.Invalidate != nil {
				d.host.Invalidate()
			}
		}
	}

	if d.ext.AutoFocus == nil || !d.ext.AutoFocus(d.widget.ID) {
		return
	}
	dimensions, laidOut := d.committedMeasurement()
	if !laidOut {
		// the host asks again once a layout for the key is reported
		d.logger.Debug(context.Background(), "Focus measurement waits for layout",
			"widget_id", d.widget.ID,
			"key", d.measuredKey,
		)
		return
	}
	if d.ext.OnFocused != nil {
		d.ext.OnFocused(dimensions)
	}
}

// committedMeasurement measures the primary node, reporting false while a
// layout source has no layout for its key.
func (d *Designable) committedMeasurement() (types.Dimensions, bool) {
	if source, ok := d.host.Dimensions.(middleware.LayoutSource); ok {
		return source.Lookup(d.measuredKey)
	}
	return d.Measure(), true
}

// Measure returns the current dimensions of the primary output node. Before
// a key is known it logs a misuse warning and returns zero dimensions.
func (d *Designable) Measure() types.Dimensions {
	if d.measuredKey == "" {
		d.logger.Warn(context.Background(),
			derrors.NewValidationError(derrors.ErrCodeValidationFailed, "measured key is not set"),
			"Measuring a widget before it has rendered",
			"error_type", "misuse",
			"widget_id", d.widget.ID,
		)
		return types.Dimensions{}
	}
	if d.host.Dimensions == nil {
		return types.Dimensions{}
	}
	return d.host.Dimensions.Get(d.measuredKey)
}

// LastMeasurement returns the most recent measurement stored for the widget
// instance.
func (d *Designable) LastMeasurement() types.Dimensions {
	if d.host.Cache == nil {
		return d.local
	}
	value := d.host.Cache.GetOrSet(measurementKeyPrefix+d.widget.ID, func() interface{} {
		return types.Dimensions{}
	})
	dimensions, _ := value.(types.Dimensions)
	return dimensions
}

func (d *Designable) storeMeasurement(dimensions types.Dimensions) {
	d.local = dimensions
	if d.host.Cache != nil {
		d.host.Cache.Set(measurementKeyPrefix+d.widget.ID, dimensions)
	}
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}
