// Package session is the designer host. A Session owns the extension
// registry, the instance map bridge, the host cache and the measurer of one
// design session, builds the wrapped widget tree from the page model on every
// render pass and keeps the selection and highlight state the wrapped widgets
// report.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/blocklang/designer/internal/designable"
	"github.com/blocklang/designer/internal/instancemap"
	"github.com/blocklang/designer/internal/logging"
	"github.com/blocklang/designer/internal/middleware"
	"github.com/blocklang/designer/internal/page"
	"github.com/blocklang/designer/internal/pagedata"
	"github.com/blocklang/designer/internal/registry"
	"github.com/blocklang/designer/internal/renderer"
	"github.com/blocklang/designer/internal/types"
	"github.com/blocklang/designer/internal/vdom"
	"github.com/blocklang/designer/internal/widgets"
)

// Mode selects which widget variants a session renders.
type Mode string

const (
	// ModeDesign renders design-time variants wrapped with designer
	// behavior.
	ModeDesign Mode = "design"
	// ModePreview renders the plain widgets.
	ModePreview Mode = "preview"
)

// ParseMode maps a configuration string to a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDesign, ModePreview:
		return Mode(s), nil
	case "":
		return ModeDesign, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// Options configures a Session. Zero values select defaults.
type Options struct {
	Mode       Mode
	CacheSize  int
	Logger     logging.Logger
	Dimensions middleware.Dimensions
	// SkipStdWidgets leaves the bundled component package unregistered.
	SkipStdWidgets bool
}

// Session is one designer session over a page model.
type Session struct {
	mu sync.Mutex

	model      *page.Model
	mode       Mode
	extensions *registry.ExtensionRegistry
	instances  *instancemap.Bridge
	hostMap    *instancemap.Store
	cache      *middleware.Cache
	layout     *middleware.LayoutRecorder
	dimensions middleware.Dimensions
	renderer   *renderer.Renderer
	logger     logging.Logger

	frame        *renderer.Frame
	focusedID    string
	focused      types.Dimensions
	pendingFocus string
	highlight    *types.HighlightPayload
	dirty        bool
	invalidated  bool

	watchers []chan Event
}

// New creates a session over model.
func New(model *page.Model, opts Options) (*Session, error) {
	if model == nil {
		model = &page.Model{}
	}
	if opts.Mode == "" {
		opts.Mode = ModeDesign
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	cache, err := middleware.NewCache(opts.CacheSize)
	if err != nil {
		return nil, err
	}

	s := &Session{
		model:      model,
		mode:       opts.Mode,
		extensions: registry.NewExtensionRegistry(),
		instances:  instancemap.NewBridge(),
		hostMap:    instancemap.NewStore(),
		cache:      cache,
		dimensions: opts.Dimensions,
		logger:     logger.WithComponent("session"),
	}
	s.renderer = renderer.NewRenderer(logger)

	if s.dimensions == nil {
		s.layout = middleware.NewLayoutRecorder()
		s.dimensions = s.layout
	}

	if !opts.SkipStdWidgets {
		if err := s.Install(widgets.Locator, widgets.WidgetMap(), instancemap.NewStore()); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Install registers a component package: its widgets in the extension
// registry and its instance map in the bridge. The host map watches every
// installed package afterwards.
func (s *Session) Install(locator registry.Keyer, widgetMap registry.WidgetMap, instances instancemap.Map) error {
	if err := s.extensions.Register(locator, widgetMap); err != nil {
		return err
	}
	if err := s.instances.Cache(locator, instances); err != nil {
		return err
	}
	s.instances.Watch(s.hostMap)

	s.logger.Info(context.Background(), "Installed component package",
		"repo", locator.Key(),
		"widgets", len(widgetMap),
	)
	return nil
}

// Extensions returns the session's extension registry
func (s *Session) Extensions() *registry.ExtensionRegistry {
	return s.extensions
}

// Instances returns the session's instance map bridge
func (s *Session) Instances() *instancemap.Bridge {
	return s.instances
}

// HostMap returns the host instance map every package map mirrors into
func (s *Session) HostMap() *instancemap.Store {
	return s.hostMap
}

// Mode returns the render mode
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches the render mode and renders again.
func (s *Session) SetMode(ctx context.Context, mode Mode) *renderer.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = mode
	return s.renderLocked(ctx)
}

// Model returns the page model. Callers must not modify it concurrently with
// the session.
func (s *Session) Model() *page.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// ReplaceModel swaps in a reloaded page model, dropping selection state for
// widgets that no longer exist.
func (s *Session) ReplaceModel(ctx context.Context, model *page.Model) *renderer.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.model = model
	if _, ok := model.Widget(s.focusedID); !ok {
		s.focusedID = ""
		s.focused = types.Dimensions{}
	}
	if s.highlight != nil {
		if _, ok := model.Widget(s.highlight.ID); !ok {
			s.highlight = nil
		}
	}
	s.emit(Event{Type: EventReloaded})

	return s.renderLocked(ctx)
}

// Render runs and commits one render pass.
func (s *Session) Render(ctx context.Context) *renderer.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renderLocked(ctx)
}

// Frame returns the last committed frame, rendering one when none exists.
func (s *Session) Frame(ctx context.Context) *renderer.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frame == nil {
		return s.renderLocked(ctx)
	}
	return s.frame
}

// HTML serializes the current frame
func (s *Session) HTML(ctx context.Context) (string, error) {
	return s.Frame(ctx).HTML()
}

// maxPasses bounds the render passes one render request may take when
// committed measurements keep invalidating the output.
const maxPasses = 2

func (s *Session) renderLocked(ctx context.Context) *renderer.Frame {
	host := middleware.Host{
		Dimensions: s.dimensions,
		Cache:      s.cache,
		Invalidate: func() { s.invalidated = true },
	}

	var frame *renderer.Frame
	for pass := 0; pass < maxPasses; pass++ {
		s.invalidated = false
		frame = s.renderer.Render(ctx, s.elements(types.RootParentID, host))
		frame.Commit()
		if !s.invalidated {
			break
		}
	}

	s.frame = frame
	s.dirty = false
	s.emit(Event{Type: EventRendered})
	return frame
}

func (s *Session) elements(parentID string, host middleware.Host) []*renderer.Element {
	children := s.model.Children(parentID)
	elements := make([]*renderer.Element, 0, len(children))
	for _, widget := range children {
		elements = append(elements, &renderer.Element{
			Component: s.component(widget, host),
			Children:  s.elements(widget.ID, host),
		})
	}
	return elements
}

func (s *Session) component(widget *types.AttachedWidget, host middleware.Host) renderer.Component {
	base := s.resolve(widget)

	if s.mode == ModePreview {
		return preview{base: base, widget: widget}
	}
	return designable.Wrap(base, widget, s.extendProperties(widget), host, designable.WithLogger(s.logger))
}

// resolve finds the implementation of the widget, preferring the design-time
// variant in design mode, and records it in its package's instance map.
func (s *Session) resolve(widget *types.AttachedWidget) types.Renderable {
	repo, ok := s.model.Repo(widget.APIRepoID)
	if !ok {
		s.logger.Warn(context.Background(), nil, "Widget references an unknown repo",
			"widget_id", widget.ID,
			"api_repo_id", widget.APIRepoID,
		)
		return unknown{}
	}
	locator := repo.Locator()

	var factory types.WidgetFactory
	if s.mode == ModeDesign {
		factory = s.extensions.FindIdeWidgetType(locator, widget.WidgetName)
	}
	if factory == nil {
		factory = s.extensions.FindWidgetType(locator, widget.WidgetName)
	}
	if factory == nil {
		s.logger.Warn(context.Background(), nil, "Widget type is not registered",
			"widget_id", widget.ID,
			"repo", locator.Key(),
			"widget_name", widget.WidgetName,
		)
		return unknown{}
	}

	base := factory()
	if instances, ok := s.instances.Lookup(locator); ok {
		instances.Set(widget.ID, base)
	}
	return base
}

func (s *Session) extendProperties(widget *types.AttachedWidget) types.ExtendProperties {
	id := widget.ID
	return types.ExtendProperties{
		OnFocusing: func(focusingID string) {
			s.focusedID = focusingID
			s.pendingFocus = focusingID
			s.dirty = true
			s.emit(Event{Type: EventFocusing, WidgetID: focusingID})
		},
		OnFocused: func(dimensions types.Dimensions) {
			s.focused = dimensions
			s.pendingFocus = ""
			s.emit(Event{Type: EventFocused, WidgetID: id, Dimensions: dimensions})
		},
		OnHighlight: func(payload types.HighlightPayload) {
			s.highlight = &payload
			s.emit(Event{Type: EventHighlight, WidgetID: payload.ID, Dimensions: payload.Dimensions})
		},
		OnUnhighlight: func() {
			s.highlight = nil
			s.emit(Event{Type: EventUnhighlight})
		},
		AutoFocus: func(widgetID string) bool {
			return widgetID == s.pendingFocus
		},
		OnPropertyChanged: func(change types.PropertyChange) {
			if !change.IsChanging {
				if err := s.model.SetPropertyValue(id, change); err != nil {
					s.logger.Error(context.Background(), err, "Failed to apply property change",
						"widget_id", id,
						"index", change.Index,
					)
					return
				}
				s.dirty = true
			}
			c := change
			s.emit(Event{Type: EventPropertyChanged, WidgetID: id, Change: &c})
		},
	}
}

// Dispatch delivers a UI event to the keyed node of the current frame and
// renders again when the event changed the page or the selection. It
// reports whether the key was found.
func (s *Session) Dispatch(ctx context.Context, key string, e *vdom.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frame == nil {
		s.renderLocked(ctx)
	}
	handled := s.frame.Dispatch(key, e)
	if s.dirty {
		s.renderLocked(ctx)
	}
	return handled
}

// RecordLayout feeds layout reports from the hosting page and renders again
// so overlays and pending focus measurements see them. It fails when the
// session measures through an injected Dimensions.
func (s *Session) RecordLayout(ctx context.Context, layouts map[string]types.Dimensions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.layout == nil {
		return fmt.Errorf("session measures through an external dimensions source")
	}
	s.layout.RecordAll(layouts)
	s.renderLocked(ctx)
	return nil
}

// AttachWidget places a new widget under parentID, selects it and renders.
func (s *Session) AttachWidget(ctx context.Context, parentID string, def types.Widget) (types.AttachedWidget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	attached, err := s.model.AttachWidget(parentID, def)
	if err != nil {
		return types.AttachedWidget{}, err
	}
	s.focusedID = attached.ID
	s.pendingFocus = attached.ID
	s.renderLocked(ctx)

	return attached, nil
}

// Focused returns the selected widget id and its last measured dimensions
func (s *Session) Focused() (string, types.Dimensions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focusedID, s.focused
}

// Highlighted returns the highlighted widget, if any
func (s *Session) Highlighted() (types.HighlightPayload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.highlight == nil {
		return types.HighlightPayload{}, false
	}
	return *s.highlight, true
}

// PropertiesLayout returns the property panel layout of a placed widget.
func (s *Session) PropertiesLayout(widgetID string) []types.PropertyLayout {
	s.mu.Lock()
	defer s.mu.Unlock()

	widget, ok := s.model.Widget(widgetID)
	if !ok {
		return []types.PropertyLayout{}
	}
	repo, ok := s.model.Repo(widget.APIRepoID)
	if !ok {
		return []types.PropertyLayout{}
	}
	return s.extensions.FindPropertiesLayout(repo.Locator(), widget.WidgetName)
}

// DataPath returns the access path of a page data item
func (s *Session) DataPath(itemID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pagedata.AccessPath(s.model.Data, itemID)
}

// DataValue returns the resolved value of a page data item
func (s *Session) DataValue(itemID string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pagedata.Resolve(s.model.Data, itemID)
}

// Teardown resets the session's registries and cache and closes every
// watcher. It is idempotent.
func (s *Session) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.extensions.ClearAll()
	s.instances.ClearAll()
	s.cache.Purge()
	if s.layout != nil {
		s.layout.Reset()
	}
	s.frame = nil

	for _, watcher := range s.watchers {
		close(watcher)
	}
	s.watchers = nil
}

type preview struct {
	base   types.Renderable
	widget *types.AttachedWidget
}

func (p preview) Render(children []*vdom.Node) []*vdom.Node {
	return p.base.Render(p.widget, children)
}

// unknown stands in for widgets whose implementation cannot be resolved.
type unknown struct{}

func (unknown) Render(w *types.AttachedWidget, children []*vdom.Node) []*vdom.Node {
	node := vdom.Element("div", w.ID, vdom.Text("Unknown widget: "+w.WidgetName)).
		AddClass("unknown-widget")
	node.Append(children...)
	return []*vdom.Node{node}
}
