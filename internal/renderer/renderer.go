// Package renderer runs the host rendering cycle for a tree of components.
//
// A render pass renders every component bottom-up, handing each component
// its already rendered children, and yields a Frame. Committing the frame
// runs the post-commit hooks of the rendered components in render order,
// which is the point from which measurements of the output are meaningful.
package renderer

import (
	"context"
	"io"

	"github.com/blocklang/designer/internal/logging"
	"github.com/blocklang/designer/internal/vdom"
)

// Component renders itself around its rendered children.
type Component interface {
	Render(children []*vdom.Node) []*vdom.Node
}

// Committer is implemented by components that need to run after the frame
// they were rendered in has been committed.
type Committer interface {
	AfterCommit()
}

// Element is one component in the tree handed to the renderer.
type Element struct {
	Component Component
	Children  []*Element
}

// Renderer renders element trees into frames
type Renderer struct {
	logger logging.Logger
}

// NewRenderer creates a renderer
func NewRenderer(logger logging.Logger) *Renderer {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Renderer{logger: logger.WithComponent("renderer")}
}

// Render runs one render pass over roots
func (r *Renderer) Render(ctx context.Context, roots []*Element) *Frame {
	perf := logging.StartOperation(r.logger, "render")
	defer perf.End(ctx)

	frame := &Frame{}
	frame.Nodes = frame.renderAll(roots)

	r.logger.Debug(ctx, "Render pass completed",
		"components", frame.components,
		"hooks", len(frame.committers),
	)
	return frame
}

// Frame is the output of one render pass.
type Frame struct {
	Nodes []*vdom.Node

	committers []Committer
	components int
	committed  bool
}

func (f *Frame) renderAll(elements []*Element) []*vdom.Node {
	var nodes []*vdom.Node
	for _, element := range elements {
		nodes = append(nodes, f.render(element)...)
	}
	return nodes
}

func (f *Frame) render(element *Element) []*vdom.Node {
	if element == nil || element.Component == nil {
		return nil
	}

	children := f.renderAll(element.Children)
	nodes := element.Component.Render(children)
	f.components++

	if committer, ok := element.Component.(Committer); ok {
		f.committers = append(f.committers, committer)
	}
	return nodes
}

// Commit runs every post-commit hook once. Later calls are no-ops.
func (f *Frame) Commit() {
	if f.committed {
		return
	}
	f.committed = true

	for _, committer := range f.committers {
		committer.AfterCommit()
	}
}

// Committed reports whether Commit has run
func (f *Frame) Committed() bool {
	return f.committed
}

// Components returns the number of components rendered into the frame
func (f *Frame) Components() int {
	return f.components
}

// Dispatch delivers an event to the keyed node of the frame.
func (f *Frame) Dispatch(key string, e *vdom.Event) bool {
	return vdom.Dispatch(f.Nodes, key, e)
}

// Find returns the keyed node of the frame, or nil
func (f *Frame) Find(key string) *vdom.Node {
	return vdom.Find(f.Nodes, key)
}

// HTML serializes the frame
func (f *Frame) HTML() (string, error) {
	return vdom.HTML(f.Nodes)
}

// WriteHTML serializes the frame to w
func (f *Frame) WriteHTML(w io.Writer) error {
	return vdom.RenderHTML(w, f.Nodes)
}
