package renderer

import (
	"bytes"
	"context"
	"testing"

	"github.com/blocklang/designer/internal/vdom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name string
	log  *[]string
}

func (r recorder) Render(children []*vdom.Node) []*vdom.Node {
	*r.log = append(*r.log, "render "+r.name)
	return []*vdom.Node{vdom.Element("div", r.name, children...)}
}

func (r recorder) AfterCommit() {
	*r.log = append(*r.log, "commit "+r.name)
}

type plain struct{}

func (plain) Render(children []*vdom.Node) []*vdom.Node {
	return []*vdom.Node{vdom.Text("plain")}
}

func TestRenderAndCommitOrder(t *testing.T) {
	var log []string
	roots := []*Element{
		{
			Component: recorder{name: "root", log: &log},
			Children: []*Element{
				{Component: recorder{name: "a", log: &log}},
				{Component: plain{}},
				{Component: recorder{name: "b", log: &log}},
			},
		},
	}

	frame := NewRenderer(nil).Render(context.Background(), roots)
	assert.Equal(t, []string{"render a", "render b", "render root"}, log)
	assert.Equal(t, 4, frame.Components())
	assert.False(t, frame.Committed())

	require.Len(t, frame.Nodes, 1)
	assert.Len(t, frame.Nodes[0].Children, 3)
	assert.NotNil(t, frame.Find("b"))

	frame.Commit()
	frame.Commit()
	assert.Equal(t, []string{
		"render a", "render b", "render root",
		"commit a", "commit b", "commit root",
	}, log)
	assert.True(t, frame.Committed())
}

func TestRenderSkipsEmptyElements(t *testing.T) {
	frame := NewRenderer(nil).Render(context.Background(), []*Element{nil, {}})
	assert.Empty(t, frame.Nodes)
	assert.Equal(t, 0, frame.Components())
}

func TestFrameHTMLAndDispatch(t *testing.T) {
	var log []string
	frame := NewRenderer(nil).Render(context.Background(), []*Element{
		{Component: recorder{name: "root", log: &log}},
	})

	html, err := frame.HTML()
	require.NoError(t, err)
	assert.Contains(t, html, `data-key="root"`)

	var buf bytes.Buffer
	require.NoError(t, frame.WriteHTML(&buf))
	assert.Equal(t, html, buf.String())

	handled := false
	frame.Find("root").Handle("click", func(e *vdom.Event) { handled = true })
	assert.True(t, frame.Dispatch("root", &vdom.Event{Type: "click"}))
	assert.True(t, handled)
	assert.False(t, frame.Dispatch("missing", &vdom.Event{Type: "click"}))
}
