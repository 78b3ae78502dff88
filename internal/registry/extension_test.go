package registry

import (
	"testing"
	"time"

	derrors "github.com/blocklang/designer/internal/errors"
	"github.com/blocklang/designer/internal/types"
	"github.com/blocklang/designer/internal/vdom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type foo struct{}

func (foo) Render(*types.AttachedWidget, []*vdom.Node) []*vdom.Node { return nil }

type ideFoo struct{}

func (ideFoo) Render(*types.AttachedWidget, []*vdom.Node) []*vdom.Node { return nil }

func newFoo() types.Renderable    { return foo{} }
func newIdeFoo() types.Renderable { return ideFoo{} }

func textInputMap() WidgetMap {
	return WidgetMap{
		"text-input": {
			Widget:    newFoo,
			IdeWidget: newIdeFoo,
			PropertiesLayout: []types.PropertyLayout{
				{PropertyName: "value", Label: "Value", Editor: "text"},
			},
		},
		"plain": {Widget: newFoo},
	}
}

func TestLocatorKey(t *testing.T) {
	loc := Locator{Website: "github.com", Owner: "blocklang", RepoName: "ide-widgets-bootstrap"}
	assert.Equal(t, "github.com/blocklang/ide-widgets-bootstrap", loc.Key())
	assert.Equal(t, loc.Key(), loc.String())
	assert.Equal(t, "a/b/c", RepoKey("a/b/c").Key())
}

func TestParseLocator(t *testing.T) {
	loc, err := ParseLocator("github.com/org/repo")
	require.NoError(t, err)
	assert.Equal(t, Locator{Website: "github.com", Owner: "org", RepoName: "repo"}, loc)

	for _, bad := range []string{"", "a/b", "a/b/c/d", "a//c"} {
		_, err := ParseLocator(bad)
		assert.Error(t, err, bad)
	}
}

func TestRegisterAndFind(t *testing.T) {
	r := NewExtensionRegistry()
	loc := Locator{Website: "a", Owner: "b", RepoName: "c"}

	require.NoError(t, r.Register(loc, textInputMap()))

	assert.Nil(t, r.FindWidgetType(loc, "not-exist"))

	factory := r.FindWidgetType(loc, "text-input")
	require.NotNil(t, factory)
	assert.IsType(t, foo{}, factory())

	byString := r.FindWidgetType(RepoKey("a/b/c"), "text-input")
	require.NotNil(t, byString)
	assert.IsType(t, foo{}, byString())

	ide := r.FindIdeWidgetType(RepoKey("a/b/c"), "text-input")
	require.NotNil(t, ide)
	assert.IsType(t, ideFoo{}, ide())
	assert.Nil(t, r.FindIdeWidgetType(loc, "plain"))

	assert.Nil(t, r.FindWidgetType(RepoKey("x/y/z"), "text-input"))
	assert.Equal(t, []string{"plain", "text-input"}, r.WidgetNames(loc))
	assert.Equal(t, []string{"a/b/c"}, r.Keys())
	assert.Equal(t, 1, r.Count())
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewExtensionRegistry()
	loc := Locator{Website: "a", Owner: "b", RepoName: "c"}

	require.NoError(t, r.Register(loc, textInputMap()))

	err := r.Register(RepoKey("a/b/c"), WidgetMap{"other": {Widget: newIdeFoo}})
	require.Error(t, err)
	assert.True(t, derrors.IsDuplicateRegistration(err))

	// first writer wins
	assert.Nil(t, r.FindWidgetType(loc, "other"))
	assert.NotNil(t, r.FindWidgetType(loc, "text-input"))
}

func TestRegisterCopiesWidgetMap(t *testing.T) {
	r := NewExtensionRegistry()
	widgets := textInputMap()
	require.NoError(t, r.Register(RepoKey("a/b/c"), widgets))

	delete(widgets, "text-input")
	assert.NotNil(t, r.FindWidgetType(RepoKey("a/b/c"), "text-input"))
}

func TestFindPropertiesLayout(t *testing.T) {
	r := NewExtensionRegistry()
	require.NoError(t, r.Register(RepoKey("a/b/c"), textInputMap()))

	layout := r.FindPropertiesLayout(RepoKey("a/b/c"), "text-input")
	require.Len(t, layout, 1)
	assert.Equal(t, "value", layout[0].PropertyName)

	missing := r.FindPropertiesLayout(RepoKey("a/b/c"), "not-exist")
	assert.NotNil(t, missing)
	assert.Empty(t, missing)

	noLayout := r.FindPropertiesLayout(RepoKey("a/b/c"), "plain")
	assert.NotNil(t, noLayout)
	assert.Empty(t, noLayout)

	assert.NotNil(t, r.FindPropertiesLayout(RepoKey("x/y/z"), "text-input"))
}

func TestClearAll(t *testing.T) {
	r := NewExtensionRegistry()
	require.NoError(t, r.Register(RepoKey("a/b/c"), textInputMap()))

	r.ClearAll()
	assert.Equal(t, 0, r.Count())
	assert.Nil(t, r.FindWidgetType(RepoKey("a/b/c"), "text-input"))

	// idempotent, and the key is free again
	r.ClearAll()
	assert.NoError(t, r.Register(RepoKey("a/b/c"), textInputMap()))
}

func TestWatch(t *testing.T) {
	r := NewExtensionRegistry()
	events := r.Watch()

	require.NoError(t, r.Register(RepoKey("a/b/c"), textInputMap()))
	r.ClearAll()

	select {
	case event := <-events:
		assert.Equal(t, EventTypeRegistered, event.Type)
		assert.Equal(t, "a/b/c", event.Key)
		assert.Equal(t, []string{"plain", "text-input"}, event.Widgets)
	case <-time.After(time.Second):
		t.Fatal("expected a registered event")
	}

	select {
	case event := <-events:
		assert.Equal(t, EventTypeCleared, event.Type)
		assert.Equal(t, "cleared", event.Type.String())
	case <-time.After(time.Second):
		t.Fatal("expected a cleared event")
	}

	r.UnWatch(events)
	_, open := <-events
	assert.False(t, open)
}
