package widgets

import (
	"testing"

	"github.com/blocklang/designer/internal/designable"
	"github.com/blocklang/designer/internal/registry"
	"github.com/blocklang/designer/internal/types"
	"github.com/blocklang/designer/internal/vdom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attach(name, id string, values map[string]string) *types.AttachedWidget {
	def, _ := Definition(name)
	w := &types.AttachedWidget{
		ID:         id,
		ParentID:   types.RootParentID,
		WidgetID:   def.WidgetID,
		WidgetName: def.WidgetName,
		APIRepoID:  def.APIRepoID,
	}
	for _, p := range def.Properties {
		w.Properties = append(w.Properties, types.AttachedWidgetProperty{
			ID:           id + "-" + p.Code,
			Code:         p.Code,
			Name:         p.Name,
			ValueType:    p.ValueType,
			DefaultValue: p.DefaultValue,
			Value:        values[p.Code],
		})
	}
	return w
}

func TestRegister(t *testing.T) {
	r := registry.NewExtensionRegistry()
	require.NoError(t, Register(r))

	assert.Equal(t, []string{"button", "container", "page", "text", "text-input"}, r.WidgetNames(Locator))
	assert.NotNil(t, r.FindWidgetType(registry.RepoKey("github.com/blocklang/std-widgets"), NameText))
	assert.NotNil(t, r.FindIdeWidgetType(Locator, NameTextInput))
	assert.Nil(t, r.FindIdeWidgetType(Locator, NamePage))
	assert.NotEmpty(t, r.FindPropertiesLayout(Locator, NameButton))

	assert.Error(t, Register(r))
}

func TestDefinitionsMatchWidgetMap(t *testing.T) {
	widgets := WidgetMap()
	for _, def := range Definitions() {
		_, ok := widgets[def.WidgetName]
		assert.True(t, ok, def.WidgetName)
		assert.Equal(t, APIRepoID, def.APIRepoID)
	}

	_, ok := Definition("missing")
	assert.False(t, ok)
}

func TestTextRender(t *testing.T) {
	w := attach(NameText, "t1", map[string]string{CodeStyle: "color: red; width:10px; bad"})

	nodes := Text{}.Render(w, nil)
	require.Len(t, nodes, 1)
	assert.Equal(t, "span", nodes[0].Tag)
	assert.Equal(t, "t1", nodes[0].Key)
	assert.Equal(t, "Text", nodes[0].TextContent())
	assert.Equal(t, map[string]string{"color": "red", "width": "10px"}, nodes[0].Styles)

	ide := IdeText{}.Render(w, nil)
	assert.Equal(t, "true", ide[0].Attrs["contenteditable"])
}

func TestButtonRender(t *testing.T) {
	w := attach(NameButton, "b1", map[string]string{CodeValue: "Save", CodeDisabled: "true"})
	nodes := Button{}.Render(w, nil)
	assert.Equal(t, "Save", nodes[0].TextContent())
	assert.Equal(t, "disabled", nodes[0].Attrs["disabled"])

	w = attach(NameButton, "b2", nil)
	nodes = IdeButton{}.Render(w, nil)
	assert.Equal(t, "Button", nodes[0].TextContent())
	assert.NotContains(t, nodes[0].Attrs, "disabled")
}

func TestTextInputRender(t *testing.T) {
	w := attach(NameTextInput, "i1", map[string]string{CodeValue: "v", CodePlaceholder: "type here"})
	nodes := TextInput{}.Render(w, nil)
	assert.True(t, nodes[0].IsFormControl())
	assert.Equal(t, "v", nodes[0].Attrs["value"])
	assert.Equal(t, "type here", nodes[0].Attrs["placeholder"])
}

func TestContainerRender(t *testing.T) {
	w := attach(NameContainer, "c1", nil)
	nodes := Container{}.Render(w, []*vdom.Node{vdom.Text("a"), vdom.Text("b")})
	assert.Equal(t, []string{"container"}, nodes[0].Classes)
	assert.Equal(t, "ab", nodes[0].TextContent())

	page := Page{}.Render(attach(NamePage, "p1", nil), nodes)
	assert.Equal(t, "ab", page[0].TextContent())
}

func TestIdeVariantsAreDesignable(t *testing.T) {
	var text interface{} = IdeText{}
	_, editable := text.(designable.EditableProperty)
	assert.True(t, editable)

	var input interface{} = IdeTextInput{}
	requirer, ok := input.(designable.OverlayRequirer)
	require.True(t, ok)
	assert.True(t, requirer.NeedsOverlay())

	var plain interface{} = TextInput{}
	_, ok = plain.(designable.OverlayRequirer)
	assert.False(t, ok)
}
