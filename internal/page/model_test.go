package page

import (
	"path/filepath"
	"testing"

	derrors "github.com/blocklang/designer/internal/errors"
	"github.com/blocklang/designer/internal/pagedata"
	"github.com/blocklang/designer/internal/tree"
	"github.com/blocklang/designer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *Model {
	t.Helper()
	model, err := Load(filepath.Join("testdata", "page.json"))
	require.NoError(t, err)
	return model
}

func TestLoadJSON(t *testing.T) {
	model := loadFixture(t)

	assert.Equal(t, 1, model.PageID)
	require.Len(t, model.Widgets, 4)
	assert.Equal(t, "hello", model.Widgets[2].Properties[0].Value)

	repo, ok := model.Repo(1)
	require.True(t, ok)
	assert.Equal(t, "github.com/blocklang/std-widgets", repo.Locator().Key())

	assert.Equal(t, "$.user", pagedata.AccessPath(model.Data, "d2"))
}

func TestLoadYAML(t *testing.T) {
	model, err := Load(filepath.Join("testdata", "page.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 2, model.PageID)
	require.Len(t, model.Widgets, 1)
	assert.True(t, model.Widgets[0].IsRoot())
	assert.Equal(t, pagedata.TypeObject, model.Data[0].Type)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.json"))
	require.Error(t, err)

	var de *derrors.DesignerError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, derrors.ErrCodeFileNotFound, de.Code)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("{"), FormatJSON)
	require.Error(t, err)

	_, err = Parse([]byte(`{"widgets":[{"id":"1","parentId":"9","apiRepoId":1}]}`), FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown parent "9"`)
	assert.Contains(t, err.Error(), "unknown repo 1")
}

func TestValidateDuplicates(t *testing.T) {
	model := loadFixture(t)
	model.Widgets = append(model.Widgets, model.Widgets[3])
	model.Data = append(model.Data, model.Data[0])

	err := model.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate widget id "4"`)
	assert.Contains(t, err.Error(), `duplicate data item id "d1"`)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatOf("a.YML"))
	assert.Equal(t, FormatYAML, FormatOf("a.yaml"))
	assert.Equal(t, FormatJSON, FormatOf("a.json"))
	assert.Equal(t, FormatJSON, FormatOf("a"))
}

func TestAttachWidgetKeepsSubtreeContiguous(t *testing.T) {
	model := loadFixture(t)
	def := types.Widget{
		WidgetID:   3,
		WidgetName: "text",
		APIRepoID:  1,
		Properties: []types.WidgetProperty{{Code: "0002", Name: "value", ValueType: types.ValueTypeString, DefaultValue: "Text"}},
	}

	attached, err := model.AttachWidget("2", def)
	require.NoError(t, err)
	assert.Len(t, attached.ID, 26)
	assert.Equal(t, "2", attached.ParentID)
	require.Len(t, attached.Properties, 1)
	assert.NotEmpty(t, attached.Properties[0].ID)
	assert.Equal(t, "Text", attached.Properties[0].EffectiveValue())

	// inserted after the container's existing child, before the button
	ids := make([]string, len(model.Widgets))
	for i, w := range model.Widgets {
		ids[i] = w.ID
	}
	assert.Equal(t, []string{"1", "2", "3", attached.ID, "4"}, ids)

	count, err := tree.ChildCount(model.Widgets, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.NoError(t, model.Validate())
}

func TestAttachWidgetAsRoot(t *testing.T) {
	model := loadFixture(t)
	attached, err := model.AttachWidget(types.RootParentID, types.Widget{WidgetName: "page", APIRepoID: 1})
	require.NoError(t, err)
	assert.Equal(t, attached.ID, model.Widgets[len(model.Widgets)-1].ID)
}

func TestAttachWidgetErrors(t *testing.T) {
	model := loadFixture(t)

	_, err := model.AttachWidget("missing", types.Widget{})
	assert.Error(t, err)

	_, err = model.AttachWidget("3", types.Widget{})
	assert.Error(t, err)
	assert.Len(t, model.Widgets, 4)
}

func TestRemoveWidget(t *testing.T) {
	model := loadFixture(t)

	removed, err := model.RemoveWidget("2")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	require.Len(t, model.Widgets, 2)
	assert.Equal(t, "4", model.Widgets[1].ID)

	removed, err = model.RemoveWidget("missing")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestSetPropertyValue(t *testing.T) {
	model := loadFixture(t)

	require.NoError(t, model.SetPropertyValue("4", types.PropertyChange{Index: 0, NewValue: "Save"}))
	w, ok := model.Widget("4")
	require.True(t, ok)
	value, _ := w.PropertyValue("0002")
	assert.Equal(t, "Save", value)

	err := model.SetPropertyValue("4", types.PropertyChange{Index: 3})
	require.Error(t, err)
	assert.True(t, derrors.IsOutOfRange(err))

	assert.Error(t, model.SetPropertyValue("missing", types.PropertyChange{}))
}

func TestChildren(t *testing.T) {
	model := loadFixture(t)
	children := model.Children("1")
	require.Len(t, children, 2)
	assert.Equal(t, "2", children[0].ID)
	assert.Equal(t, "4", children[1].ID)
	assert.Len(t, model.Children(types.RootParentID), 1)
}

func TestSaveRoundTrip(t *testing.T) {
	model := loadFixture(t)
	for _, name := range []string{"page.json", "page.yaml"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, Save(path, model))

		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, model.Widgets[2].Properties, loaded.Widgets[2].Properties)
	}
}
