// Package testutils holds fixtures shared by the designer's package tests.
package testutils

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/blocklang/designer/internal/config"
	"github.com/blocklang/designer/internal/middleware"
	"github.com/blocklang/designer/internal/page"
	"github.com/blocklang/designer/internal/pagedata"
	"github.com/blocklang/designer/internal/types"
	"github.com/blocklang/designer/internal/widgets"
	"github.com/stretchr/testify/require"
)

// FixedDimensions is what FixedMeasurer reports for every key
var FixedDimensions = types.Dimensions{OffsetTop: 1, OffsetLeft: 2, Width: 3, Height: 4}

// FixedMeasurer measures every node as FixedDimensions
func FixedMeasurer() middleware.Dimensions {
	return middleware.DimensionsFunc(func(string) types.Dimensions {
		return FixedDimensions
	})
}

// StdRepo is the repository dependency of the bundled widgets
func StdRepo() page.RepoDependency {
	return page.RepoDependency{
		APIRepoID: widgets.APIRepoID,
		Website:   widgets.Locator.Website,
		Owner:     widgets.Locator.Owner,
		RepoName:  widgets.Locator.RepoName,
	}
}

// CreateTestPage builds a valid page: a root page widget "1" holding a text
// widget "2" and a text input "3", plus an object data item "d1" with a
// string child "d2".
func CreateTestPage() *page.Model {
	return &page.Model{
		PageID: 1,
		Name:   "test",
		Repos:  []page.RepoDependency{StdRepo()},
		Widgets: []types.AttachedWidget{
			{ID: "1", ParentID: types.RootParentID, WidgetName: widgets.NamePage, CanHasChildren: true, APIRepoID: widgets.APIRepoID},
			{ID: "2", ParentID: "1", WidgetName: widgets.NameText, APIRepoID: widgets.APIRepoID,
				Properties: []types.AttachedWidgetProperty{
					{ID: "21", Code: widgets.CodeValue, Name: "value", ValueType: types.ValueTypeString, Value: "hello"},
				}},
			{ID: "3", ParentID: "1", WidgetName: widgets.NameTextInput, APIRepoID: widgets.APIRepoID,
				Properties: []types.AttachedWidgetProperty{
					{ID: "31", Code: widgets.CodeValue, Name: "value", ValueType: types.ValueTypeString},
				}},
		},
		Data: []pagedata.Item{
			{ID: "d1", ParentID: types.RootParentID, Name: "$", Type: pagedata.TypeObject},
			{ID: "d2", ParentID: "d1", Name: "foo", Type: pagedata.TypeString, Value: "a"},
		},
	}
}

// CreateTempPage saves model under a temporary directory as name, whose
// extension picks the format, and returns the path.
func CreateTempPage(t *testing.T, name string, model *page.Model) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, page.Save(path, model))
	return path
}

// CreateTestConfig creates a configuration serving modelPath
func CreateTestConfig(modelPath string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Page: config.PageConfig{
			Model: modelPath,
			Mode:  config.DefaultMode,
		},
		Designer: config.DesignerConfig{
			CacheSize:     16,
			WatchDebounce: 50 * time.Millisecond,
		},
		Log: config.LogConfig{
			Level:  "error",
			Format: config.DefaultLogFormat,
		},
	}
}
