// Package page holds the page model a designer session edits: the component
// packages the page depends on, the attached widget tree and the page data
// tree.
package page

import (
	"fmt"

	derrors "github.com/blocklang/designer/internal/errors"
	"github.com/blocklang/designer/internal/pagedata"
	"github.com/blocklang/designer/internal/registry"
	"github.com/blocklang/designer/internal/tree"
	"github.com/blocklang/designer/internal/types"
	"github.com/oklog/ulid/v2"
)

// RepoDependency is a component package a page uses widgets from.
type RepoDependency struct {
	APIRepoID int    `json:"apiRepoId" yaml:"apiRepoId"`
	Website   string `json:"website" yaml:"website"`
	Owner     string `json:"owner" yaml:"owner"`
	RepoName  string `json:"repoName" yaml:"repoName"`
	Version   string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Locator returns the repository locator of the package
func (r RepoDependency) Locator() registry.Locator {
	return registry.Locator{Website: r.Website, Owner: r.Owner, RepoName: r.RepoName}
}

// Model is a page under design. Widgets and Data are flat parent-pointer
// lists whose subtrees are laid out contiguously.
type Model struct {
	PageID  int                    `json:"pageId" yaml:"pageId"`
	Name    string                 `json:"name,omitempty" yaml:"name,omitempty"`
	Repos   []RepoDependency       `json:"repos" yaml:"repos"`
	Widgets []types.AttachedWidget `json:"widgets" yaml:"widgets"`
	Data    []pagedata.Item        `json:"data" yaml:"data"`
}

// Repo returns the dependency with the given api repository id
func (m *Model) Repo(apiRepoID int) (RepoDependency, bool) {
	for _, repo := range m.Repos {
		if repo.APIRepoID == apiRepoID {
			return repo, true
		}
	}
	return RepoDependency{}, false
}

// Widget returns the attached widget with the given instance id. The
// pointer stays valid until the widget list is next modified.
func (m *Model) Widget(id string) (*types.AttachedWidget, bool) {
	index := tree.IndexOf(m.Widgets, id)
	if index < 0 {
		return nil, false
	}
	return &m.Widgets[index], true
}

// Children returns the direct children of the widget in list order. Use
// types.RootParentID for the page roots.
func (m *Model) Children(parentID string) []*types.AttachedWidget {
	var children []*types.AttachedWidget
	for i := range m.Widgets {
		if m.Widgets[i].ParentID == parentID {
			children = append(children, &m.Widgets[i])
		}
	}
	return children
}

// Validate checks the structural invariants of the model and reports every
// violation at once.
func (m *Model) Validate() error {
	ec := derrors.NewErrorCollector()

	repos := make(map[int]bool, len(m.Repos))
	for _, repo := range m.Repos {
		if repos[repo.APIRepoID] {
			ec.AddError(fmt.Errorf("duplicate repo %d", repo.APIRepoID))
		}
		repos[repo.APIRepoID] = true
		if repo.Website == "" || repo.Owner == "" || repo.RepoName == "" {
			ec.AddError(fmt.Errorf("repo %d has an incomplete locator", repo.APIRepoID))
		}
	}

	widgetIDs := make(map[string]bool, len(m.Widgets))
	for _, w := range m.Widgets {
		if w.ID == "" {
			ec.AddError(fmt.Errorf("widget %q has no id", w.WidgetName))
			continue
		}
		if widgetIDs[w.ID] {
			ec.AddError(fmt.Errorf("duplicate widget id %q", w.ID))
		}
		widgetIDs[w.ID] = true
		if !repos[w.APIRepoID] {
			ec.AddError(fmt.Errorf("widget %q uses unknown repo %d", w.ID, w.APIRepoID))
		}
	}
	for _, w := range m.Widgets {
		if w.ParentID != types.RootParentID && !widgetIDs[w.ParentID] {
			ec.AddError(fmt.Errorf("widget %q has unknown parent %q", w.ID, w.ParentID))
		}
	}

	dataIDs := make(map[string]bool, len(m.Data))
	for _, item := range m.Data {
		if dataIDs[item.ID] {
			ec.AddError(fmt.Errorf("duplicate data item id %q", item.ID))
		}
		dataIDs[item.ID] = true
	}
	for _, item := range m.Data {
		if item.ParentID != tree.RootParentID && !dataIDs[item.ParentID] {
			ec.AddError(fmt.Errorf("data item %q has unknown parent %q", item.ID, item.ParentID))
		}
	}

	return ec.Err(derrors.ErrCodeInvalidPageModel, "invalid page model")
}

// AttachWidget places a new instance of def as the last child of the parent
// and returns it. The instance lands right after the parent's subtree so the
// list stays contiguous.
func (m *Model) AttachWidget(parentID string, def types.Widget) (types.AttachedWidget, error) {
	insertAt := len(m.Widgets)
	if parentID != types.RootParentID {
		parentIndex := tree.IndexOf(m.Widgets, parentID)
		if parentIndex < 0 {
			return types.AttachedWidget{}, derrors.NewValidationError(derrors.ErrCodeValidationFailed,
				fmt.Sprintf("parent widget %q not found", parentID))
		}
		if !m.Widgets[parentIndex].CanHasChildren {
			return types.AttachedWidget{}, derrors.NewValidationError(derrors.ErrCodeValidationFailed,
				fmt.Sprintf("widget %q cannot have children", parentID))
		}
		count, err := tree.ChildCount(m.Widgets, parentIndex)
		if err != nil {
			return types.AttachedWidget{}, err
		}
		insertAt = parentIndex + count + 1
	}

	widget := newAttachedWidget(parentID, def)

	m.Widgets = append(m.Widgets, types.AttachedWidget{})
	copy(m.Widgets[insertAt+1:], m.Widgets[insertAt:])
	m.Widgets[insertAt] = widget

	return widget, nil
}

func newAttachedWidget(parentID string, def types.Widget) types.AttachedWidget {
	widget := types.AttachedWidget{
		ID:             ulid.Make().String(),
		ParentID:       parentID,
		WidgetID:       def.WidgetID,
		WidgetName:     def.WidgetName,
		WidgetCode:     def.WidgetCode,
		CanHasChildren: def.CanHasChildren,
		APIRepoID:      def.APIRepoID,
		Properties:     make([]types.AttachedWidgetProperty, 0, len(def.Properties)),
	}
	for _, p := range def.Properties {
		widget.Properties = append(widget.Properties, types.AttachedWidgetProperty{
			ID:           ulid.Make().String(),
			Code:         p.Code,
			Name:         p.Name,
			ValueType:    p.ValueType,
			DefaultValue: p.DefaultValue,
		})
	}
	return widget
}

// RemoveWidget removes the widget and its whole subtree, returning the
// number of removed widgets.
func (m *Model) RemoveWidget(id string) (int, error) {
	index := tree.IndexOf(m.Widgets, id)
	if index < 0 {
		return 0, nil
	}
	count, err := tree.ChildCount(m.Widgets, index)
	if err != nil {
		return 0, err
	}

	removed := count + 1
	m.Widgets = append(m.Widgets[:index], m.Widgets[index+removed:]...)
	return removed, nil
}

// SetPropertyValue applies a committed property edit to the widget.
func (m *Model) SetPropertyValue(widgetID string, change types.PropertyChange) error {
	widget, ok := m.Widget(widgetID)
	if !ok {
		return derrors.NewValidationError(derrors.ErrCodeValidationFailed,
			fmt.Sprintf("widget %q not found", widgetID))
	}
	if change.Index < 0 || change.Index >= len(widget.Properties) {
		return derrors.ErrIndexOutOfRange(change.Index, len(widget.Properties))
	}

	widget.Properties[change.Index].Value = change.NewValue
	widget.Properties[change.Index].IsExpr = change.IsExpr
	return nil
}
