// Package widgets is the standard component package bundled with the
// designer. It registers itself in an extension registry exactly like a
// third-party package would.
package widgets

import (
	"github.com/blocklang/designer/internal/registry"
	"github.com/blocklang/designer/internal/types"
)

// Locator identifies the standard component package.
var Locator = registry.Locator{
	Website:  "github.com",
	Owner:    "blocklang",
	RepoName: "std-widgets",
}

// APIRepoID is the api repository id page models use for the package.
const APIRepoID = 1

// Widget type names.
const (
	NamePage      = "page"
	NameContainer = "container"
	NameText      = "text"
	NameButton    = "button"
	NameTextInput = "text-input"
)

// Property codes shared by the standard widgets.
const (
	CodeStyle       = "0001"
	CodeValue       = "0002"
	CodePlaceholder = "0003"
	CodeDisabled    = "0004"
	CodeOnClick     = "0005"
)

// WidgetMap returns the registry entry of every standard widget.
func WidgetMap() registry.WidgetMap {
	return registry.WidgetMap{
		NamePage: {
			Widget:           func() types.Renderable { return Page{} },
			PropertiesLayout: []types.PropertyLayout{styleLayout()},
		},
		NameContainer: {
			Widget:           func() types.Renderable { return Container{} },
			PropertiesLayout: []types.PropertyLayout{styleLayout()},
		},
		NameText: {
			Widget:    func() types.Renderable { return Text{} },
			IdeWidget: func() types.Renderable { return IdeText{} },
			PropertiesLayout: []types.PropertyLayout{
				{PropertyName: "value", Label: "Text", Editor: "text"},
				styleLayout(),
			},
		},
		NameButton: {
			Widget:    func() types.Renderable { return Button{} },
			IdeWidget: func() types.Renderable { return IdeButton{} },
			PropertiesLayout: []types.PropertyLayout{
				{PropertyName: "value", Label: "Label", Editor: "text"},
				{PropertyName: "disabled", Label: "Disabled", Editor: "checkbox"},
				{PropertyName: "onClick", Label: "On click", Editor: "function"},
				styleLayout(),
			},
		},
		NameTextInput: {
			Widget:    func() types.Renderable { return TextInput{} },
			IdeWidget: func() types.Renderable { return IdeTextInput{} },
			PropertiesLayout: []types.PropertyLayout{
				{PropertyName: "value", Label: "Value", Editor: "text"},
				{PropertyName: "placeholder", Label: "Placeholder", Editor: "text"},
				{PropertyName: "disabled", Label: "Disabled", Editor: "checkbox"},
				styleLayout(),
			},
		},
	}
}

func styleLayout() types.PropertyLayout {
	return types.PropertyLayout{
		PropertyName: "style",
		Label:        "Style",
		Editor:       "group",
		Children: []types.PropertyLayout{
			{PropertyName: "width", Label: "Width", Editor: "text"},
			{PropertyName: "height", Label: "Height", Editor: "text"},
			{PropertyName: "display", Label: "Display", Editor: "select", Options: []string{"block", "inline", "inline-block", "flex", "none"}},
		},
	}
}

// Register publishes the standard widgets under Locator.
func Register(r *registry.ExtensionRegistry) error {
	return r.Register(Locator, WidgetMap())
}

// Definitions returns the widget definitions a page attaches instances of.
func Definitions() []types.Widget {
	style := types.WidgetProperty{Code: CodeStyle, Name: "style", ValueType: types.ValueTypeObject}
	value := types.WidgetProperty{Code: CodeValue, Name: "value", ValueType: types.ValueTypeString}
	disabled := types.WidgetProperty{Code: CodeDisabled, Name: "disabled", ValueType: types.ValueTypeBoolean, DefaultValue: "false"}

	return []types.Widget{
		{WidgetID: 1, WidgetName: NamePage, WidgetCode: "0001", CanHasChildren: true, APIRepoID: APIRepoID,
			Properties: []types.WidgetProperty{style}},
		{WidgetID: 2, WidgetName: NameContainer, WidgetCode: "0002", CanHasChildren: true, APIRepoID: APIRepoID,
			Properties: []types.WidgetProperty{style}},
		{WidgetID: 3, WidgetName: NameText, WidgetCode: "0003", APIRepoID: APIRepoID,
			Properties: []types.WidgetProperty{style, withDefault(value, "Text")}},
		{WidgetID: 4, WidgetName: NameButton, WidgetCode: "0004", APIRepoID: APIRepoID,
			Properties: []types.WidgetProperty{
				style,
				withDefault(value, "Button"),
				disabled,
				{Code: CodeOnClick, Name: "onClick", ValueType: types.ValueTypeFunction},
			}},
		{WidgetID: 5, WidgetName: NameTextInput, WidgetCode: "0005", APIRepoID: APIRepoID,
			Properties: []types.WidgetProperty{
				style,
				value,
				{Code: CodePlaceholder, Name: "placeholder", ValueType: types.ValueTypeString},
				disabled,
			}},
	}
}

// Definition returns the definition of the named widget
func Definition(name string) (types.Widget, bool) {
	for _, def := range Definitions() {
		if def.WidgetName == name {
			return def, true
		}
	}
	return types.Widget{}, false
}

func withDefault(p types.WidgetProperty, value string) types.WidgetProperty {
	p.DefaultValue = value
	return p
}
