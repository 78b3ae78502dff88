package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/blocklang/designer/internal/registry"
	"github.com/blocklang/designer/internal/types"
	"github.com/blocklang/designer/internal/widgets"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

var widgetsCmd = &cobra.Command{
	Use:     "widgets",
	Aliases: []string{"w"},
	Short:   "List the registered widgets",
	Long: `List every widget of the registered component packages with its display
title, whether it has a design-time variant and its property panel layout.

Examples:
  designer widgets                # Table format
  designer widgets -o json        # Output as JSON
  designer widgets -o yaml -v     # YAML including the property layout`,
	RunE: runWidgets,
}

var widgetsFlags *StandardFlags

// widgetInfo describes one registered widget
type widgetInfo struct {
	Package        string   `json:"package" yaml:"package"`
	Name           string   `json:"name" yaml:"name"`
	Title          string   `json:"title" yaml:"title"`
	Code           string   `json:"code,omitempty" yaml:"code,omitempty"`
	CanHasChildren bool     `json:"canHasChildren" yaml:"canHasChildren"`
	Designable     bool     `json:"designable" yaml:"designable"`
	Properties     []string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

func init() {
	rootCmd.AddCommand(widgetsCmd)

	widgetsFlags = AddStandardFlags(widgetsCmd, "output")
	AddFlagValidation(widgetsCmd, "output", func(format string) error {
		return ValidateFormatWithSuggestion(format, []string{"table", "json", "yaml"})
	})
}

func runWidgets(cmd *cobra.Command, args []string) error {
	if err := widgetsFlags.ValidateFlags("table", "json", "yaml"); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	extensions := registry.NewExtensionRegistry()
	if err := widgets.Register(extensions); err != nil {
		return err
	}
	infos := collectWidgets(extensions)

	out := cmd.OutOrStdout()
	if len(infos) == 0 {
		if !widgetsFlags.Quiet {
			fmt.Fprintln(out, "No widgets registered.")
		}
		return nil
	}

	switch strings.ToLower(widgetsFlags.OutputFormat) {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(infos)
	case "yaml":
		encoder := yaml.NewEncoder(out)
		defer encoder.Close()
		return encoder.Encode(infos)
	default:
		return outputWidgetTable(out, infos, widgetsFlags.Verbose)
	}
}

func collectWidgets(extensions *registry.ExtensionRegistry) []widgetInfo {
	title := cases.Title(language.English)

	var infos []widgetInfo
	for _, key := range extensions.Keys() {
		locator := registry.RepoKey(key)
		for _, name := range extensions.WidgetNames(locator) {
			info := widgetInfo{
				Package:    key,
				Name:       name,
				Title:      title.String(strings.ReplaceAll(name, "-", " ")),
				Designable: extensions.FindIdeWidgetType(locator, name) != nil,
			}
			for _, layout := range extensions.FindPropertiesLayout(locator, name) {
				info.Properties = append(info.Properties, layoutNames(layout)...)
			}
			if key == widgets.Locator.Key() {
				if def, ok := widgets.Definition(name); ok {
					info.Code = def.WidgetCode
					info.CanHasChildren = def.CanHasChildren
				}
			}
			infos = append(infos, info)
		}
	}
	return infos
}

func layoutNames(layout types.PropertyLayout) []string {
	if len(layout.Children) == 0 {
		return []string{layout.PropertyName}
	}
	var names []string
	for _, child := range layout.Children {
		for _, name := range layoutNames(child) {
			names = append(names, layout.PropertyName+"."+name)
		}
	}
	return names
}

func outputWidgetTable(out io.Writer, infos []widgetInfo, verbose bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	header := "NAME\tTITLE\tCODE\tCHILDREN\tDESIGNABLE"
	if verbose {
		header += "\tPROPERTIES"
	}
	fmt.Fprintln(w, header)

	for _, info := range infos {
		row := fmt.Sprintf("%s\t%s\t%s\t%s\t%s",
			info.Name, info.Title, info.Code, yesNo(info.CanHasChildren), yesNo(info.Designable))
		if verbose {
			row += "\t" + strings.Join(info.Properties, ", ")
		}
		fmt.Fprintln(w, row)
	}

	fmt.Fprintf(w, "\nTotal: %d widgets in %d packages\n", len(infos), countPackages(infos))
	return w.Flush()
}

func countPackages(infos []widgetInfo) int {
	seen := make(map[string]bool)
	for _, info := range infos {
		seen[info.Package] = true
	}
	return len(seen)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
