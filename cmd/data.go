package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var pathCmd = &cobra.Command{
	Use:   "path <data-item-id>",
	Short: "Print the access path of a page data item",
	Long: `Print the access path of a page data item, such as $.user.name or
$.items[0]. Array elements are addressed by their position among siblings.

Examples:
  designer path d2 --page page.json`,
	Args: cobra.ExactArgs(1),
	RunE: runPath,
}

var valueCmd = &cobra.Command{
	Use:   "value <data-item-id>",
	Short: "Print the resolved value of a page data item",
	Long: `Resolve a page data item into a value. Objects and arrays are assembled from
their children; numbers and booleans are coerced from their stored text.

Examples:
  designer value d1 --page page.json           # JSON output
  designer value d1 --page page.json -o yaml   # YAML output`,
	Args: cobra.ExactArgs(1),
	RunE: runValue,
}

var valueFlags *StandardFlags

func init() {
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(valueCmd)

	valueFlags = AddStandardFlags(valueCmd, "output")
	valueCmd.Flags().Lookup("output").DefValue = "json"
	valueFlags.OutputFormat = "json"
	AddFlagValidation(valueCmd, "output", func(format string) error {
		return ValidateFormatWithSuggestion(format, []string{"json", "yaml"})
	})
}

func runPath(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	sess, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	defer sess.Teardown()

	path := sess.DataPath(args[0])
	if path == "" {
		return fmt.Errorf("data item %q not found", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runValue(cmd *cobra.Command, args []string) error {
	if err := valueFlags.ValidateFlags("json", "yaml"); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	sess, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	defer sess.Teardown()

	value, ok := sess.DataValue(args[0])
	if !ok {
		return fmt.Errorf("data item %q not found", args[0])
	}

	out := cmd.OutOrStdout()
	if valueFlags.OutputFormat == "yaml" {
		encoder := yaml.NewEncoder(out)
		defer encoder.Close()
		return encoder.Encode(value)
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
