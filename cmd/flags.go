package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// StandardFlags holds the flag values shared by several commands. Which of
// them a command gets depends on the groups passed to AddStandardFlags.
type StandardFlags struct {
	Port int
	Host string

	OutputFormat string
	Verbose      bool
	Quiet        bool
}

// flagGroups registers each named group of standard flags on a command
var flagGroups = map[string]func(fs *pflag.FlagSet, f *StandardFlags){
	"server": func(fs *pflag.FlagSet, f *StandardFlags) {
		fs.IntVarP(&f.Port, "port", "p", 8080, "Port to serve on")
		fs.StringVar(&f.Host, "host", "localhost", "Host to bind to")
	},
	"output": func(fs *pflag.FlagSet, f *StandardFlags) {
		fs.StringVarP(&f.OutputFormat, "output", "o", "table", "Output format (table|json|yaml)")
		fs.BoolVarP(&f.Verbose, "verbose", "v", false, "Enable verbose output")
		fs.BoolVarP(&f.Quiet, "quiet", "q", false, "Suppress output")
	},
}

// AddStandardFlags adds the named flag groups ("server", "output") to a
// command. Unknown group names are ignored.
func AddStandardFlags(cmd *cobra.Command, groups ...string) *StandardFlags {
	flags := &StandardFlags{}
	for _, group := range groups {
		if register, ok := flagGroups[group]; ok {
			register(cmd.Flags(), flags)
		}
	}
	return flags
}

// ValidateFlags checks flag values and combinations. An output format is
// only checked when validFormats is given.
func (f *StandardFlags) ValidateFlags(validFormats ...string) error {
	if f.Port < 0 || f.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", f.Port)
	}
	if f.Quiet && f.Verbose {
		return fmt.Errorf("--quiet and --verbose cannot be used together")
	}
	if f.OutputFormat == "" || len(validFormats) == 0 {
		return nil
	}
	return ValidateFormatWithSuggestion(f.OutputFormat, validFormats)
}

// SetViperBindings binds flags to viper configuration keys so flags given on
// the command line take precedence over the config file and environment.
func SetViperBindings(cmd *cobra.Command, bindings map[string]string) {
	for flagName, configKey := range bindings {
		if flag := cmd.Flags().Lookup(flagName); flag != nil {
			_ = viper.BindPFlag(configKey, flag)
		}
	}
}

// AddFlagValidation runs validator on every value given for flagName
// before the flag takes it. Missing flags are ignored.
func AddFlagValidation(cmd *cobra.Command, flagName string, validator func(string) error) {
	if flag := cmd.Flags().Lookup(flagName); flag != nil {
		flag.Value = &validatingValue{Value: flag.Value, validate: validator}
	}
}

// validatingValue guards a pflag.Value with a validator
type validatingValue struct {
	pflag.Value
	validate func(string) error
}

func (v *validatingValue) Set(raw string) error {
	if v.validate != nil {
		if err := v.validate(raw); err != nil {
			return err
		}
	}
	return v.Value.Set(raw)
}

// ValidatePort checks a port flag value
func ValidatePort(raw string) error {
	port, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid port number: %s", raw)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

// ValidateFormatWithSuggestion rejects formats outside valid, suggesting the
// closest one by prefix.
func ValidateFormatWithSuggestion(format string, valid []string) error {
	lower := strings.ToLower(format)
	for _, v := range valid {
		if lower == v {
			return nil
		}
	}

	for _, v := range valid {
		if lower != "" && strings.HasPrefix(v, lower[:1]) {
			return fmt.Errorf("invalid format %q, did you mean %q? (valid: %s)",
				format, v, strings.Join(valid, ", "))
		}
	}
	return fmt.Errorf("invalid format %q (valid: %s)", format, strings.Join(valid, ", "))
}
