// Package cmd provides the command-line interface of the designer.
//
// Configuration System:
//
//	Settings are read with the following precedence:
//	1. Command-line flags (--config, --page, --port, etc.) - highest priority
//	2. DESIGNER_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (DESIGNER_SERVER_PORT, etc.)
//	4. Configuration files (.designer.yml) - lowest priority
//
// Environment Variables:
//
//	DESIGNER_CONFIG_FILE: Path to custom configuration file
//	DESIGNER_PAGE_MODEL: Page model file
//	DESIGNER_SERVER_PORT: Override server port
//	And the rest following the DESIGNER_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/blocklang/designer/internal/config"
	"github.com/blocklang/designer/internal/logging"
	"github.com/blocklang/designer/internal/page"
	"github.com/blocklang/designer/internal/session"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "designer",
	Short: "A page designer runtime for widget-based page models",
	Long: `Designer renders a page model of nested widgets in design mode, where every
widget can be selected, highlighted and edited in place, or in preview mode.

Quick Start:
  designer render --page page.json          Render the page as HTML
  designer serve --page page.json           Start the designer server
  designer widgets                          List registered widgets
  designer path d2 --page page.json         Show a page data access path
  designer value d1 --page page.json        Resolve a page data value`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .designer.yml, can also use DESIGNER_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("page", "P", "", "page model file (.json, .yaml, .yml)")
	rootCmd.PersistentFlags().String("mode", "design", "render mode (design|preview)")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("page.model", rootCmd.PersistentFlags().Lookup("page"))
	_ = viper.BindPFlag("page.mode", rootCmd.PersistentFlags().Lookup("mode"))
}

// initConfig selects the config file and enables DESIGNER_ environment
// overrides. A missing config file is not an error.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("DESIGNER_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".designer")
	}

	viper.SetEnvPrefix("DESIGNER")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig loads the configuration and builds the logger it describes.
// Logs go to stderr so command output stays clean.
func loadConfig() (*config.Config, logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	lc := cfg.LoggerConfig()
	lc.Output = os.Stderr
	return cfg, logging.NewLogger(lc), nil
}

// openSession loads the configured page model into a new session.
func openSession(cfg *config.Config, logger logging.Logger) (*session.Session, error) {
	if cfg.Page.Model == "" {
		return nil, fmt.Errorf("no page model given, use --page or set page.model")
	}

	model, err := page.Load(cfg.Page.Model)
	if err != nil {
		return nil, err
	}

	mode, err := session.ParseMode(cfg.Page.Mode)
	if err != nil {
		return nil, err
	}

	return session.New(model, session.Options{
		Mode:      mode,
		CacheSize: cfg.Designer.CacheSize,
		Logger:    logger,
	})
}
