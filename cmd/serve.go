package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/blocklang/designer/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the designer server",
	Long: `Start the designer server for a page model. The page is served in a host
shell that forwards pointer and input events to the session and reports widget
layout back. Saving the page model file reloads every connected browser.

Examples:
  designer serve --page page.json                  # Serve on localhost:8080
  designer serve --page page.json -p 3000          # Custom port
  designer serve --page page.yaml --mode preview   # Serve the preview`,
	RunE: runServe,
}

var serveFlags *StandardFlags

func init() {
	rootCmd.AddCommand(serveCmd)

	serveFlags = AddStandardFlags(serveCmd, "server")
	AddFlagValidation(serveCmd, "port", ValidatePort)
	SetViperBindings(serveCmd, map[string]string{
		"port": "server.port",
		"host": "server.host",
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := serveFlags.ValidateFlags(); err != nil {
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

	srv, err := server.New(cfg, sess, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Designer serving %s on http://%s\n", cfg.Page.Model, cfg.Address())
	return srv.Start(ctx)
}
