package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blocklang/designer/internal/logging"
	"github.com/blocklang/designer/internal/page"
	"github.com/blocklang/designer/internal/session"
	"github.com/blocklang/designer/internal/watcher"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the page model as HTML",
	Long: `Render the page model as HTML. In design mode every widget carries its
designer handlers and overlays; in preview mode the plain widgets are rendered.

With --watch the page is rendered again whenever the page model file changes.

Examples:
  designer render --page page.json                   # Design mode to stdout
  designer render --page page.json --mode preview    # Preview mode
  designer render --page page.json --out page.html   # Write to a file
  designer render --page page.json --out page.html --watch`,
	RunE: runRender,
}

var (
	renderOut   string
	renderWatch bool
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderOut, "out", "", "Write HTML to this file instead of stdout")
	renderCmd.Flags().BoolVarP(&renderWatch, "watch", "w", false, "Render again when the page model changes")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	sess, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	defer sess.Teardown()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := renderTo(ctx, sess, cmd.OutOrStdout()); err != nil {
		return err
	}
	if !renderWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchAndRender(ctx, cmd, sess, cfg.Page.Model, cfg.Designer.WatchDebounce, logger)
}

// renderTo writes the session's HTML to renderOut or w
func renderTo(ctx context.Context, sess *session.Session, w io.Writer) error {
	html, err := sess.HTML(ctx)
	if err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	if renderOut == "" {
		_, err = fmt.Fprintln(w, html)
		return err
	}
	return os.WriteFile(renderOut, []byte(html+"\n"), 0644)
}

func watchAndRender(ctx context.Context, cmd *cobra.Command, sess *session.Session, modelPath string, delay time.Duration, logger logging.Logger) error {
	fileWatcher, err := watcher.NewFileWatcher(delay, logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fileWatcher.Stop()

	stderr := cmd.ErrOrStderr()
	ok := color.New(color.FgGreen)
	fail := color.New(color.FgRed)

	fileWatcher.AddFilter(watcher.PageModelFilter)
	fileWatcher.AddFilter(watcher.NoEditorTempFilter)
	fileWatcher.AddHandler(func(events []watcher.ChangeEvent) error {
		model, err := page.Load(modelPath)
		if err != nil {
			fail.Fprintf(stderr, "✗ %s: %v\n", modelPath, err)
			return err
		}
		sess.ReplaceModel(ctx, model)
		if err := renderTo(ctx, sess, cmd.OutOrStdout()); err != nil {
			fail.Fprintf(stderr, "✗ render failed: %v\n", err)
			return err
		}
		ok.Fprintf(stderr, "✓ rendered %s (%d widgets)\n", modelPath, len(model.Widgets))
		return nil
	})

	if err := fileWatcher.AddFile(modelPath); err != nil {
		return fmt.Errorf("failed to watch %s: %w", modelPath, err)
	}
	if err := fileWatcher.Start(ctx); err != nil {
		return err
	}

	fmt.Fprintf(stderr, "Watching %s, press Ctrl+C to stop\n", modelPath)
	<-ctx.Done()
	return nil
}
