package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mirrorlang/mirror/internal/cli/config"
	"github.com/mirrorlang/mirror/internal/cli/ui"
	"github.com/mirrorlang/mirror/internal/generator"
	"github.com/mirrorlang/mirror/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the payload on source changes",
		Long: `Watch the module tree and re-run payload generation whenever a Go
source file is saved.

The generated output file itself is ignored, so a regeneration never
triggers the next one. Changes are debounced; a burst of saves produces
one run.

Examples:
  # Watch with mirror.yml settings
  mirror watch

  # Enable verbose logging
  mirror watch --verbose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			root, err := config.GetProjectRoot()
			if err != nil {
				return err
			}

			log := zap.NewNop()
			if verbose {
				if dev, devErr := zap.NewDevelopment(); devErr == nil {
					log = dev
				}
			}
			defer log.Sync() //nolint:errcheck

			regenerate := func(files []string) error {
				if len(files) > 0 {
					ui.Info(cmd.OutOrStdout(), "Changed: %d file(s)", len(files))
				}
				res, genErr := generator.WriteFile(generator.Options{
					Entry:   cfg.Generate.Entry,
					Extra:   cfg.Generate.Extra,
					Package: cfg.Generate.Package,
					Log:     log,
				}, cfg.Generate.Output)
				if genErr != nil {
					ui.PrintError(cmd.ErrOrStderr(), ui.ErrorOptions{
						Level:   ui.ErrorLevelError,
						Context: "GENERATION FAILED",
						Problem: genErr.Error(),
					})
					// Keep watching; the next save may fix it.
					return nil
				}
				printReport(cmd, cfg.Generate.Output, res)
				return nil
			}

			// Generate once up front so the watcher starts from a good state.
			if err := regenerate(nil); err != nil {
				return err
			}

			debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
			ignored := []string{filepath.Base(cfg.Generate.Output)}
			watcher, err := watch.NewFileWatcher(root, ignored, debounce, regenerate)
			if err != nil {
				return fmt.Errorf("failed to create file watcher: %w", err)
			}
			if err := watcher.Start(); err != nil {
				return fmt.Errorf("failed to start file watcher: %w", err)
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			banner := color.New(color.FgCyan, color.Bold)
			fmt.Println()
			banner.Println("Mirror watch")
			color.New(color.FgWhite).Printf("   Watching: %s\n", root)
			color.New(color.FgWhite).Printf("   Output:   %s\n", cfg.Generate.Output)
			fmt.Println()
			color.New(color.FgYellow).Println("Press Ctrl+C to stop")

			<-sigChan

			fmt.Println("\nShutting down...")
			if err := watcher.Stop(); err != nil {
				return fmt.Errorf("error stopping watcher: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	return cmd
}
