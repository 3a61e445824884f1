package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mirrorlang/mirror/internal/cli/config"
	"github.com/mirrorlang/mirror/internal/cli/ui"
	"github.com/mirrorlang/mirror/internal/generator"
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	var (
		entry   string
		extra   []string
		output  string
		pkgName string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"g"},
		Short:   "Generate the reflection payload",
		Long: `Scan the entry package's import closure for annotated declarations and
write the generated data module.

Configuration is read from mirror.yml when present; flags override it.

Examples:
  # Generate with mirror.yml settings
  mirror generate

  # Override the entry package and output path
  mirror generate --entry ./cmd/app --output gen/reflect_gen.go

  # Scan extra packages outside the entry closure
  mirror generate --extra ./plugins/... --verbose`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				ui.PrintError(cmd.ErrOrStderr(), ui.ErrorOptions{
					Level:        ui.ErrorLevelError,
					Context:      "INVALID CONFIGURATION",
					Problem:      err.Error(),
					HelpCommands: []string{"Check mirror.yml against: mirror generate --help"},
				})
				return fmt.Errorf("invalid configuration")
			}

			// Flags override the config file.
			if entry != "" {
				cfg.Generate.Entry = entry
			}
			if output != "" {
				cfg.Generate.Output = output
			}
			if pkgName != "" {
				cfg.Generate.Package = pkgName
			}
			if len(extra) > 0 {
				cfg.Generate.Extra = extra
			}

			log := zap.NewNop()
			if verbose {
				if dev, err := zap.NewDevelopment(); err == nil {
					log = dev
				}
			}
			defer log.Sync() //nolint:errcheck

			res, err := generator.WriteFile(generator.Options{
				Entry:   cfg.Generate.Entry,
				Extra:   cfg.Generate.Extra,
				Package: cfg.Generate.Package,
				Log:     log,
			}, cfg.Generate.Output)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			printReport(cmd, cfg.Generate.Output, res)
			return nil
		},
	}

	cmd.Flags().StringVar(&entry, "entry", "", "Entry package import path or pattern")
	cmd.Flags().StringSliceVar(&extra, "extra", nil, "Extra packages to scan beyond the entry closure")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Generated file path")
	cmd.Flags().StringVar(&pkgName, "package", "", "Package name of the generated file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	return cmd
}

// printReport summarizes one generation run.
func printReport(cmd *cobra.Command, output string, res *generator.Result) {
	out := cmd.OutOrStdout()

	ui.Success(out, "Generated %s (%d bytes in %s)", output, len(res.Source), res.Elapsed.Round(time.Millisecond))
	ui.Info(out, "Packages scanned: %d", len(res.Report.PackagesScanned))
	ui.Info(out, "Classes: %d   Enums: %d   Functions: %d",
		res.Report.Classes, res.Report.Enums, res.Report.Functions)

	if res.Report.FallbackExprs > 0 {
		ui.Warn(out, "Annotation expressions copied verbatim: %d", res.Report.FallbackExprs)
	}
	for _, skipped := range res.Report.PackagesSkipped {
		ui.Warn(out, "Skipped %s: %s", skipped.Path, skipped.Reason)
	}
	if len(res.Report.PackagesSkipped) > 0 {
		color.New(color.FgYellow).Fprintln(out, "  Skipped packages are excluded from the payload, not errors.")
	}
}
