package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Options configures one generation run.
type Options struct {
	// Entry is the import path (or relative pattern) of the entry package.
	Entry string
	// Dir is the working directory for package resolution ("" = cwd).
	Dir string
	// Extra packages scanned in addition to the entry closure.
	Extra []string
	// Package is the package name of the generated file.
	Package string
	// Log receives progress and skip diagnostics; nil disables logging.
	Log *zap.Logger
}

// Result is the outcome of one generation run.
type Result struct {
	// Source is the formatted generated file.
	Source []byte
	// Report describes what was scanned and what was skipped.
	Report *Report
	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// Generate runs the full pipeline: closure expansion, declaration scanning,
// and payload emission. The same input always yields byte-identical output.
func Generate(opts Options) (*Result, error) {
	if opts.Entry == "" {
		return nil, fmt.Errorf("no entry package specified")
	}
	start := time.Now()
	ctx := NewContext(opts.Entry, opts.Log)

	pkgs, err := ExpandClosure(ctx, LoadConfig{Dir: opts.Dir, Extra: opts.Extra})
	if err != nil {
		return nil, err
	}

	scan := NewScanner(ctx).Scan(pkgs)

	source, err := NewEmitter(ctx, scan, opts.Package).Emit()
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	ctx.Log.Info("generation complete",
		zap.Int("bytes", len(source)),
		zap.Duration("elapsed", elapsed))
	return &Result{Source: source, Report: ctx.Report, Elapsed: elapsed}, nil
}

// WriteFile generates and writes the payload to disk, creating parent
// directories as needed.
func WriteFile(opts Options, path string) (*Result, error) {
	res, err := Generate(opts)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, res.Source, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write generated file: %w", err)
	}
	return res, nil
}
