// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package cdecl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/petar-djukic/cdecl/internal/analyzer"
	"github.com/petar-djukic/cdecl/internal/checker"
	"github.com/petar-djukic/cdecl/internal/report"
	"github.com/petar-djukic/cdecl/pkg/types"
)

const defaultContextLines = 2

// New validates the config and returns a ready-to-use Checker. It does not
// touch the sources; that happens in Check.
func New(cfg Config) (Checker, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	applyDefaults(&cfg)

	runner := checker.NewRunner(checker.Deps{
		WorkDir:     cfg.WorkDir,
		Concurrency: cfg.Concurrency,
		Changed:     cfg.Changed,
		CrossCheck:  cfg.CrossCheck,
		NoSuggest:   cfg.NoSuggest,
	})
	return &checkerAdapter{runner: runner, cfg: cfg}, nil
}

// checkerAdapter adapts internal/checker.Runner to the public Checker
// interface.
type checkerAdapter struct {
	runner *checker.Runner
	cfg    Config
}

func (a *checkerAdapter) Check(ctx context.Context, targets ...string) (*Report, error) {
	return a.runner.Run(ctx, targets)
}

func (a *checkerAdapter) CheckSource(ctx context.Context, name string, src []byte) (*Report, error) {
	return a.runner.CheckSource(ctx, name, src)
}

func (a *checkerAdapter) Failed(rep *Report) bool {
	return rep.Failed(a.cfg.Werror)
}

// Render writes rep as text diagnostics followed by a summary line, or as
// one indented JSON document.
func (a *checkerAdapter) Render(w io.Writer, rep *Report) error {
	if a.cfg.Format == FormatJSON {
		return report.WriteJSON(w, rep)
	}
	rc := report.Config{ContextLines: a.cfg.ContextLines, NoHints: a.cfg.NoHints}
	for _, f := range rep.Files {
		src := report.Source{Path: f.Path, Lines: f.Lines, Diagnostics: f.Diagnostics}
		if err := report.WriteText(w, src, rc); err != nil {
			return err
		}
	}
	for _, msg := range rep.Failures {
		if _, err := fmt.Fprintf(w, "failed: %s\n", msg); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, report.Summary(len(rep.Files), rep.Errors, rep.Warnings))
	return err
}

// AnalyzeSource analyzes src with default options. It is the library entry
// point for callers that hold source in memory.
func AnalyzeSource(src string) (*analyzer.Result, error) {
	return analyzer.AnalyzeSource(src, analyzer.Options{})
}

// Explain analyzes decl after the optional prelude lines and describes the
// last name it declares.
func Explain(prelude []string, decl string) (*Explanation, error) {
	d, res, err := analyzer.ParseDeclaration(prelude, decl)
	var diags []types.Diagnostic
	if res != nil {
		diags = res.Diagnostics
	}
	if errors.Is(err, analyzer.ErrNoDeclaration) {
		if len(diags) > 0 {
			return nil, fmt.Errorf("%w: %v", ErrNoDeclaration, diags[0])
		}
		return nil, ErrNoDeclaration
	}
	if err != nil {
		return nil, err
	}
	return &Explanation{
		Name:        d.Name,
		Kind:        d.Kind,
		Declarator:  types.Declarator(d.Type, d.Name),
		English:     types.Describe(d.Type),
		Type:        d.Type,
		Diagnostics: diags,
	}, nil
}

// validateConfig checks that required fields are present and in range.
func validateConfig(cfg Config) error {
	if cfg.WorkDir == "" {
		return fmt.Errorf("WorkDir is required")
	}
	if info, err := os.Stat(cfg.WorkDir); err != nil || !info.IsDir() {
		return fmt.Errorf("WorkDir %q does not exist or is not a directory", cfg.WorkDir)
	}
	switch cfg.Format {
	case "", FormatText, FormatJSON:
	default:
		return fmt.Errorf("Format %q is not one of %q, %q", cfg.Format, FormatText, FormatJSON)
	}
	if cfg.Concurrency < 0 {
		return fmt.Errorf("Concurrency must not be negative, got %d", cfg.Concurrency)
	}
	return nil
}

// applyDefaults fills in zero-value fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Format == "" {
		cfg.Format = FormatText
	}
	if cfg.ContextLines == 0 {
		cfg.ContextLines = defaultContextLines
	}
}
