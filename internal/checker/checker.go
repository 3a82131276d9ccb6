// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package checker runs the analyzer over a set of C files: it discovers
// the files, analyzes each one on a worker pool, optionally cross-checks
// it against a tree-sitter outline, and aggregates the per-file results.
package checker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/petar-djukic/cdecl/internal/analyzer"
	"github.com/petar-djukic/cdecl/internal/outline"
	"github.com/petar-djukic/cdecl/internal/symtab"
	"github.com/petar-djukic/cdecl/internal/workspace"
	"github.com/petar-djukic/cdecl/pkg/types"
)

// Deps holds the settings and collaborators of a Runner.
type Deps struct {
	WorkDir     string
	Concurrency int
	Changed     bool // Restrict directory scans to files git reports as changed
	CrossCheck  bool // Compare each file with its tree-sitter outline
	NoSuggest   bool
}

// FileReport is the outcome for one file.
type FileReport struct {
	Path        string             `json:"path"`
	Lines       []string           `json:"-"`
	Result      *analyzer.Result   `json:"result"`
	Outline     []outline.Entry    `json:"outline,omitempty"`
	Table       *symtab.Table      `json:"-"`                  // Every declaration of the file, indexed
	Shadowed    []string           `json:"shadowed,omitempty"` // Names declared at more than one depth
	Diagnostics []types.Diagnostic `json:"diagnostics"`        // Analyzer and cross-check diagnostics in source order
	Errors      int                `json:"errors"`
	Warnings    int                `json:"warnings"`
}

// Report aggregates a whole run.
type Report struct {
	Files    []*FileReport `json:"files"`
	Failures []string      `json:"failures,omitempty"` // Files that could not be read or analyzed
	Errors   int           `json:"errors"`
	Warnings int           `json:"warnings"`
}

// Failed reports whether the run should be treated as unsuccessful.
// Warnings count only when werror is set.
func (r *Report) Failed(werror bool) bool {
	return r.Errors > 0 || len(r.Failures) > 0 || (werror && r.Warnings > 0)
}

// Runner orchestrates a check.
type Runner struct {
	deps     Deps
	outliner *outline.Outliner
}

// NewRunner creates a Runner with the given dependencies.
func NewRunner(deps Deps) *Runner {
	return &Runner{deps: deps, outliner: outline.NewOutliner()}
}

// Run checks targets, which may name files or directories relative to the
// work directory. With no targets the work directory itself is scanned.
func (r *Runner) Run(ctx context.Context, targets []string) (*Report, error) {
	if len(targets) == 0 {
		targets = []string{"."}
	}

	var include func(string) bool
	if r.deps.Changed {
		changed, err := workspace.ChangedFiles(r.deps.WorkDir)
		if err != nil {
			return nil, fmt.Errorf("listing changed files: %w", err)
		}
		set := make(map[string]bool, len(changed))
		for _, p := range changed {
			set[p] = true
		}
		include = func(abs string) bool { return set[abs] }
	}

	var (
		mu    sync.Mutex
		files []*FileReport
	)
	visit := func(ctx context.Context, f workspace.File) error {
		fr, err := r.checkFile(ctx, f)
		if err != nil {
			return err
		}
		mu.Lock()
		files = append(files, fr)
		mu.Unlock()
		return nil
	}

	rep := &Report{}
	var explicit []workspace.File
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := target
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.deps.WorkDir, path)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("checking %s: %w", target, err)
		}
		if !info.IsDir() {
			explicit = append(explicit, workspace.File{Path: displayPath(r.deps.WorkDir, path), AbsPath: path})
			continue
		}
		scan, err := workspace.ScanDir(ctx, path, workspace.Options{
			Concurrency: r.deps.Concurrency,
			Include:     include,
		}, func(ctx context.Context, f workspace.File) error {
			f.Path = displayPath(r.deps.WorkDir, f.AbsPath)
			return visit(ctx, f)
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", target, err)
		}
		for _, se := range scan.Errors {
			rep.Failures = append(rep.Failures, se.Error())
		}
	}
	for _, se := range workspace.Visit(ctx, explicit, r.deps.Concurrency, visit) {
		rep.Failures = append(rep.Failures, se.Error())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	rep.Files = dedupe(files)
	for _, f := range rep.Files {
		rep.Errors += f.Errors
		rep.Warnings += f.Warnings
	}
	sort.Strings(rep.Failures)
	return rep, nil
}

// CheckSource checks src as if it were the file at path, without touching
// the file system.
func (r *Runner) CheckSource(ctx context.Context, path string, src []byte) (*Report, error) {
	fr, err := r.checkFile(ctx, workspace.File{Path: path, Source: src})
	if err != nil {
		return nil, err
	}
	return &Report{Files: []*FileReport{fr}, Errors: fr.Errors, Warnings: fr.Warnings}, nil
}

// checkFile analyzes one file and, when enabled, cross-checks it.
func (r *Runner) checkFile(ctx context.Context, f workspace.File) (*FileReport, error) {
	lines := splitLines(string(f.Source))
	res, err := analyzer.Analyze(lines, analyzer.Options{NoSuggest: r.deps.NoSuggest})
	if err != nil {
		return nil, err
	}

	fr := &FileReport{
		Path:        f.Path,
		Lines:       lines,
		Result:      res,
		Diagnostics: append([]types.Diagnostic(nil), res.Diagnostics...),
		Table:       symtab.BuildTable(res.Declarations),
	}
	fr.Shadowed = fr.Table.Shadowed()

	if r.deps.CrossCheck {
		var entries []outline.Entry
		if f.AbsPath != "" {
			entries, err = r.outliner.File(ctx, f.AbsPath)
		} else {
			entries, err = outline.Outline(ctx, f.Source)
		}
		if err != nil {
			return nil, err
		}
		fr.Outline = entries
		fr.Diagnostics = append(fr.Diagnostics, outline.CrossCheck(entries, res)...)
		sort.SliceStable(fr.Diagnostics, func(i, j int) bool {
			a, b := fr.Diagnostics[i].Pos, fr.Diagnostics[j].Pos
			if a.Line != b.Line {
				return a.Line < b.Line
			}
			return a.Column < b.Column
		})
	}

	fr.Errors = types.CountErrors(fr.Diagnostics)
	fr.Warnings = len(fr.Diagnostics) - fr.Errors
	return fr, nil
}

// splitLines splits src into lines. A trailing newline does not start an
// extra line.
func splitLines(src string) []string {
	src = strings.TrimSuffix(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	return strings.Split(src, "\n")
}

// displayPath shows abs relative to the work directory when it lies
// inside it.
func displayPath(workDir, abs string) string {
	base, err := filepath.Abs(workDir)
	if err != nil {
		return abs
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return abs
	}
	return rel
}

// dedupe drops repeated reports for a file named by more than one target.
// files must be sorted by path.
func dedupe(files []*FileReport) []*FileReport {
	out := files[:0]
	for i, f := range files {
		if i > 0 && filepath.Clean(f.Path) == filepath.Clean(files[i-1].Path) {
			continue
		}
		out = append(out, f)
	}
	return out
}
