// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cdecl defines the public interface for cdecl, a non-executing
// analyzer for declarations and expressions of a restricted C subset.
package cdecl

import (
	"context"
	"errors"
	"io"

	"github.com/petar-djukic/cdecl/internal/checker"
	"github.com/petar-djukic/cdecl/pkg/types"
)

// Error types for the cdecl API.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrNoDeclaration = errors.New("no declaration found")
)

// Output formats accepted by Config.Format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config configures a Checker.
type Config struct {
	WorkDir      string // Root that relative targets resolve against (required)
	Format       string // "text" or "json" (default "text")
	ContextLines int    // Source lines shown around a diagnostic (default 2, negative for none)
	Concurrency  int    // Files analyzed in parallel (default runtime.NumCPU())
	Werror       bool   // Treat warnings as errors when deciding failure
	Changed      bool   // Only check files git reports as changed
	CrossCheck   bool   // Cross-check each file against its tree-sitter outline
	NoSuggest    bool   // Omit did-you-mean hints
	NoHints      bool   // Omit every hint line from text output
}

// Report is the outcome of a check. Files are sorted by path.
type Report = checker.Report

// FileReport is the outcome for one file.
type FileReport = checker.FileReport

// Checker analyzes C sources.
type Checker interface {
	// Check analyzes the named files and directories. With no targets the
	// work directory is scanned.
	Check(ctx context.Context, targets ...string) (*Report, error)

	// CheckSource analyzes src under the given display name.
	CheckSource(ctx context.Context, name string, src []byte) (*Report, error)

	// Render writes rep in the configured format.
	Render(w io.Writer, rep *Report) error

	// Failed reports whether rep should fail the run under this config.
	Failed(rep *Report) bool
}

// Explanation describes a single declaration.
type Explanation struct {
	Name        string             `json:"name"`
	Kind        types.SymbolKind   `json:"kind"`
	Declarator  string             `json:"declarator"` // Canonical C spelling
	English     string             `json:"english"`    // "pointer to function (int) returning int"
	Type        *types.Type        `json:"type"`
	Diagnostics []types.Diagnostic `json:"diagnostics,omitempty"`
}
