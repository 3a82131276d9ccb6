// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workspace finds C sources under a directory, feeds them to a
// bounded worker pool, and detects which of them changed in git.
package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
)

// skipDirs contains directory names that ScanDir skips by default.
var skipDirs = map[string]bool{
	"vendor":       true,
	".git":         true,
	"testdata":     true,
	"node_modules": true,
	"build":        true,
}

// sourceExts lists the file extensions treated as C sources.
var sourceExts = map[string]bool{
	".c": true,
	".h": true,
}

// IsSource reports whether path names a C source or header.
func IsSource(path string) bool {
	return sourceExts[filepath.Ext(path)]
}

// File is one source file handed to a Visitor.
type File struct {
	Path    string // Relative to the scan root, or as given for explicit files
	AbsPath string
	Source  []byte
}

// Visitor processes one file. It runs on a worker goroutine and must be
// safe for concurrent use.
type Visitor func(ctx context.Context, f File) error

// Options configures a scan.
type Options struct {
	Concurrency int                    // Parallel workers; <= 0 means runtime.NumCPU()
	Include     func(abs string) bool // Optional filter applied after discovery
}

// ScanResult holds the output of a scan.
type ScanResult struct {
	Root   string
	Paths  []string // Relative paths of the visited files, sorted
	Errors []ScanError
}

// ScanError records a failure for a single file.
type ScanError struct {
	FilePath string
	Err      error
}

func (e ScanError) Error() string {
	return fmt.Sprintf("%s: %v", e.FilePath, e.Err)
}

func (e ScanError) Unwrap() error {
	return e.Err
}

// ScanDir walks the directory tree rooted at dir, finds all .c and .h
// files, and visits them in parallel using a bounded worker pool.
//
// It skips vendor/, .git/, testdata/, build/ and node_modules/ below the
// root. It respects .gitignore patterns found in the root directory.
//
// Read and visit errors for individual files are collected in
// ScanResult.Errors but do not abort the scan.
func ScanDir(ctx context.Context, dir string, opts Options, visit Visitor) (*ScanResult, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving directory: %w", err)
	}

	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", absDir)
	}

	ignorer := loadGitignore(absDir)

	var paths []string
	err = filepath.WalkDir(absDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if skipDirs[d.Name()] && path != absDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsSource(path) {
			return nil
		}
		relPath, relErr := filepath.Rel(absDir, path)
		if relErr != nil {
			relPath = path
		}
		if ignorer.isIgnored(relPath) {
			return nil
		}
		if opts.Include != nil && !opts.Include(path) {
			return nil
		}
		paths = append(paths, relPath)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	sort.Strings(paths)
	files := make([]File, len(paths))
	for i, p := range paths {
		files[i] = File{Path: p, AbsPath: filepath.Join(absDir, p)}
	}

	return &ScanResult{
		Root:   absDir,
		Paths:  paths,
		Errors: Visit(ctx, files, opts.Concurrency, visit),
	}, nil
}

// Visit reads each file and runs visit on it using a bounded worker pool.
// Files whose Source is already set are not read again. The returned
// errors are sorted by path.
func Visit(ctx context.Context, files []File, concurrency int, visit Visitor) []ScanError {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	if len(files) == 0 {
		return nil
	}

	jobs := make(chan File, len(files))
	results := make(chan ScanError, len(files))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				if err := ctx.Err(); err != nil {
					results <- ScanError{FilePath: f.Path, Err: err}
					continue
				}
				if f.Source == nil {
					src, err := os.ReadFile(f.AbsPath)
					if err != nil {
						results <- ScanError{FilePath: f.Path, Err: err}
						continue
					}
					f.Source = src
				}
				if err := visit(ctx, f); err != nil {
					results <- ScanError{FilePath: f.Path, Err: err}
				}
			}
		}()
	}

	for _, f := range files {
		jobs <- f
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var errs []ScanError
	for se := range results {
		errs = append(errs, se)
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].FilePath < errs[j].FilePath })
	return errs
}

// gitignorer provides simple .gitignore matching.
type gitignorer struct {
	patterns []string
}

// loadGitignore reads .gitignore from the root directory. If no .gitignore
// exists or it cannot be read, returns an ignorer that matches nothing.
func loadGitignore(root string) gitignorer {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return gitignorer{}
	}
	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		patterns = append(patterns, line)
	}
	return gitignorer{patterns: patterns}
}

// isIgnored checks whether a relative path matches any .gitignore pattern.
// Only a subset of gitignore is understood: directory prefixes, anchored
// patterns and simple globs via filepath.Match.
func (g gitignorer) isIgnored(relPath string) bool {
	parts := strings.Split(relPath, string(filepath.Separator))
	for _, pattern := range g.patterns {
		if anchored, ok := strings.CutPrefix(pattern, "/"); ok {
			anchored = strings.TrimSuffix(anchored, "/")
			if matched, _ := filepath.Match(anchored, relPath); matched {
				return true
			}
			if strings.HasPrefix(relPath, anchored+string(filepath.Separator)) {
				return true
			}
			continue
		}

		dirPattern := strings.TrimSuffix(pattern, "/")
		for _, part := range parts {
			if matched, _ := filepath.Match(dirPattern, part); matched {
				return true
			}
		}
		if matched, _ := filepath.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}
