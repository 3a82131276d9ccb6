// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// ErrNoGit is returned when the directory is not inside a git repository.
var ErrNoGit = errors.New("not a git repository")

// ChangedFiles returns the absolute paths of the C sources under dir that
// are modified, added or untracked relative to HEAD, sorted. Deleted files
// are omitted because there is nothing left to analyze.
func ChangedFiles(dir string) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving directory: %w", err)
	}
	r, err := gogit.PlainOpenWithOptions(absDir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}

	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("getting status: %w", err)
	}

	root := wt.Filesystem.Root()
	var paths []string
	for name, st := range status {
		if st.Worktree == gogit.Deleted || (st.Staging == gogit.Deleted && st.Worktree == gogit.Unmodified) {
			continue
		}
		if st.Worktree == gogit.Unmodified && st.Staging == gogit.Unmodified {
			continue
		}
		if !IsSource(name) {
			continue
		}
		abs := filepath.Join(root, filepath.FromSlash(name))
		if rel, err := filepath.Rel(absDir, abs); err != nil || strings.HasPrefix(rel, "..") {
			continue // Outside dir.
		}
		paths = append(paths, abs)
	}
	sort.Strings(paths)
	return paths, nil
}
