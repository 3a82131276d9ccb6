// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/cdecl/internal/outline"
	"github.com/petar-djukic/cdecl/internal/report"
	"github.com/petar-djukic/cdecl/internal/workspace"
	"github.com/petar-djukic/cdecl/pkg/cdecl"
)

// fileOutline pairs a path with its outline for JSON output.
type fileOutline struct {
	Path    string          `json:"path"`
	Entries []outline.Entry `json:"entries"`
}

// newOutlineCmd creates the "outline" command.
func newOutlineCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "outline [file|dir]...",
		Short: "List file-scope declarations using tree-sitter",
		Long:  "Outline parses each C file with tree-sitter, independently of the analyzer, and lists the functions, variables, typedefs and tags it declares at file scope.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			workDir := v.GetString("workdir")
			if len(args) == 0 {
				args = []string{"."}
			}

			o := outline.NewOutliner()
			var (
				mu      sync.Mutex
				results []fileOutline
			)
			visit := func(ctx context.Context, f workspace.File) error {
				entries, err := o.File(ctx, f.AbsPath)
				if err != nil {
					return err
				}
				mu.Lock()
				results = append(results, fileOutline{Path: f.Path, Entries: entries})
				mu.Unlock()
				return nil
			}

			var files []workspace.File
			var failures []workspace.ScanError
			for _, arg := range args {
				path := arg
				if !filepath.IsAbs(path) {
					path = filepath.Join(workDir, path)
				}
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("outlining %s: %w", arg, err)
				}
				if !info.IsDir() {
					// Non-nil Source: the outliner reads and caches the file itself.
					files = append(files, workspace.File{Path: arg, AbsPath: path, Source: []byte{}})
					continue
				}
				scan, err := workspace.ScanDir(ctx, path, workspace.Options{Concurrency: v.GetInt("concurrency")}, visit)
				if err != nil {
					return err
				}
				failures = append(failures, scan.Errors...)
			}
			failures = append(failures, workspace.Visit(ctx, files, v.GetInt("concurrency"), visit)...)

			sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
			for _, se := range failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed: %v\n", se)
			}

			out := cmd.OutOrStdout()
			if v.GetString("format") == cdecl.FormatJSON {
				if err := report.WriteJSON(out, results); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					if err := outline.Render(out, r.Path, r.Entries); err != nil {
						return err
					}
				}
			}
			if len(failures) > 0 {
				return errCheckFailed
			}
			return nil
		},
	}
}
